package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fichas_backend/internals/features/programas/dto"
	"fichas_backend/internals/features/programas/model"
	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type ProgramaService struct {
	DB *gorm.DB
}

func NewProgramaService(db *gorm.DB) *ProgramaService {
	return &ProgramaService{DB: db}
}

// ===================== LIST =====================

func (s *ProgramaService) List(ctx context.Context, sess *helperAuth.Session, q dto.ProgramaListQuery) ([]model.ProgramaModel, map[uuid.UUID]solModel.SolicitudStats, int64, error) {
	db := s.DB.WithContext(ctx).Model(&model.ProgramaModel{})

	// scope: admin semua (boleh filter centro), lainnya centro sendiri
	if sess.IsAdmin() {
		if q.CentroID != uuid.Nil {
			db = db.Where("centro_id = ?", q.CentroID)
		}
	} else {
		db = db.Where("centro_id = ?", sess.CentroID)
	}
	if kw := strings.TrimSpace(q.Q); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		db = db.Where("LOWER(codigo) LIKE ? OR LOWER(nombre) LIKE ? OR LOWER(tipo_formacion) LIKE ?", like, like, like)
	}
	if q.Modalidad != "" {
		db = db.Where("modalidad = ?", strings.ToUpper(q.Modalidad))
	}
	if q.Activo != nil {
		db = db.Where("activo = ?", *q.Activo)
	}

	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, nil, 0, helper.ErrInternal("hitung programas", err)
	}

	pg := helper.NewPaging(q.Page, q.PerPage, 20, 100)
	var rows []model.ProgramaModel
	if err := db.Session(&gorm.Session{}).
		Preload("Centro").
		Order("nombre ASC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return nil, nil, 0, helper.ErrInternal("list programas", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	stats, err := s.statsFor(ctx, ids)
	if err != nil {
		return nil, nil, 0, err
	}
	return rows, stats, total, nil
}

// statsFor memuat solicitud milik programa-programa tsb lalu menghitung statistik di memori.
func (s *ProgramaService) statsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]solModel.SolicitudStats, error) {
	out := make(map[uuid.UUID]solModel.SolicitudStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var sols []solModel.SolicitudModel
	if err := s.DB.WithContext(ctx).
		Select("id", "programa_id", "estado", "numero_inscritos").
		Where("programa_id IN ?", ids).
		Find(&sols).Error; err != nil {
		return nil, helper.ErrInternal("muat statistik programa", err)
	}
	for pid, group := range solModel.GroupBy(sols, func(m *solModel.SolicitudModel) uuid.UUID { return m.ProgramaID }) {
		out[pid] = solModel.ComputeStats(group)
	}
	return out, nil
}

// ===================== GET =====================

func (s *ProgramaService) Get(ctx context.Context, sess *helperAuth.Session, id uuid.UUID) (*model.ProgramaModel, solModel.SolicitudStats, error) {
	m, err := s.load(ctx, s.DB, id)
	if err != nil {
		return nil, solModel.SolicitudStats{}, err
	}
	if !helperAuth.CanAccess(sess, helperAuth.ProgramaResource{CentroID: m.CentroID}, helperAuth.ActionRead) {
		return nil, solModel.SolicitudStats{}, helper.ErrForbidden("No tiene permiso para ver este programa")
	}
	stats, err := s.statsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, solModel.SolicitudStats{}, err
	}
	return m, stats[id], nil
}

func (s *ProgramaService) load(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.ProgramaModel, error) {
	byOrden := func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }
	var m model.ProgramaModel
	if err := db.WithContext(ctx).
		Preload("Centro").
		Preload("Objetivos", byOrden).
		Preload("Competencias", byOrden).
		Preload("Resultados", byOrden).
		First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrNotFound("Programa no encontrado")
		}
		return nil, helper.ErrInternal("muat programa", err)
	}
	return &m, nil
}

// ===================== CREATE / UPDATE =====================

// resolveCentro: coordinador selalu centro sendiri, admin wajib kirim centro_id.
func (s *ProgramaService) resolveCentro(tx *gorm.DB, sess *helperAuth.Session, req *dto.ProgramaRequest) (uuid.UUID, error) {
	centroID := sess.CentroID
	if sess.IsAdmin() {
		if req.CentroID == nil || *req.CentroID == uuid.Nil {
			return uuid.Nil, &helper.AppError{
				Kind:    helper.KindValidation,
				Message: "Debe indicar el centro del programa",
				Fields:  map[string][]string{"centro_id": {"required"}},
			}
		}
		centroID = *req.CentroID
	}
	var n int64
	if err := tx.Table("centros").Where("id = ?", centroID).Count(&n).Error; err != nil {
		return uuid.Nil, helper.ErrInternal("cek centro", err)
	}
	if n == 0 {
		return uuid.Nil, &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "El centro indicado no existe",
			Fields:  map[string][]string{"centro_id": {"exists"}},
		}
	}
	return centroID, nil
}

func (s *ProgramaService) Create(ctx context.Context, sess *helperAuth.Session, req dto.ProgramaRequest) (*model.ProgramaModel, error) {
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}

	var id uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		centroID, err := s.resolveCentro(tx, sess, &req)
		if err != nil {
			return err
		}
		if !helperAuth.CanAccess(sess, helperAuth.ProgramaResource{CentroID: centroID}, helperAuth.ActionManage) {
			return helper.ErrForbidden("No tiene permiso para crear programas en este centro")
		}

		m := &model.ProgramaModel{CentroID: centroID, Activo: true}
		req.Apply(m)
		if err := tx.Omit("Centro", "Objetivos", "Competencias", "Resultados").Create(m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrConflict("Ya existe un programa con ese código")
			}
			return helper.ErrInternal("simpan programa", err)
		}
		if err := replaceChildren(tx, m.ID, &req); err != nil {
			return err
		}
		id = m.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.DB, id)
}

func (s *ProgramaService) Update(ctx context.Context, sess *helperAuth.Session, id uuid.UUID, req dto.ProgramaRequest) (*model.ProgramaModel, error) {
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.ProgramaModel
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			if helper.IsNotFound(err) {
				return helper.ErrNotFound("Programa no encontrado")
			}
			return helper.ErrInternal("muat programa", err)
		}
		if !helperAuth.CanAccess(sess, helperAuth.ProgramaResource{CentroID: m.CentroID}, helperAuth.ActionManage) {
			return helper.ErrForbidden("No tiene permiso para modificar este programa")
		}
		// admin boleh memindahkan programa ke centro lain
		moved := false
		if sess.IsAdmin() && req.CentroID != nil && *req.CentroID != m.CentroID {
			centroID, err := s.resolveCentro(tx, sess, &req)
			if err != nil {
				return err
			}
			m.CentroID = centroID
			moved = true
		}

		req.Apply(&m)
		if err := tx.Omit("Centro", "Objetivos", "Competencias", "Resultados").Save(&m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrConflict("Ya existe un programa con ese código")
			}
			return helper.ErrInternal("update programa", err)
		}
		// scope coordinador mengikuti centro programa: salinan di solicitudes ikut pindah
		if moved {
			if err := tx.Model(&solModel.SolicitudModel{}).
				Where("programa_id = ?", m.ID).
				UpdateColumn("centro_id", m.CentroID).Error; err != nil {
				return helper.ErrInternal("sinkron centro solicitudes", err)
			}
		}
		return replaceChildren(tx, m.ID, &req)
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, s.DB, id)
}

func replaceChildren(tx *gorm.DB, programaID uuid.UUID, req *dto.ProgramaRequest) error {
	for _, tbl := range []any{&model.ProgramaObjetivoModel{}, &model.ProgramaCompetenciaModel{}, &model.ProgramaResultadoModel{}} {
		if err := tx.Where("programa_id = ?", programaID).Delete(tbl).Error; err != nil {
			return helper.ErrInternal("hapus child programa", err)
		}
	}

	if len(req.Objetivos) > 0 {
		rows := make([]model.ProgramaObjetivoModel, 0, len(req.Objetivos))
		for i, d := range req.Objetivos {
			rows = append(rows, model.ProgramaObjetivoModel{ProgramaID: programaID, Orden: i + 1, Descripcion: d})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return helper.ErrInternal("simpan objetivos", err)
		}
	}
	if len(req.Competencias) > 0 {
		rows := make([]model.ProgramaCompetenciaModel, 0, len(req.Competencias))
		for i, d := range req.Competencias {
			rows = append(rows, model.ProgramaCompetenciaModel{ProgramaID: programaID, Orden: i + 1, Descripcion: d})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return helper.ErrInternal("simpan competencias", err)
		}
	}
	if len(req.Resultados) > 0 {
		rows := make([]model.ProgramaResultadoModel, 0, len(req.Resultados))
		for i, d := range req.Resultados {
			rows = append(rows, model.ProgramaResultadoModel{ProgramaID: programaID, Orden: i + 1, Descripcion: d})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return helper.ErrInternal("simpan resultados", err)
		}
	}
	return nil
}
