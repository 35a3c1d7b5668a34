package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
	authRepo "fichas_backend/internals/features/users/auth/repository"
	"fichas_backend/internals/features/users/user/model"
	"fichas_backend/internals/features/users/users/dto"

	"fichas_backend/internals/constants"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
	"fichas_backend/internals/helpers/dbtime"
)

const msgInstructorNotFound = "Instructor no encontrado"

type InstructorService struct {
	DB          *gorm.DB
	EmailDomain string
	Now         func() time.Time
}

func NewInstructorService(db *gorm.DB, emailDomain string) *InstructorService {
	return &InstructorService{DB: db, EmailDomain: emailDomain, Now: time.Now}
}

func (s *InstructorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// TemporaryPassword password awal instructor yang dibuat coordinador/import.
func TemporaryPassword(cedula string, year int) string {
	return cedula + "*" + strconv.Itoa(year)
}

func resourceOf(u *model.UserModel) helperAuth.UserResource {
	return helperAuth.UserResource{ID: u.ID, CentroID: u.CentroUUID(), Role: u.Rol}
}

func instructores(db *gorm.DB) *gorm.DB {
	return db.Model(&model.UserModel{}).Where("usuarios.rol = ?", constants.RoleInstructor)
}

// ===================== LIST =====================

func (s *InstructorService) List(ctx context.Context, sess *helperAuth.Session, q dto.InstructorListQuery) ([]model.UserModel, map[uuid.UUID]solModel.SolicitudStats, int64, error) {
	db := instructores(s.DB.WithContext(ctx))

	switch {
	case sess.IsAdmin():
		if q.CentroID != uuid.Nil {
			db = db.Where("usuarios.centro_id = ?", q.CentroID)
		}
	case sess.IsCoordinador():
		db = db.Where("usuarios.centro_id = ?", sess.CentroID)
	default:
		db = db.Where("usuarios.id = ?", sess.UserID)
	}

	if kw := strings.TrimSpace(q.Q); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		db = db.Where(
			"LOWER(usuarios.nombre) LIKE ? OR LOWER(usuarios.email) LIKE ? OR LOWER(usuarios.cedula) LIKE ? OR LOWER(COALESCE(usuarios.especialidad, '')) LIKE ?",
			like, like, like, like,
		)
	}
	if esp := strings.TrimSpace(q.Especialidad); esp != "" {
		db = db.Where("LOWER(COALESCE(usuarios.especialidad, '')) LIKE ?", "%"+strings.ToLower(esp)+"%")
	}
	if q.Activo != nil {
		db = db.Where("usuarios.activo = ?", *q.Activo)
	}

	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, nil, 0, helper.ErrInternal("hitung instructores", err)
	}

	pg := helper.NewPaging(q.Page, q.PerPage, 20, 100)
	var rows []model.UserModel
	if err := db.Session(&gorm.Session{}).
		Preload("Centro").
		Order("usuarios.nombre ASC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return nil, nil, 0, helper.ErrInternal("list instructores", err)
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

// statsFor: solicitud instructor di-load lalu dihitung di memori, tanpa cache.
func (s *InstructorService) statsFor(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]solModel.SolicitudStats, error) {
	out := make(map[uuid.UUID]solModel.SolicitudStats, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var sols []solModel.SolicitudModel
	if err := s.DB.WithContext(ctx).
		Select("id", "instructor_id", "estado", "numero_inscritos").
		Where("instructor_id IN ?", ids).
		Find(&sols).Error; err != nil {
		return nil, helper.ErrInternal("muat statistik instructor", err)
	}
	for iid, group := range solModel.GroupBy(sols, func(m *solModel.SolicitudModel) uuid.UUID { return m.InstructorID }) {
		out[iid] = solModel.ComputeStats(group)
	}
	return out, nil
}

// ===================== GET =====================

func (s *InstructorService) find(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := instructores(db.WithContext(ctx)).Preload("Centro").First(&u, "usuarios.id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrNotFound(msgInstructorNotFound)
		}
		return nil, helper.ErrInternal("muat instructor", err)
	}
	return &u, nil
}

func (s *InstructorService) Get(ctx context.Context, sess *helperAuth.Session, id uuid.UUID) (*model.UserModel, solModel.SolicitudStats, error) {
	u, err := s.find(ctx, s.DB, id)
	if err != nil {
		return nil, solModel.SolicitudStats{}, err
	}
	if !helperAuth.CanAccess(sess, resourceOf(u), helperAuth.ActionRead) {
		return nil, solModel.SolicitudStats{}, helper.ErrForbidden("No tiene permiso para ver este instructor")
	}
	stats, err := s.statsFor(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, solModel.SolicitudStats{}, err
	}
	return u, stats[id], nil
}

// ===================== CREATE =====================

// targetCentro: coordinador selalu centro sendiri; admin wajib pilih centro.
func (s *InstructorService) targetCentro(ctx context.Context, sess *helperAuth.Session, requested *uuid.UUID) (uuid.UUID, error) {
	if !sess.IsAdmin() {
		return sess.CentroID, nil
	}
	if requested == nil || *requested == uuid.Nil {
		return uuid.Nil, &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "Debe indicar el centro de formación",
			Fields:  map[string][]string{"centro_id": {"required"}},
		}
	}
	if _, err := authRepo.FindCentroByID(ctx, s.DB, *requested); err != nil {
		if helper.IsNotFound(err) {
			return uuid.Nil, helper.ErrValidation("El centro de formación no existe")
		}
		return uuid.Nil, helper.ErrInternal("cari centro", err)
	}
	return *requested, nil
}

func (s *InstructorService) Create(ctx context.Context, sess *helperAuth.Session, req dto.CreateInstructorRequest) (*model.UserModel, error) {
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}
	if !helper.IsInstitutionalEmail(req.Email, s.EmailDomain) {
		return nil, helper.ErrValidation("Debe usar un correo institucional @" + s.EmailDomain)
	}

	centroID, err := s.targetCentro(ctx, sess, req.CentroID)
	if err != nil {
		return nil, err
	}
	target := helperAuth.UserResource{CentroID: centroID, Role: constants.RoleInstructor}
	if !helperAuth.CanAccess(sess, target, helperAuth.ActionManage) {
		return nil, helper.ErrForbidden("No tiene permiso para crear instructores en este centro")
	}

	if err := s.checkUnique(ctx, req.Email, req.Cedula, uuid.Nil); err != nil {
		return nil, err
	}

	pw := req.Password
	if pw == "" {
		pw = TemporaryPassword(req.Cedula, dbtime.Year(s.now()))
	} else if err := helper.ValidatePassword(pw); err != nil {
		return nil, err
	}
	hash, err := helperAuth.HashPassword(pw)
	if err != nil {
		return nil, helper.ErrInternal("hash password", err)
	}

	u := &model.UserModel{
		Email:        req.Email,
		Password:     hash,
		Nombre:       req.Nombre,
		Cedula:       req.Cedula,
		Telefono:     req.Telefono,
		Rol:          constants.RoleInstructor,
		Especialidad: req.Especialidad,
		CentroID:     &centroID,
		Activo:       true,
	}
	if err := authRepo.CreateUser(ctx, s.DB, u); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("El correo o la cédula ya están registrados")
		}
		return nil, helper.ErrInternal("simpan instructor", err)
	}
	return s.find(ctx, s.DB, u.ID)
}

func (s *InstructorService) checkUnique(ctx context.Context, email, cedula string, except uuid.UUID) error {
	var excepts []uuid.UUID
	if except != uuid.Nil {
		excepts = append(excepts, except)
	}
	if email != "" {
		taken, err := authRepo.EmailTaken(ctx, s.DB, email, excepts...)
		if err != nil {
			return helper.ErrInternal("cek email", err)
		}
		if taken {
			return helper.ErrValidation("El correo ya está registrado")
		}
	}
	if cedula != "" {
		taken, err := authRepo.CedulaTaken(ctx, s.DB, cedula, excepts...)
		if err != nil {
			return helper.ErrInternal("cek cedula", err)
		}
		if taken {
			return helper.ErrValidation("La cédula ya está registrada")
		}
	}
	return nil
}

// ===================== UPDATE =====================

func (s *InstructorService) Update(ctx context.Context, sess *helperAuth.Session, id uuid.UUID, req dto.UpdateInstructorRequest) (*model.UserModel, error) {
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}

	u, err := s.find(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if !helperAuth.CanAccess(sess, resourceOf(u), helperAuth.ActionEdit) {
		return nil, helper.ErrForbidden("No tiene permiso para modificar este instructor")
	}
	if sess.IsInstructor() && !req.OnlyContactFields() {
		return nil, helper.ErrForbidden("Solo puede modificar sus datos de contacto")
	}

	updates := map[string]interface{}{}
	if req.Nombre != nil {
		updates["nombre"] = *req.Nombre
	}
	if req.Email != nil && *req.Email != u.Email {
		if !helper.IsInstitutionalEmail(*req.Email, s.EmailDomain) {
			return nil, helper.ErrValidation("Debe usar un correo institucional @" + s.EmailDomain)
		}
		if err := s.checkUnique(ctx, *req.Email, "", u.ID); err != nil {
			return nil, err
		}
		updates["email"] = *req.Email
	}
	if req.Cedula != nil && *req.Cedula != u.Cedula {
		if err := s.checkUnique(ctx, "", *req.Cedula, u.ID); err != nil {
			return nil, err
		}
		updates["cedula"] = *req.Cedula
	}
	if req.Telefono != nil {
		updates["telefono"] = *req.Telefono
	}
	if req.Especialidad != nil {
		if *req.Especialidad == "" {
			updates["especialidad"] = nil
		} else {
			updates["especialidad"] = *req.Especialidad
		}
	}
	if req.CentroID != nil && *req.CentroID != u.CentroUUID() {
		if !sess.IsAdmin() {
			return nil, helper.ErrForbidden("Solo un administrador puede cambiar el centro de un instructor")
		}
		centroID, err := s.targetCentro(ctx, sess, req.CentroID)
		if err != nil {
			return nil, err
		}
		updates["centro_id"] = centroID
	}
	if req.Activo != nil {
		updates["activo"] = *req.Activo
	}

	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(&model.UserModel{}).
			Where("id = ?", u.ID).
			Updates(updates).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return nil, helper.ErrConflict("El correo o la cédula ya están registrados")
			}
			return nil, helper.ErrInternal("update instructor", err)
		}
	}
	return s.find(ctx, s.DB, u.ID)
}

// ===================== DELETE =====================

// Delete menonaktifkan instructor. Punya solicitud (atau notifikasi) → soft delete,
// histori tetap menunjuk ke user ini; belum punya → hapus permanen.
func (s *InstructorService) Delete(ctx context.Context, sess *helperAuth.Session, id uuid.UUID) (soft bool, err error) {
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u model.UserModel
		if err := instructores(tx).First(&u, "usuarios.id = ?", id).Error; err != nil {
			if helper.IsNotFound(err) {
				return helper.ErrNotFound(msgInstructorNotFound)
			}
			return helper.ErrInternal("muat instructor", err)
		}
		if !helperAuth.CanAccess(sess, resourceOf(&u), helperAuth.ActionManage) {
			return helper.ErrForbidden("No tiene permiso para eliminar este instructor")
		}

		var n, notifs int64
		if err := tx.Model(&solModel.SolicitudModel{}).Where("instructor_id = ?", id).Count(&n).Error; err != nil {
			return helper.ErrInternal("hitung solicitudes instructor", err)
		}
		// notificaciones tidak pernah dihapus, jadi pemiliknya juga tidak boleh hilang
		if err := tx.Table("notificaciones").Where("usuario_id = ?", id).Count(&notifs).Error; err != nil {
			return helper.ErrInternal("hitung notificaciones instructor", err)
		}

		if n > 0 || notifs > 0 {
			soft = true
			if err := tx.Model(&model.UserModel{}).Where("id = ?", id).Update("activo", false).Error; err != nil {
				return helper.ErrInternal("nonaktifkan instructor", err)
			}
			if err := tx.Delete(&model.UserModel{}, "id = ?", id).Error; err != nil {
				return helper.ErrInternal("soft delete instructor", err)
			}
			return nil
		}

		if err := tx.Unscoped().Delete(&model.UserModel{}, "id = ?", id).Error; err != nil {
			return helper.ErrInternal("hapus instructor", err)
		}
		return nil
	})
	return soft, err
}
