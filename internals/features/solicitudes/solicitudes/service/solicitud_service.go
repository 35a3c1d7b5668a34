package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	notifModel "fichas_backend/internals/features/notificaciones/model"
	notifService "fichas_backend/internals/features/notificaciones/service"
	programaModel "fichas_backend/internals/features/programas/model"
	"fichas_backend/internals/features/solicitudes/secuencias"
	"fichas_backend/internals/features/solicitudes/solicitudes/dto"
	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	userModel "fichas_backend/internals/features/users/user/model"

	"fichas_backend/internals/constants"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
	"fichas_backend/internals/helpers/dbtime"
)

const (
	msgNotFound       = "Solicitud no encontrada"
	msgFichaDuplicada = "El número de ficha ya existe"
	msgYaProcesada    = "La solicitud ya fue procesada por otro usuario"
)

// SolicitudService mesin lifecycle solicitud. Semua perubahan state + outbox
// ditulis dalam satu transaksi; notifikasi di-dispatch setelah commit.
type SolicitudService struct {
	DB         *gorm.DB
	Dispatcher *notifService.Dispatcher
	Now        func() time.Time
}

func NewSolicitudService(db *gorm.DB, d *notifService.Dispatcher) *SolicitudService {
	return &SolicitudService{DB: db, Dispatcher: d, Now: time.Now}
}

func (s *SolicitudService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

/* ===================== CREATE ===================== */

func (s *SolicitudService) Create(ctx context.Context, sess *helperAuth.Session, in *dto.SolicitudInput) (*model.SolicitudModel, error) {
	if !sess.IsInstructor() {
		return nil, helper.ErrForbidden("Solo los instructores pueden crear solicitudes")
	}
	cmd, err := in.ToCommand()
	if err != nil {
		return nil, err
	}

	var (
		id       uuid.UUID
		outboxID uuid.UUID
	)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prog, err := loadProgramaForSolicitud(tx, sess, cmd.ProgramaID)
		if err != nil {
			return err
		}
		if err := checkInscritos(cmd, prog); err != nil {
			return err
		}

		codigo, err := secuencias.NextCodigo(tx, dbtime.Year(s.now()))
		if err != nil {
			return helper.ErrInternal("generar código", err)
		}

		m := &model.SolicitudModel{
			Codigo:       codigo,
			InstructorID: sess.UserID,
		}
		applyCommand(m, cmd)
		applyPrograma(m, prog)
		m.Estado = estadoFor(cmd)

		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrConflict("El código de la solicitud ya existe, intente de nuevo")
			}
			return helper.ErrInternal("simpan solicitud", err)
		}
		if err := replaceHorarios(tx, m.ID, cmd.Horarios); err != nil {
			return err
		}

		if m.Estado == model.EstadoPendiente {
			outboxID, err = enqueueNueva(tx, m, prog)
			if err != nil {
				return err
			}
		}
		id = m.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, outboxID)
	return s.load(ctx, s.DB, id)
}

/* ===================== EDIT ===================== */

func (s *SolicitudService) Edit(ctx context.Context, sess *helperAuth.Session, id uuid.UUID, in *dto.SolicitudInput) (*model.SolicitudModel, error) {
	var outboxID uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := findSolicitud(tx, id)
		if err != nil {
			return err
		}
		if !helperAuth.CanAccess(sess, resourceOf(cur), helperAuth.ActionEdit) {
			return helper.ErrForbidden("No tiene permiso para editar esta solicitud")
		}
		if !cur.Estado.In(model.EditableEstados) {
			return helper.ErrState("Solo se pueden editar solicitudes en borrador o pendientes")
		}

		cmd, err := in.ToCommand()
		if err != nil {
			return err
		}

		prog := &programaModel.ProgramaModel{}
		if cmd.ProgramaID != cur.ProgramaID {
			if prog, err = loadProgramaForSolicitud(tx, sess, cmd.ProgramaID); err != nil {
				return err
			}
		} else if err := tx.First(prog, "id = ?", cur.ProgramaID).Error; err != nil {
			return helper.ErrInternal("muat programa", err)
		}
		if err := checkInscritos(cmd, prog); err != nil {
			return err
		}

		next := *cur
		applyCommand(&next, cmd)
		if cmd.ProgramaID != cur.ProgramaID {
			applyPrograma(&next, prog)
		}
		next.Estado = estadoFor(cmd)

		res := tx.Model(&model.SolicitudModel{}).
			Where("id = ? AND estado IN ?", id, model.EditableEstados).
			Updates(contentUpdates(&next))
		if res.Error != nil {
			return helper.ErrInternal("update solicitud", res.Error)
		}
		if res.RowsAffected == 0 {
			return helper.ErrState(msgYaProcesada)
		}

		if err := replaceHorarios(tx, id, cmd.Horarios); err != nil {
			return err
		}

		// borrador -> pendiente = baru dikirim, coordinador perlu tahu
		if cur.Estado == model.EstadoBorrador && next.Estado == model.EstadoPendiente {
			outboxID, err = enqueueNueva(tx, &next, prog)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, outboxID)
	return s.load(ctx, s.DB, id)
}

/* ===================== REVIEW ===================== */

func (s *SolicitudService) StartReview(ctx context.Context, sess *helperAuth.Session, id uuid.UUID) (*model.SolicitudModel, error) {
	var outboxID uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := findSolicitud(tx, id)
		if err != nil {
			return err
		}
		if !helperAuth.CanAccess(sess, resourceOf(cur), helperAuth.ActionReview) {
			return helper.ErrForbidden("No tiene permiso para revisar esta solicitud")
		}
		if cur.Estado != model.EstadoPendiente {
			return helper.ErrState("Solo las solicitudes pendientes pueden pasar a revisión")
		}

		now := s.now()
		res := tx.Model(&model.SolicitudModel{}).
			Where("id = ? AND estado = ?", id, model.EstadoPendiente).
			Updates(map[string]interface{}{
				"estado":         model.EstadoEnRevision,
				"fecha_revision": now,
				"revisado_por":   sess.UserID,
			})
		if res.Error != nil {
			return helper.ErrInternal("update estado revisi", res.Error)
		}
		if res.RowsAffected == 0 {
			return helper.ErrState(msgYaProcesada)
		}

		outboxID, err = notifyInstructor(tx, cur, notifModel.TipoSolicitudEnRevision,
			"Solicitud en revisión",
			fmt.Sprintf("Su solicitud %s está siendo revisada por la coordinación.", cur.Codigo))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, outboxID)
	return s.load(ctx, s.DB, id)
}

/* ===================== APPROVE ===================== */

func (s *SolicitudService) Approve(ctx context.Context, sess *helperAuth.Session, id uuid.UUID, in dto.ApproveInput) (*model.SolicitudModel, error) {
	if err := helper.ValidateStruct(&in); err != nil {
		return nil, err
	}

	var outboxID uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := findSolicitud(tx, id)
		if err != nil {
			return err
		}
		if !helperAuth.CanAccess(sess, resourceOf(cur), helperAuth.ActionReview) {
			return helper.ErrForbidden("No tiene permiso para aprobar esta solicitud")
		}
		if !cur.Estado.In(model.ReviewableEstados) {
			return helper.ErrState("Solo se pueden aprobar solicitudes pendientes o en revisión")
		}

		now := s.now()
		ficha, err := resolveFicha(tx, id, in.NumeroFicha, dbtime.Year(now))
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"estado":           model.EstadoAprobada,
			"numero_ficha":     ficha,
			"fecha_aprobacion": now,
			"revisado_por":     sess.UserID,
		}
		if in.Comentarios != nil {
			if c := strings.TrimSpace(*in.Comentarios); c != "" {
				updates["comentarios_revision"] = c
			}
		}

		// conditional update: approve paralel hanya satu yang menang
		res := tx.Model(&model.SolicitudModel{}).
			Where("id = ? AND estado IN ?", id, model.ReviewableEstados).
			Updates(updates)
		if res.Error != nil {
			if helper.IsUniqueViolation(res.Error) {
				return &helper.AppError{
					Kind:    helper.KindValidation,
					Message: msgFichaDuplicada,
					Fields:  map[string][]string{"numero_ficha": {"unique"}},
				}
			}
			return helper.ErrInternal("update aprobación", res.Error)
		}
		if res.RowsAffected == 0 {
			return helper.ErrState(msgYaProcesada)
		}

		outboxID, err = notifyInstructor(tx, cur, notifModel.TipoSolicitudAprobada,
			"Solicitud aprobada",
			fmt.Sprintf("Su solicitud %s fue aprobada con el número de ficha %s.", cur.Codigo, ficha))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, outboxID)
	return s.load(ctx, s.DB, id)
}

// resolveFicha: nomor dari reviewer dipakai apa adanya, kalau kosong ambil dari counter.
func resolveFicha(tx *gorm.DB, id uuid.UUID, supplied *string, year int) (string, error) {
	if supplied != nil {
		if f := strings.TrimSpace(*supplied); f != "" {
			var n int64
			if err := tx.Model(&model.SolicitudModel{}).
				Where("numero_ficha = ? AND id <> ?", f, id).
				Count(&n).Error; err != nil {
				return "", helper.ErrInternal("cek ficha", err)
			}
			if n > 0 {
				return "", &helper.AppError{
					Kind:    helper.KindValidation,
					Message: msgFichaDuplicada,
					Fields:  map[string][]string{"numero_ficha": {"unique"}},
				}
			}
			return f, nil
		}
	}
	f, err := secuencias.NextFicha(tx, year)
	if err != nil {
		return "", helper.ErrInternal("generar ficha", err)
	}
	return f, nil
}

/* ===================== REJECT ===================== */

func (s *SolicitudService) Reject(ctx context.Context, sess *helperAuth.Session, id uuid.UUID, comentarios string) (*model.SolicitudModel, error) {
	comentarios = strings.TrimSpace(comentarios)
	if comentarios == "" {
		return nil, &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "Debe indicar el motivo del rechazo",
			Fields:  map[string][]string{"comentarios": {"required"}},
		}
	}

	var outboxID uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := findSolicitud(tx, id)
		if err != nil {
			return err
		}
		if !helperAuth.CanAccess(sess, resourceOf(cur), helperAuth.ActionReview) {
			return helper.ErrForbidden("No tiene permiso para rechazar esta solicitud")
		}
		if !cur.Estado.In(model.ReviewableEstados) {
			return helper.ErrState("Solo se pueden rechazar solicitudes pendientes o en revisión")
		}

		res := tx.Model(&model.SolicitudModel{}).
			Where("id = ? AND estado IN ?", id, model.ReviewableEstados).
			Updates(map[string]interface{}{
				"estado":               model.EstadoRechazada,
				"fecha_revision":       s.now(),
				"comentarios_revision": comentarios,
				"revisado_por":         sess.UserID,
			})
		if res.Error != nil {
			return helper.ErrInternal("update rechazo", res.Error)
		}
		if res.RowsAffected == 0 {
			return helper.ErrState(msgYaProcesada)
		}

		outboxID, err = notifyInstructor(tx, cur, notifModel.TipoSolicitudRechazada,
			"Solicitud rechazada",
			fmt.Sprintf("Su solicitud %s fue rechazada. Motivo: %s", cur.Codigo, comentarios))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, outboxID)
	return s.load(ctx, s.DB, id)
}

/* ===================== READ ===================== */

func (s *SolicitudService) Get(ctx context.Context, sess *helperAuth.Session, id uuid.UUID) (*model.SolicitudModel, error) {
	m, err := s.load(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if !helperAuth.CanAccess(sess, resourceOf(m), helperAuth.ActionRead) {
		return nil, helper.ErrForbidden("No tiene permiso para ver esta solicitud")
	}
	return m, nil
}

// List: scoped + filter, terbaru dulu.
func (s *SolicitudService) List(ctx context.Context, sess *helperAuth.Session, f dto.ListFilter) ([]model.SolicitudModel, int64, error) {
	db := s.DB.WithContext(ctx)
	base := applyFilter(scopedSolicitudes(db, sess), sess, f)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, helper.ErrInternal("hitung solicitudes", err)
	}

	pg := helper.NewPaging(f.Page, f.PerPage, 20, 100)
	var rows []model.SolicitudModel
	if err := withSummaries(base.Session(&gorm.Session{})).
		Order("solicitudes.created_at DESC").
		Order("solicitudes.codigo DESC").
		Offset(pg.Offset).
		Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, helper.ErrInternal("list solicitudes", err)
	}
	return rows, total, nil
}

// ListAll tanpa paging, dengan child programa; dipakai export.
func (s *SolicitudService) ListAll(ctx context.Context, sess *helperAuth.Session, f dto.ListFilter) ([]model.SolicitudModel, error) {
	q := applyFilter(scopedSolicitudes(s.DB.WithContext(ctx), sess), sess, f)
	var rows []model.SolicitudModel
	if err := withDetail(q).
		Order("solicitudes.created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, helper.ErrInternal("list solicitudes export", err)
	}
	return rows, nil
}

// GetDetail = Get + child programa (objetivos, competencias, resultados) untuk export.
func (s *SolicitudService) GetDetail(ctx context.Context, sess *helperAuth.Session, id uuid.UUID) (*model.SolicitudModel, error) {
	var m model.SolicitudModel
	if err := withDetail(s.DB.WithContext(ctx)).First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrNotFound(msgNotFound)
		}
		return nil, helper.ErrInternal("muat solicitud", err)
	}
	if !helperAuth.CanAccess(sess, resourceOf(&m), helperAuth.ActionRead) {
		return nil, helper.ErrForbidden("No tiene permiso para ver esta solicitud")
	}
	return &m, nil
}

/* ===================== helpers ===================== */

func (s *SolicitudService) load(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.SolicitudModel, error) {
	var m model.SolicitudModel
	if err := withSummaries(db.WithContext(ctx)).First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrNotFound(msgNotFound)
		}
		return nil, helper.ErrInternal("muat solicitud", err)
	}
	return &m, nil
}

// dispatch best-effort; outbox tetap tersimpan dan disapu cron kalau gagal.
func (s *SolicitudService) dispatch(ctx context.Context, ids ...uuid.UUID) {
	if s.Dispatcher == nil {
		return
	}
	valid := ids[:0]
	for _, id := range ids {
		if id != uuid.Nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return
	}
	if _, err := s.Dispatcher.DispatchPending(context.WithoutCancel(ctx), valid...); err != nil {
		log.Printf("[WARN] dispatch notificaciones: %v", err)
	}
}

func withSummaries(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Programa").
		Preload("Instructor", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Centro").
		Preload("Horarios", func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") })
}

func withDetail(q *gorm.DB) *gorm.DB {
	byOrden := func(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }
	return withSummaries(q).
		Preload("Programa.Objetivos", byOrden).
		Preload("Programa.Competencias", byOrden).
		Preload("Programa.Resultados", byOrden)
}

func findSolicitud(tx *gorm.DB, id uuid.UUID) (*model.SolicitudModel, error) {
	var m model.SolicitudModel
	if err := tx.First(&m, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrNotFound(msgNotFound)
		}
		return nil, helper.ErrInternal("muat solicitud", err)
	}
	return &m, nil
}

func resourceOf(m *model.SolicitudModel) helperAuth.SolicitudResource {
	return helperAuth.SolicitudResource{
		InstructorID: m.InstructorID,
		CentroID:     m.CentroID,
		Estado:       string(m.Estado),
	}
}

// loadProgramaForSolicitud: programa harus ada, aktif, dan boleh dipakai actor.
func loadProgramaForSolicitud(tx *gorm.DB, sess *helperAuth.Session, programaID uuid.UUID) (*programaModel.ProgramaModel, error) {
	var prog programaModel.ProgramaModel
	if err := tx.First(&prog, "id = ?", programaID).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, &helper.AppError{
				Kind:    helper.KindValidation,
				Message: "El programa seleccionado no existe",
				Fields:  map[string][]string{"programa_id": {"exists"}},
			}
		}
		return nil, helper.ErrInternal("muat programa", err)
	}
	if !prog.Activo {
		return nil, &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "El programa seleccionado no está activo",
			Fields:  map[string][]string{"programa_id": {"active"}},
		}
	}
	res := helperAuth.SolicitudResource{InstructorID: sess.UserID, CentroID: prog.CentroID}
	if !helperAuth.CanAccess(sess, res, helperAuth.ActionCreate) {
		return nil, &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "El programa no pertenece a su centro de formación",
			Fields:  map[string][]string{"programa_id": {"centro"}},
		}
	}
	return &prog, nil
}

func checkInscritos(cmd *dto.SolicitudCommand, prog *programaModel.ProgramaModel) error {
	if prog.CupoMaximo > 0 && cmd.NumeroInscritos > prog.CupoMaximo {
		return &helper.AppError{
			Kind:    helper.KindValidation,
			Message: fmt.Sprintf("El número de inscritos supera el cupo máximo del programa (%d)", prog.CupoMaximo),
			Fields:  map[string][]string{"numero_inscritos": {"lte=cupo_maximo"}},
		}
	}
	return nil
}

func estadoFor(cmd *dto.SolicitudCommand) model.Estado {
	if cmd.IsDraft {
		return model.EstadoBorrador
	}
	return model.EstadoPendiente
}

func applyCommand(m *model.SolicitudModel, cmd *dto.SolicitudCommand) {
	m.ProgramaID = cmd.ProgramaID
	m.ResponsableNombre = cmd.ResponsableNombre
	m.ResponsableCedula = cmd.ResponsableCedula
	m.ResponsableEmail = cmd.ResponsableEmail
	m.ResponsableTelefono = cmd.ResponsableTelefono
	m.NumeroInscritos = cmd.NumeroInscritos
	m.EmpresaNombre = cmd.EmpresaNombre
	m.EmpresaNIT = cmd.EmpresaNIT
	m.EmpresaContacto = cmd.EmpresaContacto
	m.Municipio = cmd.Municipio
	m.Departamento = cmd.Departamento
	m.DireccionFormacion = cmd.DireccionFormacion
	m.ProgramasEspeciales = cmd.ProgramasEspeciales
	m.FechaInicioInscripcion = cmd.FechaInicioInscripcion
	m.FechaFinInscripcion = cmd.FechaFinInscripcion
	m.FechaInicio = cmd.FechaInicio
	m.FechaFin = cmd.FechaFin
	m.Justificacion = cmd.Justificacion
	m.Metodologia = cmd.Metodologia
	m.Evaluacion = cmd.Evaluacion
	m.CumpleRequisitos = cmd.CumpleRequisitos
	m.AutorizaDatos = cmd.AutorizaDatos
	m.ConfirmaVeracidad = cmd.ConfirmaVeracidad
}

// applyPrograma menyalin snapshot programa ke solicitud.
func applyPrograma(m *model.SolicitudModel, prog *programaModel.ProgramaModel) {
	m.ProgramaID = prog.ID
	m.CentroID = prog.CentroID
	m.DuracionHoras = prog.DuracionHoras
	m.Modalidad = prog.Modalidad
	m.CupoMaximo = prog.CupoMaximo
}

// contentUpdates: map supaya nil/false/"" ikut ditulis (overwrite penuh).
func contentUpdates(m *model.SolicitudModel) map[string]interface{} {
	return map[string]interface{}{
		"estado":                   m.Estado,
		"programa_id":              m.ProgramaID,
		"centro_id":                m.CentroID,
		"duracion_horas":           m.DuracionHoras,
		"modalidad":                m.Modalidad,
		"cupo_maximo":              m.CupoMaximo,
		"responsable_nombre":       m.ResponsableNombre,
		"responsable_cedula":       m.ResponsableCedula,
		"responsable_email":        m.ResponsableEmail,
		"responsable_telefono":     m.ResponsableTelefono,
		"numero_inscritos":         m.NumeroInscritos,
		"empresa_nombre":           m.EmpresaNombre,
		"empresa_nit":              m.EmpresaNIT,
		"empresa_contacto":         m.EmpresaContacto,
		"municipio":                m.Municipio,
		"departamento":             m.Departamento,
		"direccion_formacion":      m.DireccionFormacion,
		"programas_especiales":     m.ProgramasEspeciales,
		"fecha_inicio_inscripcion": m.FechaInicioInscripcion,
		"fecha_fin_inscripcion":    m.FechaFinInscripcion,
		"fecha_inicio":             m.FechaInicio,
		"fecha_fin":                m.FechaFin,
		"justificacion":            m.Justificacion,
		"metodologia":              m.Metodologia,
		"evaluacion":               m.Evaluacion,
		"cumple_requisitos":        m.CumpleRequisitos,
		"autoriza_datos":           m.AutorizaDatos,
		"confirma_veracidad":       m.ConfirmaVeracidad,
	}
}

func replaceHorarios(tx *gorm.DB, solicitudID uuid.UUID, hs []dto.HorarioCommand) error {
	if err := tx.Where("solicitud_id = ?", solicitudID).
		Delete(&model.HorarioSolicitudModel{}).Error; err != nil {
		return helper.ErrInternal("hapus horarios", err)
	}
	if len(hs) == 0 {
		return nil
	}
	rows := make([]model.HorarioSolicitudModel, 0, len(hs))
	for i, h := range hs {
		rows = append(rows, model.HorarioSolicitudModel{
			SolicitudID:     solicitudID,
			Orden:           i + 1,
			DiaSemana:       h.DiaSemana,
			HoraInicio:      h.HoraInicio,
			HoraFin:         h.HoraFin,
			FechaEspecifica: h.FechaEspecifica,
			EsFlexible:      h.EsFlexible,
			Observaciones:   h.Observaciones,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return helper.ErrInternal("simpan horarios", err)
	}
	return nil
}

/* ===================== outbox ===================== */

// enqueueNueva: satu notifikasi per coordinador aktif di centro programa.
func enqueueNueva(tx *gorm.DB, m *model.SolicitudModel, prog *programaModel.ProgramaModel) (uuid.UUID, error) {
	var coordinadores []uuid.UUID
	if err := tx.Model(&userModel.UserModel{}).
		Where("rol = ? AND centro_id = ? AND activo = ?", constants.RoleCoordinador, prog.CentroID, true).
		Pluck("id", &coordinadores).Error; err != nil {
		return uuid.Nil, helper.ErrInternal("cari coordinadores", err)
	}

	var instructor userModel.UserModel
	nombre := "Un instructor"
	if err := tx.Unscoped().Select("id", "nombre").First(&instructor, "id = ?", m.InstructorID).Error; err == nil {
		nombre = instructor.Nombre
	}

	sid := m.ID
	id, err := notifService.Enqueue(tx, notifModel.TipoNuevaSolicitud, notifModel.OutboxPayload{
		Titulo:        "Nueva solicitud de formación",
		Mensaje:       fmt.Sprintf("%s envió la solicitud %s para el programa %s.", nombre, m.Codigo, prog.Nombre),
		SolicitudID:   &sid,
		Destinatarios: coordinadores,
	})
	if err != nil {
		return uuid.Nil, helper.ErrInternal("enqueue notificación", err)
	}
	return id, nil
}

func notifyInstructor(tx *gorm.DB, m *model.SolicitudModel, tipo, titulo, mensaje string) (uuid.UUID, error) {
	sid := m.ID
	id, err := notifService.Enqueue(tx, tipo, notifModel.OutboxPayload{
		Titulo:        titulo,
		Mensaje:       mensaje,
		SolicitudID:   &sid,
		Destinatarios: []uuid.UUID{m.InstructorID},
	})
	if err != nil {
		return uuid.Nil, helper.ErrInternal("enqueue notificación", err)
	}
	return id, nil
}
