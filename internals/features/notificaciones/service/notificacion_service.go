package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fichas_backend/internals/features/notificaciones/dto"
	"fichas_backend/internals/features/notificaciones/model"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type NotificacionService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewNotificacionService(db *gorm.DB) *NotificacionService {
	return &NotificacionService{DB: db, Now: time.Now}
}

func (s *NotificacionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *NotificacionService) Create(ctx context.Context, in dto.CreateInput) (*model.NotificacionModel, error) {
	if err := helper.ValidateStruct(&in); err != nil {
		return nil, err
	}
	if !model.IsValidTipo(in.Tipo) {
		return nil, helper.ErrValidation("Tipo de notificación inválido")
	}
	n := &model.NotificacionModel{
		Tipo:        in.Tipo,
		Titulo:      in.Titulo,
		Mensaje:     in.Mensaje,
		UsuarioID:   in.UsuarioID,
		SolicitudID: in.SolicitudID,
	}
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		return nil, helper.ErrInternal("create notificacion", err)
	}
	return n, nil
}

// CreateSistema: admin mengirim aviso SISTEMA ke satu user aktif.
func (s *NotificacionService) CreateSistema(ctx context.Context, sess *helperAuth.Session, req dto.SistemaRequest) (*model.NotificacionModel, error) {
	if !sess.IsAdmin() {
		return nil, helper.ErrForbidden("Solo administradores pueden enviar avisos del sistema")
	}
	req.Titulo = strings.TrimSpace(req.Titulo)
	req.Mensaje = strings.TrimSpace(req.Mensaje)
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}

	var n int64
	if err := s.DB.WithContext(ctx).Table("usuarios").
		Where("id = ? AND activo = ? AND deleted_at IS NULL", req.UsuarioID, true).
		Count(&n).Error; err != nil {
		return nil, helper.ErrInternal("cek destinatario", err)
	}
	if n == 0 {
		return nil, helper.ErrNotFound("Usuario destinatario no encontrado")
	}
	return s.Create(ctx, dto.CreateInput{
		Tipo:      model.TipoSistema,
		Titulo:    req.Titulo,
		Mensaje:   req.Mensaje,
		UsuarioID: req.UsuarioID,
	})
}

// ListByRecipient: halaman notifikasi milik user + jumlah belum dibaca (query langsung, tanpa cache).
func (s *NotificacionService) ListByRecipient(ctx context.Context, sess *helperAuth.Session, q dto.ListQuery) ([]model.NotificacionModel, int64, int64, error) {
	db := s.DB.WithContext(ctx)
	base := db.Model(&model.NotificacionModel{}).Where("usuario_id = ?", sess.UserID)
	if q.Leida != nil {
		base = base.Where("leida = ?", *q.Leida)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, 0, helper.ErrInternal("count notificaciones", err)
	}

	paging := helper.NewPaging(q.Page, q.PerPage, 20, 100)
	var rows []model.NotificacionModel
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Offset(paging.Offset).
		Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, 0, helper.ErrInternal("list notificaciones", err)
	}

	unread, err := s.UnreadCount(ctx, sess)
	if err != nil {
		return nil, 0, 0, err
	}
	return rows, total, unread, nil
}

func (s *NotificacionService) UnreadCount(ctx context.Context, sess *helperAuth.Session) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).
		Model(&model.NotificacionModel{}).
		Where("usuario_id = ? AND leida = ?", sess.UserID, false).
		Count(&n).Error; err != nil {
		return 0, helper.ErrInternal("count no leidas", err)
	}
	return n, nil
}

func (s *NotificacionService) MarkRead(ctx context.Context, sess *helperAuth.Session, id uuid.UUID) (*model.NotificacionModel, error) {
	var n model.NotificacionModel
	if err := s.DB.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if helper.IsNotFound(err) {
			return nil, helper.ErrNotFound("Notificación no encontrada")
		}
		return nil, helper.ErrInternal("cari notificacion", err)
	}
	if n.UsuarioID != sess.UserID {
		return nil, helper.ErrForbidden("La notificación no le pertenece")
	}
	if n.Leida {
		return &n, nil
	}

	now := s.now()
	if err := s.DB.WithContext(ctx).
		Model(&model.NotificacionModel{}).
		Where("id = ?", n.ID).
		Updates(map[string]interface{}{"leida": true, "leida_at": now}).Error; err != nil {
		return nil, helper.ErrInternal("marcar leida", err)
	}
	n.Leida = true
	n.LeidaAt = &now
	return &n, nil
}

// MarkAllRead mengembalikan jumlah baris yang berubah.
func (s *NotificacionService) MarkAllRead(ctx context.Context, sess *helperAuth.Session) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&model.NotificacionModel{}).
		Where("usuario_id = ? AND leida = ?", sess.UserID, false).
		Updates(map[string]interface{}{"leida": true, "leida_at": s.now()})
	if res.Error != nil {
		return 0, helper.ErrInternal("marcar todas leidas", res.Error)
	}
	return res.RowsAffected, nil
}
