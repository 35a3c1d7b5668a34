package dto

import (
	"time"

	"fichas_backend/internals/features/notificaciones/model"

	"github.com/google/uuid"
)

type NotificacionResponse struct {
	ID          uuid.UUID  `json:"id"`
	Tipo        string     `json:"tipo"`
	Titulo      string     `json:"titulo"`
	Mensaje     string     `json:"mensaje"`
	SolicitudID *uuid.UUID `json:"solicitud_id,omitempty"`
	Leida       bool       `json:"leida"`
	LeidaAt     *time.Time `json:"leida_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromModel(m *model.NotificacionModel) NotificacionResponse {
	return NotificacionResponse{
		ID:          m.ID,
		Tipo:        m.Tipo,
		Titulo:      m.Titulo,
		Mensaje:     m.Mensaje,
		SolicitudID: m.SolicitudID,
		Leida:       m.Leida,
		LeidaAt:     m.LeidaAt,
		CreatedAt:   m.CreatedAt,
	}
}

func FromModels(rows []model.NotificacionModel) []NotificacionResponse {
	out := make([]NotificacionResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

// CreateInput dipakai Create langsung (notifikasi SISTEMA) maupun oleh dispatcher.
type CreateInput struct {
	Tipo        string     `validate:"required"`
	Titulo      string     `validate:"required,max=255"`
	Mensaje     string     `validate:"required"`
	UsuarioID   uuid.UUID  `validate:"required"`
	SolicitudID *uuid.UUID
}

// SistemaRequest body POST /notificaciones (aviso SISTEMA dari admin).
type SistemaRequest struct {
	UsuarioID uuid.UUID `json:"usuario_id" validate:"required"`
	Titulo    string    `json:"titulo" validate:"required,max=255"`
	Mensaje   string    `json:"mensaje" validate:"required,max=2000"`
}

type ListQuery struct {
	Page    int
	PerPage int
	Leida   *bool
}
