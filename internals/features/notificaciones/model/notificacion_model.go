package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TipoNuevaSolicitud      = "NUEVA_SOLICITUD"
	TipoSolicitudAprobada   = "SOLICITUD_APROBADA"
	TipoSolicitudRechazada  = "SOLICITUD_RECHAZADA"
	TipoSolicitudEnRevision = "SOLICITUD_EN_REVISION"
	TipoSistema             = "SISTEMA"
)

var AllTipos = []string{
	TipoNuevaSolicitud,
	TipoSolicitudAprobada,
	TipoSolicitudRechazada,
	TipoSolicitudEnRevision,
	TipoSistema,
}

func IsValidTipo(t string) bool {
	for _, x := range AllTipos {
		if x == t {
			return true
		}
	}
	return false
}

// NotificacionModel append-only; yang boleh berubah hanya leida/leida_at.
type NotificacionModel struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Tipo        string     `gorm:"column:tipo;size:40;not null" json:"tipo"`
	Titulo      string     `gorm:"column:titulo;size:255;not null" json:"titulo"`
	Mensaje     string     `gorm:"column:mensaje;type:text;not null" json:"mensaje"`
	UsuarioID   uuid.UUID  `gorm:"column:usuario_id;type:uuid;not null;index;uniqueIndex:uq_notificaciones_outbox_usuario,priority:2" json:"usuario_id"`
	SolicitudID *uuid.UUID `gorm:"column:solicitud_id;type:uuid" json:"solicitud_id,omitempty"`
	OutboxID    *uuid.UUID `gorm:"column:outbox_id;type:uuid;uniqueIndex:uq_notificaciones_outbox_usuario,priority:1" json:"-"`
	Leida       bool       `gorm:"column:leida;not null" json:"leida"`
	LeidaAt     *time.Time `gorm:"column:leida_at" json:"leida_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (NotificacionModel) TableName() string {
	return "notificaciones"
}

func (m *NotificacionModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// OutboxModel: intent notifikasi yang ditulis di transaksi yang sama dengan perubahan state.
type OutboxModel struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Tipo         string         `gorm:"column:tipo;size:40;not null" json:"tipo"`
	Payload      datatypes.JSON `gorm:"column:payload;not null" json:"payload"`
	Intentos     int            `gorm:"column:intentos;not null" json:"intentos"`
	UltimoError  *string        `gorm:"column:ultimo_error;type:text" json:"ultimo_error,omitempty"`
	DespachadoAt *time.Time     `gorm:"column:despachado_at;index" json:"despachado_at,omitempty"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OutboxModel) TableName() string {
	return "notificacion_outbox"
}

func (m *OutboxModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// OutboxPayload isi kolom payload.
type OutboxPayload struct {
	Titulo        string      `json:"titulo"`
	Mensaje       string      `json:"mensaje"`
	SolicitudID   *uuid.UUID  `json:"solicitud_id,omitempty"`
	Destinatarios []uuid.UUID `json:"destinatarios"`
}
