package model

import (
	"time"

	centroModel "fichas_backend/internals/features/centros/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel = tabel usuarios (instructor, coordinador, admin).
// Email & cedula unik hanya di antara baris yang belum dihapus.
type UserModel struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"column:email;size:255;not null;uniqueIndex:uq_usuarios_email_alive,where:deleted_at IS NULL" json:"email"`
	Password     string         `gorm:"column:password;not null" json:"-"`
	Nombre       string         `gorm:"column:nombre;size:200;not null" json:"nombre"`
	Cedula       string         `gorm:"column:cedula;size:30;not null;uniqueIndex:uq_usuarios_cedula_alive,where:deleted_at IS NULL" json:"cedula"`
	Telefono     string         `gorm:"column:telefono;size:30" json:"telefono"`
	Rol          string         `gorm:"column:rol;size:20;not null" json:"rol"`
	Especialidad *string        `gorm:"column:especialidad;size:150" json:"especialidad,omitempty"`
	CentroID     *uuid.UUID     `gorm:"column:centro_id;type:uuid;index" json:"centro_id,omitempty"`
	Activo       bool           `gorm:"column:activo;not null" json:"activo"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`

	Centro *centroModel.CentroModel `gorm:"foreignKey:CentroID;references:ID" json:"centro,omitempty"`
}

func (UserModel) TableName() string {
	return "usuarios"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CentroUUID: uuid.Nil kalau user tidak terikat centro (admin nasional).
func (m *UserModel) CentroUUID() uuid.UUID {
	if m.CentroID == nil {
		return uuid.Nil
	}
	return *m.CentroID
}

// UserSummary ringkasan user untuk di-embed di response lain.
type UserSummary struct {
	ID           uuid.UUID  `json:"id"`
	Nombre       string     `json:"nombre"`
	Email        string     `json:"email"`
	Cedula       string     `json:"cedula"`
	Telefono     string     `json:"telefono"`
	Rol          string     `json:"rol"`
	Especialidad *string    `json:"especialidad,omitempty"`
	CentroID     *uuid.UUID `json:"centro_id,omitempty"`
}

func (m *UserModel) Summary() *UserSummary {
	if m == nil {
		return nil
	}
	return &UserSummary{
		ID:           m.ID,
		Nombre:       m.Nombre,
		Email:        m.Email,
		Cedula:       m.Cedula,
		Telefono:     m.Telefono,
		Rol:          m.Rol,
		Especialidad: m.Especialidad,
		CentroID:     m.CentroID,
	}
}
