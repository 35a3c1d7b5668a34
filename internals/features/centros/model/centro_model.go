package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CentroModel struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Nombre    string    `gorm:"column:nombre;size:200;not null" json:"nombre"`
	Codigo    string    `gorm:"column:codigo;size:30;not null;uniqueIndex:uq_centros_codigo" json:"codigo"`
	Ciudad    string    `gorm:"column:ciudad;size:120" json:"ciudad"`
	Regional  string    `gorm:"column:regional;size:120" json:"regional"`
	Direccion string    `gorm:"column:direccion;size:255" json:"direccion"`
	Telefono  string    `gorm:"column:telefono;size:30" json:"telefono"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CentroModel) TableName() string {
	return "centros"
}

func (m *CentroModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
