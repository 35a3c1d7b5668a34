package model

import (
	"time"

	centroModel "fichas_backend/internals/features/centros/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ModalidadPresencial = "PRESENCIAL"
	ModalidadVirtual    = "VIRTUAL"
	ModalidadMixta      = "MIXTA"
)

type ProgramaModel struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Codigo        string    `gorm:"column:codigo;size:30;not null;uniqueIndex:uq_programas_codigo" json:"codigo"`
	Nombre        string    `gorm:"column:nombre;size:255;not null" json:"nombre"`
	TipoFormacion string    `gorm:"column:tipo_formacion;size:100" json:"tipo_formacion"`
	Modalidad     string    `gorm:"column:modalidad;size:20;not null" json:"modalidad"`
	DuracionHoras int       `gorm:"column:duracion_horas;not null" json:"duracion_horas"`
	CupoMaximo    int       `gorm:"column:cupo_maximo;not null" json:"cupo_maximo"`
	Descripcion   string    `gorm:"column:descripcion;type:text" json:"descripcion"`
	CentroID      uuid.UUID `gorm:"column:centro_id;type:uuid;not null;index" json:"centro_id"`
	Activo        bool      `gorm:"column:activo;not null" json:"activo"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Centro       *centroModel.CentroModel   `gorm:"foreignKey:CentroID;references:ID" json:"centro,omitempty"`
	Objetivos    []ProgramaObjetivoModel    `gorm:"foreignKey:ProgramaID;constraint:OnDelete:CASCADE" json:"objetivos,omitempty"`
	Competencias []ProgramaCompetenciaModel `gorm:"foreignKey:ProgramaID;constraint:OnDelete:CASCADE" json:"competencias,omitempty"`
	Resultados   []ProgramaResultadoModel   `gorm:"foreignKey:ProgramaID;constraint:OnDelete:CASCADE" json:"resultados,omitempty"`
}

func (ProgramaModel) TableName() string {
	return "programas"
}

func (m *ProgramaModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

/* ===== koleksi terurut: objetivos, competencias, resultados ===== */

type ProgramaObjetivoModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProgramaID  uuid.UUID `gorm:"column:programa_id;type:uuid;not null;index" json:"-"`
	Orden       int       `gorm:"column:orden;not null" json:"orden"`
	Descripcion string    `gorm:"column:descripcion;type:text;not null" json:"descripcion"`
}

func (ProgramaObjetivoModel) TableName() string { return "programa_objetivos" }

func (m *ProgramaObjetivoModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ProgramaCompetenciaModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProgramaID  uuid.UUID `gorm:"column:programa_id;type:uuid;not null;index" json:"-"`
	Orden       int       `gorm:"column:orden;not null" json:"orden"`
	Descripcion string    `gorm:"column:descripcion;type:text;not null" json:"descripcion"`
}

func (ProgramaCompetenciaModel) TableName() string { return "programa_competencias" }

func (m *ProgramaCompetenciaModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ProgramaResultadoModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProgramaID  uuid.UUID `gorm:"column:programa_id;type:uuid;not null;index" json:"-"`
	Orden       int       `gorm:"column:orden;not null" json:"orden"`
	Descripcion string    `gorm:"column:descripcion;type:text;not null" json:"descripcion"`
}

func (ProgramaResultadoModel) TableName() string { return "programa_resultados" }

func (m *ProgramaResultadoModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ProgramaSummary snapshot ringkas untuk embed di solicitud.
type ProgramaSummary struct {
	ID            uuid.UUID `json:"id"`
	Codigo        string    `json:"codigo"`
	Nombre        string    `json:"nombre"`
	TipoFormacion string    `json:"tipo_formacion"`
	Modalidad     string    `json:"modalidad"`
	DuracionHoras int       `json:"duracion_horas"`
	CupoMaximo    int       `json:"cupo_maximo"`
	CentroID      uuid.UUID `json:"centro_id"`
}

func (m *ProgramaModel) Summary() *ProgramaSummary {
	if m == nil {
		return nil
	}
	return &ProgramaSummary{
		ID:            m.ID,
		Codigo:        m.Codigo,
		Nombre:        m.Nombre,
		TipoFormacion: m.TipoFormacion,
		Modalidad:     m.Modalidad,
		DuracionHoras: m.DuracionHoras,
		CupoMaximo:    m.CupoMaximo,
		CentroID:      m.CentroID,
	}
}
