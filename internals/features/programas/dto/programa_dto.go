package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fichas_backend/internals/features/programas/model"
	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
)

// ProgramaRequest body POST/PUT /programas. Child list menggantikan seluruh isi lama.
type ProgramaRequest struct {
	Codigo        string     `json:"codigo" validate:"required,max=30"`
	Nombre        string     `json:"nombre" validate:"required,min=3,max=255"`
	TipoFormacion string     `json:"tipo_formacion" validate:"max=100"`
	Modalidad     string     `json:"modalidad" validate:"required,oneof=PRESENCIAL VIRTUAL MIXTA"`
	DuracionHoras int        `json:"duracion_horas" validate:"required,min=1,max=10000"`
	CupoMaximo    int        `json:"cupo_maximo" validate:"required,min=1,max=10000"`
	Descripcion   string     `json:"descripcion" validate:"max=5000"`
	CentroID      *uuid.UUID `json:"centro_id"`
	Activo        *bool      `json:"activo"`

	Objetivos    []string `json:"objetivos" validate:"max=100,dive,required,max=2000"`
	Competencias []string `json:"competencias" validate:"max=100,dive,required,max=2000"`
	Resultados   []string `json:"resultados" validate:"max=100,dive,required,max=2000"`
}

func trimAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		out = append(out, strings.TrimSpace(x))
	}
	return out
}

func (r *ProgramaRequest) Normalize() {
	r.Codigo = strings.ToUpper(strings.TrimSpace(r.Codigo))
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.TipoFormacion = strings.TrimSpace(r.TipoFormacion)
	r.Modalidad = strings.ToUpper(strings.TrimSpace(r.Modalidad))
	r.Descripcion = strings.TrimSpace(r.Descripcion)
	r.Objetivos = trimAll(r.Objetivos)
	r.Competencias = trimAll(r.Competencias)
	r.Resultados = trimAll(r.Resultados)
}

// Apply mengisi kolom skalar; centro & child diurus service.
func (r *ProgramaRequest) Apply(m *model.ProgramaModel) {
	m.Codigo = r.Codigo
	m.Nombre = r.Nombre
	m.TipoFormacion = r.TipoFormacion
	m.Modalidad = r.Modalidad
	m.DuracionHoras = r.DuracionHoras
	m.CupoMaximo = r.CupoMaximo
	m.Descripcion = r.Descripcion
	if r.Activo != nil {
		m.Activo = *r.Activo
	}
}

type ProgramaListQuery struct {
	Q         string
	Modalidad string
	Activo    *bool
	CentroID  uuid.UUID
	Page      int
	PerPage   int
}

type ItemResponse struct {
	Orden       int    `json:"orden"`
	Descripcion string `json:"descripcion"`
}

type CentroBrief struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Codigo string    `json:"codigo"`
}

type ProgramaResponse struct {
	ID            uuid.UUID    `json:"id"`
	Codigo        string       `json:"codigo"`
	Nombre        string       `json:"nombre"`
	TipoFormacion string       `json:"tipo_formacion"`
	Modalidad     string       `json:"modalidad"`
	DuracionHoras int          `json:"duracion_horas"`
	CupoMaximo    int          `json:"cupo_maximo"`
	Descripcion   string       `json:"descripcion"`
	CentroID      uuid.UUID    `json:"centro_id"`
	Centro        *CentroBrief `json:"centro,omitempty"`
	Activo        bool         `json:"activo"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`

	Objetivos    []ItemResponse `json:"objetivos,omitempty"`
	Competencias []ItemResponse `json:"competencias,omitempty"`
	Resultados   []ItemResponse `json:"resultados,omitempty"`

	Estadisticas solModel.SolicitudStats `json:"estadisticas"`
}

func FromModel(m *model.ProgramaModel, stats solModel.SolicitudStats) ProgramaResponse {
	out := ProgramaResponse{
		ID:            m.ID,
		Codigo:        m.Codigo,
		Nombre:        m.Nombre,
		TipoFormacion: m.TipoFormacion,
		Modalidad:     m.Modalidad,
		DuracionHoras: m.DuracionHoras,
		CupoMaximo:    m.CupoMaximo,
		Descripcion:   m.Descripcion,
		CentroID:      m.CentroID,
		Activo:        m.Activo,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Estadisticas:  stats,
	}
	if m.Centro != nil {
		out.Centro = &CentroBrief{ID: m.Centro.ID, Nombre: m.Centro.Nombre, Codigo: m.Centro.Codigo}
	}
	for _, o := range m.Objetivos {
		out.Objetivos = append(out.Objetivos, ItemResponse{Orden: o.Orden, Descripcion: o.Descripcion})
	}
	for _, c := range m.Competencias {
		out.Competencias = append(out.Competencias, ItemResponse{Orden: c.Orden, Descripcion: c.Descripcion})
	}
	for _, r := range m.Resultados {
		out.Resultados = append(out.Resultados, ItemResponse{Orden: r.Orden, Descripcion: r.Descripcion})
	}
	return out
}
