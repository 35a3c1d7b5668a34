package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fichas_backend/internals/features/centros/model"
)

type CentroRequest struct {
	Nombre    string `json:"nombre" validate:"required,min=3,max=200"`
	Codigo    string `json:"codigo" validate:"required,max=30"`
	Ciudad    string `json:"ciudad" validate:"max=120"`
	Regional  string `json:"regional" validate:"max=120"`
	Direccion string `json:"direccion" validate:"max=255"`
	Telefono  string `json:"telefono" validate:"max=30"`
}

func (r *CentroRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Codigo = strings.ToUpper(strings.TrimSpace(r.Codigo))
	r.Ciudad = strings.TrimSpace(r.Ciudad)
	r.Regional = strings.TrimSpace(r.Regional)
	r.Direccion = strings.TrimSpace(r.Direccion)
	r.Telefono = strings.TrimSpace(r.Telefono)
}

func (r *CentroRequest) Apply(m *model.CentroModel) {
	m.Nombre = r.Nombre
	m.Codigo = r.Codigo
	m.Ciudad = r.Ciudad
	m.Regional = r.Regional
	m.Direccion = r.Direccion
	m.Telefono = r.Telefono
}

type CentroResponse struct {
	ID        uuid.UUID `json:"id"`
	Nombre    string    `json:"nombre"`
	Codigo    string    `json:"codigo"`
	Ciudad    string    `json:"ciudad"`
	Regional  string    `json:"regional"`
	Direccion string    `json:"direccion"`
	Telefono  string    `json:"telefono"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(m *model.CentroModel) CentroResponse {
	return CentroResponse{
		ID:        m.ID,
		Nombre:    m.Nombre,
		Codigo:    m.Codigo,
		Ciudad:    m.Ciudad,
		Regional:  m.Regional,
		Direccion: m.Direccion,
		Telefono:  m.Telefono,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromModels(rows []model.CentroModel) []CentroResponse {
	out := make([]CentroResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}
