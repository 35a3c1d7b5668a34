package dto

import (
	"time"

	uModel "fichas_backend/internals/features/users/user/model"

	"github.com/google/uuid"
)

type CentroBrief struct {
	ID     uuid.UUID `json:"id"`
	Nombre string    `json:"nombre"`
	Codigo string    `json:"codigo"`
}

// UserResponse bentuk user di response API (tanpa password).
type UserResponse struct {
	ID           uuid.UUID    `json:"id"`
	Email        string       `json:"email"`
	Nombre       string       `json:"nombre"`
	Cedula       string       `json:"cedula"`
	Telefono     string       `json:"telefono"`
	Rol          string       `json:"rol"`
	Especialidad *string      `json:"especialidad,omitempty"`
	CentroID     *uuid.UUID   `json:"centro_id,omitempty"`
	Centro       *CentroBrief `json:"centro,omitempty"`
	Activo       bool         `json:"activo"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func FromModel(m *uModel.UserModel) UserResponse {
	out := UserResponse{
		ID:           m.ID,
		Email:        m.Email,
		Nombre:       m.Nombre,
		Cedula:       m.Cedula,
		Telefono:     m.Telefono,
		Rol:          m.Rol,
		Especialidad: m.Especialidad,
		CentroID:     m.CentroID,
		Activo:       m.Activo,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Centro != nil {
		out.Centro = &CentroBrief{ID: m.Centro.ID, Nombre: m.Centro.Nombre, Codigo: m.Centro.Codigo}
	}
	return out
}
