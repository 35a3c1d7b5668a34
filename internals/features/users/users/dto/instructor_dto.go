package dto

import (
	"strings"

	"github.com/google/uuid"

	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
	userDTO "fichas_backend/internals/features/users/user/dto"
	"fichas_backend/internals/features/users/user/model"
	helper "fichas_backend/internals/helpers"
)

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

/* =========
   Create
   ========= */

type CreateInstructorRequest struct {
	Nombre       string     `json:"nombre" validate:"required,min=3,max=200"`
	Email        string     `json:"email" validate:"required,email,max=255"`
	Cedula       string     `json:"cedula" validate:"required,min=5,max=30,numeric"`
	Telefono     string     `json:"telefono" validate:"omitempty,max=30"`
	Especialidad *string    `json:"especialidad" validate:"omitempty,max=150"`
	CentroID     *uuid.UUID `json:"centro_id"`
	// kosong = password sementara <cedula>*<tahun>
	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

func (r *CreateInstructorRequest) Normalize() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Email = helper.NormalizeEmail(r.Email)
	r.Cedula = strings.TrimSpace(r.Cedula)
	r.Telefono = strings.TrimSpace(r.Telefono)
	r.Especialidad = trimPtr(r.Especialidad)
	if r.Especialidad != nil && *r.Especialidad == "" {
		r.Especialidad = nil
	}
}

/* =========
   Update (partial)
   ========= */

type UpdateInstructorRequest struct {
	Nombre       *string    `json:"nombre" validate:"omitempty,min=3,max=200"`
	Email        *string    `json:"email" validate:"omitempty,email,max=255"`
	Cedula       *string    `json:"cedula" validate:"omitempty,min=5,max=30,numeric"`
	Telefono     *string    `json:"telefono" validate:"omitempty,max=30"`
	Especialidad *string    `json:"especialidad" validate:"omitempty,max=150"`
	CentroID     *uuid.UUID `json:"centro_id"`
	Activo       *bool      `json:"activo"`
}

func (r *UpdateInstructorRequest) Normalize() {
	r.Nombre = trimPtr(r.Nombre)
	if r.Email != nil {
		v := helper.NormalizeEmail(*r.Email)
		r.Email = &v
	}
	r.Cedula = trimPtr(r.Cedula)
	r.Telefono = trimPtr(r.Telefono)
	r.Especialidad = trimPtr(r.Especialidad)
}

// OnlyContactFields: instructor yang mengedit dirinya sendiri hanya boleh kolom kontak.
func (r *UpdateInstructorRequest) OnlyContactFields() bool {
	return r.Nombre == nil && r.Email == nil && r.Cedula == nil && r.CentroID == nil && r.Activo == nil
}

/* =========
   List
   ========= */

type InstructorListQuery struct {
	Q            string
	Especialidad string
	Activo       *bool
	CentroID     uuid.UUID
	Page         int
	PerPage      int
}

type InstructorResponse struct {
	userDTO.UserResponse
	Estadisticas solModel.SolicitudStats `json:"estadisticas"`
}

func FromModel(m *model.UserModel, stats solModel.SolicitudStats) InstructorResponse {
	return InstructorResponse{UserResponse: userDTO.FromModel(m), Estadisticas: stats}
}

/* =========
   Import
   ========= */

type ImportRowResult struct {
	Fila  int    `json:"fila"`
	OK    bool   `json:"ok"`
	Email string `json:"email"`
	Error string `json:"error,omitempty"`
}

type ImportResult struct {
	Resultados []ImportRowResult `json:"resultados"`
	Exitosos   int               `json:"exitosos"`
	Fallidos   int               `json:"fallidos"`
}
