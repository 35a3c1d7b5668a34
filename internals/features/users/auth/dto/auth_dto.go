package dto

import (
	"strings"
	"time"

	userDTO "fichas_backend/internals/features/users/user/dto"
	helper "fichas_backend/internals/helpers"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// RegisterRequest registrasi mandiri instructor.
type RegisterRequest struct {
	Email        string    `json:"email" validate:"required,email,max=255"`
	Password     string    `json:"password" validate:"required,min=8,max=72"`
	Nombre       string    `json:"nombre" validate:"required,min=3,max=200"`
	Cedula       string    `json:"cedula" validate:"required,min=5,max=30,numeric"`
	Telefono     string    `json:"telefono" validate:"omitempty,max=30"`
	Especialidad *string   `json:"especialidad" validate:"omitempty,max=150"`
	CentroID     uuid.UUID `json:"centro_id" validate:"required"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = helper.NormalizeEmail(r.Email)
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Cedula = strings.TrimSpace(r.Cedula)
	r.Telefono = strings.TrimSpace(r.Telefono)
	if r.Especialidad != nil {
		v := strings.TrimSpace(*r.Especialidad)
		if v == "" {
			r.Especialidad = nil
		} else {
			r.Especialidad = &v
		}
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

type AuthResponse struct {
	User      userDTO.UserResponse `json:"user"`
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
}
