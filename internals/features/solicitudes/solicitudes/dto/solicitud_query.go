package dto

import (
	"strconv"

	"github.com/google/uuid"

	"fichas_backend/internals/features/solicitudes/solicitudes/model"
)

// ApproveInput body POST /solicitudes/:id/approve (semua opsional).
type ApproveInput struct {
	Comentarios *string `json:"comentarios" validate:"omitempty,max=2000"`
	NumeroFicha *string `json:"numero_ficha" validate:"omitempty,max=20"`
}

type RejectInput struct {
	Comentarios string `json:"comentarios" validate:"max=2000"`
}

// ListFilter filter GET /solicitudes (digabung AND).
type ListFilter struct {
	Estado       model.Estado
	ProgramaID   uuid.UUID
	InstructorID uuid.UUID
	CentroID     uuid.UUID
	Year         int
	Q            string
	Page         int
	PerPage      int
}

func itoa(i int) string { return strconv.Itoa(i) }
