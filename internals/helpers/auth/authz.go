package helper

import (
	"github.com/google/uuid"

	"fichas_backend/internals/constants"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionReview Action = "review"
	ActionManage Action = "manage"
)

// Resource penanda tipe yang bisa diperiksa CanAccess.
type Resource interface{ resource() }

type SolicitudResource struct {
	InstructorID uuid.UUID
	CentroID     uuid.UUID // centro programa
	Estado       string
}

type UserResource struct {
	ID       uuid.UUID
	CentroID uuid.UUID
	Role     string
}

type ProgramaResource struct {
	CentroID uuid.UUID
}

type CentroResource struct {
	ID uuid.UUID
}

func (SolicitudResource) resource() {}
func (UserResource) resource()      {}
func (ProgramaResource) resource()  {}
func (CentroResource) resource()    {}

// CanAccess satu-satunya predikat otorisasi; dipanggil di awal setiap operasi.
//
//	ADMIN        semua, kecuali membuat/mengedit solicitud (hanya instructor pembuatnya)
//	COORDINADOR  resource di centro sendiri
//	INSTRUCTOR   solicitud miliknya, user dirinya, programa centro sendiri
func CanAccess(s *Session, res Resource, act Action) bool {
	if s == nil || s.UserID == uuid.Nil {
		return false
	}
	switch r := res.(type) {
	case SolicitudResource:
		return canAccessSolicitud(s, r, act)
	case UserResource:
		return canAccessUser(s, r, act)
	case ProgramaResource:
		return canAccessPrograma(s, r, act)
	case CentroResource:
		return canAccessCentro(s, r, act)
	default:
		return false
	}
}

func sameCentro(s *Session, centroID uuid.UUID) bool {
	return s.CentroID != uuid.Nil && s.CentroID == centroID
}

func canAccessSolicitud(s *Session, r SolicitudResource, act Action) bool {
	switch s.Role {
	case constants.RoleAdmin:
		return act == ActionRead || act == ActionReview
	case constants.RoleCoordinador:
		return (act == ActionRead || act == ActionReview) && sameCentro(s, r.CentroID)
	case constants.RoleInstructor:
		switch act {
		case ActionCreate:
			return sameCentro(s, r.CentroID)
		case ActionRead, ActionEdit:
			return r.InstructorID == s.UserID
		}
	}
	return false
}

func canAccessUser(s *Session, r UserResource, act Action) bool {
	switch s.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleCoordinador:
		if r.ID == s.UserID {
			return act == ActionRead || act == ActionEdit
		}
		if !sameCentro(s, r.CentroID) {
			return false
		}
		if act == ActionRead {
			return true
		}
		// coordinador hanya mengelola instructor di centro-nya
		return r.Role == constants.RoleInstructor
	case constants.RoleInstructor:
		return r.ID == s.UserID && (act == ActionRead || act == ActionEdit)
	}
	return false
}

func canAccessPrograma(s *Session, r ProgramaResource, act Action) bool {
	switch s.Role {
	case constants.RoleAdmin:
		return true
	case constants.RoleCoordinador:
		return sameCentro(s, r.CentroID)
	case constants.RoleInstructor:
		return act == ActionRead && sameCentro(s, r.CentroID)
	}
	return false
}

func canAccessCentro(s *Session, r CentroResource, act Action) bool {
	if act == ActionRead {
		return true
	}
	return s.Role == constants.RoleAdmin
}
