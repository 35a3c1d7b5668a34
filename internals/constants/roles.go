package constants

import "fmt"

const (
	RoleInstructor  = "INSTRUCTOR"
	RoleCoordinador = "COORDINADOR"
	RoleAdmin       = "ADMIN"
)

// Template pesan error role
const (
	ErrOnlyReviewersCanAccess = "Solo coordinadores o administradores pueden acceder a %s."
	ErrOnlyAdminsCanAccess    = "Solo administradores pueden acceder a %s."
	ErrOnlyInstructorsCanDo   = "Solo instructores pueden %s."
)

func RoleErrorReviewer(feature string) string {
	return fmt.Sprintf(ErrOnlyReviewersCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorInstructor(action string) string {
	return fmt.Sprintf(ErrOnlyInstructorsCanDo, action)
}

var (
	AllRoles = []string{
		RoleInstructor,
		RoleCoordinador,
		RoleAdmin,
	}

	ReviewerRoles = []string{
		RoleCoordinador,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)

func IsValidRole(r string) bool {
	for _, x := range AllRoles {
		if x == r {
			return true
		}
	}
	return false
}
