package helper

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fichas_backend/internals/constants"
	helper "fichas_backend/internals/helpers"
)

// Nama locals yang diisi AuthMiddleware
const (
	LocSession  = "session"
	LocUserID   = "user_id"
	LocUserRole = "userRole"
	LocRawToken = "raw_token"
)

// Session = identitas terverifikasi server untuk satu request.
type Session struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	CentroID  uuid.UUID // uuid.Nil untuk admin tanpa centro
	Token     string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool       { return s != nil && s.Role == constants.RoleAdmin }
func (s *Session) IsCoordinador() bool { return s != nil && s.Role == constants.RoleCoordinador }
func (s *Session) IsInstructor() bool  { return s != nil && s.Role == constants.RoleInstructor }

func SetSession(c *fiber.Ctx, s *Session) {
	c.Locals(LocSession, s)
	c.Locals(LocUserID, s.UserID.String())
	c.Locals(LocUserRole, s.Role)
	if s.Token != "" {
		c.Locals(LocRawToken, s.Token)
	}
}

// GetSession mengambil session dari locals; AuthError kalau belum login.
func GetSession(c *fiber.Ctx) (*Session, error) {
	s, ok := c.Locals(LocSession).(*Session)
	if !ok || s == nil || s.UserID == uuid.Nil {
		return nil, helper.ErrAuth("Sesión no válida, inicie sesión nuevamente")
	}
	return s, nil
}
