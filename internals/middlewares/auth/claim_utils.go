package auth

import (
	"context"
	"errors"
	"strings"

	userModel "fichas_backend/internals/features/users/user/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	errNoToken       = errors.New("No se proporcionó token de acceso")
	errInvalidFormat = errors.New("Formato de token inválido")
	errUserInactive  = errors.New("Usuario inactivo")
)

// extractBearerToken: Authorization header, fallback cookie access_token.
func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth == "" {
		if cookieTok := strings.TrimSpace(c.Cookies("access_token")); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errNoToken
	}

	// toleransi spasi ganda & case-insensitive
	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", errInvalidFormat
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", errNoToken
	}
	return tok, nil
}

// loadActiveUser: user harus ada (belum dihapus) dan aktif.
func loadActiveUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*userModel.UserModel, error) {
	var u userModel.UserModel
	if err := db.WithContext(ctx).
		Select("id", "email", "rol", "centro_id", "activo").
		Where("id = ?", userID).
		First(&u).Error; err != nil {
		return nil, err
	}
	if !u.Activo {
		return nil, errUserInactive
	}
	return &u, nil
}
