package auth

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type options struct {
	missingUserNotFound bool
}

type Option func(*options)

// MissingUserNotFound: token valid tapi user sudah tidak ada dijawab 404 (dipakai /auth/me).
func MissingUserNotFound() Option {
	return func(o *options) { o.missingUserNotFound = true }
}

// AuthMiddleware memverifikasi bearer token lalu menyimpan Session di locals.
// Role & centro diambil ulang dari DB: server yang otoritatif, bukan isi token.
func AuthMiddleware(db *gorm.DB, tm *helperAuth.TokenManager, bl *helperAuth.Blacklist, opts ...Option) fiber.Handler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return helper.ErrAuth(err.Error())
		}

		blacklisted, err := bl.IsBlacklisted(c.UserContext(), tokenString)
		if err != nil {
			return helper.ErrInternal("cek blacklist", err)
		}
		if blacklisted {
			return helper.ErrAuth("La sesión fue cerrada, inicie sesión nuevamente")
		}

		claims, err := tm.Parse(tokenString)
		if err != nil {
			if errors.Is(err, helperAuth.ErrMissingSecret) {
				return helper.ErrInternal("verifikasi token", err)
			}
			log.Printf("[WARN] token ditolak: %v", err)
			return helper.ErrAuth("Token inválido o expirado")
		}

		sess, err := claims.Session(tokenString)
		if err != nil {
			return helper.ErrAuth("Token inválido o expirado")
		}

		u, err := loadActiveUser(c.UserContext(), db, sess.UserID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if o.missingUserNotFound {
				return helper.ErrNotFound("Usuario no encontrado")
			}
			return helper.ErrAuth("Usuario no encontrado")
		case errors.Is(err, errUserInactive):
			return helper.ErrAuth("Usuario inactivo")
		case err != nil:
			return helper.ErrInternal("cek user aktif", err)
		}

		sess.Email = u.Email
		sess.Role = u.Rol
		sess.CentroID = u.CentroUUID()
		helperAuth.SetSession(c, sess)
		return c.Next()
	}
}
