package details

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/configs"
	authController "fichas_backend/internals/features/users/auth/controller"
	authRoute "fichas_backend/internals/features/users/auth/route"
	authService "fichas_backend/internals/features/users/auth/service"
	authMiddleware "fichas_backend/internals/middlewares/auth"
)

func AuthRoutes(r fiber.Router, d *Deps) {
	svc := &authService.AuthService{
		DB:          d.DB,
		Tokens:      d.Tokens,
		Blacklist:   d.Blacklist,
		EmailDomain: configs.InstitutionalEmailDomain,
	}
	if configs.GoogleClientID != "" {
		svc.Google = authService.NewGoogleVerifier(configs.GoogleClientID)
	}
	ctl := authController.NewAuthController(svc)

	authRoute.AuthPublicRoutes(r, ctl)
	meMW := authMiddleware.AuthMiddleware(d.DB, d.Tokens, d.Blacklist, authMiddleware.MissingUserNotFound())
	authRoute.AuthProtectedRoutes(r, ctl, d.AuthMW, meMW)
}
