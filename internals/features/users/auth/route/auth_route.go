package route

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/features/users/auth/controller"
	rateLimiter "fichas_backend/internals/middlewares"
)

// AuthPublicRoutes: /auth tanpa token
func AuthPublicRoutes(r fiber.Router, ctl *controller.AuthController) {
	g := r.Group("/auth")
	g.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	g.Post("/login-google", rateLimiter.LoginRateLimiter(), ctl.LoginGoogle)
	g.Post("/register", rateLimiter.RegisterRateLimiter(), ctl.Register)
}

// AuthProtectedRoutes: /auth dengan bearer token. meMW menjawab 404 bila user sudah hilang.
func AuthProtectedRoutes(r fiber.Router, ctl *controller.AuthController, authMW, meMW fiber.Handler) {
	g := r.Group("/auth")
	g.Get("/me", meMW, ctl.Me)
	g.Post("/logout", authMW, ctl.Logout)
	g.Post("/change-password", authMW, ctl.ChangePassword)
}
