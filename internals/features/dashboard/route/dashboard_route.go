package route

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/features/dashboard/controller"
)

func DashboardRoutes(r fiber.Router, ctl *controller.DashboardController, authMW fiber.Handler) {
	g := r.Group("/dashboard", authMW)
	g.Get("/stats", ctl.Stats)
}
