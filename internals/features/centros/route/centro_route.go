package route

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/constants"
	"fichas_backend/internals/features/centros/controller"
	authMiddleware "fichas_backend/internals/middlewares/auth"
)

func CentroRoutes(r fiber.Router, ctl *controller.CentroController, authMW fiber.Handler) {
	g := r.Group("/centros", authMW)
	g.Get("/", ctl.List)

	admin := authMiddleware.OnlyRoles(constants.RoleErrorAdmin("la gestión de centros"), constants.AdminOnly...)
	g.Post("/", admin, ctl.Create)
	g.Put("/:id", admin, ctl.Update)
}
