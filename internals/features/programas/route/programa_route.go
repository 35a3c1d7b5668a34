package route

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/constants"
	"fichas_backend/internals/features/programas/controller"
	authMiddleware "fichas_backend/internals/middlewares/auth"
)

func ProgramaRoutes(r fiber.Router, ctl *controller.ProgramaController, authMW fiber.Handler) {
	g := r.Group("/programas", authMW)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)

	reviewer := authMiddleware.OnlyRoles(constants.RoleErrorReviewer("la gestión de programas"), constants.ReviewerRoles...)
	g.Post("/", reviewer, ctl.Create)
	g.Put("/:id", reviewer, ctl.Update)
}
