package route

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/constants"
	"fichas_backend/internals/features/users/users/controller"
	authMiddleware "fichas_backend/internals/middlewares/auth"
)

// InstructorRoutes: baca untuk semua role (scoped), tulis untuk coordinador/admin.
// PUT juga terbuka untuk instructor (hanya dirinya, dicek di service).
func InstructorRoutes(r fiber.Router, ctl *controller.InstructorController, authMW fiber.Handler) {
	g := r.Group("/instructores", authMW)

	reviewer := authMiddleware.OnlyRoles(constants.RoleErrorReviewer("la gestión de instructores"), constants.ReviewerRoles...)

	g.Get("/", ctl.List)
	g.Post("/", reviewer, ctl.Create)
	g.Post("/import", reviewer, ctl.Import)
	g.Get("/:id", ctl.Get)
	g.Put("/:id", ctl.Update)
	g.Delete("/:id", reviewer, ctl.Delete)
}
