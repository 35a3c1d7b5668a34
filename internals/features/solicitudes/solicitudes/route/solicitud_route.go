package route

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/constants"
	"fichas_backend/internals/features/solicitudes/solicitudes/controller"
	authMiddleware "fichas_backend/internals/middlewares/auth"
)

// SolicitudRoutes: semua butuh token; review/approve/reject hanya reviewer.
// Route /solicitudes/export-all harus didaftarkan sebelum ini (lihat ExportRoutes).
func SolicitudRoutes(r fiber.Router, ctl *controller.SolicitudController, authMW fiber.Handler) {
	g := r.Group("/solicitudes", authMW)

	g.Get("/", ctl.List)
	g.Post("/", authMiddleware.OnlyRoles(constants.RoleErrorInstructor("crear solicitudes"), constants.RoleInstructor), ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Put("/:id", authMiddleware.OnlyRoles(constants.RoleErrorInstructor("editar solicitudes"), constants.RoleInstructor), ctl.Update)

	reviewer := authMiddleware.OnlyRoles(constants.RoleErrorReviewer("la revisión de solicitudes"), constants.ReviewerRoles...)
	g.Post("/:id/review", reviewer, ctl.StartReview)
	g.Post("/:id/approve", reviewer, ctl.Approve)
	g.Post("/:id/reject", reviewer, ctl.Reject)
}
