package route

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/features/solicitudes/exports/controller"
)

// ExportRoutes didaftarkan sebelum SolicitudRoutes supaya /export-all tidak tertangkap /:id.
func ExportRoutes(r fiber.Router, ctl *controller.ExportController, authMW fiber.Handler) {
	// auth per-route: group /solicitudes milik SolicitudRoutes sudah memasang authMW sendiri
	g := r.Group("/solicitudes")
	g.Get("/export-all", authMW, ctl.ExportAll)
	g.Get("/:id/export", authMW, ctl.ExportOne)
}
