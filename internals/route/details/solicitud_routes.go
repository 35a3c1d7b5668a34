package details

import (
	"github.com/gofiber/fiber/v2"

	dashController "fichas_backend/internals/features/dashboard/controller"
	dashRoute "fichas_backend/internals/features/dashboard/route"
	dashService "fichas_backend/internals/features/dashboard/service"
	notifController "fichas_backend/internals/features/notificaciones/controller"
	notifRoute "fichas_backend/internals/features/notificaciones/route"
	notifService "fichas_backend/internals/features/notificaciones/service"
	programaController "fichas_backend/internals/features/programas/controller"
	programaRoute "fichas_backend/internals/features/programas/route"
	programaService "fichas_backend/internals/features/programas/service"
	exportController "fichas_backend/internals/features/solicitudes/exports/controller"
	exportRoute "fichas_backend/internals/features/solicitudes/exports/route"
	exportService "fichas_backend/internals/features/solicitudes/exports/service"
	solController "fichas_backend/internals/features/solicitudes/solicitudes/controller"
	solRoute "fichas_backend/internals/features/solicitudes/solicitudes/route"
	solService "fichas_backend/internals/features/solicitudes/solicitudes/service"
)

// SolicitudRoutes: programas, solicitudes, export, dashboard, notificaciones
func SolicitudRoutes(r fiber.Router, d *Deps) {
	programaRoute.ProgramaRoutes(r, programaController.NewProgramaController(programaService.NewProgramaService(d.DB)), d.AuthMW)

	sol := solService.NewSolicitudService(d.DB, d.Dispatcher)
	// export dulu: /solicitudes/export-all tidak boleh ketangkap /solicitudes/:id
	exportRoute.ExportRoutes(r, exportController.NewExportController(exportService.NewExportService(sol, d.Archive)), d.AuthMW)
	solRoute.SolicitudRoutes(r, solController.NewSolicitudController(sol), d.AuthMW)

	dashRoute.DashboardRoutes(r, dashController.NewDashboardController(dashService.NewDashboardService(d.DB)), d.AuthMW)
	notifRoute.NotificacionRoutes(r, notifController.NewNotificacionController(notifService.NewNotificacionService(d.DB)), d.AuthMW)
}
