package details

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/configs"
	centroController "fichas_backend/internals/features/centros/controller"
	centroRoute "fichas_backend/internals/features/centros/route"
	centroService "fichas_backend/internals/features/centros/service"
	instructorController "fichas_backend/internals/features/users/users/controller"
	instructorRoute "fichas_backend/internals/features/users/users/route"
	instructorService "fichas_backend/internals/features/users/users/service"
)

// UserRoutes: instructores + centros (direktori)
func UserRoutes(r fiber.Router, d *Deps) {
	insSvc := instructorService.NewInstructorService(d.DB, configs.InstitutionalEmailDomain)
	instructorRoute.InstructorRoutes(r, instructorController.NewInstructorController(insSvc), d.AuthMW)

	centroRoute.CentroRoutes(r, centroController.NewCentroController(centroService.NewCentroService(d.DB)), d.AuthMW)
}
