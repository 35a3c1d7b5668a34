package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	routeDetails "fichas_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, d *routeDetails.Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB)

	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, d)

	log.Println("[INFO] Setting up UserRoutes...")
	routeDetails.UserRoutes(app, d)

	log.Println("[INFO] Setting up SolicitudRoutes...")
	routeDetails.SolicitudRoutes(app, d)
}
