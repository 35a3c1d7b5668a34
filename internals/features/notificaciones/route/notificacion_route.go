package route

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/constants"
	"fichas_backend/internals/features/notificaciones/controller"
	authMiddleware "fichas_backend/internals/middlewares/auth"
)

func NotificacionRoutes(r fiber.Router, ctl *controller.NotificacionController, authMW fiber.Handler) {
	g := r.Group("/notificaciones", authMW)
	g.Get("/", ctl.List)
	g.Get("/no-leidas/count", ctl.UnreadCount)
	g.Put("/marcar-todas-leidas", ctl.MarkAllRead)
	g.Put("/:id/marcar-leida", ctl.MarkRead)
	g.Post("/", authMiddleware.OnlyRoles(constants.RoleErrorAdmin("avisos del sistema"), constants.RoleAdmin), ctl.CreateSistema)
}
