package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fichas_backend/internals/features/notificaciones/dto"
	"fichas_backend/internals/features/notificaciones/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type NotificacionController struct {
	Svc *service.NotificacionService
}

func NewNotificacionController(svc *service.NotificacionService) *NotificacionController {
	return &NotificacionController{Svc: svc}
}

// GET /notificaciones?page=&per_page=&leida=
func (ctl *NotificacionController) List(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)
	q := dto.ListQuery{Page: paging.Page, PerPage: paging.PerPage}
	if raw := strings.TrimSpace(c.Query("leida")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return helper.ErrValidation("El filtro leida debe ser true o false")
		}
		q.Leida = &b
	}

	rows, total, unread, err := ctl.Svc.ListByRecipient(c.UserContext(), sess, q)
	if err != nil {
		return err
	}
	return helper.JsonListEx(c, "ok",
		dto.FromModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage),
		fiber.Map{"no_leidas": unread},
	)
}

// GET /notificaciones/no-leidas/count
func (ctl *NotificacionController) UnreadCount(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	n, err := ctl.Svc.UnreadCount(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", fiber.Map{"count": n})
}

// PUT /notificaciones/:id/marcar-leida
func (ctl *NotificacionController) MarkRead(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.ErrValidation("ID de notificación inválido")
	}
	n, err := ctl.Svc.MarkRead(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Notificación marcada como leída", dto.FromModel(n))
}

// PUT /notificaciones/marcar-todas-leidas
func (ctl *NotificacionController) MarkAllRead(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	n, err := ctl.Svc.MarkAllRead(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Notificaciones marcadas como leídas", fiber.Map{"actualizadas": n})
}

// POST /notificaciones (ADMIN)
func (ctl *NotificacionController) CreateSistema(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var req dto.SistemaRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	n, err := ctl.Svc.CreateSistema(c.UserContext(), sess, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Aviso enviado", dto.FromModel(n))
}
