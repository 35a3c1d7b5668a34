package controller

import (
	"github.com/gofiber/fiber/v2"

	"fichas_backend/internals/features/dashboard/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type DashboardController struct {
	Svc *service.DashboardService
}

func NewDashboardController(svc *service.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

// GET /dashboard/stats
func (ctl *DashboardController) Stats(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	st, err := ctl.Svc.Stats(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", st)
}
