package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fichas_backend/internals/features/centros/dto"
	"fichas_backend/internals/features/centros/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type CentroController struct {
	Svc *service.CentroService
}

func NewCentroController(svc *service.CentroService) *CentroController {
	return &CentroController{Svc: svc}
}

// GET /centros?q=
func (ctl *CentroController) List(c *fiber.Ctx) error {
	rows, err := ctl.Svc.List(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModels(rows))
}

// POST /centros
func (ctl *CentroController) Create(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var req dto.CentroRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), sess, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Centro creado correctamente", dto.FromModel(m))
}

// PUT /centros/:id
func (ctl *CentroController) Update(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.ErrValidation("ID de centro inválido")
	}
	var req dto.CentroRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Update(c.UserContext(), sess, id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Centro actualizado correctamente", dto.FromModel(m))
}
