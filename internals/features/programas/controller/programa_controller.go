package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fichas_backend/internals/features/programas/dto"
	"fichas_backend/internals/features/programas/service"
	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type ProgramaController struct {
	Svc *service.ProgramaService
}

func NewProgramaController(svc *service.ProgramaService) *ProgramaController {
	return &ProgramaController{Svc: svc}
}

// GET /programas?q=&modalidad=&activo=&centro_id=&page=&per_page=
func (ctl *ProgramaController) List(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)
	q := dto.ProgramaListQuery{
		Q:         c.Query("q"),
		Modalidad: strings.TrimSpace(c.Query("modalidad")),
		Page:      paging.Page,
		PerPage:   paging.PerPage,
	}
	if raw := strings.TrimSpace(c.Query("activo")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return helper.ErrValidation("El filtro activo debe ser true o false")
		}
		q.Activo = &b
	}
	if raw := strings.TrimSpace(c.Query("centro_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.ErrValidation("centro_id inválido")
		}
		q.CentroID = id
	}

	rows, stats, total, err := ctl.Svc.List(c.UserContext(), sess, q)
	if err != nil {
		return err
	}
	out := make([]dto.ProgramaResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], stats[rows[i].ID]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /programas/:id
func (ctl *ProgramaController) Get(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.ErrValidation("ID de programa inválido")
	}
	m, stats, err := ctl.Svc.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m, stats))
}

// POST /programas
func (ctl *ProgramaController) Create(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var req dto.ProgramaRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), sess, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Programa creado correctamente", dto.FromModel(m, solModel.SolicitudStats{}))
}

// PUT /programas/:id
func (ctl *ProgramaController) Update(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.ErrValidation("ID de programa inválido")
	}
	var req dto.ProgramaRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	if _, err := ctl.Svc.Update(c.UserContext(), sess, id, req); err != nil {
		return err
	}
	m, stats, err := ctl.Svc.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Programa actualizado correctamente", dto.FromModel(m, stats))
}
