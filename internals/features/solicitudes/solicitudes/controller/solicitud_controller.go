package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fichas_backend/internals/features/solicitudes/solicitudes/dto"
	"fichas_backend/internals/features/solicitudes/solicitudes/model"
	"fichas_backend/internals/features/solicitudes/solicitudes/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

type SolicitudController struct {
	Svc *service.SolicitudService
}

func NewSolicitudController(svc *service.SolicitudService) *SolicitudController {
	return &SolicitudController{Svc: svc}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, helper.ErrValidation("ID de solicitud inválido")
	}
	return id, nil
}

// decodeOptional: body kosong dianggap {}.
func decodeOptional(c *fiber.Ctx, dst any) error {
	if len(strings.TrimSpace(string(c.Body()))) == 0 {
		return nil
	}
	return helper.DecodeStrict(c.Body(), dst)
}

// ParseListFilter membaca query filter solicitudes; dipakai juga oleh export.
func ParseListFilter(c *fiber.Ctx) (dto.ListFilter, error) {
	var f dto.ListFilter
	bad := map[string][]string{}

	if v := strings.ToUpper(strings.TrimSpace(c.Query("estado"))); v != "" {
		e := model.Estado(v)
		if !e.Valid() {
			bad["estado"] = append(bad["estado"], "oneof")
		}
		f.Estado = e
	}
	parseUUID := func(key string, dst *uuid.UUID) {
		v := strings.TrimSpace(c.Query(key))
		if v == "" {
			return
		}
		id, err := uuid.Parse(v)
		if err != nil {
			bad[key] = append(bad[key], "uuid")
			return
		}
		*dst = id
	}
	parseUUID("programa_id", &f.ProgramaID)
	parseUUID("instructor_id", &f.InstructorID)
	parseUUID("centro_id", &f.CentroID)

	if v := strings.TrimSpace(c.Query("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 2000 || y > 9999 {
			bad["year"] = append(bad["year"], "year")
		}
		f.Year = y
	}
	f.Q = strings.TrimSpace(c.Query("q"))

	if len(bad) > 0 {
		return f, &helper.AppError{Kind: helper.KindValidation, Message: "Filtros inválidos", Fields: bad}
	}
	return f, nil
}

// GET /solicitudes
func (ctl *SolicitudController) List(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	f, err := ParseListFilter(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)
	f.Page, f.PerPage = paging.Page, paging.PerPage

	rows, total, err := ctl.Svc.List(c.UserContext(), sess, f)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /solicitudes/:id
func (ctl *SolicitudController) Get(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	m, err := ctl.Svc.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// POST /solicitudes
func (ctl *SolicitudController) Create(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var in dto.SolicitudInput
	if err := helper.DecodeStrict(c.Body(), &in); err != nil {
		return err
	}
	m, err := ctl.Svc.Create(c.UserContext(), sess, &in)
	if err != nil {
		return err
	}
	msg := "Solicitud enviada correctamente"
	if m.Estado == model.EstadoBorrador {
		msg = "Borrador guardado correctamente"
	}
	return helper.JsonCreated(c, msg, dto.FromModel(m))
}

// PUT /solicitudes/:id
func (ctl *SolicitudController) Update(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in dto.SolicitudInput
	if err := helper.DecodeStrict(c.Body(), &in); err != nil {
		return err
	}
	m, err := ctl.Svc.Edit(c.UserContext(), sess, id, &in)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Solicitud actualizada correctamente", dto.FromModel(m))
}

// POST /solicitudes/:id/review
func (ctl *SolicitudController) StartReview(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	m, err := ctl.Svc.StartReview(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Solicitud en revisión", dto.FromModel(m))
}

// POST /solicitudes/:id/approve
func (ctl *SolicitudController) Approve(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in dto.ApproveInput
	if err := decodeOptional(c, &in); err != nil {
		return err
	}
	m, err := ctl.Svc.Approve(c.UserContext(), sess, id, in)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Solicitud aprobada correctamente", dto.FromModel(m))
}

// POST /solicitudes/:id/reject
func (ctl *SolicitudController) Reject(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var in dto.RejectInput
	if err := decodeOptional(c, &in); err != nil {
		return err
	}
	m, err := ctl.Svc.Reject(c.UserContext(), sess, id, in.Comentarios)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Solicitud rechazada", dto.FromModel(m))
}
