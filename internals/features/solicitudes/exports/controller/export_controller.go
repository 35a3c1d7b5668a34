package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"fichas_backend/internals/features/solicitudes/exports/service"
	solController "fichas_backend/internals/features/solicitudes/solicitudes/controller"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

const headerArchiveURL = "X-Export-Archive-URL"

type ExportController struct {
	Svc *service.ExportService
}

func NewExportController(svc *service.ExportService) *ExportController {
	return &ExportController{Svc: svc}
}

func send(c *fiber.Ctx, doc *service.Document) error {
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	if doc.ArchiveURL != "" {
		c.Set(headerArchiveURL, doc.ArchiveURL)
	}
	return c.Status(fiber.StatusOK).Send(doc.Data)
}

// GET /solicitudes/:id/export?format=pdf|excel
func (ctl *ExportController) ExportOne(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	format, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.ErrValidation("ID de solicitud inválido")
	}
	doc, err := ctl.Svc.ExportOne(c.UserContext(), sess, id, format)
	if err != nil {
		return err
	}
	return send(c, doc)
}

// GET /solicitudes/export-all?format=pdf|excel&estado=...
func (ctl *ExportController) ExportAll(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	format, err := service.ParseFormat(c.Query("format"))
	if err != nil {
		return err
	}
	f, err := solController.ParseListFilter(c)
	if err != nil {
		return err
	}
	doc, err := ctl.Svc.ExportAll(c.UserContext(), sess, f, format)
	if err != nil {
		return err
	}
	return send(c, doc)
}
