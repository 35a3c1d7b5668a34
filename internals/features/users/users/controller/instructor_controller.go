package controller

import (
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	solModel "fichas_backend/internals/features/solicitudes/solicitudes/model"
	"fichas_backend/internals/features/users/users/dto"
	"fichas_backend/internals/features/users/users/service"
	helper "fichas_backend/internals/helpers"
	helperAuth "fichas_backend/internals/helpers/auth"
)

const maxImportSize = 5 * 1024 * 1024

type InstructorController struct {
	Svc *service.InstructorService
}

func NewInstructorController(svc *service.InstructorService) *InstructorController {
	return &InstructorController{Svc: svc}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, helper.ErrValidation("ID de instructor inválido")
	}
	return id, nil
}

// GET /instructores?q=&especialidad=&activo=&centro_id=&page=&per_page=
func (ctl *InstructorController) List(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	paging := helper.ResolvePaging(c, 20, 100)
	q := dto.InstructorListQuery{
		Q:            c.Query("q"),
		Especialidad: c.Query("especialidad"),
		Page:         paging.Page,
		PerPage:      paging.PerPage,
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
	out := make([]dto.InstructorResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], stats[rows[i].ID]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /instructores/:id
func (ctl *InstructorController) Get(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	u, stats, err := ctl.Svc.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", dto.FromModel(u, stats))
}

// POST /instructores
func (ctl *InstructorController) Create(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	var req dto.CreateInstructorRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	u, err := ctl.Svc.Create(c.UserContext(), sess, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Instructor creado correctamente", dto.FromModel(u, solModel.SolicitudStats{}))
}

// PUT /instructores/:id
func (ctl *InstructorController) Update(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateInstructorRequest
	if err := helper.DecodeStrict(c.Body(), &req); err != nil {
		return err
	}
	if _, err := ctl.Svc.Update(c.UserContext(), sess, id, req); err != nil {
		return err
	}
	u, stats, err := ctl.Svc.Get(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Instructor actualizado correctamente", dto.FromModel(u, stats))
}

// DELETE /instructores/:id
func (ctl *InstructorController) Delete(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	soft, err := ctl.Svc.Delete(c.UserContext(), sess, id)
	if err != nil {
		return err
	}
	msg := "Instructor eliminado correctamente"
	if soft {
		msg = "Instructor desactivado (tiene solicitudes registradas)"
	}
	return helper.JsonDeleted(c, msg, fiber.Map{"id": id, "soft_delete": soft})
}

// POST /instructores/import (multipart, field "file")
func (ctl *InstructorController) Import(c *fiber.Ctx) error {
	sess, err := helperAuth.GetSession(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return &helper.AppError{
			Kind:    helper.KindValidation,
			Message: "Debe adjuntar un archivo Excel (.xlsx) en el campo file",
			Fields:  map[string][]string{"file": {"required"}},
		}
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		return helper.ErrValidation("Solo se aceptan archivos .xlsx")
	}
	if fh.Size > maxImportSize {
		return helper.ErrValidation("El archivo supera el tamaño máximo de 5 MB")
	}
	file, err := fh.Open()
	if err != nil {
		return helper.ErrInternal("buka file import", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("[WARN] tutup file import: %v", err)
		}
	}()

	res, err := ctl.Svc.Import(c.UserContext(), sess, file)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Importación finalizada", res)
}
