package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

const genericInternalMessage = "Ocurrió un error interno, intente nuevamente"

// FromError mengubah error dari service (AppError / *fiber.Error) menjadi response JSON konsisten.
// Error internal di-log lengkap, tapi ke client hanya pesan generik.
func FromError(c *fiber.Ctx, err error) error {
	var ae *AppError
	if errors.As(err, &ae) {
		if ae.Kind == KindInternal {
			log.Printf("[ERROR] %s %s reqid=%v: %v", c.Method(), c.OriginalURL(), c.Locals("reqid"), ae)
			return JsonError(c, fiber.StatusInternalServerError, genericInternalMessage)
		}
		if len(ae.Fields) > 0 {
			return JsonValidationError(c, ae.Message, ae.Fields)
		}
		return JsonError(c, ae.Status(), ae.Message)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= 500 {
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), fe)
			return JsonError(c, fe.Code, genericInternalMessage)
		}
		return JsonError(c, fe.Code, fe.Message)
	}

	log.Printf("[ERROR] %s %s reqid=%v: %v", c.Method(), c.OriginalURL(), c.Locals("reqid"), err)
	return JsonError(c, fiber.StatusInternalServerError, genericInternalMessage)
}
