package middlewares

import (
	helper "fichas_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler fiber global: semua error (AppError, *fiber.Error, panic) jadi JSON seragam.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return helper.FromError(c, err)
}
