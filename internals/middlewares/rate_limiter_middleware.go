package middlewares

import (
	"time"

	"fichas_backend/internals/configs"
	helper "fichas_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func limiterDisabled(c *fiber.Ctx) bool {
	return configs.GetEnvBool("RATE_LIMIT_DISABLED")
}

func newIPLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Next:       limiterDisabled,
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter() fiber.Handler {
	return newIPLimiter(100, time.Minute, "Demasiadas solicitudes. Intente de nuevo más tarde.")
}

// Login lebih ketat
func LoginRateLimiter() fiber.Handler {
	return newIPLimiter(5, time.Minute, "Demasiados intentos de inicio de sesión. Espere un momento.")
}

func RegisterRateLimiter() fiber.Handler {
	return newIPLimiter(3, 5*time.Minute, "Demasiados intentos de registro. Espere unos minutos.")
}
