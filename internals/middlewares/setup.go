package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"fichas_backend/internals/configs"
	"fichas_backend/internals/middlewares/logger"
)

// SetupMiddlewares urutan: recover → request id → log → cors → limiter → timeout → gzip/etag
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestID())
	app.Use(logger.LoggerMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
	app.Use(RequestTimeout(time.Duration(configs.GetEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
}
