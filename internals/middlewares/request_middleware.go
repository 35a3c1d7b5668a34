package middlewares

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

const HeaderRequestID = "X-Request-ID"

// RequestID memakai header dari client kalau ada, kalau tidak generate UUID.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(HeaderRequestID)
		if rid == "" || len(rid) > 64 {
			rid = utils.UUID()
		}
		c.Locals("reqid", rid)
		c.Set(HeaderRequestID, rid)

		start := time.Now()
		err := c.Next()
		if d := time.Since(start); d > time.Second {
			log.Printf("[WARN] slow request reqid=%s %s %s took=%s", rid, c.Method(), c.OriginalURL(), d)
		}
		return err
	}
}

// RequestTimeout memasang context ber-deadline yang dipakai service (db.WithContext).
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
