package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskline/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports whether the storage backend answers within two seconds.
func Health(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.ErrorLogger.Error("Health check failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "unavailable",
				"success": false,
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
