package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"adaptagent/internal/http/middleware"
)

// Pinger is a dependency that can report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck godoc
// @Summary      Readiness probe
// @Description  Pings PostgreSQL (required) and Redis (reported only).
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  errorPayload
// @Router       /health [get]
func HealthCheck(db *sql.DB, cache Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.Locals(middleware.ErrorLocalKey, err.Error())
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}

		body := fiber.Map{"status": "healthy", "database": "ok"}
		if cache != nil {
			body["cache"] = "ok"
			if err := cache.Ping(ctx); err != nil {
				body["cache"] = "unavailable"
			}
		}
		return c.Status(fiber.StatusOK).JSON(body)
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
