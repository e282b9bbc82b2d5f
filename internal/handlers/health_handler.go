package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	ping func() error // nil when running without a database
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(ping func() error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// RegisterRoutes registers the health route with the Fiber app.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

// HandleHealth answers 200 when the service and its database are reachable.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	status, db := "healthy", "memory"
	code := fiber.StatusOK
	if h.ping != nil {
		db = "connected"
		if err := h.ping(); err != nil {
			slog.WarnContext(c.UserContext(), "database ping failed", "error", err)
			status, db = "unhealthy", "unreachable"
			code = fiber.StatusServiceUnavailable
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
		"db":     db,
	})
}
