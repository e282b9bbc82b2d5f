package server

import (
	"errors"
	"log/slog"
	"strings"

	"restosearch/internal/config"
	"restosearch/internal/handlers"
	"restosearch/internal/metrics"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Handlers are the route groups mounted by New.
type Handlers struct {
	Auth   *handlers.AuthHandler
	Search *handlers.SearchHandler
	Health *handlers.HealthHandler
}

// New builds the Fiber app with the global middleware and all routes.
// Domain routes live under /api; /health and /metrics stay at the root.
func New(cfg *config.Config, h Handlers, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "restosearch",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: ErrorHandler,
	})

	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,OPTIONS",
	}))

	h.Health.RegisterRoutes(app)
	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	api := app.Group("/api")
	h.Auth.RegisterRoutes(api)
	h.Search.RegisterRoutes(api)

	return app
}

// ErrorHandler renders errors returned by handlers. Only *fiber.Error
// messages reach the client; anything else becomes a generic 500 that is
// logged and reported.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "server error",
			"method", c.Method(),
			"path", c.Path(),
			"status", code,
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

func corsOrigins(origins string) string {
	origins = strings.TrimSpace(origins)
	if origins == "" {
		return "*"
	}
	return origins
}
