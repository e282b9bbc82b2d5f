package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"

	"restosearch/internal/config"
	"restosearch/internal/database"
	"restosearch/internal/geoapify"
	"restosearch/internal/handlers"
	"restosearch/internal/logging"
	"restosearch/internal/metrics"
	"restosearch/internal/middleware"
	"restosearch/internal/repositories"
	"restosearch/internal/server"
	"restosearch/internal/services"
	"restosearch/pkg/rabbitmq"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// --- Configuration ---
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := config.Load(viper.New())
	if err != nil {
		return err
	}

	logging.Setup(cfg.LogLevel)

	// --- Sentry error tracking ---
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app, cleanup, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.ListenAddr(), "db_driver", cfg.DBDriver)
		listenErr <- app.Listen(cfg.ListenAddr())
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("server stopped")
	return nil
}

// buildApp wires storage, integrations, services and handlers from cfg. The
// returned cleanup releases the database and broker connections.
func buildApp(cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// --- Initialize Repositories ---
	var (
		userRepo   repositories.UserRepository
		searchRepo repositories.SearchRepository
		ping       func() error
	)
	if cfg.DBDriver == config.DriverMemory {
		slog.Warn("using in-memory storage, data is lost on restart")
		userRepo = repositories.NewMockUserRepository()
		searchRepo = repositories.NewMockSearchRepository()
	} else {
		db, err := database.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := database.Close(db); err != nil {
				slog.Error("database close error", "error", err)
			}
		})
		if err := database.Migrate(db); err != nil {
			cleanup()
			return nil, nil, err
		}
		userRepo = repositories.NewGORMUserRepository(db)
		searchRepo = repositories.NewGORMSearchRepository(db)
		ping = database.Pinger(db)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.SearchEventsQueue})
		if err != nil {
			// Search events are best effort; the API keeps serving without them.
			slog.Error("rabbitmq unavailable, search events disabled", "error", err)
		} else {
			events = mqClient
			closers = append(closers, func() {
				if err := mqClient.Close(); err != nil {
					slog.Error("rabbitmq close error", "error", err)
				}
			})
		}
	}

	m := metrics.New("restosearch")

	// --- Initialize Services ---
	tokens := services.NewTokenService(cfg)
	authService := services.NewAuthService(userRepo, tokens, cfg.BcryptCost, m)
	places := geoapify.NewClient(cfg, m)
	searchService := services.NewSearchService(
		services.NewHistoryService(searchRepo),
		services.NewLocationResolver(places),
		places,
		events,
		m,
	)

	// --- Initialize Handlers ---
	guard := middleware.NewAccessGuard(tokens, userRepo)
	app := server.New(cfg, server.Handlers{
		Auth:   handlers.NewAuthHandler(authService, guard),
		Search: handlers.NewSearchHandler(searchService, guard),
		Health: handlers.NewHealthHandler(ping),
	}, m)

	return app, cleanup, nil
}
