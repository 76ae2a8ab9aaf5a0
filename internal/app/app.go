// Package app assembles the portal: stores, services, HTTP routes and the
// background purge job.
package app

import (
	"context"
	"fmt"

	"landreg-portal/internal/adapters/http/handlers"
	"landreg-portal/internal/adapters/http/middleware"
	"landreg-portal/internal/adapters/http/routes"
	"landreg-portal/internal/adapters/persistence/repositories"
	"landreg-portal/internal/config"
	"landreg-portal/internal/core/services"
	"landreg-portal/internal/pkg/clock"
	"landreg-portal/internal/pkg/latency"
	"landreg-portal/internal/pkg/logger"
	"landreg-portal/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Options overrides collaborators that default to production values.
type Options struct {
	Clock  clock.Clock
	IDs    clock.IDGenerator
	Hasher *password.Hasher

	// Latency replaces the simulator built from cfg.Mock; set NoLatency to
	// run without one.
	Latency   *latency.Simulator
	NoLatency bool
}

// App is a fully wired portal instance
type App struct {
	Fiber *fiber.App
	Cron  *services.CronService

	Auth          *services.AuthService
	Users         *services.UserService
	Registrations *services.GuardedRegistrationService

	log *zap.Logger
}

// New wires every component and seeds the stores.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, opts Options) (*App, error) {
	log = logger.OrNop(log)

	clk := opts.Clock
	if clk == nil {
		clk = clock.Real{}
	}
	ids := opts.IDs
	if ids == nil {
		ids = clock.UUIDGenerator{}
	}
	hasher := password.Default()
	if opts.Hasher != nil {
		hasher = *opts.Hasher
	}
	lat := opts.Latency
	if lat == nil && !opts.NoLatency {
		lat = latency.New(cfg.Mock.Latency, cfg.Mock.FailureRate)
	}

	// Stores
	userRepo := repositories.NewUserRepository()
	registrationRepo := repositories.NewRegistrationRepository()
	sessionRepo := repositories.NewSessionRepository()
	recoveryRepo := repositories.NewRecoveryTokenRepository()

	seeder := config.NewSeeder(userRepo, registrationRepo, hasher, ids, clk, cfg.Seed, log)
	if err := seeder.Run(ctx); err != nil {
		return nil, fmt.Errorf("seeding stores: %w", err)
	}

	// Services
	notifier := services.NewNotificationService(cfg.PublicURL, log)
	authService := services.NewAuthService(services.AuthDeps{
		Users:    userRepo,
		Sessions: sessionRepo,
		Recovery: recoveryRepo,
		Hasher:   hasher,
		Clock:    clk,
		IDs:      ids,
		Latency:  lat,
		Notifier: notifier,
		Logger:   log,
	}, cfg)
	userService := services.NewUserService(userRepo, hasher, clk, ids, notifier, log)
	registrationService := services.NewRegistrationService(registrationRepo, clk, ids, lat, notifier, log)
	guarded := services.NewGuardedRegistrationService(registrationService, log)
	dashboardService := services.NewDashboardService(guarded, userRepo)

	cronService, err := services.NewCronService(authService, cfg.Cron.SessionPurgeSchedule, log)
	if err != nil {
		return nil, err
	}

	// HTTP
	app := fiber.New(fiber.Config{
		AppName:      "District Land Registration Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		// Route params are used as store keys and must outlive the request.
		Immutable: true,
	})
	middleware.Setup(app, cfg)
	routes.Setup(app, routes.Handlers{
		Health:       handlers.NewHealthHandler(cfg),
		Auth:         handlers.NewAuthHandler(authService, userService, cfg),
		User:         handlers.NewUserHandler(userService),
		Registration: handlers.NewRegistrationHandler(guarded),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
	}, authService, cfg)

	return &App{
		Fiber:         app,
		Cron:          cronService,
		Auth:          authService,
		Users:         userService,
		Registrations: guarded,
		log:           log,
	}, nil
}

// Start runs the background jobs.
func (a *App) Start() {
	a.Cron.Start()
}

// Shutdown stops accepting requests and waits for background jobs.
func (a *App) Shutdown() error {
	err := a.Fiber.Shutdown()
	a.Cron.Stop()
	if err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	a.log.Info("server stopped gracefully")
	return nil
}
