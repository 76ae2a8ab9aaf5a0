package routes

import (
	"landreg-portal/internal/adapters/http/handlers"
	"landreg-portal/internal/adapters/http/middleware"
	"landreg-portal/internal/config"
	"landreg-portal/internal/core/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Handlers groups everything the router needs to mount
type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Registration *handlers.RegistrationHandler
	Dashboard    *handlers.DashboardHandler
}

// Setup configures all routes for the application
func Setup(app *fiber.App, h Handlers, validator middleware.TokenValidator, cfg *config.Config) {
	// Health check & root routes
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, h, validator, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(router fiber.Router, h Handlers, validator middleware.TokenValidator, cfg *config.Config) {
	router.Get("/", h.Health.APIInfo)

	// Public helpers used by the intake form
	router.Get("/policy", middleware.PolicyCache(), h.Dashboard.GetPolicy)
	router.Get("/ghana-card/format", h.Registration.FormatGhanaCard)

	auth := middleware.AuthMiddleware(validator)

	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, h.Auth, auth, cfg)

	profileRoutes := router.Group("/profile", auth, middleware.NoStore())
	profileRoutes.Get("/", h.User.GetProfile)
	profileRoutes.Put("/", h.User.UpdateProfile)

	router.Get("/dashboard", auth, middleware.NoStore(), h.Dashboard.GetDashboard)

	registrationRoutes := router.Group("/registrations", auth, middleware.NoStore())
	setupRegistrationRoutes(registrationRoutes, h.Registration)

	adminRoutes := router.Group("/admin/users", auth, middleware.NoStore(),
		middleware.RequirePermission(policy.ActionManageUsers))
	setupUserRoutes(adminRoutes, h.User)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler, cfg *config.Config) {
	limiter := middleware.AuthRateLimiter(cfg.RateLimit.Auth)

	// Public routes
	router.Post("/register", limiter, handler.Register)
	router.Post("/login", limiter, handler.Login)
	router.Post("/forgot-password", limiter, handler.ForgotPassword)
	router.Post("/reset-password", limiter, handler.ResetPassword)

	// Protected routes
	router.Post("/logout", auth, handler.Logout)
	router.Post("/logout-all", auth, handler.LogoutAll)
	router.Get("/me", auth, middleware.NoStore(), handler.Me)
	router.Put("/password", auth, handler.ChangePassword)
}

func setupRegistrationRoutes(router fiber.Router, handler *handlers.RegistrationHandler) {
	router.Get("/", middleware.RequirePermission(policy.ActionViewOwnRegistrations), handler.ListRegistrations)
	router.Post("/", middleware.RequirePermission(policy.ActionCreateRegistration), handler.CreateRegistration)
	router.Get("/:id", handler.GetRegistration)
	router.Patch("/:id/status", middleware.RequirePermission(policy.ActionUpdateRegistrationStatus), handler.UpdateStatus)
	router.Delete("/:id", middleware.RequirePermission(policy.ActionDeleteRegistration), handler.DeleteRegistration)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Post("/", handler.CreateUser)

	// bulk routes must precede /:id
	router.Post("/bulk/active", handler.BulkSetActive)
	router.Post("/bulk/delete", handler.BulkDelete)

	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Patch("/:id/active", handler.SetActive)
	router.Patch("/:id/role", handler.SetRole)
	router.Delete("/:id", handler.DeleteUser)
}
