package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/file-management/internal/api/http/handlers"
	"github.com/spec-kit/file-management/internal/auth"
	"github.com/spec-kit/file-management/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Auth           *handlers.AuthHandler
	Files          *handlers.FilesHandler
	AuthMiddleware *auth.Middleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Post("/accounts", cfg.Accounts.Register)
	api.Post("/auth/login", cfg.Auth.Login)

	files := api.Group("/files", cfg.AuthMiddleware.Handle, auth.RequireAPIAccess())
	files.Get("/", cfg.Files.ListFiles)
	files.Post("/", cfg.Files.CreateFile)
	files.Get("/:id", cfg.Files.GetFile)
	files.Delete("/:id", cfg.Files.DeleteFile)
}
