package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Clients        *handlers.ClientsHandler
	Notes          *handlers.NotesHandler
	Debug          *handlers.DebugHandler
	AuthMiddleware *auth.AuthMiddleware
	Logger         *zap.Logger
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	requireAdmin := auth.RequireRole(cfg.Logger, domain.RoleAdmin)

	api := app.Group("/api")
	api.Post("/register", cfg.Auth.Register)
	api.Post("/login", cfg.Auth.Login)
	api.Get("/profile", cfg.AuthMiddleware.Handle, cfg.Auth.Profile)

	clients := api.Group("/clients")
	clients.Get("/stats", cfg.AuthMiddleware.Optional, cfg.Clients.Stats)
	clients.Get("/notes-count", cfg.AuthMiddleware.Optional, cfg.Clients.NoteCounts)
	clients.Get("/", cfg.AuthMiddleware.Optional, cfg.Clients.List)
	clients.Post("/", cfg.AuthMiddleware.Handle, cfg.Clients.Create)
	clients.Delete("/:id", cfg.AuthMiddleware.Handle, requireAdmin, cfg.Clients.Delete)
	clients.Get("/:id/notes", cfg.AuthMiddleware.Handle, cfg.Notes.List)
	clients.Post("/:id/notes", cfg.AuthMiddleware.Handle, cfg.Notes.Create)

	api.Delete("/notes/:id", cfg.AuthMiddleware.Handle, requireAdmin, cfg.Notes.Delete)

	// Diagnostic surface, registered only outside production.
	if cfg.Debug != nil {
		debug := api.Group("/debug")
		debug.Get("/token", cfg.Debug.TokenInfo)
		debug.Get("/metrics", cfg.Debug.Metrics)
		debug.Get("/activity", cfg.Debug.Activity)
	}
}
