package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/media-library-service/internal/api/http/handlers"
	"github.com/spec-kit/media-library-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Signup         *handlers.SignupHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Signup.Signup)
	authGroup.Get("/signup", cfg.Signup.Availability)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/session", cfg.AuthMiddleware.Handle, cfg.Auth.Session)

	catalog := app.Group("/catalog")
	catalog.Get("/categories", cfg.Catalog.Categories)
	catalog.Get("/media", cfg.Catalog.ListMedia)
	catalog.Get("/media/recent", cfg.Catalog.RecentMedia)
	catalog.Get("/media/:id", cfg.Catalog.MediaByID)
	catalog.Get("/settings", cfg.Catalog.SiteSettings)

	studio := app.Group("/studio", cfg.AuthMiddleware.Handle)
	studio.Get("/media", cfg.Catalog.StudioMedia)
}
