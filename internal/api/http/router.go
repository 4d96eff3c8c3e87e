package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/historisense/portal/internal/api/http/handlers"
	"github.com/historisense/portal/internal/domain"
	"github.com/historisense/portal/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Auth        *handlers.AuthHandler
	Screens     *handlers.ScreensHandler
	Testimonies *handlers.TestimoniesHandler
	Session     *session.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/logout", cfg.Auth.Logout)

	app.Get("/", cfg.Screens.Root)
	app.Get("/login", cfg.Screens.Login)
	app.Get("/museum-home", cfg.Session.RequireScreen(domain.RoleMuseum), cfg.Screens.MuseumHome)
	app.Get("/user-home", cfg.Session.RequireScreen(domain.RoleIndividual), cfg.Screens.UserHome)

	app.Get("/api/session", cfg.Screens.Session)

	api := app.Group("/api/testimonies")
	api.Post("/analyze", cfg.Session.RequireAPI(""), cfg.Testimonies.Analyze)
	api.Get("/", cfg.Session.RequireAPI(domain.RoleMuseum), cfg.Testimonies.List)
	api.Get("/:filename", cfg.Session.RequireAPI(domain.RoleMuseum), cfg.Testimonies.Get)
	api.Delete("/:filename", cfg.Session.RequireAPI(domain.RoleMuseum), cfg.Testimonies.Delete)
}
