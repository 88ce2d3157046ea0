package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-directory/internal/api/http/handlers"
	"github.com/spec-kit/user-directory/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Users    *handlers.UsersHandler
	Contacts *handlers.ContactsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	users := app.Group("/users")
	users.Get("", cfg.Users.List)
	users.Post("", cfg.Users.Create)
	users.Patch("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Archive)

	contacts := app.Group("/contacts")
	contacts.Get("", cfg.Contacts.List)
	contacts.Post("", cfg.Contacts.Add)

	app.Use(observability.MarkUnmatched)
}
