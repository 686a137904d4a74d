package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bookstore-service/internal/api/http/handlers"
	"github.com/spec-kit/bookstore-service/internal/auth"
	"github.com/spec-kit/bookstore-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Authors *handlers.AuthorsHandler
	Books   *handlers.BooksHandler
	Guard   *auth.Guard
}

// RegisterRoutes wires HTTP routes. Every route declares its access policy
// here; the guard evaluates them uniformly.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	guard := cfg.Guard

	app.Get("/health/live", guard.Require(auth.Public()), cfg.Health.Live)
	app.Get("/health/ready", guard.Require(auth.Public()), cfg.Health.Ready)

	app.Post("/users", guard.Require(auth.Public()), cfg.Auth.Login)
	app.Post("/users/register", guard.Require(auth.Public()), cfg.Auth.Register)
	app.Get("/users/me", guard.Require(auth.Authenticated()), cfg.Auth.Me)

	api := app.Group("/api")

	adminOnly := guard.Require(auth.RequireRoles(domain.RoleAdministrator))
	authors := api.Group("/authors")
	authors.Get("/", guard.Require(auth.Public()), cfg.Authors.List)
	authors.Get("/:id", guard.Require(auth.Public()), cfg.Authors.Get)
	authors.Post("/", adminOnly, cfg.Authors.Create)
	authors.Put("/:id", adminOnly, cfg.Authors.Update)
	authors.Delete("/:id", adminOnly, cfg.Authors.Delete)

	customerOnly := guard.Require(auth.RequireRoles(domain.RoleCustomer))
	books := api.Group("/books")
	books.Get("/", customerOnly, cfg.Books.List)
	books.Get("/:id", customerOnly, cfg.Books.Get)
	books.Post("/", customerOnly, cfg.Books.Create)
	books.Put("/:id", customerOnly, cfg.Books.Update)
	books.Delete("/:id", customerOnly, cfg.Books.Delete)
}
