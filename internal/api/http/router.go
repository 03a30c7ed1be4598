package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/api/http/handlers"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Auth           *handlers.AuthHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Every user operation requires the read
// scope; mutating operations require the write scope instead. When no auth
// middleware is configured the routes are open, which is the template's
// local-development mode.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	if cfg.Auth != nil {
		app.Post("/auth/token", cfg.Auth.IssueToken)
	}

	users := app.Group("/api/users")
	if cfg.AuthMiddleware != nil {
		users.Use(cfg.AuthMiddleware.Handle)

		read := auth.RequireScope(auth.ScopeUsersRead)
		write := auth.RequireScope(auth.ScopeUsersWrite)

		users.Get("/all", read, cfg.Users.ListUsers)
		users.Get("/userName/:username", read, cfg.Users.GetUserByUsername)
		users.Get("/:id", read, cfg.Users.GetUser)
		users.Post("/", write, cfg.Users.CreateUser)
		users.Put("/:id", write, cfg.Users.UpdateUser)
		users.Post("/:id/deactivate", write, cfg.Users.DeactivateUser)
		users.Delete("/:id", write, cfg.Users.DeleteUser)
		return
	}

	users.Get("/all", cfg.Users.ListUsers)
	users.Get("/userName/:username", cfg.Users.GetUserByUsername)
	users.Get("/:id", cfg.Users.GetUser)
	users.Post("/", cfg.Users.CreateUser)
	users.Put("/:id", cfg.Users.UpdateUser)
	users.Post("/:id/deactivate", cfg.Users.DeactivateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)
}
