package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/vaibavdk-pieq/agent-management-template-main/pkg/util/errorutil"
)

// Authorization scopes. Read is the default requirement for every user
// operation; write overrides it on mutating operations.
const (
	ScopeUsersRead  = "users:read"
	ScopeUsersWrite = "users:write"
)

// RequireScope ensures the authenticated principal holds the given scope.
func RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasScope(scope) {
			return apperrors.NewForbidden("scope " + scope + " required")
		}
		return c.Next()
	}
}
