package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/vaibavdk-pieq/agent-management-template-main/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller and the scopes its token
// grants.
type Principal struct {
	ClientID string
	Scopes   map[string]struct{}
}

// HasScope reports whether the principal holds the given scope.
func (p *Principal) HasScope(scope string) bool {
	if p == nil {
		return false
	}
	_, ok := p.Scopes[scope]
	return ok
}

// Middleware validates bearer tokens and loads the caller's scopes. The
// handler layer only declares which scope each operation requires; this
// middleware is the sole enforcement point.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	scopes := make(map[string]struct{}, len(claims.Scopes))
	for _, scope := range claims.Scopes {
		scopes[scope] = struct{}{}
	}
	c.Locals(principalKey, &Principal{ClientID: claims.ClientID, Scopes: scopes})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
