package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/api/dto"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/service"
	apperrors "github.com/vaibavdk-pieq/agent-management-template-main/pkg/util/errorutil"
)

// AuthHandler exposes the token issuance endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// IssueToken handles POST /auth/token.
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		return apperrors.NewValidationError("clientId and clientSecret required", nil)
	}

	token, expiresAt, err := h.auth.IssueToken(req.ClientID, req.ClientSecret)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{Token: token, ExpiresAt: dto.LocalDateTime(expiresAt)})
}
