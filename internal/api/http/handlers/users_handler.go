package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/api/dto"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/service"
	apperrors "github.com/vaibavdk-pieq/agent-management-template-main/pkg/util/errorutil"
)

// UsersHandler exposes the user CRUD endpoints. It holds no state beyond
// the service reference and does nothing besides parameter parsing and
// status-code selection.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// ListUsers handles GET /api/users/all.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	users, err := h.users.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.FromUser(&users[i]))
	}
	return c.JSON(items)
}

// GetUser handles GET /api/users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}

// GetUserByUsername handles GET /api/users/userName/:username.
func (h *UsersHandler) GetUserByUsername(c *fiber.Ctx) error {
	user, err := h.users.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}

// CreateUser handles POST /api/users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := h.users.CreateUser(c.UserContext(), service.UserCreateInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromUser(user))
}

// UpdateUser handles PUT /api/users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	return h.applyUpdate(c)
}

// DeactivateUser handles POST /api/users/:id/deactivate. The endpoint is a
// plain update under a different route: the caller must pass active=false
// in the body, it is not forced here.
func (h *UsersHandler) DeactivateUser(c *fiber.Ctx) error {
	return h.applyUpdate(c)
}

func (h *UsersHandler) applyUpdate(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	user, err := h.users.UpdateUser(c.UserContext(), id, service.UserUpdateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Active:    req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}

// DeleteUser handles DELETE /api/users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseUserID(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// parseUserID parses the :id path parameter. A malformed value is always a
// client error, never an internal one.
func parseUserID(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewValidationError(fmt.Sprintf("Invalid UUID format: %s", raw), nil)
	}
	return parsed.String(), nil
}
