package dto

import (
	"regexp"
	"strings"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/domain"
	apperrors "github.com/vaibavdk-pieq/agent-management-template-main/pkg/util/errorutil"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// CreateUserRequest carries the payload for POST /api/users.
type CreateUserRequest struct {
	Username  string `json:"userName"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate enforces field constraints before the service runs.
func (r CreateUserRequest) Validate() error {
	details := map[string]any{}
	if l := len(strings.TrimSpace(r.Username)); l < 3 || l > 50 {
		details["userName"] = "must be between 3 and 50 characters"
	}
	if !emailPattern.MatchString(r.Email) {
		details["email"] = "must be a valid email address"
	}
	if err := checkName(r.FirstName); err != "" {
		details["firstName"] = err
	}
	if err := checkName(r.LastName); err != "" {
		details["lastName"] = err
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid user payload", details)
	}
	return nil
}

// UpdateUserRequest carries the payload for PUT /api/users/:id and the
// deactivate endpoint. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Active    *bool   `json:"active"`
}

// Validate checks only the fields present in the request.
func (r UpdateUserRequest) Validate() error {
	details := map[string]any{}
	if r.Email != nil && !emailPattern.MatchString(*r.Email) {
		details["email"] = "must be a valid email address"
	}
	if r.FirstName != nil {
		if err := checkName(*r.FirstName); err != "" {
			details["firstName"] = err
		}
	}
	if r.LastName != nil {
		if err := checkName(*r.LastName); err != "" {
			details["lastName"] = err
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid user payload", details)
	}
	return nil
}

func checkName(v string) string {
	if strings.TrimSpace(v) == "" {
		return "must not be blank"
	}
	if len(v) > 100 {
		return "must be at most 100 characters"
	}
	return ""
}

// UserResponse is the wire representation of a user.
type UserResponse struct {
	GUID      string        `json:"guid"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Active    bool          `json:"active"`
	CreatedAt LocalDateTime `json:"createdAt"`
	UpdatedAt LocalDateTime `json:"updatedAt"`
}

// FromUser maps a domain user onto the wire shape.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		GUID:      u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Active:    u.Active,
		CreatedAt: LocalDateTime(u.CreatedAt),
		UpdatedAt: LocalDateTime(u.UpdatedAt),
	}
}

// ToUser maps a wire user back into the domain, used by the remote client.
func (r UserResponse) ToUser() *domain.User {
	return &domain.User{
		ID:        r.GUID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Active:    r.Active,
		CreatedAt: r.CreatedAt.Time(),
		UpdatedAt: r.UpdatedAt.Time(),
	}
}

// ErrorResponse mirrors the error envelope emitted by the middleware.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the error code and message.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// TokenResponse is returned by the token issuance endpoint.
type TokenResponse struct {
	Token     string        `json:"token"`
	ExpiresAt LocalDateTime `json:"expiresAt"`
}

// TokenRequest carries client credentials for POST /auth/token.
type TokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}
