package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/config"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/domain"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/events"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/repository"
	apperrors "github.com/vaibavdk-pieq/agent-management-template-main/pkg/util/errorutil"
)

// UserService enforces business invariants over the user repository:
// username and email uniqueness, pagination bounds, and existence checks.
// It is stateless and safe for concurrent use.
type UserService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	pagination config.PaginationConfig
	now        func() time.Time
}

// UserCreateInput carries the fields for a create operation.
type UserCreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// UserUpdateInput carries a partial update. Nil fields are not modified.
type UserUpdateInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Active    *bool
}

// NewUserService constructs the service. Pagination bounds come from
// configuration so boundary behavior stays testable.
func NewUserService(users repository.UserRepository, dispatcher events.Dispatcher, pagination config.PaginationConfig) *UserService {
	if pagination.DefaultLimit <= 0 {
		pagination.DefaultLimit = 20
	}
	if pagination.MaxLimit <= 0 {
		pagination.MaxLimit = 100
	}
	return &UserService{
		users:      users,
		dispatcher: dispatcher,
		pagination: pagination,
		now:        time.Now,
	}
}

// CreateUser persists a new user after checking username and email
// uniqueness. The id and both timestamps are generated here.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	if existing, err := s.users.FindByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("User with username '%s' already exists", input.Username),
			map[string]any{"username": input.Username})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	if existing, err := s.users.FindByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, apperrors.NewConflict(
			fmt.Sprintf("User with email '%s' already exists", input.Email),
			map[string]any{"email": input.Email})
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, apperrors.MapError(err)
	}

	now := s.now()
	user := &domain.User{
		ID:        uuid.NewString(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserCreated, saved.ID, events.UserCreatedPayload{
		Username: saved.Username,
		Email:    saved.Email,
	})
	return saved, nil
}

// GetByID fetches a user or reports NotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound(
				fmt.Sprintf("User not found with id: %s", id),
				map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetByUsername fetches a user by username or reports NotFound.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound(
				fmt.Sprintf("User not found with username: %s", username),
				map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns users newest-first. A limit outside [1, max] resets to
// the default, except values above the max which clamp down to it. A
// negative offset resets to zero.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit < 1 {
		limit = s.pagination.DefaultLimit
	} else if limit > s.pagination.MaxLimit {
		limit = s.pagination.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// UpdateUser merges the provided fields over the existing entity and
// persists it. Changing the email to one owned by another user is a
// conflict; setting it to the current value is not.
func (s *UserService) UpdateUser(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		if existing, err := s.users.FindByEmail(ctx, *input.Email); err == nil && existing != nil && existing.ID != user.ID {
			return nil, apperrors.NewConflict(
				fmt.Sprintf("User with email '%s' already exists", *input.Email),
				map[string]any{"email": *input.Email})
		} else if err != nil && err != pgx.ErrNoRows {
			return nil, apperrors.MapError(err)
		}
	}

	wasActive := user.Active
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Active != nil {
		user.Active = *input.Active
	}
	user.UpdatedAt = s.now()

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	eventType := events.EventUserUpdated
	if wasActive && input.Active != nil && !*input.Active {
		eventType = events.EventUserDeactivated
	}
	s.publish(ctx, eventType, saved.ID, events.UserUpdatedPayload{
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Active:    input.Active,
	})
	return saved, nil
}

// DeleteUser removes the row. A delete that affects no rows is reported as
// a failure, so deleting an already-deleted id is an error, not a no-op.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !deleted {
		return apperrors.NewOperationFailed(fmt.Sprintf("Failed to delete user with id: %s", id))
	}

	s.publish(ctx, events.EventUserDeleted, id, nil)
	return nil
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
