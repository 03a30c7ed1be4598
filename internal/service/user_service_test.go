package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/config"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/domain"
	"github.com/vaibavdk-pieq/agent-management-template-main/internal/events"
	apperrors "github.com/vaibavdk-pieq/agent-management-template-main/pkg/util/errorutil"
)

// fakeUserRepository is an in-memory stand-in for the Postgres repository.
type fakeUserRepository struct {
	users      map[string]*domain.User
	saveCount  int
	lastLimit  int
	lastOffset int
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.saveCount++
	copied := *user
	r.users[user.ID] = &copied
	result := copied
	return &result, nil
}

func (r *fakeUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func (r *fakeUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	r.lastLimit = limit
	r.lastOffset = offset

	all := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		all = append(all, *user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func newTestService(repo *fakeUserRepository) *UserService {
	return NewUserService(repo, events.NewInMemoryDispatcher(), config.PaginationConfig{DefaultLimit: 20, MaxLimit: 100})
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	return apperrors.ToDomainError(err).Code
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id, timestamps and active", func(t *testing.T) {
		repo := newFakeUserRepository()
		svc := newTestService(repo)

		user, err := svc.CreateUser(ctx, UserCreateInput{
			Username: "alice01", Email: "a@x.com", FirstName: "Alice", LastName: "A",
		})
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		if user.ID == "" {
			t.Error("expected generated id")
		}
		if !user.Active {
			t.Error("expected active=true")
		}
		if !user.CreatedAt.Equal(user.UpdatedAt) {
			t.Errorf("expected createdAt == updatedAt, got %v vs %v", user.CreatedAt, user.UpdatedAt)
		}
	})

	t.Run("duplicate username is a conflict and writes nothing", func(t *testing.T) {
		repo := newFakeUserRepository()
		svc := newTestService(repo)

		if _, err := svc.CreateUser(ctx, UserCreateInput{Username: "alice01", Email: "a@x.com", FirstName: "Alice", LastName: "A"}); err != nil {
			t.Fatalf("first create: %v", err)
		}
		savesBefore := repo.saveCount

		_, err := svc.CreateUser(ctx, UserCreateInput{Username: "alice01", Email: "other@x.com", FirstName: "Al", LastName: "B"})
		if code := errCode(t, err); code != "CONFLICT" {
			t.Errorf("expected CONFLICT, got %s", code)
		}
		if !strings.Contains(err.Error(), "alice01") {
			t.Errorf("conflict message should name the username, got %q", err.Error())
		}
		if repo.saveCount != savesBefore {
			t.Error("conflicting create must not write")
		}
	})

	t.Run("duplicate email is a conflict and writes nothing", func(t *testing.T) {
		repo := newFakeUserRepository()
		svc := newTestService(repo)

		if _, err := svc.CreateUser(ctx, UserCreateInput{Username: "alice01", Email: "a@x.com", FirstName: "Alice", LastName: "A"}); err != nil {
			t.Fatalf("first create: %v", err)
		}
		savesBefore := repo.saveCount

		_, err := svc.CreateUser(ctx, UserCreateInput{Username: "bob01", Email: "a@x.com", FirstName: "Bob", LastName: "B"})
		if code := errCode(t, err); code != "CONFLICT" {
			t.Errorf("expected CONFLICT, got %s", code)
		}
		if !strings.Contains(err.Error(), "a@x.com") {
			t.Errorf("conflict message should name the email, got %q", err.Error())
		}
		if repo.saveCount != savesBefore {
			t.Error("conflicting create must not write")
		}
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	svc := newTestService(repo)

	created, err := svc.CreateUser(ctx, UserCreateInput{Username: "alice01", Email: "a@x.com", FirstName: "Alice", LastName: "A"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Username != "alice01" {
		t.Errorf("unexpected username %q", got.Username)
	}

	_, err = svc.GetByID(ctx, "8f14e45f-ea9e-4f72-9a1d-000000000000")
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
}

func TestGetByUsername(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	svc := newTestService(repo)

	if _, err := svc.CreateUser(ctx, UserCreateInput{Username: "alice01", Email: "a@x.com", FirstName: "Alice", LastName: "A"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := svc.GetByUsername(ctx, "alice01"); err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	_, err := svc.GetByUsername(ctx, "nobody")
	if code := errCode(t, err); code != "NOT_FOUND" {
		t.Errorf("expected NOT_FOUND, got %s", code)
	}
	if !strings.Contains(err.Error(), "nobody") {
		t.Errorf("not-found message should name the username, got %q", err.Error())
	}
}

func TestListUsersBounds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"zero limit resets to default", 0, 0, 20, 0},
		{"negative limit resets to default", -5, 0, 20, 0},
		{"oversized limit clamps to max", 500, 0, 100, 0},
		{"limit at max passes through", 100, 0, 100, 0},
		{"limit of one passes through", 1, 0, 1, 0},
		{"negative offset resets to zero", 10, -1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepository()
			svc := newTestService(repo)

			if _, err := svc.ListUsers(ctx, tt.limit, tt.offset); err != nil {
				t.Fatalf("ListUsers: %v", err)
			}
			if repo.lastLimit != tt.wantLimit {
				t.Errorf("limit: got %d, want %d", repo.lastLimit, tt.wantLimit)
			}
			if repo.lastOffset != tt.wantOffset {
				t.Errorf("offset: got %d, want %d", repo.lastOffset, tt.wantOffset)
			}
		})
	}
}

func TestListUsersOrdering(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	svc := newTestService(repo)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tick := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return tick }
		if _, err := svc.CreateUser(ctx, UserCreateInput{
			Username:  "user0" + string(rune('a'+i)),
			Email:     "u" + string(rune('a'+i)) + "@x.com",
			FirstName: "U", LastName: "X",
		}); err != nil {
			t.Fatalf("CreateUser %d: %v", i, err)
		}
	}

	users, err := svc.ListUsers(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	for i := 1; i < len(users); i++ {
		if users[i].CreatedAt.After(users[i-1].CreatedAt) {
			t.Fatalf("list not ordered newest-first at index %d", i)
		}
	}
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeUserRepository, *UserService, *domain.User) {
		t.Helper()
		repo := newFakeUserRepository()
		svc := newTestService(repo)
		base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return base }
		user, err := svc.CreateUser(ctx, UserCreateInput{Username: "alice01", Email: "a@x.com", FirstName: "Alice", LastName: "A"})
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		svc.now = func() time.Time { return base.Add(time.Hour) }
		return repo, svc, user
	}

	t.Run("merges only provided fields and bumps updatedAt", func(t *testing.T) {
		_, svc, user := setup(t)

		firstName := "X"
		updated, err := svc.UpdateUser(ctx, user.ID, UserUpdateInput{FirstName: &firstName})
		if err != nil {
			t.Fatalf("UpdateUser: %v", err)
		}
		if updated.FirstName != "X" {
			t.Errorf("firstName not updated: %q", updated.FirstName)
		}
		if updated.Username != user.Username || updated.Email != user.Email || updated.LastName != user.LastName || updated.Active != user.Active {
			t.Error("unrelated fields must not change")
		}
		if !updated.UpdatedAt.After(user.UpdatedAt) {
			t.Errorf("updatedAt must strictly increase: %v vs %v", updated.UpdatedAt, user.UpdatedAt)
		}
		if !updated.CreatedAt.Equal(user.CreatedAt) {
			t.Error("createdAt must never change")
		}
	})

	t.Run("own email does not conflict with itself", func(t *testing.T) {
		_, svc, user := setup(t)

		email := user.Email
		if _, err := svc.UpdateUser(ctx, user.ID, UserUpdateInput{Email: &email}); err != nil {
			t.Fatalf("updating to own email must not conflict: %v", err)
		}
	})

	t.Run("email owned by another user conflicts", func(t *testing.T) {
		_, svc, user := setup(t)

		if _, err := svc.CreateUser(ctx, UserCreateInput{Username: "bob01", Email: "b@x.com", FirstName: "Bob", LastName: "B"}); err != nil {
			t.Fatalf("CreateUser bob: %v", err)
		}
		taken := "b@x.com"
		_, err := svc.UpdateUser(ctx, user.ID, UserUpdateInput{Email: &taken})
		if code := errCode(t, err); code != "CONFLICT" {
			t.Errorf("expected CONFLICT, got %s", code)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, svc, _ := setup(t)

		firstName := "X"
		_, err := svc.UpdateUser(ctx, "8f14e45f-ea9e-4f72-9a1d-000000000000", UserUpdateInput{FirstName: &firstName})
		if code := errCode(t, err); code != "NOT_FOUND" {
			t.Errorf("expected NOT_FOUND, got %s", code)
		}
	})

	t.Run("active=false is a soft deactivation", func(t *testing.T) {
		_, svc, user := setup(t)

		inactive := false
		updated, err := svc.UpdateUser(ctx, user.ID, UserUpdateInput{Active: &inactive})
		if err != nil {
			t.Fatalf("UpdateUser: %v", err)
		}
		if updated.Active {
			t.Error("expected active=false")
		}
		if _, err := svc.GetByID(ctx, user.ID); err != nil {
			t.Errorf("deactivated user must still be readable: %v", err)
		}
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()
	svc := newTestService(repo)

	user, err := svc.CreateUser(ctx, UserCreateInput{Username: "alice01", Email: "a@x.com", FirstName: "Alice", LastName: "A"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if err := svc.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}

	// second delete finds no row and must fail, not silently succeed
	err = svc.DeleteUser(ctx, user.ID)
	if code := errCode(t, err); code != "OPERATION_FAILED" {
		t.Errorf("expected OPERATION_FAILED, got %s", code)
	}
}
