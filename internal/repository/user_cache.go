package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vaibavdk-pieq/agent-management-template-main/internal/domain"
)

const userCacheKeyPrefix = "user:id:"

// cachedUserRepository is a read-through cache over FindByID. Save and
// Delete drop the cached entry so a single instance never serves a stale
// row. Username/email lookups bypass the cache because the uniqueness
// checks in the service must always see fresh data.
type cachedUserRepository struct {
	inner  UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps a repository with a Redis cache. The inner
// repository is returned untouched when no client is configured.
func NewCachedUserRepository(inner UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) UserRepository {
	if client == nil || ttl <= 0 {
		return inner
	}
	return &cachedUserRepository{inner: inner, client: client, ttl: ttl, logger: logger}
}

type cachedUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *cachedUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	key := userCacheKeyPrefix + id
	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var cached cachedUser
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &domain.User{
				ID:        cached.ID,
				Username:  cached.Username,
				Email:     cached.Email,
				FirstName: cached.FirstName,
				LastName:  cached.LastName,
				Active:    cached.Active,
				CreatedAt: cached.CreatedAt,
				UpdatedAt: cached.UpdatedAt,
			}, nil
		}
		r.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		r.client.Del(ctx, key)
	} else if err != redis.Nil {
		r.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
	}

	user, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, user)
	return user, nil
}

func (r *cachedUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.inner.FindByUsername(ctx, username)
}

func (r *cachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

func (r *cachedUserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	saved, err := r.inner.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, user.ID)
	return saved, nil
}

func (r *cachedUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.inner.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, id)
	return deleted, nil
}

func (r *cachedUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return r.inner.FindAll(ctx, limit, offset)
}

func (r *cachedUserRepository) store(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(cachedUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, userCacheKeyPrefix+user.ID, raw, r.ttl).Err(); err != nil {
		r.logger.Debug("cache write failed", zap.String("id", user.ID), zap.Error(err))
	}
}

func (r *cachedUserRepository) invalidate(ctx context.Context, id string) {
	if err := r.client.Del(ctx, userCacheKeyPrefix+id).Err(); err != nil {
		r.logger.Debug("cache invalidate failed", zap.String("id", id), zap.Error(err))
	}
}
