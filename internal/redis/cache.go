package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"necx-chat/internal/domain/user"
	"necx-chat/internal/repository"
	"necx-chat/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache key patterns:
// - user:{user_id} - UserTTL, user record by id
// - user:name:{lowercased name} - UserTTL, user record by name
// Misses are never cached so a newly created user is visible immediately.

// CacheConfig contains configuration for caching
type CacheConfig struct {
	UserTTL time.Duration // TTL for user cache (default 5m)
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		UserTTL: 5 * time.Minute,
	}
}

// UserCache represents cached user data
type UserCache struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func userCacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func userNameCacheKey(name string) string {
	return fmt.Sprintf("user:name:%s", strings.ToLower(name))
}

// CachedUserRepository serves user lookups from Redis and falls back to the
// wrapped repository. Cache failures are logged and never fail a request.
type CachedUserRepository struct {
	next   repository.UserRepository
	client goredis.Cmdable
	config CacheConfig
	log    *logger.Logger
}

var _ repository.UserRepository = (*CachedUserRepository)(nil)

func NewCachedUserRepository(next repository.UserRepository, client goredis.Cmdable, config CacheConfig, l *logger.Logger) *CachedUserRepository {
	if config.UserTTL <= 0 {
		config = DefaultCacheConfig()
	}
	if l == nil {
		l = logger.GetGlobalLogger()
	}
	return &CachedUserRepository{next: next, client: client, config: config, log: l}
}

func (r *CachedUserRepository) get(ctx context.Context, key string) *user.User {
	data, err := r.client.Get(ctx, key).Result()
	if err == goredis.Nil {
		return nil // Cache miss
	}
	if err != nil {
		r.log.WithContext(ctx).Warn("user cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}

	var cached UserCache
	if err := json.Unmarshal([]byte(data), &cached); err != nil {
		r.log.WithContext(ctx).Warn("user cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &user.User{
		ID:        cached.ID,
		Name:      cached.Name,
		CreatedAt: cached.CreatedAt,
		UpdatedAt: cached.UpdatedAt,
	}
}

func (r *CachedUserRepository) set(ctx context.Context, u *user.User) {
	data, err := json.Marshal(UserCache{
		ID:        u.ID,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	})
	if err != nil {
		return
	}
	pipe := r.client.Pipeline()
	pipe.Set(ctx, userCacheKey(u.ID), data, r.config.UserTTL)
	pipe.Set(ctx, userNameCacheKey(u.Name), data, r.config.UserTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.log.WithContext(ctx).Warn("user cache write failed", zap.String("user_id", u.ID), zap.Error(err))
	}
}

func (r *CachedUserRepository) invalidate(ctx context.Context, u *user.User) {
	if err := r.client.Del(ctx, userCacheKey(u.ID), userNameCacheKey(u.Name)).Err(); err != nil {
		r.log.WithContext(ctx).Warn("user cache invalidation failed", zap.String("user_id", u.ID), zap.Error(err))
	}
}

func (r *CachedUserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	return r.next.FindAll(ctx)
}

func (r *CachedUserRepository) Create(ctx context.Context, u *user.User) error {
	return r.next.Create(ctx, u)
}

func (r *CachedUserRepository) Delete(ctx context.Context, id string) (*user.User, error) {
	deleted, err := r.next.Delete(ctx, id)
	if err != nil || deleted == nil {
		return deleted, err
	}
	r.invalidate(ctx, deleted)
	return deleted, nil
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if u := r.get(ctx, userCacheKey(id)); u != nil {
		return u, nil
	}
	u, err := r.next.FindByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	r.set(ctx, u)
	return u, nil
}

func (r *CachedUserRepository) FindByName(ctx context.Context, name string) (*user.User, error) {
	if u := r.get(ctx, userNameCacheKey(name)); u != nil {
		return u, nil
	}
	u, err := r.next.FindByName(ctx, name)
	if err != nil || u == nil {
		return u, err
	}
	r.set(ctx, u)
	return u, nil
}

func (r *CachedUserRepository) Count(ctx context.Context) (int64, error) {
	return r.next.Count(ctx)
}
