package redis

import (
	"context"
	"fmt"
	"time"

	"necx-chat/internal/ratelimit"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key pattern:
// - ratelimit:{ip}:api - window TTL, per-client API request limit

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	Limit  int           // Max requests per window
	Window time.Duration // Rate limit window
}

// DefaultRateLimitConfig returns 100 requests per 15 minutes
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:  100,
		Window: 15 * time.Minute,
	}
}

// fixedWindowScript increments the counter only while under the limit and starts
// the window TTL on the first hit.
var fixedWindowScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = redis.call('GET', key)
	if current == false then
		current = 0
	else
		current = tonumber(current)
	end

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	else
		return {0, 0, ttl}
	end
`)

// RateLimiter is a fixed window limiter shared by every API instance through Redis.
type RateLimiter struct {
	client goredis.Scripter
	config RateLimitConfig
}

var _ ratelimit.Limiter = (*RateLimiter)(nil)

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client goredis.Scripter, config RateLimitConfig) *RateLimiter {
	if config.Limit < 1 || config.Window < time.Second {
		config = DefaultRateLimitConfig()
	}
	return &RateLimiter{
		client: client,
		config: config,
	}
}

func rateLimitKey(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s:api", clientKey)
}

// Allow checks whether the client identified by key may make another request.
func (r *RateLimiter) Allow(ctx context.Context, key string) (*ratelimit.Result, error) {
	limit := r.config.Limit
	result, err := fixedWindowScript.Run(ctx, r.client, []string{rateLimitKey(key)}, limit, int(r.config.Window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	return parseScriptResult(result, limit)
}

func parseScriptResult(result any, limit int) (*ratelimit.Result, error) {
	values, ok := result.([]interface{})
	if !ok || len(values) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	nums := make([]int64, 3)
	for i := range nums {
		n, ok := values[i].(int64)
		if !ok {
			return nil, fmt.Errorf("unexpected rate limit result format")
		}
		nums[i] = n
	}

	return &ratelimit.Result{
		Allowed:   nums[0] == 1,
		Remaining: int(nums[1]),
		ResetIn:   time.Duration(nums[2]) * time.Second,
		Limit:     limit,
	}, nil
}
