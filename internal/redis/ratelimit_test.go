package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestParseScriptResult(t *testing.T) {
	res, err := parseScriptResult([]interface{}{int64(1), int64(99), int64(900)}, 100)
	require.NoError(t, err)
	require.True(t, res.Allowed)
	require.Equal(t, 99, res.Remaining)
	require.Equal(t, 15*time.Minute, res.ResetIn)
	require.Equal(t, 100, res.Limit)

	res, err = parseScriptResult([]interface{}{int64(0), int64(0), int64(12)}, 100)
	require.NoError(t, err)
	require.False(t, res.Allowed)

	_, err = parseScriptResult([]interface{}{int64(1)}, 100)
	require.Error(t, err)

	_, err = parseScriptResult([]interface{}{"1", int64(0), int64(0)}, 100)
	require.Error(t, err)
}

func TestNewRateLimiterFallsBackToDefaults(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{})
	require.Equal(t, DefaultRateLimitConfig(), rl.config)
}

func newTestClientConfig(t *testing.T) Config {
	t.Helper()
	host := os.Getenv("TEST_REDIS_HOST")
	if host == "" {
		t.Skip("TEST_REDIS_HOST not set")
	}
	port := os.Getenv("TEST_REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return Config{Host: host, Port: port}
}

func TestRateLimiterAgainstRedis(t *testing.T) {
	cfg := newTestClientConfig(t)
	ctx := context.Background()

	client, err := NewClient(ctx, cfg)
	require.NoError(t, err)
	defer client.Close()

	rl := NewRateLimiter(client, RateLimitConfig{Limit: 2, Window: time.Minute})
	key := "test-" + uuid.NewString()
	defer client.Del(ctx, rateLimitKey(key))

	for i := 0; i < 2; i++ {
		res, err := rl.Allow(ctx, key)
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
	res, err := rl.Allow(ctx, key)
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.LessOrEqual(t, res.ResetIn, time.Minute)
}
