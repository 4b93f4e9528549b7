package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalLimiterAllowsUpToLimit(t *testing.T) {
	rl := NewLocalLimiter(3, time.Hour, CleanupOpts{})
	defer rl.Close()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := rl.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.Equal(t, 3, res.Limit)
		require.Equal(t, 2-i, res.Remaining)
	}

	res, err := rl.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Zero(t, res.Remaining)
	require.Greater(t, res.ResetIn, time.Duration(0))
}

func TestLocalLimiterKeysAreIndependent(t *testing.T) {
	rl := NewLocalLimiter(1, time.Hour, CleanupOpts{})
	defer rl.Close()
	ctx := context.Background()

	res, _ := rl.Allow(ctx, "a")
	require.True(t, res.Allowed)
	res, _ = rl.Allow(ctx, "a")
	require.False(t, res.Allowed)

	res, _ = rl.Allow(ctx, "b")
	require.True(t, res.Allowed)
	require.Equal(t, 2, rl.Size())
}

func TestLocalLimiterEvictsIdleKeys(t *testing.T) {
	rl := NewLocalLimiter(5, time.Minute, CleanupOpts{TTL: 10 * time.Millisecond, Interval: 5 * time.Millisecond})
	defer rl.Close()

	_, err := rl.Allow(context.Background(), "idle")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return rl.Size() == 0 }, time.Second, 10*time.Millisecond)
}
