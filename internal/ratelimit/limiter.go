package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may make another request.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Result contains the result of a rate limit check
type Result struct {
	Allowed   bool          // Whether the request is allowed
	Remaining int           // Remaining requests in the window
	ResetIn   time.Duration // Time until the quota is fully restored
	Limit     int           // The limit for this window
}

type CleanupOpts struct {
	TTL      time.Duration
	Interval time.Duration
}

// LocalLimiter keeps one token bucket per key in process memory. The bucket holds
// limit tokens and refills at limit per window.
type LocalLimiter struct {
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mu       sync.Mutex
	cancel   context.CancelFunc
	rate     rate.Limit
	burst    int
	window   time.Duration
	CleanupOpts
}

func NewLocalLimiter(limit int, window time.Duration, cleanupOpts CleanupOpts) *LocalLimiter {
	if limit < 1 {
		limit = 1
	}
	if cleanupOpts.TTL <= 0 {
		cleanupOpts.TTL = window
	}
	if cleanupOpts.Interval <= 0 {
		cleanupOpts.Interval = time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())
	rl := &LocalLimiter{
		limiters:    make(map[string]*rate.Limiter),
		lastSeen:    make(map[string]time.Time),
		cancel:      cancel,
		rate:        rate.Every(window / time.Duration(limit)),
		burst:       limit,
		window:      window,
		CleanupOpts: cleanupOpts,
	}

	go rl.cleanup(ctx)

	return rl
}

func (rl *LocalLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for key, ls := range rl.lastSeen {
				if time.Since(ls) > rl.TTL {
					delete(rl.limiters, key)
					delete(rl.lastSeen, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *LocalLimiter) Allow(_ context.Context, key string) (*Result, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, ok := rl.limiters[key]
	if !ok {
		bucket = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = bucket
	}
	now := time.Now()
	rl.lastSeen[key] = now

	allowed := bucket.AllowN(now, 1)
	tokens := bucket.TokensAt(now)
	remaining := int(math.Max(0, math.Floor(tokens)))

	missing := float64(rl.burst) - tokens
	resetIn := time.Duration(missing / float64(rl.burst) * float64(rl.window))

	return &Result{
		Allowed:   allowed,
		Remaining: remaining,
		ResetIn:   resetIn,
		Limit:     rl.burst,
	}, nil
}

// Close stops the background cleanup.
func (rl *LocalLimiter) Close() {
	rl.cancel()
}

// Size reports how many keys are currently tracked.
func (rl *LocalLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}
