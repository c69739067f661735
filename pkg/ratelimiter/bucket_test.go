package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBucket(t *testing.T, cfg ratelimiter.Config) (*ratelimiter.Bucket, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(0),
		ratelimiter.WithClock(clock.Now),
	)
	t.Cleanup(store.Close)

	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return b, clock
}

func TestNewBucketValidatesConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		config ratelimiter.Config
		msg    string
	}{
		{name: "zero capacity", config: ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}, msg: "capacity must be positive"},
		{name: "zero refill rate", config: ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}, msg: "refill rate must be positive"},
		{name: "zero interval", config: ratelimiter.Config{Capacity: 1, RefillRate: 1}, msg: "refill interval must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), tt.config)
			require.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestBucketAllow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, clock := newBucket(t, ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Minute})

	for i := range 3 {
		res, err := b.Allow(ctx, "ip:1")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, 2-i, res.Remaining)
		assert.Equal(t, 3, res.Limit)
	}

	res, err := b.Allow(ctx, "ip:1")
	require.NoError(t, err)
	assert.False(t, res.Allowed())

	other, err := b.Allow(ctx, "ip:2")
	require.NoError(t, err)
	assert.True(t, other.Allowed(), "keys are independent")

	clock.Advance(2 * time.Minute)
	res, err = b.Allow(ctx, "ip:1")
	require.NoError(t, err)
	assert.True(t, res.Allowed(), "tokens refill after the interval")
}

func TestBucketDeniedRequestsDoNotDrainBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, clock := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})

	require.NoError(t, b.Take(ctx, "admin_sign_in:admin@example.com"))
	for range 50 {
		res, err := b.Allow(ctx, "admin_sign_in:admin@example.com")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Equal(t, -1, res.Remaining)
	}

	clock.Advance(time.Minute)
	require.NoError(t, b.Take(ctx, "admin_sign_in:admin@example.com"), "one interval refills the bucket despite earlier denials")
}

func TestBucketAllowNRejectsNonPositive(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	_, err := b.AllowN(context.Background(), "k", 0)
	require.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestBucketTake(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})

	require.NoError(t, b.Take(ctx, "recipient"))

	err := b.Take(ctx, "recipient")
	require.ErrorIs(t, err, ratelimiter.ErrLimitExceeded)

	var limitErr *ratelimiter.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.False(t, limitErr.Result.Allowed())

	require.NoError(t, b.Reset(ctx, "recipient"))
	require.NoError(t, b.Take(ctx, "recipient"), "reset restores the bucket")
}

func TestBucketConcurrentAllow(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 10, RefillRate: 1, RefillInterval: time.Hour})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := b.Allow(context.Background(), "shared")
			if err == nil && res.Allowed() {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}
