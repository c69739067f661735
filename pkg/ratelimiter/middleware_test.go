package ratelimiter_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/ratelimiter"
)

func TestComposite(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/admin/auth/code", nil)
	empty := func(*http.Request) string { return "" }

	assert.Equal(t, "passcode:10.0.0.1", ratelimiter.Composite(
		ratelimiter.Static("passcode"),
		empty,
		ratelimiter.Static("10.0.0.1"),
	)(req))
	assert.Equal(t, "", ratelimiter.Composite(empty)(req))

	long := ratelimiter.Composite(
		ratelimiter.Static("a-very-long-component-that-goes-on-and-on"),
		ratelimiter.Static("another-long-component-for-hashing"),
	)(req)
	assert.LessOrEqual(t, len(long), 64)
	assert.NotContains(t, long, ":")
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})

	var rendered error
	mw := ratelimiter.Middleware(b, func(r *http.Request) string { return r.Header.Get("X-Key") },
		func(w http.ResponseWriter, _ *http.Request, err error) {
			rendered = err
			w.WriteHeader(http.StatusTooManyRequests)
		})
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) }))

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-Key", key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := send("a")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusAccepted, send("a").Code)

	rec = send("a")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	require.Error(t, rendered)
	assert.True(t, errors.Is(rendered, ratelimiter.ErrLimitExceeded))

	for range 5 {
		assert.Equal(t, http.StatusAccepted, send("").Code, "empty key is not limited")
	}
}

func TestMiddlewareDefaultErrorFunc(t *testing.T) {
	t.Parallel()

	b, _ := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	h := ratelimiter.Middleware(b, ratelimiter.Static("k"), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
