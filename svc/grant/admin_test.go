package grant_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/cookie"
	"github.com/dmitrymomot/folio/pkg/jwt"
	"github.com/dmitrymomot/folio/svc/grant"
)

const adminEmail = "admin@example.com"

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newIssuer(t *testing.T, opts ...grant.AdminOption) (*grant.AdminIssuer, *clock) {
	t.Helper()

	clk := &clock{now: time.Now().UTC().Truncate(time.Second)}
	tokens, err := jwt.New([]byte(strings.Repeat("k", 32)), jwt.WithIssuer("folio"), jwt.WithClock(clk.Now))
	require.NoError(t, err)
	cookies, err := cookie.New([]string{strings.Repeat("s", 32)})
	require.NoError(t, err)

	opts = append([]grant.AdminOption{grant.WithAdminClock(clk.Now), grant.WithSecureCookie(true)}, opts...)
	return grant.NewAdminIssuer(tokens, cookies, adminEmail, opts...), clk
}

func withCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/projects", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}
	return req
}

func TestAdminIssuerGrant(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("sets a strict cookie", func(t *testing.T) {
		t.Parallel()
		issuer, clk := newIssuer(t)

		rec := httptest.NewRecorder()
		g, err := issuer.Grant(ctx, rec, "Admin@Example.com")
		require.NoError(t, err)
		assert.Equal(t, grant.KindAdmin, g.Kind)
		assert.Equal(t, adminEmail, g.Subject)
		assert.Equal(t, clk.Now().Add(24*time.Hour), g.ExpiresAt)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, "admin_token", c.Name)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 86400, c.MaxAge)

		got, err := issuer.Authorize(withCookies(rec))
		require.NoError(t, err)
		assert.Equal(t, g.ID, got.ID)
	})

	t.Run("refuses other addresses", func(t *testing.T) {
		t.Parallel()
		issuer, _ := newIssuer(t)

		rec := httptest.NewRecorder()
		_, err := issuer.Grant(ctx, rec, "someone@example.com")
		assert.ErrorIs(t, err, grant.ErrNotAdmin)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestAdminIssuerAuthorize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()
		issuer, _ := newIssuer(t)

		_, err := issuer.Authorize(httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.ErrorIs(t, err, grant.ErrUnauthorized)
	})

	t.Run("forged flag cookie", func(t *testing.T) {
		t.Parallel()
		issuer, _ := newIssuer(t)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: "admin_token", Value: "true"})
		_, err := issuer.Authorize(req)
		assert.ErrorIs(t, err, grant.ErrUnauthorized)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		t.Parallel()
		issuer, clk := newIssuer(t)

		rec := httptest.NewRecorder()
		_, err := issuer.Grant(ctx, rec, adminEmail)
		require.NoError(t, err)

		clk.Advance(24*time.Hour + time.Second)
		_, err = issuer.Authorize(withCookies(rec))
		assert.ErrorIs(t, err, grant.ErrUnauthorized)
	})

	t.Run("token for a former admin", func(t *testing.T) {
		t.Parallel()
		issuer, clk := newIssuer(t)

		rec := httptest.NewRecorder()
		_, err := issuer.Grant(ctx, rec, adminEmail)
		require.NoError(t, err)

		tokens, err := jwt.New([]byte(strings.Repeat("k", 32)), jwt.WithIssuer("folio"), jwt.WithClock(clk.Now))
		require.NoError(t, err)
		cookies, err := cookie.New([]string{strings.Repeat("s", 32)})
		require.NoError(t, err)
		rotated := grant.NewAdminIssuer(tokens, cookies, "new-admin@example.com", grant.WithAdminClock(clk.Now))

		_, err = rotated.Authorize(withCookies(rec))
		assert.ErrorIs(t, err, grant.ErrUnauthorized)
	})
}

func TestAdminIssuerRevoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuer, _ := newIssuer(t)

	rec := httptest.NewRecorder()
	_, err := issuer.Grant(ctx, rec, adminEmail)
	require.NoError(t, err)
	req := withCookies(rec)

	out := httptest.NewRecorder()
	require.NoError(t, issuer.Revoke(out, req))

	cleared := out.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "admin_token", cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)

	// A copy of the old cookie no longer works.
	_, err = issuer.Authorize(req)
	assert.ErrorIs(t, err, grant.ErrRevoked)

	// Revoking without a grant only clears the cookie.
	out = httptest.NewRecorder()
	require.NoError(t, issuer.Revoke(out, httptest.NewRequest(http.MethodPost, "/admin/auth/signout", nil)))
	assert.Len(t, out.Result().Cookies(), 1)
}

func TestMemoryRevocations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := grant.NewMemoryRevocations()

	revoked, err := store.IsRevoked(ctx, "g1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "g1", time.Now().Add(time.Hour)))
	require.NoError(t, store.Revoke(ctx, "g2", time.Now().Add(-time.Second)))

	revoked, err = store.IsRevoked(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "g2")
	require.NoError(t, err)
	assert.False(t, revoked, "entries past their grant expiry are irrelevant")
}
