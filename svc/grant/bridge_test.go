package grant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/cookie"
	"github.com/dmitrymomot/folio/pkg/session"
	"github.com/dmitrymomot/folio/svc/grant"
)

func echoGrant(w http.ResponseWriter, r *http.Request) {
	g, err := grant.RequireAuthorization(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	_ = json.NewEncoder(w).Encode(g)
}

func TestBridge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	issuer, _ := newIssuer(t)

	cookies, err := cookie.New([]string{strings.Repeat("s", 32)})
	require.NoError(t, err)
	sessions := session.New(session.WithStore(session.NewMemoryStore()), session.WithCookieManager(cookies))
	t.Cleanup(func() { _ = sessions.Close() })

	bridge := grant.NewBridge().
		Route("/admin", issuer).
		Public("/admin/auth").
		Route("/me", grant.NewSessionProvider(sessions))
	srv := bridge.Middleware(http.HandlerFunc(echoGrant))

	adminRec := httptest.NewRecorder()
	_, err = issuer.Grant(ctx, adminRec, adminEmail)
	require.NoError(t, err)

	userRec := httptest.NewRecorder()
	userID := uuid.New()
	_, err = sessions.Authenticate(ctx, userRec, httptest.NewRequest(http.MethodGet, "/", nil), userID, "ada@example.com")
	require.NoError(t, err)

	do := func(path string, from *httptest.ResponseRecorder) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if from != nil {
			for _, c := range from.Result().Cookies() {
				req.AddCookie(c)
			}
		}
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	t.Run("admin route with admin grant", func(t *testing.T) {
		t.Parallel()
		rec := do("/admin/projects", adminRec)
		require.Equal(t, http.StatusOK, rec.Code)

		var g grant.Grant
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&g))
		assert.Equal(t, grant.KindAdmin, g.Kind)
	})

	t.Run("admin route with a user session", func(t *testing.T) {
		t.Parallel()
		rec := do("/admin/projects", userRec)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body handler.JSONResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.False(t, body.OK)
		require.NotNil(t, body.Error)
		assert.Equal(t, "unauthorized", body.Error.Code)
	})

	t.Run("user route with session", func(t *testing.T) {
		t.Parallel()
		rec := do("/me/projects", userRec)
		require.Equal(t, http.StatusOK, rec.Code)

		var g grant.Grant
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&g))
		assert.Equal(t, grant.KindSession, g.Kind)
		assert.Equal(t, userID, g.UserID)
		assert.Equal(t, "ada@example.com", g.Subject)
	})

	t.Run("user route with admin grant", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusUnauthorized, do("/me", adminRec).Code)
	})

	t.Run("public prefix inside guarded one", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusTeapot, do("/admin/auth/code", nil).Code)
	})

	t.Run("unmatched path passes through", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, http.StatusTeapot, do("/p/ada", nil).Code)
		assert.Equal(t, http.StatusTeapot, do("/administrator", nil).Code)
	})
}

func TestRequireKind(t *testing.T) {
	t.Parallel()

	ctx := grant.WithGrant(context.Background(), grant.Grant{ID: "s", Kind: grant.KindSession, ExpiresAt: time.Now()})

	_, err := grant.RequireKind(ctx, grant.KindAdmin)
	assert.ErrorIs(t, err, grant.ErrWrongKind)

	g, err := grant.RequireKind(ctx, grant.KindSession)
	require.NoError(t, err)
	assert.Equal(t, "s", g.ID)

	_, err = grant.RequireAuthorization(context.Background())
	assert.ErrorIs(t, err, grant.ErrUnauthorized)
}
