package auth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/session"
	"github.com/dmitrymomot/folio/svc/auth"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

func TestMaterialize(t *testing.T) {
	t.Parallel()

	user := portfolio.User{ID: uuid.New(), Email: "ada@example.com", Name: "Ada"}
	users := &fakeUsers{users: map[string]portfolio.User{user.Email: user}}
	sess := &session.Session{ID: uuid.New(), UserID: user.ID, Email: user.Email, ExpiresAt: time.Now().Add(time.Hour)}

	t.Run("joins profile by email", func(t *testing.T) {
		t.Parallel()
		id, err := auth.Materialize(context.Background(), sess, users)
		require.NoError(t, err)
		require.True(t, id.HasProfile())
		assert.Equal(t, "Ada", id.Profile.Name)
		assert.Equal(t, sess.ID, id.SessionID)
	})

	t.Run("missing profile degrades", func(t *testing.T) {
		t.Parallel()
		orphan := &session.Session{ID: uuid.New(), UserID: uuid.New(), Email: "gone@example.com"}
		id, err := auth.Materialize(context.Background(), orphan, users)
		require.NoError(t, err)
		assert.False(t, id.HasProfile())
		assert.Equal(t, "gone@example.com", id.Email)
	})

	t.Run("no session", func(t *testing.T) {
		t.Parallel()
		_, err := auth.Materialize(context.Background(), nil, users)
		require.ErrorIs(t, err, auth.ErrNoIdentity)
	})

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()
		_, err := auth.Materialize(context.Background(), sess, &fakeUsers{err: errors.New("down")})
		require.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	user := portfolio.User{ID: uuid.New(), Email: "ada@example.com"}
	users := &fakeUsers{users: map[string]portfolio.User{user.Email: user}}

	var got auth.Identity
	var found bool
	h := auth.Middleware(users, nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, found = auth.IdentityFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, found)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(session.WithSession(req.Context(), &session.Session{ID: uuid.New(), UserID: user.ID, Email: user.Email}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, found)
	assert.Equal(t, user.ID, got.UserID)
	assert.True(t, got.HasProfile())
}
