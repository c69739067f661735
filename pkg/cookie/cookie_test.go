package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/cookie"
)

var (
	activeSecret  = strings.Repeat("a", 32)
	retiredSecret = strings.Repeat("b", 32)
)

// replay copies the cookies written to rec onto a fresh request.
func replay(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := cookie.New(nil)
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"", ""})
	assert.ErrorIs(t, err, cookie.ErrNoSecret)

	_, err = cookie.New([]string{"short"})
	assert.ErrorIs(t, err, cookie.ErrSecretTooShort)

	m, err := cookie.NewFromConfig(cookie.Config{Secrets: activeSecret + ", " + retiredSecret, Secure: true})
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestManager_SetAttributes(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{activeSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Set(rec, "admin_token", "v",
		cookie.WithMaxAge(86400),
		cookie.WithSecure(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
	)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 86400, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestManager_Signed(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{activeSecret})
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		m.SetSigned(rec, "state", "hello")

		v, err := m.GetSigned(replay(rec), "state")
		require.NoError(t, err)
		assert.Equal(t, "hello", v)
	})

	t.Run("tampered value", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "state", Value: "aGFja2Vk|c2lnbmF0dXJl"})

		_, err := m.GetSigned(req, "state")
		assert.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()

		_, err := m.GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "state")
		assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})
}

func TestManager_EncryptedKeyRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{retiredSecret})
	require.NoError(t, err)
	rotated, err := cookie.New([]string{activeSecret, retiredSecret})
	require.NoError(t, err)
	unrelated, err := cookie.New([]string{strings.Repeat("c", 32)})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, old.SetEncrypted(rec, "sid", "session-token"))

	v, err := rotated.GetEncrypted(replay(rec), "sid")
	require.NoError(t, err)
	assert.Equal(t, "session-token", v)

	_, err = unrelated.GetEncrypted(replay(rec), "sid")
	assert.ErrorIs(t, err, cookie.ErrDecryptionFailed)
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{activeSecret})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.Delete(rec, "admin_token", cookie.WithSameSite(http.SameSiteStrictMode))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}
