package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/folio/svc/auth"
)

// providerServer fakes a provider's token endpoint and profile API.
func providerServer(t *testing.T, routes map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"access-123","token_type":"bearer","expires_in":3600}`))
	})
	for path, body := range routes {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer access-123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(body)
		})
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func endpoint(srv *httptest.Server) oauth2.Endpoint {
	return oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams}
}

func TestGoogleAdapter(t *testing.T) {
	t.Parallel()

	srv := providerServer(t, map[string]any{
		"/oauth2/v2/userinfo": map[string]any{
			"id": "g-1", "email": "Ada@Example.com", "verified_email": true, "name": "Ada", "picture": "https://img/ada.png",
		},
	})
	adapter := auth.NewGoogleAdapter(auth.GoogleConfig{ClientID: "cid", ClientSecret: "secret", RedirectURL: "https://folio.test/cb"},
		auth.WithEndpoint(endpoint(srv)), auth.WithAPIURL(srv.URL), auth.WithHTTPClient(srv.Client()))

	assert.Equal(t, auth.ProviderGoogle, adapter.ProviderID())

	u, err := url.Parse(adapter.AuthURL("state-1"))
	require.NoError(t, err)
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "cid", u.Query().Get("client_id"))

	profile, err := adapter.ResolveProfile(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, auth.ProviderProfile{
		ProviderUserID: "g-1", Email: "Ada@Example.com", EmailVerified: true, Name: "Ada", AvatarURL: "https://img/ada.png",
	}, profile)

	_, err = adapter.ResolveProfile(context.Background(), "bad-code")
	require.ErrorIs(t, err, auth.ErrInvalidCode)
}

func TestGoogleAdapterWithoutEmail(t *testing.T) {
	t.Parallel()

	srv := providerServer(t, map[string]any{"/oauth2/v2/userinfo": map[string]any{"id": "g-1"}})
	adapter := auth.NewGoogleAdapter(auth.GoogleConfig{ClientID: "cid"},
		auth.WithEndpoint(endpoint(srv)), auth.WithAPIURL(srv.URL))

	_, err := adapter.ResolveProfile(context.Background(), "good-code")
	require.ErrorIs(t, err, auth.ErrNoPrimaryEmail)
}

func TestGitHubAdapter(t *testing.T) {
	t.Parallel()

	t.Run("prefers primary verified email", func(t *testing.T) {
		t.Parallel()
		srv := providerServer(t, map[string]any{
			"/user": map[string]any{"id": 42, "login": "ada", "avatar_url": "https://img/42"},
			"/user/emails": []map[string]any{
				{"email": "old@example.com", "primary": false, "verified": true},
				{"email": "ada@example.com", "primary": true, "verified": true},
			},
		})
		adapter := auth.NewGitHubAdapter(auth.GitHubConfig{ClientID: "cid"},
			auth.WithEndpoint(endpoint(srv)), auth.WithAPIURL(srv.URL))

		profile, err := adapter.ResolveProfile(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "42", profile.ProviderUserID)
		assert.Equal(t, "ada@example.com", profile.Email)
		assert.Equal(t, "ada", profile.Name)
		assert.True(t, profile.EmailVerified)
	})

	t.Run("no verified email", func(t *testing.T) {
		t.Parallel()
		srv := providerServer(t, map[string]any{
			"/user":        map[string]any{"id": 42, "login": "ada"},
			"/user/emails": []map[string]any{{"email": "ada@example.com", "primary": true, "verified": false}},
		})
		adapter := auth.NewGitHubAdapter(auth.GitHubConfig{ClientID: "cid"},
			auth.WithEndpoint(endpoint(srv)), auth.WithAPIURL(srv.URL))

		_, err := adapter.ResolveProfile(context.Background(), "good-code")
		require.ErrorIs(t, err, auth.ErrNoPrimaryEmail)
	})

	t.Run("profile api failure", func(t *testing.T) {
		t.Parallel()
		srv := providerServer(t, map[string]any{})
		adapter := auth.NewGitHubAdapter(auth.GitHubConfig{ClientID: "cid"},
			auth.WithEndpoint(endpoint(srv)), auth.WithAPIURL(srv.URL))

		_, err := adapter.ResolveProfile(context.Background(), "good-code")
		require.ErrorIs(t, err, auth.ErrProfileFetch)
	})
}

func TestConfigAdapters(t *testing.T) {
	t.Parallel()

	assert.Empty(t, auth.Config{}.Adapters())

	cfg := auth.Config{GitHub: auth.GitHubConfig{ClientID: "cid"}}
	adapters := cfg.Adapters()
	require.Len(t, adapters, 1)
	assert.Equal(t, auth.ProviderGitHub, adapters[0].ProviderID())
}
