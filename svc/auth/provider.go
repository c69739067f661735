package auth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// ProviderAdapter hides one OAuth provider's protocol details.
type ProviderAdapter interface {
	ProviderID() string
	AuthURL(state string) string
	// ResolveProfile exchanges code and loads the profile. Exchange failures
	// return ErrInvalidCode; a profile without email returns ErrNoPrimaryEmail.
	ResolveProfile(ctx context.Context, code string) (ProviderProfile, error)
}

// ProviderProfile is the normalized profile returned by a provider.
type ProviderProfile struct {
	ProviderUserID string
	Email          string
	EmailVerified  bool
	Name           string
	AvatarURL      string
}

// AdapterOption configures a provider adapter.
type AdapterOption func(*adapterConfig)

type adapterConfig struct {
	httpClient *http.Client
	endpoint   *oauth2.Endpoint
	apiURL     string
}

// WithHTTPClient sets the client used for profile API calls and the token
// exchange.
func WithHTTPClient(c *http.Client) AdapterOption {
	return func(cfg *adapterConfig) {
		if c != nil {
			cfg.httpClient = c
		}
	}
}

// WithEndpoint overrides the provider's OAuth endpoint.
func WithEndpoint(e oauth2.Endpoint) AdapterOption {
	return func(cfg *adapterConfig) {
		cfg.endpoint = &e
	}
}

// WithAPIURL overrides the base URL of the provider's profile API.
func WithAPIURL(url string) AdapterOption {
	return func(cfg *adapterConfig) {
		if url != "" {
			cfg.apiURL = url
		}
	}
}

func newAdapterConfig(apiURL string, endpoint oauth2.Endpoint, opts []AdapterOption) adapterConfig {
	cfg := adapterConfig{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiURL:     apiURL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.endpoint == nil {
		cfg.endpoint = &endpoint
	}
	return cfg
}

func (c adapterConfig) exchangeContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
