package auth

import "time"

// Config holds sign-in settings shared by every provider.
type Config struct {
	StateTTL    time.Duration `env:"AUTH_STATE_TTL" envDefault:"10m"`
	StateCookie string        `env:"AUTH_STATE_COOKIE" envDefault:"oauth_state"`
	// SuccessURL is where the browser lands after a completed sign-in.
	SuccessURL string `env:"AUTH_SUCCESS_URL" envDefault:"/"`

	Google GoogleConfig
	GitHub GitHubConfig
}

// Adapters returns the adapters of every configured provider.
func (c Config) Adapters(opts ...AdapterOption) []ProviderAdapter {
	var out []ProviderAdapter
	if c.Google.Enabled() {
		out = append(out, NewGoogleAdapter(c.Google, opts...))
	}
	if c.GitHub.Enabled() {
		out = append(out, NewGitHubAdapter(c.GitHub, opts...))
	}
	return out
}
