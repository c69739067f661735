package grant

import "time"

// Config holds admin grant configuration.
type Config struct {
	AdminEmail string        `env:"ADMIN_EMAIL,required"`
	TTL        time.Duration `env:"ADMIN_GRANT_TTL" envDefault:"24h"`
	CookieName string        `env:"ADMIN_GRANT_COOKIE" envDefault:"admin_token"`
	Issuer     string        `env:"ADMIN_GRANT_ISSUER" envDefault:"folio"`

	// Revocations selects the revocation backend: "memory" or "redis".
	Revocations string `env:"ADMIN_GRANT_REVOCATIONS" envDefault:"memory"`
}
