package passcode

import (
	"time"

	"github.com/dmitrymomot/folio/pkg/environment"
)

// Store backends selectable with PASSCODE_STORE.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMongo    = "mongo"
)

// Config holds passcode configuration.
type Config struct {
	TTL        time.Duration `env:"PASSCODE_TTL" envDefault:"180s"`
	CodeLength int           `env:"PASSCODE_CODE_LENGTH" envDefault:"6"`
	Store      string        `env:"PASSCODE_STORE" envDefault:"postgres"`

	// MaxAttempts is how many wrong codes revoke the current one.
	MaxAttempts int `env:"PASSCODE_MAX_ATTEMPTS" envDefault:"5"`

	// Pepper keys the code hashes. When empty it is derived from APP_SECRET.
	Pepper string `env:"PASSCODE_PEPPER"`

	// DeliveryFallback logs codes instead of failing when email delivery
	// fails. Refused in production.
	DeliveryFallback bool `env:"PASSCODE_DELIVERY_FALLBACK" envDefault:"false"`

	SweepInterval   time.Duration `env:"PASSCODE_SWEEP_INTERVAL" envDefault:"1m"`
	RedisPrefix     string        `env:"PASSCODE_REDIS_PREFIX" envDefault:"passcode:"`
	MongoCollection string        `env:"PASSCODE_MONGO_COLLECTION" envDefault:"passcodes"`
}

// Validate checks the settings that depend on the environment.
func (c Config) Validate(env environment.Environment) error {
	if c.DeliveryFallback && env.IsProduction() {
		return ErrFallbackInProduction
	}
	switch c.Store {
	case StoreMemory, StorePostgres, StoreRedis, StoreMongo:
		return nil
	default:
		return ErrUnknownStore
	}
}

// NeedsSweep reports whether the selected backend relies on Service.Sweep.
func (c Config) NeedsSweep() bool {
	return c.Store == StoreMemory || c.Store == StorePostgres
}
