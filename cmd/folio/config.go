package main

import (
	"errors"
	"time"

	"github.com/dmitrymomot/folio/pkg/config"
	"github.com/dmitrymomot/folio/pkg/cookie"
	"github.com/dmitrymomot/folio/pkg/email"
	"github.com/dmitrymomot/folio/pkg/environment"
	"github.com/dmitrymomot/folio/pkg/httpserver"
	"github.com/dmitrymomot/folio/pkg/mongo"
	"github.com/dmitrymomot/folio/pkg/pg"
	"github.com/dmitrymomot/folio/pkg/ratelimiter"
	"github.com/dmitrymomot/folio/pkg/redis"
	"github.com/dmitrymomot/folio/pkg/session"
	"github.com/dmitrymomot/folio/svc/auth"
	"github.com/dmitrymomot/folio/svc/grant"
	"github.com/dmitrymomot/folio/svc/passcode"
)

const (
	storeMemory   = "memory"
	storePostgres = "postgres"
	storeRedis    = "redis"
)

type appConfig struct {
	Env    string `env:"APP_ENV" envDefault:"development"`
	Secret string `env:"APP_SECRET,required"`

	// PortfolioStore is "postgres" or "memory". Memory is for local runs only.
	PortfolioStore string `env:"PORTFOLIO_STORE" envDefault:"postgres"`
	// LimiterStore keeps issuance rate limits: "memory" or "redis".
	LimiterStore string `env:"RATELIMIT_STORE" envDefault:"memory"`

	ReadinessTimeout time.Duration `env:"READINESS_TIMEOUT" envDefault:"3s"`
}

// verifyLimitConfig throttles code checks per client IP. It is separate
// from RateLimit so each can be tuned on its own.
type verifyLimitConfig struct {
	Capacity       int           `env:"VERIFY_RATELIMIT_CAPACITY" envDefault:"10"`
	RefillRate     int           `env:"VERIFY_RATELIMIT_REFILL_RATE" envDefault:"1"`
	RefillInterval time.Duration `env:"VERIFY_RATELIMIT_REFILL_INTERVAL" envDefault:"1m"`
}

func (c verifyLimitConfig) bucket() ratelimiter.Config {
	return ratelimiter.Config{Capacity: c.Capacity, RefillRate: c.RefillRate, RefillInterval: c.RefillInterval}
}

// settings is every config section the binary reads.
type settings struct {
	App       appConfig
	HTTP      httpserver.Config
	PG        pg.Config
	Redis     redis.Config
	Mongo     mongo.Config
	Cookie    cookie.Config
	Session   session.Config
	Email     email.Config
	Passcode  passcode.Config
	Grant     grant.Config
	Auth      auth.Config
	RateLimit   ratelimiter.Config
	VerifyLimit verifyLimitConfig
}

func (s settings) env() environment.Environment { return environment.Parse(s.App.Env) }

func (s settings) needsPostgres() bool {
	return s.App.PortfolioStore == storePostgres || s.Passcode.Store == passcode.StorePostgres
}

func (s settings) needsRedis() bool {
	return s.Session.Store == storeRedis ||
		s.Passcode.Store == passcode.StoreRedis ||
		s.Grant.Revocations == storeRedis ||
		s.App.LimiterStore == storeRedis
}

func (s settings) needsMongo() bool { return s.Passcode.Store == passcode.StoreMongo }

var (
	errUnknownPortfolioStore = errors.New("unknown PORTFOLIO_STORE, use postgres or memory")
	errMemoryInProduction    = errors.New("PORTFOLIO_STORE=memory is not allowed in production")
)

func (s settings) validate() error {
	if err := s.Passcode.Validate(s.env()); err != nil {
		return err
	}
	switch s.App.PortfolioStore {
	case storePostgres:
	case storeMemory:
		if s.env().IsProduction() {
			return errMemoryInProduction
		}
	default:
		return errUnknownPortfolioStore
	}
	return nil
}

// loadSettings reads every section from the environment and .env files.
func loadSettings() (settings, error) {
	var s settings
	loaders := []func() error{
		func() error { return config.Load(&s.App) },
		func() error { return config.Load(&s.HTTP) },
		func() error { return config.Load(&s.Cookie) },
		func() error { return config.Load(&s.Session) },
		func() error { return config.Load(&s.Email) },
		func() error { return config.Load(&s.Passcode) },
		func() error { return config.Load(&s.Grant) },
		func() error { return config.Load(&s.Auth) },
		func() error { return config.Load(&s.RateLimit) },
		func() error { return config.Load(&s.VerifyLimit) },
	}
	for _, load := range loaders {
		if err := load(); err != nil {
			return settings{}, err
		}
	}

	// Backend sections are only read when selected, so their required
	// variables do not leak into setups that never use them.
	if s.needsPostgres() {
		if err := config.Load(&s.PG); err != nil {
			return settings{}, err
		}
	}
	if s.needsRedis() {
		if err := config.Load(&s.Redis); err != nil {
			return settings{}, err
		}
	}
	if s.needsMongo() {
		if err := config.Load(&s.Mongo); err != nil {
			return settings{}, err
		}
	}

	return s, s.validate()
}
