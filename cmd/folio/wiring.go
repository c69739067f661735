package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/folio/modules/account"
	"github.com/dmitrymomot/folio/modules/admin"
	"github.com/dmitrymomot/folio/pkg/audit"
	"github.com/dmitrymomot/folio/pkg/clientip"
	"github.com/dmitrymomot/folio/pkg/cookie"
	"github.com/dmitrymomot/folio/pkg/email"
	"github.com/dmitrymomot/folio/pkg/httpserver"
	"github.com/dmitrymomot/folio/pkg/jwt"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/mongo"
	"github.com/dmitrymomot/folio/pkg/pg"
	"github.com/dmitrymomot/folio/pkg/ratelimiter"
	"github.com/dmitrymomot/folio/pkg/redis"
	"github.com/dmitrymomot/folio/pkg/requestid"
	"github.com/dmitrymomot/folio/pkg/secrets"
	"github.com/dmitrymomot/folio/pkg/session"
	"github.com/dmitrymomot/folio/svc/auth"
	"github.com/dmitrymomot/folio/svc/gateway"
	"github.com/dmitrymomot/folio/svc/grant"
	"github.com/dmitrymomot/folio/svc/passcode"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

// backends holds the connections opened at startup. Unused ones stay nil.
type backends struct {
	pool   *pgxpool.Pool
	redis  *goredis.Client
	mongo  *gomongo.Client
	db     *gomongo.Database
	checks []httpserver.Check
}

func connect(ctx context.Context, cfg settings, log *slog.Logger) (*backends, error) {
	b := &backends{}

	if cfg.needsPostgres() {
		pool, err := pg.Connect(ctx, cfg.PG)
		if err != nil {
			return nil, err
		}
		b.pool = pool
		b.checks = append(b.checks, httpserver.Check{Name: "postgres", Probe: pg.Healthcheck(pool)})

		// Each package tracks its own schema version.
		migrations := []struct {
			table string
			fsys  fs.FS
		}{
			{"passcode_migrations", passcode.Migrations},
			{"audit_migrations", audit.Migrations},
			{"portfolio_migrations", portfolio.Migrations},
		}
		for _, m := range migrations {
			mcfg := cfg.PG
			mcfg.MigrationsTable = m.table
			if err := pg.Migrate(ctx, pool, mcfg, m.fsys, "migrations", log); err != nil {
				b.close(log)
				return nil, err
			}
		}
	}

	if cfg.needsRedis() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			b.close(log)
			return nil, err
		}
		b.redis = client
		b.checks = append(b.checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})
	}

	if cfg.needsMongo() {
		client, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			b.close(log)
			return nil, err
		}
		b.mongo = client
		b.db = client.Database(cfg.Mongo.Database)
		b.checks = append(b.checks, httpserver.Check{Name: "mongo", Probe: mongo.Healthcheck(client)})
	}

	return b, nil
}

func (b *backends) close(log *slog.Logger) {
	if b.mongo != nil {
		if err := b.mongo.Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect mongo", logger.Error(err))
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			log.Error("failed to close redis", logger.Error(err))
		}
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// application is the assembled service graph.
type application struct {
	sessions      *session.Manager
	sessionGrants grant.Provider
	adminGrants   grant.Provider
	passcodes     *passcode.Service
	account       account.Deps
	admin         admin.Deps
	closers       []func()
}

func (a *application) close() {
	for _, c := range a.closers {
		c()
	}
}

func build(ctx context.Context, cfg settings, b *backends, log *slog.Logger) (*application, error) {
	app := &application{}
	env := cfg.env()
	secure := env.IsProduction() || cfg.Cookie.Secure

	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return nil, err
	}

	// Sessions.
	var sessionStore session.Store = session.NewMemoryStore()
	if cfg.Session.Store == storeRedis {
		sessionStore = session.NewRedisStore(b.redis, "session:")
	}
	cfg.Session.SecureCookies = cfg.Session.SecureCookies || secure
	app.sessions = session.NewFromConfig(cfg.Session,
		session.WithStore(sessionStore),
		session.WithCookieManager(cookies),
		session.WithLogger(log),
	)
	app.closers = append(app.closers, func() { _ = app.sessions.Close() })
	app.sessionGrants = grant.NewSessionProvider(app.sessions)

	// Rate limiting: per recipient inside passcode issuance, per client IP
	// on the endpoints that issue or check codes.
	var limitStore ratelimiter.Store
	if cfg.App.LimiterStore == storeRedis {
		limitStore = ratelimiter.NewRedisStore(b.redis, "ratelimit:")
	} else {
		mem := ratelimiter.NewMemoryStore()
		app.closers = append(app.closers, mem.Close)
		limitStore = mem
	}
	limiter, err := ratelimiter.NewBucket(limitStore, cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	verifyLimiter, err := ratelimiter.NewBucket(limitStore, cfg.VerifyLimit.bucket())
	if err != nil {
		return nil, err
	}

	// Passcodes.
	sender, err := email.NewFromConfig(cfg.Email)
	if err != nil {
		return nil, err
	}
	store, err := passcodeStore(ctx, cfg, b)
	if err != nil {
		return nil, err
	}
	pepper := []byte(cfg.Passcode.Pepper)
	if len(pepper) == 0 {
		if pepper, err = secrets.Derive(cfg.App.Secret, "passcode-pepper"); err != nil {
			return nil, err
		}
	}
	app.passcodes = passcode.NewService(store, sender, pepper,
		passcode.WithTTL(cfg.Passcode.TTL),
		passcode.WithCodeLength(cfg.Passcode.CodeLength),
		passcode.WithMaxAttempts(cfg.Passcode.MaxAttempts),
		passcode.WithDeliveryFallback(cfg.Passcode.DeliveryFallback),
		passcode.WithLimiter(limiter),
		passcode.WithLogger(log),
	)

	// Admin grant.
	signingKey, err := secrets.Derive(cfg.App.Secret, "admin-grant")
	if err != nil {
		return nil, err
	}
	tokens, err := jwt.New(signingKey, jwt.WithIssuer(cfg.Grant.Issuer))
	if err != nil {
		return nil, err
	}
	var revocations grant.RevocationStore = grant.NewMemoryRevocations()
	if cfg.Grant.Revocations == storeRedis {
		revocations = grant.NewRedisRevocations(b.redis, "grant:revoked:")
	}
	issuer := grant.NewAdminIssuer(tokens, cookies, cfg.Grant.AdminEmail,
		grant.WithTTL(cfg.Grant.TTL),
		grant.WithCookieName(cfg.Grant.CookieName),
		grant.WithSecureCookie(secure),
		grant.WithRevocationStore(revocations),
		grant.WithAdminLogger(log),
	)
	app.adminGrants = issuer

	// Audit trail of guarded mutations.
	var auditStorage audit.Storage = audit.NewMemoryStorage()
	if b.pool != nil {
		auditStorage = audit.NewPostgresStorage(b.pool)
	}
	auditLog := audit.NewLogger(auditStorage,
		audit.WithActorExtractor(func(ctx context.Context) (string, string, bool) {
			g, ok := grant.FromContext(ctx)
			return string(g.Kind), g.Subject, ok
		}),
		audit.WithRequestIDExtractor(requestid.FromContext),
		audit.WithIPExtractor(clientip.FromContext),
	)
	gw := gateway.New(app.passcodes, gateway.WithAudit(auditLog), gateway.WithLogger(log))

	// Portfolio.
	repo := portfolio.NewMemoryRepository()
	if cfg.App.PortfolioStore == storePostgres {
		repo = portfolio.NewPostgresRepository(b.pool)
	}
	folio := portfolio.NewService(repo, portfolio.WithLogger(log))

	// Federated sign-in.
	stateKey, err := secrets.Derive(cfg.App.Secret, "oauth-state")
	if err != nil {
		return nil, err
	}
	signInOpts := []auth.Option{
		auth.WithStateTTL(cfg.Auth.StateTTL),
		auth.WithStateCookie(cfg.Auth.StateCookie),
		auth.WithSecureCookie(secure),
		auth.WithLogger(log),
	}
	adapters := cfg.Auth.Adapters()
	if len(adapters) == 0 {
		log.WarnContext(ctx, "no sign-in provider configured")
	}
	for _, a := range adapters {
		signInOpts = append(signInOpts, auth.WithProvider(a))
	}
	signIn := auth.NewSignIn(folio, app.sessions, cookies, stateKey, signInOpts...)

	app.account = account.Deps{
		SignIn:        signIn,
		Portfolio:     folio,
		Passcodes:     app.passcodes,
		Gateway:       gw,
		Sessions:      app.sessions,
		IssueLimiter:  limiter,
		VerifyLimiter: verifyLimiter,
		Logger:        log,
		SuccessURL:    cfg.Auth.SuccessURL,
	}
	app.admin = admin.Deps{
		AdminEmail:    cfg.Grant.AdminEmail,
		Passcodes:     app.passcodes,
		Grants:        issuer,
		Portfolio:     folio,
		Gateway:       gw,
		IssueLimiter:  limiter,
		VerifyLimiter: verifyLimiter,
		Logger:        log,
	}

	return app, nil
}

var errBackendMissing = errors.New("passcode store backend is not connected")

func passcodeStore(ctx context.Context, cfg settings, b *backends) (passcode.Store, error) {
	switch cfg.Passcode.Store {
	case passcode.StorePostgres:
		if b.pool == nil {
			return nil, errBackendMissing
		}
		return passcode.NewPostgresStore(b.pool), nil
	case passcode.StoreRedis:
		if b.redis == nil {
			return nil, errBackendMissing
		}
		return passcode.NewRedisStore(b.redis, cfg.Passcode.RedisPrefix, cfg.Passcode.TTL), nil
	case passcode.StoreMongo:
		if b.db == nil {
			return nil, errBackendMissing
		}
		store := passcode.NewMongoStore(b.db, cfg.Passcode.MongoCollection, cfg.Passcode.TTL)
		if err := store.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return passcode.NewMemoryStore(), nil
	}
}
