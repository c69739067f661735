// Command folio serves the portfolio API: federated sign-in for users,
// passcode sign-in for the operator, and passcode confirmed destructive
// changes.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/folio/modules/account"
	"github.com/dmitrymomot/folio/modules/admin"
	"github.com/dmitrymomot/folio/pkg/clientip"
	"github.com/dmitrymomot/folio/pkg/httpserver"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/requestid"
	"github.com/dmitrymomot/folio/svc/grant"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("folio stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	log := logger.New(
		logger.WithEnvironment(cfg.App.Env, "folio"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	deps, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close(log)

	app, err := build(ctx, cfg, deps, log)
	if err != nil {
		return err
	}
	defer app.close()

	bridge := grant.NewBridge(grant.WithBridgeLogger(log)).
		Route("/me", app.sessionGrants).
		Route("/admin", app.adminGrants).
		Public("/admin/auth")

	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware)
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, cfg.App.ReadinessTimeout, deps.checks...))

	r.Group(func(r chi.Router) {
		r.Use(app.sessions.Middleware, bridge.Middleware)
		r.Mount("/admin", admin.New(app.admin).Handle())
		r.Mount("/", account.New(app.account).Handle())
	})

	server := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx, r) })
	if cfg.Passcode.NeedsSweep() {
		g.Go(func() error {
			every(gctx, cfg.Passcode.SweepInterval, app.passcodes.Sweep, log, "passcode sweep")
			return nil
		})
	}
	g.Go(func() error {
		every(gctx, time.Hour, app.sessions.Cleanup, log, "session cleanup")
		return nil
	})

	return g.Wait()
}

// every runs fn on each tick until ctx ends. Failures are logged and the
// next tick retries.
func every(ctx context.Context, interval time.Duration, fn func(context.Context) error, log *slog.Logger, name string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WarnContext(ctx, name+" failed", logger.Error(err))
			}
		}
	}
}
