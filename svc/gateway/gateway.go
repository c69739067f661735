package gateway

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/folio/pkg/audit"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/svc/passcode"
)

// Verifier consumes a passcode. *passcode.Service satisfies it.
type Verifier interface {
	Verify(ctx context.Context, flow passcode.Flow, recipient, code string) error
}

// Action describes a guarded mutation for the audit log.
type Action struct {
	Name       string
	Resource   string
	ResourceID string
}

// Gateway verifies a passcode and then runs a mutation.
type Gateway struct {
	verifier Verifier
	audit    *audit.Logger
	logger   *slog.Logger
}

type Option func(*Gateway)

func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) {
		if log != nil {
			g.logger = log
		}
	}
}

// WithAudit records every guarded attempt.
func WithAudit(l *audit.Logger) Option {
	return func(g *Gateway) {
		g.audit = l
	}
}

func New(verifier Verifier, opts ...Option) *Gateway {
	if verifier == nil {
		panic("gateway: verifier is required")
	}
	g := &Gateway{verifier: verifier, logger: logger.Discard()}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(logger.Component("gateway"))
	return g
}

// Execute consumes code for recipient in flow and then runs mutate. mutate
// never runs when verification fails; its error is returned unchanged.
// mutate is responsible for its own atomicity.
func (g *Gateway) Execute(ctx context.Context, action Action, flow passcode.Flow, recipient, code string, mutate func(ctx context.Context) error) error {
	if err := g.verifier.Verify(ctx, flow, recipient, code); err != nil {
		g.record(ctx, action, flow, audit.ResultFailure, err)
		return err
	}

	if err := mutate(ctx); err != nil {
		g.record(ctx, action, flow, audit.ResultError, err)
		return err
	}

	g.record(ctx, action, flow, audit.ResultSuccess, nil)
	return nil
}

func (g *Gateway) record(ctx context.Context, action Action, flow passcode.Flow, result audit.Result, cause error) {
	g.logger.InfoContext(ctx, "guarded mutation",
		slog.String("action", action.Name),
		slog.String("result", string(result)),
		logger.Flow(flow.Name),
	)
	if g.audit == nil {
		return
	}

	opts := []audit.EventOption{
		audit.WithResource(action.Resource, action.ResourceID),
		audit.WithMetadata("flow", flow.Name),
		audit.WithResult(result),
	}
	var err error
	if cause == nil {
		err = g.audit.Log(ctx, action.Name, opts...)
	} else {
		err = g.audit.LogError(ctx, action.Name, cause, opts...)
	}
	if err != nil {
		g.logger.ErrorContext(ctx, "failed to write audit event", slog.String("action", action.Name), logger.Error(err))
	}
}

// errNoResponse guards against a decorated handler returning nil.
var errNoResponse = errors.New("gateway.no_response")
