package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/binder"
	"github.com/dmitrymomot/folio/pkg/clientip"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/ratelimiter"
	"github.com/dmitrymomot/folio/svc/gateway"
	"github.com/dmitrymomot/folio/svc/grant"
	"github.com/dmitrymomot/folio/svc/passcode"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

// Passcodes issues and verifies codes. *passcode.Service satisfies it.
type Passcodes interface {
	Issue(ctx context.Context, flow passcode.Flow, recipient string) error
	Verify(ctx context.Context, flow passcode.Flow, recipient, code string) error
	TTL() time.Duration
}

// Grants mints and revokes the admin grant. *grant.AdminIssuer satisfies it.
type Grants interface {
	Grant(ctx context.Context, w http.ResponseWriter, email string) (grant.Grant, error)
	Revoke(w http.ResponseWriter, r *http.Request) error
}

// Deps are the collaborators of the module. The limiters are optional:
// IssueLimiter throttles code requests and VerifyLimiter code checks, both
// per client IP.
type Deps struct {
	AdminEmail    string
	Passcodes     Passcodes
	Grants        Grants
	Portfolio     *portfolio.Service
	Gateway       *gateway.Gateway
	IssueLimiter  ratelimiter.RateLimiter
	VerifyLimiter ratelimiter.RateLimiter
	Logger        *slog.Logger
}

type Module struct {
	Deps
	signIn  passcode.Flow
	confirm passcode.Flow
	errs    handler.ErrorHandler[handler.Context]
}

func New(deps Deps) *Module {
	switch {
	case deps.AdminEmail == "", deps.Passcodes == nil, deps.Grants == nil, deps.Portfolio == nil, deps.Gateway == nil:
		panic("admin: missing dependency")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	deps.Logger = deps.Logger.With(logger.Component("admin"))

	return &Module{
		Deps:    deps,
		signIn:  passcode.AdminFlow(passcode.FlowAdminSignIn, deps.AdminEmail),
		confirm: passcode.AdminFlow(passcode.FlowAdminConfirm, deps.AdminEmail),
		errs:    handler.NewErrorHandler(deps.Logger, gateway.HTTPError),
	}
}

// Handle returns the module router, meant to be mounted at /admin.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.With(m.limit(m.IssueLimiter, "admin_sign_in")).Post("/code", wrap(m, m.issueSignInCode, jsonBinder()))
		r.With(m.limit(m.VerifyLimiter, "admin_sign_in_verify")).Post("/verify", wrap(m, m.verify, jsonBinder()))
		r.Post("/signout", wrap(m, m.signOut))
	})

	r.With(m.limit(m.IssueLimiter, "admin_confirm")).Post("/confirm/code", wrap(m, m.issueConfirmCode))

	mountShowcase[portfolio.ShowcaseProject, projectRequest, projectRemoval](r, m, "/projects", "showcase_project", m.Portfolio.ShowcaseProjects)
	mountShowcase[portfolio.ShowcaseEducation, educationRequest, educationRemoval](r, m, "/education", "showcase_education", m.Portfolio.ShowcaseEducation)

	return r
}

// limit throttles a route per client IP. A nil limiter disables it.
func (m *Module) limit(l ratelimiter.RateLimiter, name string) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimiter.Middleware(l,
		ratelimiter.Composite(ratelimiter.Static(name), clientip.GetIP),
		func(w http.ResponseWriter, r *http.Request, err error) {
			_ = handler.JSONError(gateway.HTTPError(err)).Render(w, r)
		},
	)
}

func admin(ctx context.Context) (grant.Grant, error) {
	return grant.RequireKind(ctx, grant.KindAdmin)
}

func jsonBinder() handler.Bind { return binder.JSON() }

func pathBinder() handler.Bind { return binder.Path(chi.URLParam) }

type noRequest struct{}

func wrap[R any](m *Module, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](m.errs),
	)
}
