package account

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/clientip"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/ratelimiter"
	"github.com/dmitrymomot/folio/svc/auth"
	"github.com/dmitrymomot/folio/svc/gateway"
	"github.com/dmitrymomot/folio/svc/grant"
	"github.com/dmitrymomot/folio/svc/passcode"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

// Passcodes issues confirmation codes. *passcode.Service satisfies it.
type Passcodes interface {
	Issue(ctx context.Context, flow passcode.Flow, recipient string) error
	TTL() time.Duration
}

// Sessions ends sessions. *session.Manager satisfies it.
type Sessions interface {
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	DestroyUser(ctx context.Context, userID uuid.UUID) error
}

// Deps are the collaborators of the module. The limiters are optional:
// IssueLimiter throttles code requests and VerifyLimiter code checks, both
// per client IP.
type Deps struct {
	SignIn        *auth.SignIn
	Portfolio     *portfolio.Service
	Passcodes     Passcodes
	Gateway       *gateway.Gateway
	Sessions      Sessions
	IssueLimiter  ratelimiter.RateLimiter
	VerifyLimiter ratelimiter.RateLimiter
	Logger        *slog.Logger
	// SuccessURL is where the browser goes after sign-in.
	SuccessURL string
}

type Module struct {
	Deps
	deletion passcode.Flow
	errs     handler.ErrorHandler[handler.Context]
}

func New(deps Deps) *Module {
	switch {
	case deps.SignIn == nil, deps.Portfolio == nil, deps.Passcodes == nil, deps.Gateway == nil, deps.Sessions == nil:
		panic("account: missing dependency")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Discard()
	}
	if deps.SuccessURL == "" {
		deps.SuccessURL = "/"
	}
	deps.Logger = deps.Logger.With(logger.Component("account"))

	return &Module{
		Deps:     deps,
		deletion: passcode.SelfFlow(passcode.FlowAccountDeletion),
		errs:     handler.NewErrorHandler(deps.Logger, gateway.HTTPError),
	}
}

// Handle returns the module router.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Get("/providers", wrap(m, m.providers))
		r.Get("/{provider}/login", wrap(m, m.login, pathBinder()))
		r.Get("/{provider}/callback", wrap(m, m.callback, pathBinder()))
		r.Post("/logout", wrap(m, m.logout))
	})

	r.Get("/templates", wrap(m, m.templates))
	r.Get("/p/{username}", wrap(m, m.publicPortfolio, pathBinder()))

	r.Route("/me", func(r chi.Router) {
		r.Use(auth.Middleware(m.Portfolio, m.Logger))

		r.Get("/", wrap(m, m.me))
		r.Put("/profile", wrap(m, m.updateProfile, jsonBinder()))
		r.Get("/username/suggestion", wrap(m, m.suggestUsername))

		mountOwned[portfolio.Project, projectRequest](r, m, "/projects", m.Portfolio.Projects)
		mountOwned[portfolio.Education, educationRequest](r, m, "/education", m.Portfolio.Education)
		mountOwned[portfolio.Experience, experienceRequest](r, m, "/experience", m.Portfolio.Experience)

		r.With(m.limit(m.IssueLimiter, "account_deletion")).Post("/delete/code", wrap(m, m.issueDeletionCode))
		r.With(m.limit(m.VerifyLimiter, "account_deletion_verify")).Post("/delete", handler.Wrap(m.deleteAccount,
			handler.WithBinders[handler.Context, deleteAccountRequest](jsonBinder()),
			handler.WithDecorators(gateway.Guard[deleteAccountRequest](m.Gateway, "account.delete", m.deletion, gateway.GrantSubject)),
			handler.WithErrorHandler[handler.Context, deleteAccountRequest](m.errs),
		))
	})

	return r
}

// limit throttles a route per client IP. A nil limiter disables it.
func (m *Module) limit(l ratelimiter.RateLimiter, name string) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return ratelimiter.Middleware(l,
		ratelimiter.Composite(ratelimiter.Static(name), clientip.GetIP),
		RateLimitError(m.Logger),
	)
}

// actor returns the signed-in user id from the session grant.
func actor(ctx context.Context) (grant.Grant, error) {
	return grant.RequireKind(ctx, grant.KindSession)
}

// RateLimitError renders limiter failures with the shared JSON envelope.
func RateLimitError(log *slog.Logger) ratelimiter.ErrorFunc {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		httpErr := gateway.HTTPError(err)
		if httpErr.Code >= http.StatusInternalServerError {
			log.ErrorContext(r.Context(), "rate limiter failed", logger.Error(err))
		}
		_ = handler.JSONError(httpErr).Render(w, r)
	}
}
