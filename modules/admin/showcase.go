package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/svc/gateway"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

// showcaseRequest is the body of a showcase create or update: the
// confirmation code plus the item fields, checked before the code is used.
type showcaseRequest[T any] interface {
	gateway.Confirmable
	gateway.Checked
	itemID() uuid.UUID
	item() T
}

// removalRequest is the body of a showcase delete: only the code.
type removalRequest interface {
	gateway.Confirmable
	itemID() uuid.UUID
}

type projectRequest struct {
	ID   uuid.UUID `path:"id" json:"-"`
	Code string    `json:"code"`
	portfolio.ProjectDetails
}

func (r projectRequest) ConfirmationCode() string { return r.Code }
func (r projectRequest) itemID() uuid.UUID        { return r.ID }
func (r projectRequest) item() portfolio.ShowcaseProject {
	return portfolio.ShowcaseProject{ProjectDetails: r.ProjectDetails}
}
func (r projectRequest) Validate() error                 { return r.item().Validate() }
func (r projectRequest) AuditResource() (string, string) { return "showcase_project", auditID(r.ID) }

type projectRemoval struct {
	ID   uuid.UUID `path:"id" json:"-"`
	Code string    `json:"code"`
}

func (r projectRemoval) ConfirmationCode() string        { return r.Code }
func (r projectRemoval) itemID() uuid.UUID               { return r.ID }
func (r projectRemoval) AuditResource() (string, string) { return "showcase_project", auditID(r.ID) }

type educationRequest struct {
	ID   uuid.UUID `path:"id" json:"-"`
	Code string    `json:"code"`
	portfolio.EducationDetails
}

func (r educationRequest) ConfirmationCode() string { return r.Code }
func (r educationRequest) itemID() uuid.UUID        { return r.ID }
func (r educationRequest) item() portfolio.ShowcaseEducation {
	return portfolio.ShowcaseEducation{EducationDetails: r.EducationDetails}
}
func (r educationRequest) Validate() error { return r.item().Validate() }
func (r educationRequest) AuditResource() (string, string) {
	return "showcase_education", auditID(r.ID)
}

type educationRemoval struct {
	ID   uuid.UUID `path:"id" json:"-"`
	Code string    `json:"code"`
}

func (r educationRemoval) ConfirmationCode() string { return r.Code }
func (r educationRemoval) itemID() uuid.UUID        { return r.ID }
func (r educationRemoval) AuditResource() (string, string) {
	return "showcase_education", auditID(r.ID)
}

func auditID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

// mountShowcase registers the read routes and the passcode guarded writes
// for one showcase kind.
func mountShowcase[T portfolio.Validatable, R showcaseRequest[T], D removalRequest](r chi.Router, m *Module, path, name string, res *portfolio.AdminResources[T]) {
	guarded := func(action string, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
		return guard(m, "admin."+name+"."+action, h, binders...)
	}

	verifyLimit := m.limit(m.VerifyLimiter, "admin_confirm_verify")

	r.Route(path, func(r chi.Router) {
		r.Get("/", wrap(m, func(ctx handler.Context, _ noRequest) handler.Response {
			if _, err := admin(ctx); err != nil {
				return handler.Error(err)
			}
			items, err := res.List(ctx)
			if err != nil {
				return handler.Error(err)
			}
			return handler.JSON(items)
		}))

		r.With(verifyLimit).Post("/", guarded("create", func(ctx handler.Context, req R) handler.Response {
			created, err := res.Create(ctx, req.item())
			if err != nil {
				return handler.Error(err)
			}
			return handler.JSON(created, handler.WithJSONStatus(http.StatusCreated))
		}, jsonBinder()))

		r.With(verifyLimit).Put("/{id}", guarded("update", func(ctx handler.Context, req R) handler.Response {
			updated, err := res.Update(ctx, req.itemID(), req.item())
			if err != nil {
				return handler.Error(err)
			}
			return handler.JSON(updated)
		}, pathBinder(), jsonBinder()))

		r.With(verifyLimit).Delete("/{id}", guard(m, "admin."+name+".delete", func(ctx handler.Context, req D) handler.Response {
			if err := res.Delete(ctx, req.itemID()); err != nil {
				return handler.Error(err)
			}
			return handler.Empty()
		}, pathBinder(), jsonBinder()))
	})
}

// guard wraps a write confirmed by a fresh admin passcode.
func guard[R gateway.Confirmable](m *Module, action string, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithDecorators(gateway.Guard[R](m.Gateway, action, m.confirm, gateway.GrantSubject)),
		handler.WithErrorHandler[handler.Context, R](m.errs),
	)
}
