package gateway

import (
	"context"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/svc/grant"
	"github.com/dmitrymomot/folio/svc/passcode"
)

// Confirmable is a request that carries a passcode confirming it.
type Confirmable interface {
	ConfirmationCode() string
}

// Targeted requests name the resource they change, for the audit log.
type Targeted interface {
	AuditResource() (resource, id string)
}

// Checked requests are validated before the passcode is verified. A
// rejected body leaves the code usable.
type Checked interface {
	Validate() error
}

// RecipientFunc resolves whose passcode must confirm the request.
type RecipientFunc func(ctx context.Context) (string, error)

// GrantSubject uses the subject of the request grant: the admin email or
// the signed-in user's email.
func GrantSubject(ctx context.Context) (string, error) {
	g, err := grant.RequireAuthorization(ctx)
	if err != nil {
		return "", err
	}
	return g.Subject, nil
}

// Guard verifies req.ConfirmationCode() before the wrapped handler runs.
// Requests implementing Checked are validated first. An error response from
// the handler is audited as a failed mutation.
func Guard[R Confirmable](gw *Gateway, action string, flow passcode.Flow, recipient RecipientFunc) handler.Decorator[handler.Context, R] {
	return func(next handler.HandlerFunc[handler.Context, R]) handler.HandlerFunc[handler.Context, R] {
		return func(ctx handler.Context, req R) handler.Response {
			to, err := recipient(ctx)
			if err != nil {
				return handler.Error(err)
			}
			if c, ok := any(req).(Checked); ok {
				if err := c.Validate(); err != nil {
					return handler.Error(err)
				}
			}

			act := Action{Name: action}
			if t, ok := any(req).(Targeted); ok {
				act.Resource, act.ResourceID = t.AuditResource()
			}

			var resp handler.Response
			err = gw.Execute(ctx, act, flow, to, req.ConfirmationCode(), func(context.Context) error {
				resp = next(ctx, req)
				if resp == nil {
					return errNoResponse
				}
				return handler.ErrorOf(resp)
			})
			if resp == nil {
				return handler.Error(err)
			}
			return resp
		}
	}
}
