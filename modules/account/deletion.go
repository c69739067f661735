package account

import (
	"net/http"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/svc/passcode"
)

type deleteAccountRequest struct {
	Code string `json:"code"`
}

func (r deleteAccountRequest) ConfirmationCode() string { return r.Code }

func (r deleteAccountRequest) AuditResource() (string, string) { return "account", "" }

type codeIssued struct {
	ExpiresIn int `json:"expires_in"`
}

// issueDeletionCode mails a code to the signed-in address. Only that
// address can receive it.
func (m *Module) issueDeletionCode(ctx handler.Context, _ noRequest) handler.Response {
	g, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}

	if err := m.Passcodes.Issue(passcode.WithOwner(ctx, g.Subject), m.deletion, g.Subject); err != nil {
		return handler.Error(err)
	}
	return handler.JSON(codeIssued{ExpiresIn: int(m.Passcodes.TTL().Seconds())}, handler.WithJSONStatus(http.StatusAccepted))
}

// deleteAccount runs behind the passcode guard.
func (m *Module) deleteAccount(ctx handler.Context, _ deleteAccountRequest) handler.Response {
	g, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}

	if err := m.Portfolio.DeleteAccount(ctx, g.UserID); err != nil {
		return handler.Error(err)
	}

	// The account is gone; session cleanup failures only leave dead sessions behind.
	if err := m.Sessions.DestroyUser(ctx, g.UserID); err != nil {
		m.Logger.WarnContext(ctx, "failed to destroy user sessions", logger.UserID(g.UserID.String()), logger.Error(err))
	}
	if err := m.Sessions.Destroy(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		m.Logger.WarnContext(ctx, "failed to clear session cookie", logger.Error(err))
	}

	return handler.JSON(map[string]bool{"deleted": true})
}
