package admin

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/folio/handler"
)

type codeRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type codeIssued struct {
	ExpiresIn int `json:"expires_in"`
}

type grantIssued struct {
	ExpiresAt time.Time `json:"expires_at"`
}

func (m *Module) accepted() handler.Response {
	return handler.JSON(codeIssued{ExpiresIn: int(m.Passcodes.TTL().Seconds())}, handler.WithJSONStatus(http.StatusAccepted))
}

// issueSignInCode rejects any address but the admin's before a code exists.
func (m *Module) issueSignInCode(ctx handler.Context, req codeRequest) handler.Response {
	if err := m.Passcodes.Issue(ctx, m.signIn, req.Email); err != nil {
		return handler.Error(err)
	}
	return m.accepted()
}

func (m *Module) verify(ctx handler.Context, req verifyRequest) handler.Response {
	if err := m.Passcodes.Verify(ctx, m.signIn, req.Email, req.Code); err != nil {
		return handler.Error(err)
	}
	g, err := m.Grants.Grant(ctx, ctx.ResponseWriter(), req.Email)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(grantIssued{ExpiresAt: g.ExpiresAt})
}

func (m *Module) signOut(ctx handler.Context, _ noRequest) handler.Response {
	if err := m.Grants.Revoke(ctx.ResponseWriter(), ctx.Request()); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}

// issueConfirmCode mails a code that confirms one showcase change.
func (m *Module) issueConfirmCode(ctx handler.Context, _ noRequest) handler.Response {
	g, err := admin(ctx)
	if err != nil {
		return handler.Error(err)
	}
	if err := m.Passcodes.Issue(ctx, m.confirm, g.Subject); err != nil {
		return handler.Error(err)
	}
	return m.accepted()
}
