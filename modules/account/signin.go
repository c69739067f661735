package account

import (
	"net/http"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/logger"
)

type providerRequest struct {
	Provider string `path:"provider"`
}

func (m *Module) providers(_ handler.Context, _ noRequest) handler.Response {
	return handler.JSON(map[string][]string{"providers": m.SignIn.Providers()})
}

func (m *Module) login(ctx handler.Context, req providerRequest) handler.Response {
	url, err := m.SignIn.Begin(ctx.ResponseWriter(), req.Provider)
	if err != nil {
		return handler.Error(err)
	}
	return handler.RedirectWithCode(url, http.StatusFound)
}

func (m *Module) callback(ctx handler.Context, req providerRequest) handler.Response {
	q := ctx.Request().URL.Query()
	if e := q.Get("error"); e != "" {
		m.Logger.WarnContext(ctx, "provider denied sign-in", logger.Event("auth.denied"))
		return handler.Error(handler.ErrUnauthorized.WithMessage("Sign-in was cancelled."))
	}

	if _, err := m.SignIn.Complete(ctx, ctx.ResponseWriter(), ctx.Request(), req.Provider, q.Get("state"), q.Get("code")); err != nil {
		return handler.Error(err)
	}
	return handler.Redirect(m.SuccessURL)
}

func (m *Module) logout(ctx handler.Context, _ noRequest) handler.Response {
	if err := m.Sessions.Destroy(ctx, ctx.ResponseWriter(), ctx.Request()); err != nil {
		return handler.Error(err)
	}
	return handler.Empty()
}
