package account

import (
	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/session"
	"github.com/dmitrymomot/folio/svc/auth"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

func (m *Module) me(ctx handler.Context, _ noRequest) handler.Response {
	if id, ok := auth.IdentityFromContext(ctx); ok {
		return handler.JSON(id)
	}

	sess, _ := session.FromContext(ctx)
	id, err := auth.Materialize(ctx, sess, m.Portfolio)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(id)
}

func (m *Module) updateProfile(ctx handler.Context, req portfolio.ProfileInput) handler.Response {
	g, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	user, err := m.Portfolio.UpdateProfile(ctx, g.UserID, req)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(user)
}

func (m *Module) suggestUsername(ctx handler.Context, _ noRequest) handler.Response {
	g, err := actor(ctx)
	if err != nil {
		return handler.Error(err)
	}
	username, err := m.Portfolio.SuggestUsername(ctx, g.UserID)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(map[string]string{"username": username})
}
