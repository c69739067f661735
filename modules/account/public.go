package account

import "github.com/dmitrymomot/folio/handler"

type publicPortfolioRequest struct {
	Username string `path:"username"`
}

func (m *Module) templates(_ handler.Context, _ noRequest) handler.Response {
	return handler.JSON(m.Portfolio.Catalog().All())
}

func (m *Module) publicPortfolio(ctx handler.Context, req publicPortfolioRequest) handler.Response {
	p, err := m.Portfolio.PublicPortfolio(ctx, req.Username)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(p)
}
