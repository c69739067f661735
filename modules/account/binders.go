package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/binder"
)

func jsonBinder() handler.Bind { return binder.JSON() }

func pathBinder() handler.Bind { return binder.Path(chi.URLParam) }

type noRequest struct{}

// wrap adapts a typed handler with the module's error handler.
func wrap[R any](m *Module, h handler.HandlerFunc[handler.Context, R], binders ...handler.Bind) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[handler.Context, R](binders...),
		handler.WithErrorHandler[handler.Context, R](m.errs),
	)
}
