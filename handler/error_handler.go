package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/folio/pkg/logger"
	"github.com/dmitrymomot/folio/pkg/requestid"
)

// ErrorMapper translates a domain error into the HTTPError sent to the
// client. Mapping lives with the domain so this package stays generic.
type ErrorMapper func(err error) HTTPError

// DefaultErrorMapper keeps HTTPErrors and hides everything else behind a 500.
func DefaultErrorMapper(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return ErrInternalServerError
}

func logLevel(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// NewErrorHandler returns the shared JSON error handler. Client errors are
// logged at WARN and server errors at ERROR, both with the request id; the
// response only ever contains the mapped, client-safe message.
func NewErrorHandler(log *slog.Logger, mapper ErrorMapper) ErrorHandler[Context] {
	if log == nil {
		log = slog.Default()
	}
	if mapper == nil {
		mapper = DefaultErrorMapper
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		httpErr := mapper(err)

		log.LogAttrs(r.Context(), logLevel(httpErr.Code), "request error",
			logger.RequestID(requestid.FromContext(r.Context())),
			logger.Error(err),
			slog.Int("status_code", httpErr.Code),
			slog.String("code", httpErr.Key),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if renderErr := JSONError(httpErr).Render(ctx.ResponseWriter(), r); renderErr != nil {
			log.ErrorContext(r.Context(), "failed to render error response",
				logger.Error(renderErr),
				logger.Event("render_error"),
			)
		}
	}
}
