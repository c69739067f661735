package handler

import "net/http"

type errorResponse struct {
	err error
}

// Render returns the wrapped error so it reaches the ErrorHandler unchanged.
func (e errorResponse) Render(http.ResponseWriter, *http.Request) error {
	return e.err
}

// Error defers err to the configured ErrorHandler, which classifies, logs
// and renders it. Handlers return it for every failure path.
//
//	if err := svc.DeleteProject(ctx, id); err != nil {
//		return handler.Error(err)
//	}
func Error(err error) Response {
	return errorResponse{err: err}
}

// ErrorOf returns the error carried by a response built with Error, or nil.
func ErrorOf(resp Response) error {
	if e, ok := resp.(errorResponse); ok {
		return e.err
	}
	return nil
}
