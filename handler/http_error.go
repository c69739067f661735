package handler

import (
	"maps"
	"net/http"
)

// HTTPError is an error with an HTTP status code and a stable machine key.
// Message is safe to show to clients; Details carries per-field problems.
type HTTPError struct {
	Code    int
	Key     string
	Message string
	Details map[string][]string
	Header  http.Header
}

func (e HTTPError) Error() string {
	return e.Key
}

// WithMessage returns a copy with a client-facing message.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// WithDetails returns a copy carrying field errors.
func (e HTTPError) WithDetails(details map[string][]string) HTTPError {
	e.Details = maps.Clone(details)
	return e
}

// WithHeader returns a copy that sets an extra response header.
func (e HTTPError) WithHeader(key, value string) HTTPError {
	h := e.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	h.Set(key, value)
	e.Header = h
	return e
}

var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Key: "bad_request", Message: "The request could not be understood."}
	ErrUnauthorized          = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized", Message: "Authorization is required."}
	ErrForbidden             = HTTPError{Code: http.StatusForbidden, Key: "forbidden", Message: "You do not have access to this resource."}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Key: "not_found", Message: "The requested resource was not found."}
	ErrConflict              = HTTPError{Code: http.StatusConflict, Key: "conflict", Message: "The request conflicts with existing data."}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large", Message: "The request body is too large."}
	ErrUnsupportedMediaType  = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type", Message: "Expected an application/json body."}
	ErrTooManyRequests       = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests", Message: "Too many requests, try again later."}
	ErrInternalServerError   = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error", Message: "Something went wrong. Please try again."}
)
