package gateway

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/folio/handler"
	"github.com/dmitrymomot/folio/pkg/binder"
	"github.com/dmitrymomot/folio/pkg/jwt"
	"github.com/dmitrymomot/folio/pkg/ratelimiter"
	"github.com/dmitrymomot/folio/pkg/session"
	"github.com/dmitrymomot/folio/pkg/validator"
	"github.com/dmitrymomot/folio/svc/auth"
	"github.com/dmitrymomot/folio/svc/grant"
	"github.com/dmitrymomot/folio/svc/passcode"
	"github.com/dmitrymomot/folio/svc/portfolio"
)

var (
	ErrInvalidOrExpired = handler.HTTPError{Code: http.StatusBadRequest, Key: "invalid_or_expired", Message: "The code is invalid or has expired."}
	ErrValidation       = handler.HTTPError{Code: http.StatusBadRequest, Key: "validation_error", Message: "Some fields are invalid."}
	ErrUsernameTaken    = handler.ErrConflict.WithMessage("This username is already taken.")
	ErrSignInFailed     = handler.ErrBadRequest.WithMessage("Sign-in could not be completed. Please try again.")
	ErrUnverifiedEmail  = handler.ErrForbidden.WithMessage("Sign in with an account that has a verified email address.")
)

// HTTPError translates domain errors into client-safe HTTP errors. Anything
// unrecognized becomes a generic 500, so internal details never leak.
func HTTPError(err error) handler.HTTPError {
	var httpErr handler.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var limitErr *ratelimiter.LimitError
	if errors.As(err, &limitErr) {
		retry := int(limitErr.Result.RetryAfter().Seconds())
		return handler.ErrTooManyRequests.WithHeader("Retry-After", strconv.Itoa(max(retry, 1)))
	}

	if validator.IsValidationError(err) {
		return ErrValidation.WithDetails(validator.ExtractValidationErrors(err).Fields())
	}

	switch {
	case errors.Is(err, passcode.ErrInvalidOrExpired):
		return ErrInvalidOrExpired

	case errors.Is(err, passcode.ErrUnauthorizedRecipient),
		errors.Is(err, grant.ErrUnauthorized),
		errors.Is(err, grant.ErrNotAdmin),
		errors.Is(err, grant.ErrRevoked),
		errors.Is(err, grant.ErrWrongKind),
		errors.Is(err, session.ErrInvalidSession),
		errors.Is(err, session.ErrSessionExpired),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, jwt.ErrInvalidToken),
		errors.Is(err, jwt.ErrExpiredToken),
		errors.Is(err, jwt.ErrTokenNotFound):
		return handler.ErrUnauthorized

	case errors.Is(err, portfolio.ErrForbidden):
		return handler.ErrForbidden
	case errors.Is(err, portfolio.ErrNotFound):
		return handler.ErrNotFound
	case errors.Is(err, portfolio.ErrUsernameTaken):
		return ErrUsernameTaken

	case errors.Is(err, auth.ErrInvalidState), errors.Is(err, auth.ErrInvalidCode):
		return ErrSignInFailed
	case errors.Is(err, auth.ErrUnverifiedEmail), errors.Is(err, auth.ErrNoPrimaryEmail):
		return ErrUnverifiedEmail
	case errors.Is(err, auth.ErrUnknownProvider):
		return handler.ErrNotFound
	case errors.Is(err, auth.ErrNoIdentity):
		return handler.ErrUnauthorized

	case errors.Is(err, binder.ErrRequestTooLarge):
		return handler.ErrRequestEntityTooLarge
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return handler.ErrUnsupportedMediaType
	case errors.Is(err, binder.ErrFailedToParseJSON), errors.Is(err, binder.ErrInvalidPath):
		return handler.ErrBadRequest
	}

	return handler.ErrInternalServerError
}
