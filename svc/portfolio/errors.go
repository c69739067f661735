package portfolio

import "errors"

var (
	ErrNotFound      = errors.New("portfolio.not_found")
	ErrForbidden     = errors.New("portfolio.forbidden")
	ErrUsernameTaken = errors.New("portfolio.username_taken")
	ErrEmailRequired = errors.New("portfolio.email_required")
	ErrRepository    = errors.New("portfolio.repository_failed")
	ErrCatalog       = errors.New("portfolio.invalid_catalog")
)
