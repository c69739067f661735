package auth

import "errors"

var (
	ErrUnknownProvider = errors.New("auth.unknown_provider")
	ErrInvalidState    = errors.New("auth.invalid_state")
	ErrInvalidCode     = errors.New("auth.invalid_code")
	ErrUnverifiedEmail = errors.New("auth.unverified_email")
	ErrNoPrimaryEmail  = errors.New("auth.no_primary_email")
	ErrProfileFetch    = errors.New("auth.profile_fetch_failed")
	ErrNoIdentity      = errors.New("auth.no_identity")
)
