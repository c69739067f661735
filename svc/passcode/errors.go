package passcode

import "errors"

var (
	// ErrNotFound is returned by a Store when no live record matches.
	ErrNotFound = errors.New("passcode.not_found")

	ErrInvalidOrExpired      = errors.New("passcode.invalid_or_expired")
	ErrUnauthorizedRecipient = errors.New("passcode.unauthorized_recipient")
	ErrDelivery              = errors.New("passcode.delivery_failed")
	ErrStore                 = errors.New("passcode.store_failed")
	ErrCodeGeneration        = errors.New("passcode.code_generation_failed")
	ErrMissingPepper         = errors.New("passcode.missing_pepper")
	ErrFallbackInProduction  = errors.New("passcode.delivery_fallback_not_allowed_in_production")
	ErrUnknownStore          = errors.New("passcode.unknown_store")
)
