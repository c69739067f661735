package secrets

import "errors"

var (
	ErrSecretTooShort      = errors.New("secrets: application secret must be at least 32 characters")
	ErrEmptyPurpose        = errors.New("secrets: key purpose is required")
	ErrKeyDerivationFailed = errors.New("secrets: key derivation failed")
)
