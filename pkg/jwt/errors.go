package jwt

import "errors"

var (
	ErrInvalidToken      = errors.New("jwt: invalid token")
	ErrExpiredToken      = errors.New("jwt: token is expired")
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrSigningKeyTooWeak = errors.New("jwt: signing key must be at least 32 bytes")
	ErrMissingClaims     = errors.New("jwt: missing claims")
	ErrTokenNotFound     = errors.New("jwt: token not found in request")
)
