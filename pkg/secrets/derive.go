package secrets

import (
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size of every derived key (256 bits).
	KeySize = 32

	// MinSecretLength is the shortest application secret accepted by Derive.
	MinSecretLength = 32

	salt = "folio-secrets-v1"
)

// Derive expands the application secret into an independent key for the given
// purpose using HKDF-SHA256. Different purposes yield unrelated keys, so one
// APP_SECRET can back the passcode pepper, the admin grant signing key and the
// OAuth state signature without any of them being usable for another.
//
//	pepper, err := secrets.Derive(cfg.AppSecret, "passcode-pepper")
func Derive(secret, purpose string) ([]byte, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrSecretTooShort
	}
	if purpose == "" {
		return nil, ErrEmptyPurpose
	}

	r := hkdf.New(sha256.New, []byte(secret), []byte(salt), []byte(purpose))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}

// MustDerive is Derive for startup code; it panics on error.
func MustDerive(secret, purpose string) []byte {
	key, err := Derive(secret, purpose)
	if err != nil {
		panic(err)
	}
	return key
}
