package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// signatureSize is the number of HMAC-SHA256 bytes kept in a token.
const signatureSize = 16

// Expiring is implemented by payloads that carry their own expiry.
// ParseToken rejects such payloads once Expiry has passed.
type Expiring interface {
	Expiry() time.Time
}

// GenerateToken encodes payload as JSON and appends a truncated HMAC-SHA256
// signature: base64url(payload) "." base64url(signature).
func GenerateToken[T any](payload T, secret []byte) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Join(ErrEncode, err)
	}

	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(sign(data, secret)), nil
}

// ParseToken verifies the signature and decodes the payload.
func ParseToken[T any](token string, secret []byte) (T, error) {
	var payload T

	encPayload, encSig, ok := strings.Cut(token, ".")
	if !ok || encPayload == "" || encSig == "" {
		return payload, ErrInvalidToken
	}

	data, err := base64.RawURLEncoding.DecodeString(encPayload)
	if err != nil {
		return payload, ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return payload, ErrInvalidToken
	}

	if subtle.ConstantTimeCompare(sig, sign(data, secret)) != 1 {
		return payload, ErrSignatureInvalid
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, ErrInvalidToken
	}

	if exp, ok := any(payload).(Expiring); ok && !time.Now().Before(exp.Expiry()) {
		return payload, ErrExpired
	}

	return payload, nil
}

func sign(data, secret []byte) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write(data)
	return h.Sum(nil)[:signatureSize]
}
