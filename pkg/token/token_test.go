package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/token"
)

type statePayload struct {
	Nonce     string    `json:"n"`
	Provider  string    `json:"p"`
	ExpiresAt time.Time `json:"e"`
}

func (s statePayload) Expiry() time.Time { return s.ExpiresAt }

type plainPayload struct {
	Value string `json:"v"`
}

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := statePayload{Nonce: "abc", Provider: "google", ExpiresAt: time.Now().Add(time.Minute).UTC()}
		tok, err := token.GenerateToken(in, secret)
		require.NoError(t, err)
		assert.Equal(t, 1, strings.Count(tok, "."))

		out, err := token.ParseToken[statePayload](tok, secret)
		require.NoError(t, err)
		assert.Equal(t, in.Nonce, out.Nonce)
		assert.Equal(t, in.Provider, out.Provider)
	})

	t.Run("payload without expiry never expires", func(t *testing.T) {
		t.Parallel()

		tok, err := token.GenerateToken(plainPayload{Value: "x"}, secret)
		require.NoError(t, err)

		out, err := token.ParseToken[plainPayload](tok, secret)
		require.NoError(t, err)
		assert.Equal(t, "x", out.Value)
	})

	t.Run("expired payload", func(t *testing.T) {
		t.Parallel()

		tok, err := token.GenerateToken(statePayload{ExpiresAt: time.Now().Add(-time.Second)}, secret)
		require.NoError(t, err)

		_, err = token.ParseToken[statePayload](tok, secret)
		assert.ErrorIs(t, err, token.ErrExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		tok, err := token.GenerateToken(plainPayload{Value: "x"}, secret)
		require.NoError(t, err)

		_, err = token.ParseToken[plainPayload](tok, []byte("another-secret-another-secret-00"))
		assert.ErrorIs(t, err, token.ErrSignatureInvalid)
	})

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()

		tok, err := token.GenerateToken(plainPayload{Value: "x"}, secret)
		require.NoError(t, err)
		other, err := token.GenerateToken(plainPayload{Value: "y"}, secret)
		require.NoError(t, err)

		forged := strings.Split(other, ".")[0] + "." + strings.Split(tok, ".")[1]
		_, err = token.ParseToken[plainPayload](forged, secret)
		assert.ErrorIs(t, err, token.ErrSignatureInvalid)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		for _, tok := range []string{"", "abc", ".", "abc.", "!!.??"} {
			_, err := token.ParseToken[plainPayload](tok, secret)
			assert.ErrorIs(t, err, token.ErrInvalidToken, tok)
		}
	})
}
