package secrets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/secrets"
)

func TestDerive(t *testing.T) {
	t.Parallel()

	secret := strings.Repeat("s", 32)

	t.Run("deterministic per purpose", func(t *testing.T) {
		t.Parallel()

		a, err := secrets.Derive(secret, "passcode-pepper")
		require.NoError(t, err)
		b, err := secrets.Derive(secret, "passcode-pepper")
		require.NoError(t, err)

		assert.Len(t, a, secrets.KeySize)
		assert.Equal(t, a, b)
	})

	t.Run("purposes are independent", func(t *testing.T) {
		t.Parallel()

		a := secrets.MustDerive(secret, "passcode-pepper")
		b := secrets.MustDerive(secret, "admin-grant")
		assert.NotEqual(t, a, b)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := secrets.Derive("short", "x")
		assert.ErrorIs(t, err, secrets.ErrSecretTooShort)
	})

	t.Run("rejects empty purpose", func(t *testing.T) {
		t.Parallel()

		_, err := secrets.Derive(secret, "")
		assert.ErrorIs(t, err, secrets.ErrEmptyPurpose)
	})
}
