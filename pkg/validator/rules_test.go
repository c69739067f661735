package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("no errors", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("name", "Ada"),
			validator.ValidEmail("email", "ada@example.com"),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.RequiredString("name", "  "),
			validator.ValidEmail("email", "nope"),
			validator.MaxLenString("bio", "abcdef", 3),
		)
		require.Error(t, err)

		ve := validator.ExtractValidationErrors(err)
		require.Len(t, ve, 3)
		assert.True(t, ve.Has("email"))
		assert.Equal(t, []string{"field is required"}, ve.Fields()["name"])
		assert.Contains(t, err.Error(), "bio: must be at most 3 characters long")
	})

	t.Run("detects wrapped validation errors", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("issue: %w", validator.Apply(validator.RequiredString("x", "")))
		assert.True(t, validator.IsValidationError(err))
		assert.False(t, validator.IsValidationError(errors.New("other")))
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"admin@example.com", "first.last+tag@sub.example.org"}
	invalid := []string{"", "admin", "admin@", "@example.com", "admin@localhost", "admin@example..com", "Admin <admin@example.com>"}

	for _, v := range valid {
		assert.True(t, validator.ValidEmail("email", v).Check(), v)
	}
	for _, v := range invalid {
		assert.False(t, validator.ValidEmail("email", v).Check(), v)
	}
}

func TestPasscode(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.Passcode("code", "004217").Check())
	assert.False(t, validator.Passcode("code", "4217").Check())
	assert.False(t, validator.Passcode("code", "12345a").Check())
	assert.False(t, validator.Passcode("code", "1234567").Check())
	assert.False(t, validator.Passcode("code", "１２３４５６").Check())
}

func TestStringRules(t *testing.T) {
	t.Parallel()

	assert.True(t, validator.LenString("code", "123456", 6).Check())
	assert.False(t, validator.LenString("code", "12345", 6).Check())
	assert.True(t, validator.ValidNumericString("code", "000000").Check())
	assert.False(t, validator.ValidNumericString("code", "").Check())
	assert.True(t, validator.MaxLenString("bio", "héllo", 5).Check())

	assert.True(t, validator.OptionalURL("repo", "").Check())
	assert.True(t, validator.OptionalURL("repo", "https://github.com/ada").Check())
	assert.False(t, validator.OptionalURL("repo", "javascript:alert(1)").Check())
	assert.False(t, validator.OptionalURL("repo", "github.com/ada").Check())

	assert.True(t, validator.InListString("template", "minimal", []string{"minimal", "bold"}).Check())
	assert.False(t, validator.InListString("template", "neon", []string{"minimal", "bold"}).Check())

	assert.True(t, validator.ValidUsername("username", "ada-lovelace").Check())
	assert.False(t, validator.ValidUsername("username", "Ada").Check())
	assert.False(t, validator.ValidUsername("username", "-ada").Check())
	assert.False(t, validator.ValidUsername("username", "ab").Check())

	assert.True(t, validator.ValidUUID("id", uuid.NewString()).Check())
	assert.False(t, validator.ValidUUID("id", "42").Check())
}
