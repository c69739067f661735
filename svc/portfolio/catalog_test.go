package portfolio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/svc/portfolio"
)

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()

	c := portfolio.DefaultCatalog()
	assert.Equal(t, "minimal", c.Default().ID)
	assert.Len(t, c.All(), len(c.IDs()))
	assert.Contains(t, c.IDs(), "developer")
	assert.Equal(t, "developer", c.Resolve("developer").ID)
	assert.Equal(t, "minimal", c.Resolve("").ID)
	assert.Equal(t, "minimal", c.Resolve("unknown").ID)
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", "templates: ["},
		{"empty", "templates: []"},
		{"missing id", "templates:\n  - name: X\n    default: true\n"},
		{"duplicate", "templates:\n  - id: a\n    default: true\n  - id: a\n"},
		{"no default", "templates:\n  - id: a\n  - id: b\n"},
		{"two defaults", "templates:\n  - id: a\n    default: true\n  - id: b\n    default: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := portfolio.LoadCatalog([]byte(tt.doc))
			require.ErrorIs(t, err, portfolio.ErrCatalog)
		})
	}

	c, err := portfolio.LoadCatalog([]byte("templates:\n  - id: a\n  - id: b\n    default: true\n"))
	require.NoError(t, err)
	assert.Equal(t, "b", c.Default().ID)
	assert.Equal(t, []string{"a", "b"}, c.IDs())
}
