package passcode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/folio/pkg/environment"
	"github.com/dmitrymomot/folio/svc/passcode"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  passcode.Config
		env  environment.Environment
		err  error
	}{
		{"defaults", passcode.Config{Store: passcode.StorePostgres}, environment.Production, nil},
		{"fallback in development", passcode.Config{Store: passcode.StoreMemory, DeliveryFallback: true}, environment.Development, nil},
		{"fallback in production", passcode.Config{Store: passcode.StoreRedis, DeliveryFallback: true}, environment.Production, passcode.ErrFallbackInProduction},
		{"unknown store", passcode.Config{Store: "sqlite"}, environment.Development, passcode.ErrUnknownStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate(tt.env)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
