package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/pkg/audit"
	"github.com/dmitrymomot/folio/pkg/clientip"
	"github.com/dmitrymomot/folio/pkg/requestid"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newLogger := func(storage audit.Storage) *audit.Logger {
		return audit.NewLogger(storage,
			audit.WithClock(func() time.Time { return now }),
			audit.WithRequestIDExtractor(requestid.FromContext),
			audit.WithIPExtractor(clientip.FromContext),
			audit.WithActorExtractor(func(context.Context) (string, string, bool) {
				return "admin", "admin@example.com", true
			}),
		)
	}

	ctx := requestid.WithContext(context.Background(), "req-1")
	ctx = clientip.WithContext(ctx, "203.0.113.7")

	t.Run("success event", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		l := newLogger(storage)

		require.NoError(t, l.Log(ctx, "project.delete", audit.WithResource("project", "p1")))

		events := storage.Events()
		require.Len(t, events, 1)
		e := events[0]
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "project.delete", e.Action)
		assert.Equal(t, audit.ResultSuccess, e.Result)
		assert.Equal(t, "project", e.Resource)
		assert.Equal(t, "p1", e.ResourceID)
		assert.Equal(t, "req-1", e.RequestID)
		assert.Equal(t, "203.0.113.7", e.IP)
		assert.Equal(t, "admin@example.com", e.Actor)
		assert.Equal(t, now, e.CreatedAt)
	})

	t.Run("failure event", func(t *testing.T) {
		t.Parallel()
		storage := audit.NewMemoryStorage()
		l := newLogger(storage)

		require.NoError(t, l.LogError(ctx, "account.delete", errors.New("bad code"),
			audit.WithResult(audit.ResultFailure),
			audit.WithMetadata("flow", "account_deletion"),
		))

		e := storage.Events()[0]
		assert.Equal(t, audit.ResultFailure, e.Result)
		assert.Equal(t, "bad code", e.Error)
		assert.Equal(t, "account_deletion", e.Metadata["flow"])
	})

	t.Run("action is required", func(t *testing.T) {
		t.Parallel()
		l := newLogger(audit.NewMemoryStorage())
		assert.ErrorIs(t, l.Log(ctx, ""), audit.ErrEventValidation)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()
		l := newLogger(audit.StorageFunc(func(context.Context, audit.Event) error {
			return errors.New("db down")
		}))
		assert.ErrorIs(t, l.Log(ctx, "project.update"), audit.ErrStorage)
	})

	t.Run("nil storage panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { audit.NewLogger(nil) })
	})
}
