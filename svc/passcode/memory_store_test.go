package passcode_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/folio/svc/passcode"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("put replaces", func(t *testing.T) {
		t.Parallel()
		s := passcode.NewMemoryStore()

		require.NoError(t, s.Put(ctx, passcode.Record{Recipient: "a@x.com", Hash: "h1", IssuedAt: now}))
		require.NoError(t, s.Put(ctx, passcode.Record{Recipient: "a@x.com", Hash: "h2", IssuedAt: now}))
		assert.Equal(t, 1, s.Len())

		_, err := s.Consume(ctx, "a@x.com", "h1", now.Add(-time.Minute))
		assert.ErrorIs(t, err, passcode.ErrNotFound)

		rec, err := s.Consume(ctx, "a@x.com", "h2", now.Add(-time.Minute))
		require.NoError(t, err)
		assert.Equal(t, "h2", rec.Hash)
	})

	t.Run("consume respects freshness", func(t *testing.T) {
		t.Parallel()
		s := passcode.NewMemoryStore()
		require.NoError(t, s.Put(ctx, passcode.Record{Recipient: "a@x.com", Hash: "h", IssuedAt: now}))

		_, err := s.Consume(ctx, "a@x.com", "h", now)
		assert.ErrorIs(t, err, passcode.ErrNotFound)
		assert.Equal(t, 1, s.Len())
	})

	t.Run("fail counts and revokes", func(t *testing.T) {
		t.Parallel()
		s := passcode.NewMemoryStore()

		_, err := s.Fail(ctx, "a@x.com", now.Add(-time.Minute), 2)
		assert.ErrorIs(t, err, passcode.ErrNotFound)

		require.NoError(t, s.Put(ctx, passcode.Record{Recipient: "a@x.com", Hash: "h", IssuedAt: now}))
		n, err := s.Fail(ctx, "a@x.com", now.Add(-time.Minute), 2)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, 1, s.Len())

		n, err = s.Fail(ctx, "a@x.com", now.Add(-time.Minute), 2)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("put resets attempts", func(t *testing.T) {
		t.Parallel()
		s := passcode.NewMemoryStore()

		require.NoError(t, s.Put(ctx, passcode.Record{Recipient: "a@x.com", Hash: "h1", IssuedAt: now}))
		_, err := s.Fail(ctx, "a@x.com", now.Add(-time.Minute), 2)
		require.NoError(t, err)

		require.NoError(t, s.Put(ctx, passcode.Record{Recipient: "a@x.com", Hash: "h2", IssuedAt: now}))
		n, err := s.Fail(ctx, "a@x.com", now.Add(-time.Minute), 2)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("delete expired", func(t *testing.T) {
		t.Parallel()
		s := passcode.NewMemoryStore()
		require.NoError(t, s.Put(ctx, passcode.Record{Recipient: "old@x.com", Hash: "h", IssuedAt: now.Add(-time.Hour)}))
		require.NoError(t, s.Put(ctx, passcode.Record{Recipient: "new@x.com", Hash: "h", IssuedAt: now}))

		require.NoError(t, s.DeleteExpired(ctx, now.Add(-time.Minute)))
		assert.Equal(t, 1, s.Len())
	})
}
