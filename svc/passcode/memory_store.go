package passcode

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// MemoryStore keeps records in process memory. It suits tests and a single
// development instance.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Put(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[rec.Recipient] = rec
	return nil
}

func (m *MemoryStore) Consume(_ context.Context, recipient, hash string, notBefore time.Time) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[recipient]
	if !ok || !rec.IssuedAt.After(notBefore) {
		return Record{}, ErrNotFound
	}
	if subtle.ConstantTimeCompare([]byte(rec.Hash), []byte(hash)) != 1 {
		return Record{}, ErrNotFound
	}

	delete(m.records, recipient)
	return rec, nil
}

func (m *MemoryStore) Fail(_ context.Context, recipient string, notBefore time.Time, maxAttempts int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[recipient]
	if !ok || !rec.IssuedAt.After(notBefore) {
		return 0, ErrNotFound
	}

	rec.Attempts++
	if rec.Attempts >= maxAttempts {
		delete(m.records, recipient)
	} else {
		m.records[recipient] = rec
	}
	return rec.Attempts, nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for recipient, rec := range m.records {
		if !rec.IssuedAt.After(before) {
			delete(m.records, recipient)
		}
	}
	return nil
}

// Len returns the number of stored records.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
