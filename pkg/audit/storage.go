package audit

import (
	"context"
	"slices"
	"sync"
)

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

// StorageFunc adapts a function to Storage.
type StorageFunc func(ctx context.Context, event Event) error

func (f StorageFunc) Store(ctx context.Context, event Event) error { return f(ctx, event) }

// MemoryStorage keeps events in memory. Used in tests and development.
type MemoryStorage struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Store(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns a copy of the stored events in insertion order.
func (m *MemoryStorage) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.events)
}
