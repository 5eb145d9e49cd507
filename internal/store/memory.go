// ABOUTME: In-memory Store implementation for tests and ephemeral runs
// ABOUTME: Mutex-guarded map with the same contract as the durable backends

package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-memory Store. Nothing survives process exit; it
// backs tests and the "memory" store backend.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

// Bind records code as userID's current code.
func (m *MemoryStore) Bind(ctx context.Context, userID, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.records[userID]
	rec.bind(code)
	m.records[userID] = rec
	return nil
}

// Current returns userID's current code, or ErrNotBound.
func (m *MemoryStore) Current(ctx context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[userID]
	if !ok || rec.Current == "" {
		return "", ErrNotBound
	}
	return rec.Current, nil
}

// History returns userID's codes oldest first, or ErrNotBound.
func (m *MemoryStore) History(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[userID]
	if !ok {
		return nil, ErrNotBound
	}
	return slices.Clone(rec.Codes), nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
