package jobs

import (
	"context"
	"sync"
)

// MemoryStore is the single-node job store: a guarded map, no eviction.
type MemoryStore struct {
	mu       sync.RWMutex
	analyses map[string]*Analysis
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		analyses: make(map[string]*Analysis),
	}
}

// Put writes or replaces the analysis for its document ID.
func (m *MemoryStore) Put(ctx context.Context, analysis *Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *analysis
	m.analyses[analysis.DocumentID] = &copied
	return nil
}

// Get returns the analysis for a document ID, or ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, documentID string) (*Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	analysis, ok := m.analyses[documentID]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *analysis
	return &copied, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
