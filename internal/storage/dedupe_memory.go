package storage

import (
	"context"
	"sync"
)

var _ DedupeStore = (*MemoryDedupeStore)(nil)

type MemoryDedupeStore struct {
	mu      sync.RWMutex
	records map[DedupeKey]DedupeRecord
}

func NewMemoryDedupeStore() *MemoryDedupeStore {
	return &MemoryDedupeStore{
		records: make(map[DedupeKey]DedupeRecord),
	}
}

func (m *MemoryDedupeStore) Get(_ context.Context, key DedupeKey) (DedupeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[key]
	if !ok {
		return DedupeRecord{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryDedupeStore) Create(_ context.Context, record DedupeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.DedupeKey]; exists {
		return ErrAlreadyExists
	}
	m.records[record.DedupeKey] = record
	return nil
}

// Records returns a snapshot of every stored marker.
func (m *MemoryDedupeStore) Records() []DedupeRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]DedupeRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	return out
}
