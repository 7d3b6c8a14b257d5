package credstore

import "sync"

// MemoryStore is an in-memory credential store for tests.
type MemoryStore struct {
	mu  sync.Mutex
	rec Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return nil, ErrNoRecord
	}
	return m.rec.Clone(), nil
}

func (m *MemoryStore) Save(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec.Clone()
	return nil
}
