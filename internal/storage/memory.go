package storage

import (
	"context"
	"sync"

	"pulabudget/internal/core"
)

// MemoryStore keeps the serialized document in memory. It round-trips
// through the same blob codec as the SQLite store, so tests exercise
// identical serialization behavior.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*core.AppState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNoState
	}
	return DecodeState(m.data)
}

func (m *MemoryStore) Save(ctx context.Context, state *core.AppState) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
