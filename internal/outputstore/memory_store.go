package outputstore

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps output values in a process-wide map keyed by Identity.
// Values are stored live, without serialization, so durability is bounded by
// the hosting process lifetime. There is no teardown; the map lives as long
// as the store does.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[Identity]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[Identity]any)}
}

func (s *MemoryStore) Write(_ context.Context, sc StoreContext, value any) (*Materialization, error) {
	if s == nil {
		return nil, fmt.Errorf("memory store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[sc.Identity()] = value
	return nil, nil
}

func (s *MemoryStore) Read(_ context.Context, sc StoreContext) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("memory store is nil")
	}
	id := sc.Identity()
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[id]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", id, ErrNotFound)
	}
	return v, nil
}
