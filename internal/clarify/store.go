package clarify

import (
	"context"
	"sync"
)

// Store persists pending clarification state keyed by conversation. Expiry
// policy belongs to the implementation (Redis TTL in production).
type Store interface {
	Put(ctx context.Context, conversationID string, st State) error
	// Get returns nil when no clarification is pending.
	Get(ctx context.Context, conversationID string) (*State, error)
	Clear(ctx context.Context, conversationID string) error
}

// MemoryStore is an in-process Store for tests and single-node setups.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Put(_ context.Context, conversationID string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[conversationID] = st
	return nil
}

func (s *MemoryStore) Get(_ context.Context, conversationID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[conversationID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *MemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, conversationID)
	return nil
}
