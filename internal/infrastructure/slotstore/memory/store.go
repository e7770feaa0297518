package memory

import (
	"context"
	"sync"
)

// SlotStore is an in-process slot store used by tests and local development.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func New() *SlotStore {
	return &SlotStore{slots: make(map[string][]byte)}
}

func (s *SlotStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.slots[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}

func (s *SlotStore) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(payload))
	copy(stored, payload)
	s.slots[key] = stored
	return nil
}
