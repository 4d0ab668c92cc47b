package session

import (
	"context"
	"fmt"
	"sync"

	"campus/pkg/sentinel"
)

// InMemoryStore keeps the session key space in process memory for tests/dev.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[Key]string
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{values: make(map[Key]string)}
}

func (s *InMemoryStore) Get(_ context.Context, key Key) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("session key %q: %w", key, sentinel.ErrNotFound)
}

func (s *InMemoryStore) Set(_ context.Context, key Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}
