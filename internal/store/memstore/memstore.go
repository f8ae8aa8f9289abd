package memstore

import (
	"context"
	"sync"
)

// Store keeps slots in process memory. Contents vanish with the process.
type Store struct {
	mu    sync.Mutex
	slots map[string]string
}

func New() *Store {
	return &Store{slots: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.slots[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
	return nil
}

// Delete drops a slot, as if the browser storage had been cleared externally.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, key)
}

func (s *Store) Close() error { return nil }
