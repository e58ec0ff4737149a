package theme

import (
	"context"
	"sync"
)

// MemoryStore is a Store held in memory. It counts writes, which makes it
// handy in tests and for requests that cannot carry a cookie.
type MemoryStore struct {
	mu     sync.Mutex
	value  string
	writes []string
}

// NewMemoryStore returns a store preloaded with value.
func NewMemoryStore(value string) *MemoryStore {
	return &MemoryStore{value: value}
}

// Load returns the stored value.
func (s *MemoryStore) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

// Save stores value.
func (s *MemoryStore) Save(_ context.Context, value string) error {
	s.mu.Lock()
	s.value = value
	s.writes = append(s.writes, value)
	s.mu.Unlock()
	return nil
}

// Writes returns every value saved so far, oldest first.
func (s *MemoryStore) Writes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.writes...)
}
