// Package hidden persists the set of confirmed claim keys so confirmed
// rows stay suppressed across console restarts.
package hidden

import "sync"

// Store is a durable idempotency set of stable claim keys. Implementations
// must be safe for concurrent use.
type Store interface {
	// Add marks a claim key as hidden.
	Add(key string) error
	// Has reports whether a claim key is hidden.
	Has(key string) (bool, error)
	// Clear removes every hidden key (the explicit reset action).
	Clear() error
	// Close releases any underlying resources.
	Close() error
}

// MemStore is an in-memory Store, used in tests and as the fallback when no
// durable backend is configured.
type MemStore struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{keys: make(map[string]struct{})}
}

// Add implements Store.
func (s *MemStore) Add(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = struct{}{}
	return nil
}

// Has implements Store.
func (s *MemStore) Has(key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok, nil
}

// Clear implements Store.
func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = make(map[string]struct{})
	return nil
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }
