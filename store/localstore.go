// File: /store/localstore.go
package store

import (
	"encoding/json"
	"sync"
)

// LocalStore is the view-local key/value mirror of the durable fence store.
// It plays the role browser localStorage plays for the map pages: a
// read-through copy loaded once at view init and written through on every
// state change. It is scoped to the process and never survives a restart.
type LocalStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewLocalStore() *LocalStore {
	return &LocalStore{
		values: make(map[string]string),
	}
}

// Get returns the raw value for key and whether it was present
func (s *LocalStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a raw value under key
func (s *LocalStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Remove deletes key
func (s *LocalStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// GetJSON unmarshals the value for key into out. Returns false when the key
// is absent or holds something unparseable.
func (s *LocalStore) GetJSON(key string, out interface{}) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(raw), out) == nil
}

// SetJSON marshals v and stores it under key. Marshal failures are dropped;
// the mirror is best-effort by design.
func (s *LocalStore) SetJSON(key string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.Set(key, string(raw))
}
