// Package state owns the application-wide key/value state bag.
//
// Keys live under a namespace so unrelated components (flash messages,
// module data) cannot collide. Backends are selected by configuration.
package state

import (
	"sort"
	"sync"
)

// Store is the state bag boundary used by the request context.
type Store interface {
	Get(ns, key string) (string, bool, error)
	Set(ns, key, value string) error
	Unset(ns, key string) error
	Keys(ns string) ([]string, error)
}

// MemoryStore is a mutex-guarded in-memory state bag. It is the default
// backend; contents do not survive a process restart.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(ns, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.store[ns][key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ns, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.store[ns]
	if !ok {
		bucket = make(map[string]string)
		s.store[ns] = bucket
	}
	bucket[key] = value
	return nil
}

func (s *MemoryStore) Unset(ns, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.store[ns], key)
	return nil
}

func (s *MemoryStore) Keys(ns string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.store[ns]))
	for k := range s.store[ns] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
