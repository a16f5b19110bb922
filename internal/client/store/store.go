// Package store provides the client's durable key-value storage,
// the stand-in for the browser's localStorage. Both the session and
// cart engines persist through it, under disjoint keys.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known keys. Each engine owns its keys exclusively.
const (
	KeyToken = "token"
	KeyEmail = "email"
	KeyCart  = "cart"
)

const stateFile = "state.json"

// Store is a file-backed string key-value store. All operations are
// synchronous; Set and Remove rewrite the backing file before returning.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// New opens the store rooted at dir, creating the directory if needed
// and loading any previously persisted state. A missing or unreadable
// state file is treated as an empty store, never as an error.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	s := &Store{
		path:   filepath.Join(dir, stateFile),
		values: make(map[string]string),
	}
	s.load()
	return s, nil
}

// load reads the backing file into memory. Malformed or missing
// content leaves the store empty.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return
	}
	s.values = values
}

// Get returns the value stored under key, and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

// Remove deletes key from the store and persists the change.
// Removing an absent key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

// save writes the current values to the backing file. Callers hold s.mu.
func (s *Store) save() error {
	data, err := json.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}
