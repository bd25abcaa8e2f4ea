// Package env holds the shell's variable stores.
package env

import (
	"fmt"
	"strings"
)

// SplitEnv splits a KEY=VALUE pair. Entries without an equals sign have an
// empty value.
func SplitEnv(e string) (key, value string) {
	split := strings.SplitN(e, "=", 2)
	key = split[0]
	if len(split) > 1 {
		value = split[1]
	}
	return key, value
}

// CopyEnv copies all the KEY=VALUE pairs in src to dst.
func CopyEnv(dst *Store, src []string) {
	for _, e := range src {
		dst.Set(SplitEnv(e))
	}
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFromEnvList creates a store holding the given KEY=VALUE pairs. Later
// duplicates replace earlier ones but keep the first position.
func NewStoreFromEnvList(environ []string) *Store {
	out := &Store{}
	CopyEnv(out, environ)
	return out
}

// Store is an ordered set of unique keys with values. Iteration order is the
// order keys were first added.
type Store struct {
	keys   []string
	values map[string]string
}

// Lookup gets the value of key and whether it was set.
func (s *Store) Lookup(key string) (string, bool) {
	val, ok := s.values[key]
	return val, ok
}

// Get returns the value of key or the empty string.
func (s *Store) Get(key string) string {
	val, _ := s.Lookup(key)
	return val
}

// Has returns true if the key is set.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Set adds or replaces key.
func (s *Store) Set(key, value string) {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Unset removes key, it returns true if the key existed.
func (s *Store) Unset(key string) bool {
	if _, ok := s.values[key]; !ok {
		return false
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (s *Store) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.keys)
}

// Environ serializes the store as KEY=VALUE pairs.
func (s *Store) Environ() []string {
	env := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		env = append(env, fmt.Sprintf("%s=%s", k, s.values[k]))
	}
	return env
}

// Clone makes a deep copy of the store.
func (s *Store) Clone() *Store {
	return NewStoreFromEnvList(s.Environ())
}
