// Package vocab holds the shared, append-only tables a matching engine reads
// from: the string store that interns attribute values and pattern keys, and
// the registry of dynamically added boolean flags.
//
// Both tables are safe for concurrent use. Entries are never removed, so a
// hash or flag ID stays valid for the lifetime of the Vocab.
package vocab

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// StringStore maps strings to stable 64-bit hashes and back.
//
// Hash is a pure function of the string, so two stores agree on every key
// without sharing state; Add additionally records the reverse mapping so the
// original text can be recovered with Lookup.
type StringStore struct {
	mu      sync.RWMutex
	strings map[uint64]string
	order   []uint64
}

// NewStringStore creates an empty store.
func NewStringStore() *StringStore {
	return &StringStore{strings: make(map[uint64]string)}
}

// Hash returns the key for s without interning it.
// The empty string always hashes to 0.
func Hash(s string) uint64 {
	if s == "" {
		return 0
	}
	return xxhash.Sum64String(s)
}

// Add interns s and returns its key.
func (ss *StringStore) Add(s string) uint64 {
	h := Hash(s)
	if h == 0 {
		return 0
	}

	ss.mu.RLock()
	_, ok := ss.strings[h]
	ss.mu.RUnlock()
	if ok {
		return h
	}

	ss.mu.Lock()
	if _, ok := ss.strings[h]; !ok {
		ss.strings[h] = s
		ss.order = append(ss.order, h)
	}
	ss.mu.Unlock()
	return h
}

// Lookup returns the string interned under h.
func (ss *StringStore) Lookup(h uint64) (string, bool) {
	if h == 0 {
		return "", true
	}
	ss.mu.RLock()
	s, ok := ss.strings[h]
	ss.mu.RUnlock()
	return s, ok
}

// Contains reports whether s has been interned.
func (ss *StringStore) Contains(s string) bool {
	_, ok := ss.Lookup(Hash(s))
	return ok
}

// Len returns the number of interned strings.
func (ss *StringStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.order)
}

// Strings returns the interned strings in insertion order.
func (ss *StringStore) Strings() []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	out := make([]string, len(ss.order))
	for i, h := range ss.order {
		out[i] = ss.strings[h]
	}
	return out
}
