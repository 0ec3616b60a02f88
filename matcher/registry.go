package matcher

import (
	"errors"
	"slices"

	"github.com/coregx/tokmatch/nfa"
)

// entry is one registration: a key with its callback and patterns.
type entry[P, C any] struct {
	key      string
	id       uint64
	cb       C
	patterns []P
}

// registry holds registrations in first-registration order. It is
// treated as immutable: put and remove return a modified copy, so the
// caller can compile the candidate and discard it on failure.
type registry[P, C any] struct {
	entries []*entry[P, C]
	byID    map[uint64]int
}

func newRegistry[P, C any]() *registry[P, C] {
	return &registry[P, C]{byID: make(map[uint64]int)}
}

// put returns a copy with e added, replacing any entry with the same ID
// in place so the key keeps its original rank.
func (r *registry[P, C]) put(e *entry[P, C]) *registry[P, C] {
	out := &registry[P, C]{
		entries: slices.Clone(r.entries),
		byID:    r.byID,
	}
	if i, ok := r.byID[e.id]; ok {
		out.entries[i] = e
		return out
	}
	out.byID = make(map[uint64]int, len(r.byID)+1)
	for id, i := range r.byID {
		out.byID[id] = i
	}
	out.byID[e.id] = len(out.entries)
	out.entries = append(out.entries, e)
	return out
}

// remove returns a copy without the entry for id.
func (r *registry[P, C]) remove(id uint64) (*registry[P, C], bool) {
	i, ok := r.byID[id]
	if !ok {
		return r, false
	}
	out := &registry[P, C]{
		entries: slices.Delete(slices.Clone(r.entries), i, i+1),
		byID:    make(map[uint64]int, len(r.byID)-1),
	}
	for j, e := range out.entries {
		out.byID[e.id] = j
	}
	return out, true
}

func (r *registry[P, C]) get(id uint64) (*entry[P, C], bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.entries[i], true
}

func (r *registry[P, C]) len() int {
	return len(r.entries)
}

// patterns returns the total number of patterns across all entries.
func (r *registry[P, C]) patterns() int {
	n := 0
	for _, e := range r.entries {
		n += len(e.patterns)
	}
	return n
}

// failedKey names the key to blame for a failed rebuild of reg after
// entries were added: the single added key, or the owner of the pattern
// the compiler rejected.
func failedKey[P, C any](reg *registry[P, C], entries []*entry[P, C], err error) string {
	if len(entries) == 1 {
		return entries[0].key
	}
	var ce *nfa.CompileError
	if errors.As(err, &ce) && ce.Pattern >= 0 {
		p := ce.Pattern
		for _, e := range reg.entries {
			if p < len(e.patterns) {
				return e.key
			}
			p -= len(e.patterns)
		}
	}
	return ""
}
