package nfa

import "github.com/coregx/tokmatch/attr"

const (
	evalUnknown uint8 = iota
	evalFalse
	evalTrue
)

// Cache memoises constraint evaluations for one sequence.
//
// Both executors revisit the same (constraint, position) pair once per
// start offset, so a scan over N tokens would otherwise evaluate each
// predicate up to N times. When constraints*len exceeds the byte budget
// the cache evaluates directly instead.
type Cache struct {
	nfa      *NFA
	seq      attr.Sequence
	n        int
	memo     []uint8
	enabled  bool
	maxBytes int
}

// NewCache creates a cache bounded to maxBytes of memo storage.
// A non-positive budget disables memoisation.
func NewCache(maxBytes int) *Cache {
	return &Cache{maxBytes: maxBytes}
}

// Reset binds the cache to nfa and seq and forgets previous results.
func (c *Cache) Reset(nfa *NFA, seq attr.Sequence) {
	c.nfa = nfa
	c.seq = seq
	c.n = seq.Len()

	size := nfa.Constraints() * c.n
	c.enabled = size > 0 && size <= c.maxBytes
	if !c.enabled {
		c.memo = c.memo[:0]
		return
	}
	if cap(c.memo) >= size {
		c.memo = c.memo[:size]
		clear(c.memo)
	} else {
		c.memo = make([]uint8, size)
	}
}

// Release drops the references to the bound sequence.
func (c *Cache) Release() {
	c.nfa = nil
	c.seq = nil
}

// Len returns the length of the bound sequence.
func (c *Cache) Len() int {
	return c.n
}

// Eval reports whether the token at pos satisfies constraint ci.
func (c *Cache) Eval(ci, pos int) bool {
	if !c.enabled {
		return c.nfa.constraints[ci].Matches(c.seq.At(pos))
	}
	slot := ci*c.n + pos
	switch c.memo[slot] {
	case evalTrue:
		return true
	case evalFalse:
		return false
	}
	ok := c.nfa.constraints[ci].Matches(c.seq.At(pos))
	if ok {
		c.memo[slot] = evalTrue
	} else {
		c.memo[slot] = evalFalse
	}
	return ok
}
