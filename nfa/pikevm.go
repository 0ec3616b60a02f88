package nfa

import (
	"github.com/coregx/tokmatch/internal/sparse"
)

// PikeVM simulates the NFA breadth-first: it keeps the set of states
// active at the current position, advances every Token state over the
// token at that position, and stops when no state survives. Memory is
// O(states) regardless of sequence length, which makes it the fallback
// when the backtracker's visited table would be too large.
//
// A PikeVM holds per-search state and is not safe for concurrent use.
type PikeVM struct {
	nfa *NFA

	// curr and next hold the active states of two adjacent positions
	curr *sparse.Set
	next *sparse.Set

	// stack is reused for the epsilon closure
	stack []StateID
}

// NewPikeVM creates a new PikeVM for the given NFA
func NewPikeVM(nfa *NFA) *PikeVM {
	return &PikeVM{
		nfa:  nfa,
		curr: sparse.New(nfa.States()),
		next: sparse.New(nfa.States()),
	}
}

// Longest has the same contract as BoundedBacktracker.Longest.
func (p *PikeVM) Longest(cache *Cache, start int, ends []int) {
	for i := range ends {
		ends[i] = -1
	}

	n := cache.Len()
	p.curr.Clear()
	p.addClosure(p.curr, cache, p.nfa.start, start, n)

	for pos := start; p.curr.Len() > 0; pos++ {
		p.next.Clear()
		for _, sid := range p.curr.Values() {
			s := &p.nfa.states[sid]
			switch s.kind {
			case StateMatch:
				if pos > ends[s.pattern] {
					ends[s.pattern] = pos
				}
			case StateToken:
				if pos < n && cache.Eval(int(s.constraint), pos) {
					p.addClosure(p.next, cache, s.next, pos+1, n)
				}
			}
		}
		p.curr, p.next = p.next, p.curr
	}
}

// addClosure inserts id and every state reachable from it without
// consuming a token at pos. Absent assertions are resolved here.
func (p *PikeVM) addClosure(set *sparse.Set, cache *Cache, id StateID, pos, n int) {
	p.stack = append(p.stack[:0], id)
	for len(p.stack) > 0 {
		sid := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]

		if !set.Insert(uint32(sid)) {
			continue
		}

		s := &p.nfa.states[sid]
		switch s.kind {
		case StateSplit:
			p.stack = append(p.stack, s.right, s.left)
		case StateEpsilon:
			p.stack = append(p.stack, s.next)
		case StateAbsent:
			if pos >= n || !cache.Eval(int(s.constraint), pos) {
				p.stack = append(p.stack, s.next)
			}
		}
	}
}
