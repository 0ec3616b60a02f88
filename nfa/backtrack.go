package nfa

// BoundedBacktracker finds, for one start position, the longest end every
// pattern can reach. It explores the (state, position) graph depth-first
// with an explicit stack and marks visited pairs with a generation stamp,
// so each pair is expanded at most once per start position and the visited
// table is reused across start positions without clearing.
//
// Exploring every branch, rather than stopping at the first accept, is what
// lets an earlier greedy step give tokens back when a later mandatory step
// needs them: all ends are collected and the largest one wins.
//
// This engine is selected when len(seq)+1 times the state count fits in
// the visited budget. A BoundedBacktracker is not safe for concurrent use.
type BoundedBacktracker struct {
	nfa *NFA

	// visited holds one generation stamp per (state, pos) pair.
	// Layout: index state * (inputLen+1) + pos.
	visited    []uint32
	generation uint32

	// inputLen is cached for index calculations
	inputLen int

	// numStates is cached for bounds checking
	numStates int

	// maxVisitedSize limits the visited table (in entries)
	maxVisitedSize int

	stack []frame
}

type frame struct {
	state StateID
	pos   int
}

// DefaultMaxVisited is the default visited-table budget in entries.
const DefaultMaxVisited = 256 * 1024

// NewBoundedBacktracker creates a new bounded backtracker for the given NFA.
func NewBoundedBacktracker(nfa *NFA) *BoundedBacktracker {
	return NewBoundedBacktrackerWithLimit(nfa, DefaultMaxVisited)
}

// NewBoundedBacktrackerWithLimit creates a backtracker whose visited table
// may hold at most maxVisited entries.
func NewBoundedBacktrackerWithLimit(nfa *NFA, maxVisited int) *BoundedBacktracker {
	return &BoundedBacktracker{
		nfa:            nfa,
		numStates:      nfa.States(),
		maxVisitedSize: maxVisited,
	}
}

// CanHandle returns true if this engine can handle a sequence of n tokens.
// Returns false if the visited table would exceed maxVisitedSize.
func (b *BoundedBacktracker) CanHandle(n int) bool {
	return b.numStates*(n+1) <= b.maxVisitedSize
}

// Reset prepares the backtracker for a sequence of n tokens.
func (b *BoundedBacktracker) Reset(n int) {
	b.inputLen = n

	need := b.numStates * (n + 1)
	if cap(b.visited) >= need {
		b.visited = b.visited[:need]
	} else {
		b.visited = make([]uint32, need)
		b.generation = 0
	}
}

// shouldVisit checks if (state, pos) has been visited in the current
// generation and marks it if not.
func (b *BoundedBacktracker) shouldVisit(state StateID, pos int) bool {
	idx := int(state)*(b.inputLen+1) + pos
	if b.visited[idx] == b.generation {
		return false
	}
	b.visited[idx] = b.generation
	return true
}

// nextGeneration starts a fresh visited epoch, clearing the table only when
// the stamp wraps around.
func (b *BoundedBacktracker) nextGeneration() {
	b.generation++
	if b.generation == 0 {
		clear(b.visited)
		b.generation = 1
	}
}

// Longest explores every path anchored at start and stores in ends[p] the
// largest position at which pattern p accepts, or -1. The cache must be
// bound to the sequence being searched and Reset must have been called
// with its length. len(ends) must equal the NFA's pattern count.
//
//nolint:gocyclo,cyclop // complexity is inherent to state machine dispatch
func (b *BoundedBacktracker) Longest(cache *Cache, start int, ends []int) {
	for i := range ends {
		ends[i] = -1
	}
	b.nextGeneration()

	n := b.inputLen
	b.stack = append(b.stack[:0], frame{state: b.nfa.start, pos: start})
	for len(b.stack) > 0 {
		f := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

		if !b.shouldVisit(f.state, f.pos) {
			continue
		}

		s := &b.nfa.states[f.state]
		switch s.kind {
		case StateMatch:
			if f.pos > ends[s.pattern] {
				ends[s.pattern] = f.pos
			}

		case StateToken:
			if f.pos < n && cache.Eval(int(s.constraint), f.pos) {
				b.stack = append(b.stack, frame{state: s.next, pos: f.pos + 1})
			}

		case StateAbsent:
			if f.pos >= n || !cache.Eval(int(s.constraint), f.pos) {
				b.stack = append(b.stack, frame{state: s.next, pos: f.pos})
			}

		case StateSplit:
			// Push right first so the left (continue) branch is explored first
			b.stack = append(b.stack,
				frame{state: s.right, pos: f.pos},
				frame{state: s.left, pos: f.pos})

		case StateEpsilon:
			b.stack = append(b.stack, frame{state: s.next, pos: f.pos})
		}
	}
}
