package nfa

import (
	"fmt"

	"github.com/coregx/tokmatch/attr"
)

// StateID uniquely identifies an NFA state.
// This is a 32-bit unsigned integer for compact representation.
type StateID uint32

// Special state constants
const (
	// InvalidState represents an invalid/uninitialized state ID
	InvalidState StateID = 0xFFFFFFFF
)

// StateKind identifies the type of NFA state and determines which transitions are valid.
type StateKind uint8

const (
	// StateMatch is the accepting state of one pattern
	StateMatch StateKind = iota

	// StateToken consumes one token satisfying a constraint
	StateToken

	// StateAbsent is a zero-width assertion: it passes when the current
	// token does not satisfy its constraint, or at the end of the sequence
	StateAbsent

	// StateSplit is an epsilon transition to 2 states
	StateSplit

	// StateEpsilon is an epsilon transition to 1 state
	StateEpsilon
)

// String returns a human-readable representation of the StateKind
func (k StateKind) String() string {
	switch k {
	case StateMatch:
		return "Match"
	case StateToken:
		return "Token"
	case StateAbsent:
		return "Absent"
	case StateSplit:
		return "Split"
	case StateEpsilon:
		return "Epsilon"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// State represents a single NFA state with its transitions.
// The state's kind determines which fields are valid.
type State struct {
	id   StateID
	kind StateKind

	// For Token/Absent/Epsilon: target state
	next StateID

	// For Split: epsilon transitions to two states
	left, right StateID

	// For Token/Absent: index into NFA.constraints
	constraint int32

	// For Match: index of the pattern this state accepts
	pattern int32
}

// ID returns the state's unique identifier
func (s *State) ID() StateID {
	return s.id
}

// Kind returns the state's type
func (s *State) Kind() StateKind {
	return s.kind
}

// IsMatch returns true if this is a match state
func (s *State) IsMatch() bool {
	return s.kind == StateMatch
}

// Next returns the target of Token, Absent and Epsilon states.
// Returns InvalidState for other kinds.
func (s *State) Next() StateID {
	switch s.kind {
	case StateToken, StateAbsent, StateEpsilon:
		return s.next
	}
	return InvalidState
}

// Split returns the two target states for Split states.
// Returns (InvalidState, InvalidState) for non-Split states.
func (s *State) Split() (left, right StateID) {
	if s.kind == StateSplit {
		return s.left, s.right
	}
	return InvalidState, InvalidState
}

// Constraint returns the constraint index of Token and Absent states, or -1.
func (s *State) Constraint() int {
	if s.kind == StateToken || s.kind == StateAbsent {
		return int(s.constraint)
	}
	return -1
}

// Pattern returns the pattern index of a Match state, or -1.
func (s *State) Pattern() int {
	if s.kind == StateMatch {
		return int(s.pattern)
	}
	return -1
}

// String returns a human-readable representation of the state
func (s *State) String() string {
	switch s.kind {
	case StateMatch:
		return fmt.Sprintf("State(%d, Match pattern=%d)", s.id, s.pattern)
	case StateToken:
		return fmt.Sprintf("State(%d, Token c%d -> %d)", s.id, s.constraint, s.next)
	case StateAbsent:
		return fmt.Sprintf("State(%d, Absent c%d -> %d)", s.id, s.constraint, s.next)
	case StateSplit:
		return fmt.Sprintf("State(%d, Split -> [%d, %d])", s.id, s.left, s.right)
	case StateEpsilon:
		return fmt.Sprintf("State(%d, Epsilon -> %d)", s.id, s.next)
	default:
		return fmt.Sprintf("State(%d, Unknown)", s.id)
	}
}

// NFA is a compiled set of token patterns.
//
// Every pattern owns one match state; the start state fans out to all
// pattern starts. An NFA is immutable once built and safe to share between
// goroutines. Mutable search state lives in BoundedBacktracker, PikeVM and
// Cache, one of each per goroutine.
type NFA struct {
	states      []State
	constraints []attr.Constraint
	start       StateID

	// patternCount is the number of patterns (and match states)
	patternCount int
}

// Start returns the starting state ID of the NFA
func (n *NFA) Start() StateID {
	return n.start
}

// State returns the state with the given ID.
// Returns nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// IsMatch returns true if the given state is a match state
func (n *NFA) IsMatch(id StateID) bool {
	if s := n.State(id); s != nil {
		return s.IsMatch()
	}
	return false
}

// States returns the total number of states in the NFA
func (n *NFA) States() int {
	return len(n.states)
}

// PatternCount returns the number of patterns in the NFA
func (n *NFA) PatternCount() int {
	return n.patternCount
}

// Constraints returns the number of distinct constraint slots.
func (n *NFA) Constraints() int {
	return len(n.constraints)
}

// Constraint returns the constraint stored at index i.
func (n *NFA) Constraint(i int) *attr.Constraint {
	return &n.constraints[i]
}

// String returns a human-readable representation of the NFA
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, constraints: %d, patterns: %d, start: %d}",
		len(n.states), len(n.constraints), n.patternCount, n.start)
}
