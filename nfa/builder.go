package nfa

import (
	"fmt"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/internal/conv"
)

// Builder constructs NFAs incrementally using a low-level API.
// This provides full control over NFA construction and is used by the Compiler.
type Builder struct {
	states       []State
	constraints  []attr.Constraint
	start        StateID
	patternCount int
}

// NewBuilder creates a new NFA builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new NFA builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		states: make([]State, 0, capacity),
		start:  InvalidState,
	}
}

func (b *Builder) nextID() StateID {
	return StateID(conv.IntToUint32(len(b.states)))
}

// AddConstraint stores c and returns its index for AddToken/AddAbsent.
// The predicate slice is copied to avoid aliasing.
func (b *Builder) AddConstraint(c attr.Constraint) int {
	preds := make([]attr.Predicate, len(c.Preds))
	copy(preds, c.Preds)
	b.constraints = append(b.constraints, attr.Constraint{Preds: preds, Quant: c.Quant})
	return len(b.constraints) - 1
}

// AddMatch adds the match (accepting) state of a new pattern and returns its ID.
// Patterns are numbered in the order their match states are added.
func (b *Builder) AddMatch() StateID {
	id := b.nextID()
	b.states = append(b.states, State{
		id:      id,
		kind:    StateMatch,
		pattern: conv.IntToInt32(b.patternCount),
	})
	b.patternCount++
	return id
}

// AddToken adds a state consuming one token that satisfies constraint.
func (b *Builder) AddToken(constraint int, next StateID) StateID {
	id := b.nextID()
	b.states = append(b.states, State{
		id:         id,
		kind:       StateToken,
		next:       next,
		constraint: conv.IntToInt32(constraint),
	})
	return id
}

// AddAbsent adds a zero-width state that passes only when the current
// token does not satisfy constraint.
func (b *Builder) AddAbsent(constraint int, next StateID) StateID {
	id := b.nextID()
	b.states = append(b.states, State{
		id:         id,
		kind:       StateAbsent,
		next:       next,
		constraint: conv.IntToInt32(constraint),
	})
	return id
}

// AddSplit adds a state with epsilon transitions to two states.
func (b *Builder) AddSplit(left, right StateID) StateID {
	id := b.nextID()
	b.states = append(b.states, State{
		id:    id,
		kind:  StateSplit,
		left:  left,
		right: right,
	})
	return id
}

// AddEpsilon adds a state with a single epsilon transition (no input consumed)
func (b *Builder) AddEpsilon(next StateID) StateID {
	id := b.nextID()
	b.states = append(b.states, State{
		id:   id,
		kind: StateEpsilon,
		next: next,
	})
	return id
}

// Patch updates a state's target. This is used during compilation to handle
// forward references (e.g., loops).
// This only works for states with a single 'next' target (Token, Absent, Epsilon).
func (b *Builder) Patch(stateID, target StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{
			Message: "state ID out of bounds",
			StateID: stateID,
		}
	}

	s := &b.states[stateID]
	switch s.kind {
	case StateToken, StateAbsent, StateEpsilon:
		s.next = target
		return nil
	default:
		return &BuildError{
			Message: fmt.Sprintf("cannot patch state of kind %s", s.kind),
			StateID: stateID,
		}
	}
}

// SetStart sets the starting state for the NFA
func (b *Builder) SetStart(start StateID) {
	b.start = start
}

// States returns the current number of states
func (b *Builder) States() int {
	return len(b.states)
}

// Validate checks that the NFA is well-formed:
// - Start state is valid
// - All state references point to valid states
// - Token/Absent states reference stored constraints
func (b *Builder) Validate() error {
	if b.start == InvalidState {
		return &BuildError{Message: "start state not set", StateID: InvalidState}
	}
	if int(b.start) >= len(b.states) {
		return &BuildError{
			Message: "start state out of bounds",
			StateID: b.start,
		}
	}

	for i, s := range b.states {
		id := StateID(conv.IntToUint32(i))
		switch s.kind {
		case StateToken, StateAbsent:
			if int(s.constraint) < 0 || int(s.constraint) >= len(b.constraints) {
				return &BuildError{
					Message: fmt.Sprintf("invalid constraint %d", s.constraint),
					StateID: id,
				}
			}
			fallthrough
		case StateEpsilon:
			if s.next == InvalidState || int(s.next) >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("invalid next state %d", s.next),
					StateID: id,
				}
			}
		case StateSplit:
			if s.left == InvalidState || int(s.left) >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("invalid left state %d", s.left),
					StateID: id,
				}
			}
			if s.right == InvalidState || int(s.right) >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("invalid right state %d", s.right),
					StateID: id,
				}
			}
		}
	}

	return nil
}

// Build finalizes and returns the constructed NFA.
func (b *Builder) Build() (*NFA, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	return &NFA{
		states:       b.states,
		constraints:  b.constraints,
		start:        b.start,
		patternCount: b.patternCount,
	}, nil
}
