// Package nfa compiles token patterns into a Thompson NFA and runs it over
// token sequences.
//
// Each pattern step is a conjunction of attribute predicates with a
// quantifier; the compiler lowers quantifiers into Split/Epsilon structure
// and the executors (BoundedBacktracker, PikeVM) report, for one start
// position, the longest end reachable by every pattern.
package nfa

import (
	"errors"
	"fmt"
)

// Common NFA errors
var (
	// ErrEmptyPattern indicates a pattern with no steps
	ErrEmptyPattern = errors.New("empty pattern")

	// ErrInvalidQuantifier indicates a step with an unknown quantifier
	ErrInvalidQuantifier = errors.New("invalid quantifier")

	// ErrNoPatterns indicates Compile was called without patterns
	ErrNoPatterns = errors.New("no patterns")

	// ErrTooComplex indicates the pattern set exceeds the state limit
	ErrTooComplex = errors.New("pattern set too complex")
)

// CompileError wraps compilation errors with the offending pattern and step.
// Step is -1 when the error concerns the pattern as a whole.
type CompileError struct {
	Pattern int
	Step    int
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern < 0 {
		return fmt.Sprintf("NFA compilation failed: %v", e.Err)
	}
	if e.Step >= 0 {
		return fmt.Sprintf("NFA compilation failed for pattern %d step %d: %v", e.Pattern, e.Step, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed for pattern %d: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during NFA construction via the Builder API
type BuildError struct {
	Message string
	StateID StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
