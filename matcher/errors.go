package matcher

import (
	"errors"
	"fmt"

	"github.com/coregx/tokmatch/phrase"
)

// Registration and lookup errors. Every error returned by Add, AddText,
// AddConstraints, Remove and Get wraps one of these.
var (
	ErrUnknownAttribute = errors.New("unknown attribute")
	ErrUnknownFlag      = errors.New("unknown flag")
	ErrBadQuantifier    = errors.New("bad quantifier")
	ErrBadValue         = errors.New("bad attribute value")
	ErrEmptyPattern     = errors.New("empty pattern")
	ErrNoPatterns       = errors.New("no patterns")
	ErrEmptyPhrase      = phrase.ErrEmptyPhrase
	ErrEmptyKey         = errors.New("empty key")
	ErrNotFound         = errors.New("key not found")
)

// ConfigurationError reports a registration that was rejected. The
// registration has no effect. Pattern and Token locate the offending
// element; they are -1 when the error is not specific to one.
type ConfigurationError struct {
	Key     string
	Pattern int
	Token   int
	Err     error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	switch {
	case e.Pattern >= 0 && e.Token >= 0:
		return fmt.Sprintf("matcher: key %q pattern %d token %d: %v", e.Key, e.Pattern, e.Token, e.Err)
	case e.Pattern >= 0:
		return fmt.Sprintf("matcher: key %q pattern %d: %v", e.Key, e.Pattern, e.Err)
	default:
		return fmt.Sprintf("matcher: key %q: %v", e.Key, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// LookupError reports Remove or Get of a key that is not registered.
type LookupError struct {
	Key string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("matcher: %v: %q", ErrNotFound, e.Key)
}

// Unwrap returns ErrNotFound.
func (e *LookupError) Unwrap() error {
	return ErrNotFound
}

// CallbackError wraps the first error returned by an on-match callback.
// Index is the position of the triggering match in the match list.
type CallbackError struct {
	Key   string
	Index int
	Err   error
}

// Error implements the error interface.
func (e *CallbackError) Error() string {
	return fmt.Sprintf("matcher: callback for %q at match %d: %v", e.Key, e.Index, e.Err)
}

// Unwrap returns the callback's error.
func (e *CallbackError) Unwrap() error {
	return e.Err
}

func configErr(key string, pattern, token int, err error) error {
	return &ConfigurationError{Key: key, Pattern: pattern, Token: token, Err: err}
}
