package attr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknown indicates an attribute name that is neither built in nor a flag
	ErrUnknown = errors.New("unknown attribute")

	// ErrQuantifier indicates a malformed quantifier literal
	ErrQuantifier = errors.New("malformed quantifier")
)

// Token is one annotated position of a sequence.
// Attr reports false when the token does not carry the attribute.
type Token interface {
	Attr(id ID) (uint64, bool)
}

// Sequence is an ordered, indexable run of tokens.
type Sequence interface {
	Len() int
	At(i int) Token
}

// FlagFunc computes a dynamically registered boolean attribute.
type FlagFunc func(Token) bool

// Predicate tests one attribute of one token.
//
// For flags, Flag is set and the predicate holds when Flag(token) equals
// Value != 0. Otherwise the token's value for Attr must equal Value.
type Predicate struct {
	Attr  ID
	Value uint64
	Flag  FlagFunc
}

// Eq returns a predicate requiring attribute id to equal v.
func Eq(id ID, v uint64) Predicate {
	return Predicate{Attr: id, Value: v}
}

// Bool returns a predicate on a boolean attribute.
func Bool(id ID, want bool) Predicate {
	return Predicate{Attr: id, Value: BoolValue(want)}
}

// Flag returns a predicate on a registered flag.
func Flag(id ID, fn FlagFunc, want bool) Predicate {
	return Predicate{Attr: id, Value: BoolValue(want), Flag: fn}
}

// Matches evaluates the predicate. It never panics on a well-formed token.
func (p Predicate) Matches(t Token) bool {
	if p.Flag != nil {
		return p.Flag(t) == (p.Value != 0)
	}
	v, ok := t.Attr(p.Attr)
	return ok && v == p.Value
}

// String returns a human-readable representation of the predicate
func (p Predicate) String() string {
	return fmt.Sprintf("%s=%d", p.Attr, p.Value)
}

// Quantifier controls how many tokens a constraint consumes.
type Quantifier uint8

const (
	// One consumes exactly one token (the default).
	One Quantifier = iota
	// Opt consumes zero or one token ("?").
	Opt
	// Plus consumes one or more tokens ("+").
	Plus
	// Star consumes zero or more tokens ("*").
	Star
	// Zero asserts the current token does not match and consumes nothing ("!").
	Zero
)

// String returns the literal form of the quantifier.
func (q Quantifier) String() string {
	switch q {
	case One:
		return "1"
	case Opt:
		return "?"
	case Plus:
		return "+"
	case Star:
		return "*"
	case Zero:
		return "!"
	default:
		return fmt.Sprintf("Quantifier(%d)", q)
	}
}

// ParseQuantifier parses an OP literal. The empty string means One.
func ParseQuantifier(s string) (Quantifier, error) {
	switch strings.TrimSpace(s) {
	case "", "1":
		return One, nil
	case "?":
		return Opt, nil
	case "+":
		return Plus, nil
	case "*":
		return Star, nil
	case "!":
		return Zero, nil
	}
	return One, fmt.Errorf("%w: %q", ErrQuantifier, s)
}

// Constraint is a conjunction of predicates applied to one pattern step.
// A constraint without predicates matches any token.
type Constraint struct {
	Preds []Predicate
	Quant Quantifier
}

// Matches reports whether every predicate holds for t.
func (c *Constraint) Matches(t Token) bool {
	for i := range c.Preds {
		if !c.Preds[i].Matches(t) {
			return false
		}
	}
	return true
}

// IsWildcard reports whether the constraint has no predicates.
func (c *Constraint) IsWildcard() bool {
	return len(c.Preds) == 0
}

// String returns a human-readable representation of the constraint
func (c *Constraint) String() string {
	parts := make([]string, len(c.Preds))
	for i, p := range c.Preds {
		parts[i] = p.String()
	}
	s := "{" + strings.Join(parts, ",") + "}"
	if c.Quant != One {
		s += c.Quant.String()
	}
	return s
}

// BoolValue converts b to its attribute value encoding.
func BoolValue(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
