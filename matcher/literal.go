package matcher

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/vocab"
)

// opKey is the TokenSpec key holding the quantifier.
const opKey = "OP"

// TokenSpec describes one pattern step in literal form: attribute names
// (case-insensitive, including FLAG<n>) mapped to expected values, plus an
// optional "OP" quantifier ("?", "+", "*", "!", "1"). An empty TokenSpec
// matches any token.
//
// String attributes take a string, LENGTH takes a non-negative integer,
// boolean attributes and flags take a bool.
type TokenSpec map[string]any

// Pattern is a sequence of token specs.
type Pattern []TokenSpec

// compilePattern converts a literal pattern into constraints, interning
// string values in v. On failure it returns the index of the offending
// token spec.
func compilePattern(v *vocab.Vocab, p Pattern) ([]attr.Constraint, int, error) {
	if len(p) == 0 {
		return nil, -1, ErrEmptyPattern
	}
	out := make([]attr.Constraint, len(p))
	for i, spec := range p {
		c, err := compileSpec(v, spec)
		if err != nil {
			return nil, i, err
		}
		out[i] = c
	}
	return out, -1, nil
}

func compileSpec(v *vocab.Vocab, spec TokenSpec) (attr.Constraint, error) {
	var c attr.Constraint

	// Sorted so the predicate order, and therefore error reporting, is stable
	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		value := spec[name]
		if strings.EqualFold(name, opKey) {
			q, err := parseOp(value)
			if err != nil {
				return c, err
			}
			c.Quant = q
			continue
		}
		p, err := compilePredicate(v, name, value)
		if err != nil {
			return c, err
		}
		c.Preds = append(c.Preds, p)
	}
	return c, nil
}

func parseOp(value any) (attr.Quantifier, error) {
	s, ok := value.(string)
	if !ok {
		if n, isInt := toInt(value); isInt && n == 1 {
			return attr.One, nil
		}
		return attr.One, fmt.Errorf("%w: %v", ErrBadQuantifier, value)
	}
	q, err := attr.ParseQuantifier(s)
	if err != nil {
		return attr.One, fmt.Errorf("%w: %q", ErrBadQuantifier, s)
	}
	return q, nil
}

func compilePredicate(v *vocab.Vocab, name string, value any) (attr.Predicate, error) {
	id, err := attr.Parse(name)
	if err != nil {
		return attr.Predicate{}, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}

	if id.IsFlag() {
		fn, ok := v.Flag(id)
		if !ok {
			return attr.Predicate{}, fmt.Errorf("%w: %s", ErrUnknownFlag, id)
		}
		b, ok := value.(bool)
		if !ok {
			return attr.Predicate{}, badValue(id, value)
		}
		return attr.Flag(id, fn, b), nil
	}

	switch id.Kind() {
	case attr.KindBool:
		b, ok := value.(bool)
		if !ok {
			return attr.Predicate{}, badValue(id, value)
		}
		return attr.Bool(id, b), nil

	case attr.KindInt:
		n, ok := toInt(value)
		if !ok || n < 0 {
			return attr.Predicate{}, badValue(id, value)
		}
		return attr.Eq(id, uint64(n)), nil

	default:
		s, ok := value.(string)
		if !ok {
			return attr.Predicate{}, badValue(id, value)
		}
		return attr.Eq(id, v.Strings.Add(s)), nil
	}
}

func badValue(id attr.ID, value any) error {
	return fmt.Errorf("%w: %s expects %s, got %T", ErrBadValue, id, id.Kind(), value)
}

// toInt accepts the integer types a literal or a decoded YAML/JSON
// document can carry.
func toInt(value any) (int64, bool) {
	switch n := value.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < -(1<<63) || n >= 1<<63 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}
