// Package attr defines the token attributes that patterns can constrain and
// the predicates evaluated against them.
//
// Attribute values are uint64: interned string hashes for string attributes,
// 0 or 1 for boolean attributes and the plain integer for LENGTH. Flags are
// boolean attributes allocated at runtime by the vocabulary.
package attr

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a token attribute.
type ID uint32

// Built-in attributes.
const (
	Invalid ID = iota
	Orth
	Lower
	Length
	IsAlpha
	IsASCII
	IsDigit
	IsLower
	IsUpper
	IsTitle
	IsPunct
	IsSpace
	IsStop
	LikeNum
	LikeURL
	LikeEmail
	POS
	Tag
	Dep
	Lemma
	Shape
	EntType

	numBuiltin
)

// FlagBase is the first ID handed out for dynamically registered flags.
// Flag n has ID FlagBase+n and the literal name "FLAG<n>".
const FlagBase ID = 1000

// Kind is the value type of an attribute.
type Kind uint8

const (
	KindString Kind = iota
	KindBool
	KindInt
)

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

var names = [numBuiltin]string{
	Invalid:   "",
	Orth:      "ORTH",
	Lower:     "LOWER",
	Length:    "LENGTH",
	IsAlpha:   "IS_ALPHA",
	IsASCII:   "IS_ASCII",
	IsDigit:   "IS_DIGIT",
	IsLower:   "IS_LOWER",
	IsUpper:   "IS_UPPER",
	IsTitle:   "IS_TITLE",
	IsPunct:   "IS_PUNCT",
	IsSpace:   "IS_SPACE",
	IsStop:    "IS_STOP",
	LikeNum:   "LIKE_NUM",
	LikeURL:   "LIKE_URL",
	LikeEmail: "LIKE_EMAIL",
	POS:       "POS",
	Tag:       "TAG",
	Dep:       "DEP",
	Lemma:     "LEMMA",
	Shape:     "SHAPE",
	EntType:   "ENT_TYPE",
}

var byName = func() map[string]ID {
	m := make(map[string]ID, len(names)+1)
	for id, name := range names {
		if name != "" {
			m[name] = ID(id)
		}
	}
	m["TEXT"] = Orth
	return m
}()

// IsBuiltin reports whether id is one of the enumerated attributes.
func (id ID) IsBuiltin() bool {
	return id > Invalid && id < numBuiltin
}

// IsFlag reports whether id lies in the dynamically allocated flag range.
func (id ID) IsFlag() bool {
	return id >= FlagBase
}

// Kind returns the value type of the attribute. Flags are boolean.
func (id ID) Kind() Kind {
	switch {
	case id == Length:
		return KindInt
	case id >= IsAlpha && id <= LikeEmail, id.IsFlag():
		return KindBool
	default:
		return KindString
	}
}

// String returns the literal name of the attribute.
func (id ID) String() string {
	if id.IsBuiltin() {
		return names[id]
	}
	if id.IsFlag() {
		return "FLAG" + strconv.FormatUint(uint64(id-FlagBase), 10)
	}
	return fmt.Sprintf("ID(%d)", uint32(id))
}

// Parse resolves a literal attribute name (case-insensitive), including the
// FLAG<n> form. Whether a flag is actually registered is up to the vocab.
func Parse(name string) (ID, error) {
	upper := strings.ToUpper(name)
	if id, ok := byName[upper]; ok {
		return id, nil
	}
	if rest, ok := strings.CutPrefix(upper, "FLAG"); ok && rest != "" {
		n, err := strconv.ParseUint(rest, 10, 32)
		if err == nil && n <= uint64(^uint32(0)-uint32(FlagBase)) {
			return FlagBase + ID(n), nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Builtins returns every enumerated attribute in declaration order.
func Builtins() []ID {
	ids := make([]ID, 0, numBuiltin-1)
	for id := Orth; id < numBuiltin; id++ {
		ids = append(ids, id)
	}
	return ids
}
