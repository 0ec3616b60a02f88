// Package tokmatch provides rule-based matching over annotated token
// sequences.
//
// Patterns are sequences of per-token attribute constraints with optional
// quantifiers; a Matcher compiles all registered patterns into one token
// NFA and reports, for every start position and pattern, the longest
// match. A PhraseMatcher matches closed sets of fixed multi-token phrases
// through a trie.
//
// Basic usage:
//
//	v := tokmatch.NewVocab()
//	m := tokmatch.NewMatcher(v)
//	err := m.Add("HELLO_WORLD", nil, tokmatch.Pattern{
//	    {"LOWER": "hello"},
//	    {"IS_PUNCT": true, "OP": "?"},
//	    {"LOWER": "world"},
//	})
//
//	matches, err := m.Scan(tokmatch.NewDoc(v, "Hello , world !"))
//
// Rule files:
//
//	m, pm, err := tokmatch.Compile(v, `
//	patterns:
//	  - key: GREETING
//	    patterns:
//	      - [{LOWER: hello}, {IS_ALPHA: true, OP: "+"}]
//	phrases:
//	  - key: CITY
//	    phrases: [[New, York], [Paris]]
//	`)
//
// Matchers are safe for concurrent use. Registration publishes a new
// compiled snapshot; scans already running keep using the old one.
package tokmatch

import (
	"fmt"
	"io"
	"strings"

	"github.com/coregx/tokmatch/matcher"
	"github.com/coregx/tokmatch/tokens"
	"github.com/coregx/tokmatch/vocab"
)

// Core types re-exported from the engine packages.
type (
	Vocab          = vocab.Vocab
	Doc            = tokens.Doc
	Matcher        = matcher.Matcher
	PhraseMatcher  = matcher.PhraseMatcher
	Match          = matcher.Match
	Pattern        = matcher.Pattern
	TokenSpec      = matcher.TokenSpec
	Callback       = matcher.Callback
	PhraseCallback = matcher.PhraseCallback
	Config         = matcher.Config
	Stats          = matcher.Stats
)

// NewVocab creates an empty vocabulary.
func NewVocab() *Vocab {
	return vocab.New()
}

// NewDoc tokenizes text on whitespace into a document bound to v.
func NewDoc(v *Vocab, text string) *Doc {
	return tokens.FromText(v, text)
}

// NewMatcher creates a pattern matcher with the default configuration.
func NewMatcher(v *Vocab) *Matcher {
	return matcher.New(v)
}

// NewPhraseMatcher creates a phrase matcher over ORTH.
func NewPhraseMatcher(v *Vocab) *PhraseMatcher {
	return matcher.NewPhraseMatcher(v)
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return matcher.DefaultConfig()
}

// Compile parses a YAML rule set and registers it with a new Matcher and
// a new PhraseMatcher sharing v.
func Compile(v *Vocab, rules string) (*Matcher, *PhraseMatcher, error) {
	return CompileWithConfig(v, strings.NewReader(rules), DefaultConfig())
}

// MustCompile is like Compile but panics if the rules are invalid.
func MustCompile(v *Vocab, rules string) (*Matcher, *PhraseMatcher) {
	m, pm, err := Compile(v, rules)
	if err != nil {
		panic(fmt.Sprintf("tokmatch: Compile: %v", err))
	}
	return m, pm
}

// CompileWithConfig reads a YAML rule set from r and registers it with
// engines built from config.
func CompileWithConfig(v *Vocab, r io.Reader, config Config) (*Matcher, *PhraseMatcher, error) {
	rs, err := matcher.LoadRules(r)
	if err != nil {
		return nil, nil, err
	}
	m, err := matcher.NewWithConfig(v, config)
	if err != nil {
		return nil, nil, err
	}
	pm, err := matcher.NewPhraseMatcherWithConfig(v, config)
	if err != nil {
		return nil, nil, err
	}
	if err := rs.Apply(m, pm); err != nil {
		return nil, nil, err
	}
	return m, pm, nil
}

// KeyOf returns the key string of a match reported by an engine using v.
func KeyOf(v *Vocab, m Match) string {
	s, _ := v.Strings.Lookup(m.ID)
	return s
}
