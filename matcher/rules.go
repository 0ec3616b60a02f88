package matcher

import (
	"errors"
	"fmt"
	"io"

	"github.com/coregx/tokmatch/attr"
	"gopkg.in/yaml.v3"
)

// RuleSet is the decoded form of a YAML rule file:
//
//	patterns:
//	  - key: HELLO_WORLD
//	    patterns:
//	      - [{LOWER: hello}, {IS_PUNCT: true, OP: "?"}, {LOWER: world}]
//	phrases:
//	  - key: CITY
//	    phrases:
//	      - [Washington]
//	      - [Washington, ",", D.C.]
type RuleSet struct {
	Patterns []PatternRule `yaml:"patterns"`
	Phrases  []PhraseRule  `yaml:"phrases"`
}

// PatternRule registers token patterns under Key.
type PatternRule struct {
	Key      string    `yaml:"key"`
	Patterns []Pattern `yaml:"patterns"`
}

// PhraseRule registers text phrases under Key.
type PhraseRule struct {
	Key     string     `yaml:"key"`
	Phrases [][]string `yaml:"phrases"`
}

// LoadRules decodes a rule file. Unknown top-level or rule fields are
// rejected. An empty input yields an empty RuleSet.
func LoadRules(r io.Reader) (*RuleSet, error) {
	var rs RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rs); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	return &rs, nil
}

// Apply registers the rule set's patterns with m and its phrases with pm,
// without callbacks. Either engine may be nil if the rule set has no
// entries for it.
//
// Every rule is validated before any is registered, and each engine takes
// its rules in a single rebuild, so a failing Apply leaves both engines
// unchanged.
func (rs *RuleSet) Apply(m *Matcher, pm *PhraseMatcher) error {
	if len(rs.Patterns) > 0 && m == nil {
		return errors.New("rules: pattern rules need a Matcher")
	}
	if len(rs.Phrases) > 0 && pm == nil {
		return errors.New("rules: phrase rules need a PhraseMatcher")
	}

	patterns := make([]*entry[[]attr.Constraint, Callback], len(rs.Patterns))
	for i, r := range rs.Patterns {
		compiled, err := m.prepare(r.Key, r.Patterns)
		if err != nil {
			return fmt.Errorf("pattern rule %d: %w", i, err)
		}
		patterns[i] = &entry[[]attr.Constraint, Callback]{key: r.Key, patterns: compiled}
	}
	phrases := make([]*entry[[]uint64, PhraseCallback], len(rs.Phrases))
	for i, r := range rs.Phrases {
		encoded, err := pm.prepareText(r.Key, r.Phrases)
		if err != nil {
			return fmt.Errorf("phrase rule %d: %w", i, err)
		}
		phrases[i] = &entry[[]uint64, PhraseCallback]{key: r.Key, patterns: encoded}
	}

	// Validated phrases always build, so the phrase side cannot fail once
	// the pattern side has been published.
	if len(patterns) > 0 {
		if err := m.registerAll(patterns...); err != nil {
			return fmt.Errorf("pattern rules: %w", err)
		}
	}
	if len(phrases) > 0 {
		if err := pm.registerAll(phrases...); err != nil {
			return fmt.Errorf("phrase rules: %w", err)
		}
	}
	return nil
}
