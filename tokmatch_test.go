package tokmatch

import (
	"strings"
	"testing"

	"github.com/coregx/tokmatch/matcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	v := NewVocab()
	m, pm, err := Compile(v, `
patterns:
  - key: A
    patterns: [[{ORTH: a, OP: "+"}]]
phrases:
  - key: B
    phrases: [[b, c]]
`)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, pm.Len())

	doc := NewDoc(v, "a a b c")
	got := m.Match(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "A", KeyOf(v, got[0]))
	assert.Equal(t, 2, got[0].Len())

	got = pm.Match(doc)
	require.Len(t, got, 1)
	assert.Equal(t, "B", KeyOf(v, got[0]))
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rules string
		want  error
	}{
		{"unknown attribute", "patterns: [{key: A, patterns: [[{NOPE: 1}]]}]", matcher.ErrUnknownAttribute},
		{"bad quantifier", `patterns: [{key: A, patterns: [[{ORTH: a, OP: "{2}"}]]}]`, matcher.ErrBadQuantifier},
		{"empty phrase", "phrases: [{key: P, phrases: [[]]}]", matcher.ErrEmptyPhrase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Compile(NewVocab(), tt.rules)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, _, err := Compile(NewVocab(), "patterns: 3")
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Workers = 0
	_, _, err = CompileWithConfig(NewVocab(), strings.NewReader(""), cfg)
	var ce *matcher.ConfigError
	assert.ErrorAs(t, err, &ce)
}

func TestMustCompile(t *testing.T) {
	assert.NotPanics(t, func() { MustCompile(NewVocab(), "") })
	assert.Panics(t, func() { MustCompile(NewVocab(), "patterns: [{key: A, patterns: [[{NOPE: 1}]]}]") })
}

func TestKeyOf(t *testing.T) {
	v := NewVocab()
	assert.Equal(t, "", KeyOf(v, Match{ID: 42}))
}
