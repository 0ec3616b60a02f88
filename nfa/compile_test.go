package nfa

import (
	"errors"
	"testing"

	"github.com/coregx/tokmatch/attr"
)

func TestCompile_StateLayout(t *testing.T) {
	tests := []struct {
		pattern     string
		states      int
		constraints int
	}{
		{"a", 2, 1},         // token, match
		{"a b c", 4, 3},     // 3 tokens, match
		{"a?", 4, 1},        // token, epsilon, split, match
		{"a*", 4, 1},        // token, epsilon, split, match
		{"a+", 4, 1},        // token, epsilon, split, match
		{"a b! c", 4, 3},    // token, absent, token, match
		{".", 2, 1},         // wildcard token, match
		{"a? b+ c*", 10, 3}, // 3 * (token, epsilon, split), match
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			nfa := compileForTest(tt.pattern)
			if nfa.States() != tt.states {
				t.Errorf("States() = %d, want %d", nfa.States(), tt.states)
			}
			if nfa.Constraints() != tt.constraints {
				t.Errorf("Constraints() = %d, want %d", nfa.Constraints(), tt.constraints)
			}
			if nfa.PatternCount() != 1 {
				t.Errorf("PatternCount() = %d, want 1", nfa.PatternCount())
			}
		})
	}
}

func TestCompile_MultiPattern(t *testing.T) {
	nfa := compileForTest("a", "b c", "d+")

	if nfa.PatternCount() != 3 {
		t.Fatalf("PatternCount() = %d, want 3", nfa.PatternCount())
	}

	seen := map[int]bool{}
	for i := 0; i < nfa.States(); i++ {
		s := nfa.State(StateID(i))
		if s.IsMatch() {
			seen[s.Pattern()] = true
		}
	}
	for p := 0; p < 3; p++ {
		if !seen[p] {
			t.Errorf("no match state for pattern %d", p)
		}
	}

	if nfa.State(nfa.Start()).Kind() != StateSplit {
		t.Errorf("multi-pattern start should be a split, got %s", nfa.State(nfa.Start()).Kind())
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		patterns [][]attr.Constraint
		want     error
		pattern  int
		step     int
	}{
		{"no patterns", nil, ErrNoPatterns, -1, -1},
		{"empty pattern", [][]attr.Constraint{steps("a"), {}}, ErrEmptyPattern, 1, -1},
		{
			"bad quantifier",
			[][]attr.Constraint{{{Quant: attr.One}, {Quant: attr.Quantifier(42)}}},
			ErrInvalidQuantifier, 0, 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDefaultCompiler().Compile(tt.patterns...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Compile() error = %v, want %v", err, tt.want)
			}
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("error %T is not a *CompileError", err)
			}
			if ce.Pattern != tt.pattern || ce.Step != tt.step {
				t.Errorf("CompileError at (%d, %d), want (%d, %d)", ce.Pattern, ce.Step, tt.pattern, tt.step)
			}
		})
	}
}

func TestCompile_TooComplex(t *testing.T) {
	c := NewCompiler(CompilerConfig{MaxStates: 5})
	_, err := c.Compile(steps("a b c"), steps("d e f"))
	if !errors.Is(err, ErrTooComplex) {
		t.Fatalf("Compile() error = %v, want ErrTooComplex", err)
	}
}

func TestCompile_CopiesPredicates(t *testing.T) {
	preds := []attr.Predicate{attr.Eq(attr.Orth, 'a')}
	nfa, err := NewDefaultCompiler().Compile([]attr.Constraint{{Preds: preds}})
	if err != nil {
		t.Fatal(err)
	}
	preds[0].Value = 'z'
	if got := nfa.Constraint(0).Preds[0].Value; got != 'a' {
		t.Errorf("compiled constraint aliased caller slice: value %c", got)
	}
}
