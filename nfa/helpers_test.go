package nfa

import (
	"strings"

	"github.com/coregx/tokmatch/attr"
)

// charToken is a token whose ORTH value is a single byte.
type charToken byte

func (c charToken) Attr(id attr.ID) (uint64, bool) {
	if id == attr.Orth {
		return uint64(c), true
	}
	return 0, false
}

// charSeq turns "abc" into a three-token sequence.
type charSeq string

func (s charSeq) Len() int           { return len(s) }
func (s charSeq) At(i int) attr.Token { return charToken(s[i]) }

// steps parses a compact pattern notation: whitespace separated steps,
// each a single byte (or '.' for a wildcard) with an optional quantifier
// suffix. "x+ . y!" is [{ORTH:x}+, {}, {ORTH:y}!].
func steps(notation string) []attr.Constraint {
	var out []attr.Constraint
	for _, f := range strings.Fields(notation) {
		var c attr.Constraint
		if f[0] != '.' {
			c.Preds = []attr.Predicate{attr.Eq(attr.Orth, uint64(f[0]))}
		}
		if len(f) > 1 {
			q, err := attr.ParseQuantifier(f[1:])
			if err != nil {
				panic(err)
			}
			c.Quant = q
		}
		out = append(out, c)
	}
	return out
}

func compileForTest(notations ...string) *NFA {
	patterns := make([][]attr.Constraint, len(notations))
	for i, n := range notations {
		patterns[i] = steps(n)
	}
	nfa, err := NewDefaultCompiler().Compile(patterns...)
	if err != nil {
		panic(err)
	}
	return nfa
}

// longestBoth runs both executors and returns their ends.
func longestBoth(nfa *NFA, input string, start int) (bt, vm []int) {
	seq := charSeq(input)
	cache := NewCache(1 << 20)
	cache.Reset(nfa, seq)

	b := NewBoundedBacktracker(nfa)
	b.Reset(seq.Len())
	bt = make([]int, nfa.PatternCount())
	b.Longest(cache, start, bt)

	p := NewPikeVM(nfa)
	vm = make([]int, nfa.PatternCount())
	p.Longest(cache, start, vm)
	return bt, vm
}
