package matcher

import (
	"github.com/coregx/tokmatch/tokens"
	"github.com/coregx/tokmatch/vocab"
)

// span is a match without its ID, for compact expectations.
type span struct{ start, end int }

func spans(matches []Match) []span {
	out := make([]span, len(matches))
	for i, m := range matches {
		out[i] = span{m.Start, m.End}
	}
	return out
}

func newDoc(v *vocab.Vocab, text string) *tokens.Doc {
	return tokens.FromText(v, text)
}

// orth builds a single-token spec on ORTH with an optional quantifier.
func orth(text, op string) TokenSpec {
	spec := TokenSpec{"ORTH": text}
	if op != "" {
		spec["OP"] = op
	}
	return spec
}
