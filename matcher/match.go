package matcher

import "github.com/coregx/tokmatch/attr"

// Match is one occurrence of a registered pattern. ID is the hash of the
// key the pattern was registered under; [Start, End) are token offsets.
type Match struct {
	ID    uint64
	Start int
	End   int
}

// Len returns the number of tokens covered by the match.
func (m Match) Len() int {
	return m.End - m.Start
}

// Result is one document's outcome in ScanMany. Index is the document's
// position in the input sequence.
type Result struct {
	Index   int
	Doc     attr.Sequence
	Matches []Match
}
