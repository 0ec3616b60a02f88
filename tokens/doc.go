package tokens

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/vocab"
)

// ErrSpan indicates span offsets outside the document or an empty span.
var ErrSpan = errors.New("invalid span")

// Span is a labelled token range [Start, End).
type Span struct {
	Start int
	End   int
	Label string
}

// Doc is an ordered sequence of tokens sharing a vocabulary. It implements
// attr.Sequence. A Doc is not safe for concurrent mutation.
type Doc struct {
	vocab  *vocab.Vocab
	tokens []Token
	ents   []Span
}

// New creates a document from words, each followed by a space.
func New(v *vocab.Vocab, words ...string) *Doc {
	toks := make([]Token, len(words))
	for i, w := range words {
		toks[i] = Token{Text: w, SpaceAfter: true}
	}
	return FromTokens(v, toks)
}

// FromText splits text on whitespace.
func FromText(v *vocab.Vocab, text string) *Doc {
	return New(v, strings.Fields(text)...)
}

// FromTokens creates a document from annotated tokens. The tokens are
// copied. Runs of tokens with the same non-empty EntType become entities.
func FromTokens(v *vocab.Vocab, toks []Token) *Doc {
	d := &Doc{vocab: v, tokens: make([]Token, len(toks))}
	copy(d.tokens, toks)
	for i := range d.tokens {
		d.tokens[i].analyze(v)

		label := d.tokens[i].EntType
		if label == "" {
			continue
		}
		if n := len(d.ents); n > 0 && d.ents[n-1].End == i && d.ents[n-1].Label == label {
			d.ents[n-1].End++
			continue
		}
		d.ents = append(d.ents, Span{Start: i, End: i + 1, Label: label})
	}
	return d
}

// Vocab returns the document's vocabulary.
func (d *Doc) Vocab() *vocab.Vocab {
	return d.vocab
}

// Len implements attr.Sequence.
func (d *Doc) Len() int {
	return len(d.tokens)
}

// At implements attr.Sequence.
func (d *Doc) At(i int) attr.Token {
	return &d.tokens[i]
}

// Token returns the token at i.
func (d *Doc) Token(i int) *Token {
	return &d.tokens[i]
}

// Text reconstructs the document text from token texts and spacing.
func (d *Doc) Text() string {
	return d.SpanText(0, len(d.tokens))
}

// SpanText returns the text of tokens [start, end) without trailing space.
func (d *Doc) SpanText(start, end int) string {
	var sb strings.Builder
	for i := start; i < end; i++ {
		sb.WriteString(d.tokens[i].Text)
		if d.tokens[i].SpaceAfter && i < end-1 {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// Words returns the token texts.
func (d *Doc) Words() []string {
	out := make([]string, len(d.tokens))
	for i := range d.tokens {
		out[i] = d.tokens[i].Text
	}
	return out
}

func (d *Doc) checkSpan(start, end int) error {
	if start < 0 || end > len(d.tokens) || start >= end {
		return fmt.Errorf("%w: [%d, %d) in document of %d tokens", ErrSpan, start, end, len(d.tokens))
	}
	return nil
}

// Ents returns the entity spans in document order.
func (d *Doc) Ents() []Span {
	return d.ents
}

// SetEntity labels [start, end) as an entity. Entities overlapping the
// new span are removed.
func (d *Doc) SetEntity(start, end int, label string) error {
	if err := d.checkSpan(start, end); err != nil {
		return err
	}
	d.vocab.Strings.Add(label)

	kept := d.ents[:0]
	for _, e := range d.ents {
		if e.End <= start || e.Start >= end {
			kept = append(kept, e)
			continue
		}
		for i := e.Start; i < e.End; i++ {
			d.tokens[i].EntType = ""
		}
	}
	d.ents = kept

	for i := start; i < end; i++ {
		d.tokens[i].EntType = label
	}
	at := len(d.ents)
	for i, e := range d.ents {
		if e.Start > start {
			at = i
			break
		}
	}
	d.ents = append(d.ents, Span{})
	copy(d.ents[at+1:], d.ents[at:])
	d.ents[at] = Span{Start: start, End: end, Label: label}
	return nil
}

// Merge retokenizes [start, end) into one token. The merged token takes
// its annotations from the first token, its trailing space from the last,
// and its lemma from the merged text. Entity spans are shifted; entities
// crossing the span boundary are removed.
func (d *Doc) Merge(start, end int) error {
	if err := d.checkSpan(start, end); err != nil {
		return err
	}
	if end-start == 1 {
		return nil
	}

	merged := d.tokens[start]
	merged.Text = d.SpanText(start, end)
	merged.Lemma = merged.Text
	merged.SpaceAfter = d.tokens[end-1].SpaceAfter
	merged.analyze(d.vocab)

	d.tokens[start] = merged
	d.tokens = append(d.tokens[:start+1], d.tokens[end:]...)

	shift := end - start - 1
	kept := d.ents[:0]
	for _, e := range d.ents {
		switch {
		case e.End <= start:
		case e.Start >= end:
			e.Start -= shift
			e.End -= shift
		case e.Start <= start && e.End >= end:
			e.End -= shift
		default:
			continue
		}
		kept = append(kept, e)
	}
	d.ents = kept
	return nil
}
