// Package tokens is a small reference document model for the matching
// engines: annotated tokens with lexical attributes, entity labels and
// span merging. Tokenization and annotation are done by the caller.
package tokens

import (
	"strings"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/vocab"
)

// Token is one annotated token. The exported annotation fields may be set
// before the token is added to a Doc; the lexical attributes are derived
// from Text when it is.
type Token struct {
	Text       string
	Lemma      string
	POS        string
	Tag        string
	Dep        string
	EntType    string
	IsStop     bool
	SpaceAfter bool

	flags lexFlags
	orth  uint64
	lower uint64
	shape uint64
}

// analyze derives the lexical attributes and interns every string value.
func (t *Token) analyze(v *vocab.Vocab) {
	t.flags = lexicalFlags(t.Text)
	t.orth = v.Strings.Add(t.Text)
	t.lower = v.Strings.Add(strings.ToLower(t.Text))
	t.shape = v.Strings.Add(Shape(t.Text))
	for _, s := range []string{t.Lemma, t.POS, t.Tag, t.Dep, t.EntType} {
		v.Strings.Add(s)
	}
}

// Attr implements attr.Token. Annotation attributes (LEMMA, POS, TAG,
// DEP) are missing when empty; ENT_TYPE is always present and hashes to 0
// outside entities.
func (t *Token) Attr(id attr.ID) (uint64, bool) {
	switch id {
	case attr.Orth:
		return t.orth, true
	case attr.Lower:
		return t.lower, true
	case attr.Shape:
		return t.shape, true
	case attr.Length:
		return uint64(len([]rune(t.Text))), true
	case attr.IsStop:
		return attr.BoolValue(t.IsStop), true
	case attr.IsAlpha:
		return t.flag(flagAlpha), true
	case attr.IsASCII:
		return t.flag(flagASCII), true
	case attr.IsDigit:
		return t.flag(flagDigit), true
	case attr.IsLower:
		return t.flag(flagLower), true
	case attr.IsUpper:
		return t.flag(flagUpper), true
	case attr.IsTitle:
		return t.flag(flagTitle), true
	case attr.IsPunct:
		return t.flag(flagPunct), true
	case attr.IsSpace:
		return t.flag(flagSpace), true
	case attr.LikeNum:
		return t.flag(flagLikeNum), true
	case attr.LikeURL:
		return t.flag(flagLikeURL), true
	case attr.LikeEmail:
		return t.flag(flagLikeEmail), true
	case attr.EntType:
		return vocab.Hash(t.EntType), true
	case attr.Lemma:
		return annotation(t.Lemma)
	case attr.POS:
		return annotation(t.POS)
	case attr.Tag:
		return annotation(t.Tag)
	case attr.Dep:
		return annotation(t.Dep)
	}
	return 0, false
}

func (t *Token) flag(f lexFlags) uint64 {
	return attr.BoolValue(t.flags&f != 0)
}

func annotation(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	return vocab.Hash(s), true
}
