package tokens

import (
	"errors"
	"fmt"
	"io"

	"github.com/coregx/tokmatch/vocab"
	"gopkg.in/yaml.v3"
)

// docFile is the YAML document file layout:
//
//	docs:
//	  - text: "Hello , world !"
//	  - tokens:
//	      - {text: Apple, pos: PROPN, ent_type: ORG}
//	      - {text: rises, pos: VERB, lemma: rise}
type docFile struct {
	Docs []docEntry `yaml:"docs"`
}

type docEntry struct {
	Text   string       `yaml:"text"`
	Tokens []tokenEntry `yaml:"tokens"`
}

type tokenEntry struct {
	Text    string `yaml:"text"`
	Lemma   string `yaml:"lemma"`
	POS     string `yaml:"pos"`
	Tag     string `yaml:"tag"`
	Dep     string `yaml:"dep"`
	EntType string `yaml:"ent_type"`
	IsStop  bool   `yaml:"is_stop"`
	NoSpace bool   `yaml:"no_space"`
}

// LoadDocs decodes a YAML document file. A document is given either as
// whitespace separated text or as a list of annotated tokens.
func LoadDocs(v *vocab.Vocab, r io.Reader) ([]*Doc, error) {
	var f docFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	docs := make([]*Doc, 0, len(f.Docs))
	for i, e := range f.Docs {
		switch {
		case e.Text != "" && len(e.Tokens) > 0:
			return nil, fmt.Errorf("document %d: both text and tokens given", i)
		case len(e.Tokens) > 0:
			toks := make([]Token, len(e.Tokens))
			for j, t := range e.Tokens {
				toks[j] = Token{
					Text:       t.Text,
					Lemma:      t.Lemma,
					POS:        t.POS,
					Tag:        t.Tag,
					Dep:        t.Dep,
					EntType:    t.EntType,
					IsStop:     t.IsStop,
					SpaceAfter: !t.NoSpace,
				}
			}
			docs = append(docs, FromTokens(v, toks))
		default:
			docs = append(docs, FromText(v, e.Text))
		}
	}
	return docs, nil
}
