package tokmatch_test

import (
	"fmt"

	"github.com/coregx/tokmatch"
	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/vocab"
)

// ExampleNewMatcher demonstrates optional steps and longest matches.
func ExampleNewMatcher() {
	v := tokmatch.NewVocab()
	m := tokmatch.NewMatcher(v)
	err := m.Add("HELLO_WORLD", nil, tokmatch.Pattern{
		{"LOWER": "hello"},
		{"IS_PUNCT": true, "OP": "?"},
		{"LOWER": "world"},
	})
	if err != nil {
		panic(err)
	}

	doc := tokmatch.NewDoc(v, "Hello , world ! hello world")
	matches, _ := m.Scan(doc)
	for _, mt := range matches {
		fmt.Println(tokmatch.KeyOf(v, mt), doc.SpanText(mt.Start, mt.End))
	}
	// Output:
	// HELLO_WORLD Hello , world
	// HELLO_WORLD hello world
}

// ExampleNewPhraseMatcher demonstrates phrases sharing a prefix.
func ExampleNewPhraseMatcher() {
	v := tokmatch.NewVocab()
	pm := tokmatch.NewPhraseMatcher(v)
	if err := pm.AddText("GPE", nil, []string{"Washington"}, []string{"Washington", ",", "D.C."}); err != nil {
		panic(err)
	}

	doc := tokmatch.NewDoc(v, "I visited Washington , D.C. today")
	for _, mt := range pm.Match(doc) {
		fmt.Printf("%s [%d:%d] %s\n", tokmatch.KeyOf(v, mt), mt.Start, mt.End, doc.SpanText(mt.Start, mt.End))
	}
	// Output:
	// GPE [2:3] Washington
	// GPE [2:5] Washington , D.C.
}

// ExampleCompile demonstrates building engines from a YAML rule set.
func ExampleCompile() {
	v := tokmatch.NewVocab()
	m, pm := tokmatch.MustCompile(v, `
patterns:
  - key: COUNT
    patterns:
      - [{LIKE_NUM: true}, {LOWER: apples}]
phrases:
  - key: FRUIT
    phrases: [[apples], [green, pears]]
`)

	doc := tokmatch.NewDoc(v, "three apples and two green pears")
	for _, mt := range m.Match(doc) {
		fmt.Println(tokmatch.KeyOf(v, mt), doc.SpanText(mt.Start, mt.End))
	}
	for _, mt := range pm.Match(doc) {
		fmt.Println(tokmatch.KeyOf(v, mt), doc.SpanText(mt.Start, mt.End))
	}
	// Output:
	// COUNT three apples
	// FRUIT apples
	// FRUIT green pears
}

// Example_customFlag demonstrates a custom boolean attribute.
func Example_customFlag() {
	v := tokmatch.NewVocab()
	red, blue := vocab.Hash("red"), vocab.Hash("blue")
	isColor := v.AddFlag(func(t attr.Token) bool {
		lower, _ := t.Attr(attr.Lower)
		return lower == red || lower == blue
	})

	m := tokmatch.NewMatcher(v)
	_ = m.Add("COLORED", nil, tokmatch.Pattern{
		{isColor.String(): true},
		{"POS": "NOUN", "OP": "!"},
		{"IS_ALPHA": true},
	})

	doc := tokmatch.NewDoc(v, "a Red car")
	for _, mt := range m.Match(doc) {
		fmt.Println(doc.SpanText(mt.Start, mt.End))
	}
	// Output:
	// Red car
}
