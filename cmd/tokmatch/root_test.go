package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRules = `
patterns:
  - key: HELLO
    patterns:
      - [{LOWER: hello}, {IS_PUNCT: true, OP: "?"}, {LOWER: world}]
phrases:
  - key: CITY
    phrases: [[Paris], [New, York]]
`

const testDocs = `
docs:
  - text: "Hello , world from Paris"
  - tokens:
      - {text: New, ent_type: GPE}
      - {text: York, ent_type: GPE}
      - {text: says, lemma: say}
      - {text: hello}
      - {text: world}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	rules := writeFile(t, "rules.yaml", testRules)
	docs := writeFile(t, "docs.yaml", testDocs)

	for _, strategy := range []string{"auto", "backtrack", "pikevm"} {
		t.Run(strategy, func(t *testing.T) {
			out, err := execute(t, "", "--rules", rules, "--docs", docs, "--strategy", strategy, "-w", "2")
			require.NoError(t, err)
			assert.Equal(t, strings.Join([]string{
				"0\tHELLO\t0\t3\tHello , world",
				"0\tCITY\t4\t5\tParis",
				"1\tCITY\t0\t2\tNew York",
				"1\tHELLO\t3\t5\thello world",
			}, "\n")+"\n", out)
		})
	}
}

func TestRun_StdinJSON(t *testing.T) {
	rules := writeFile(t, "rules.yaml", testRules)

	out, err := execute(t, "docs: [{text: hello world}]", "--rules", rules, "--json")
	require.NoError(t, err)

	var h hit
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &h))
	assert.Equal(t, hit{Doc: 0, Key: "HELLO", Start: 0, End: 2, Text: "hello world"}, h)
}

func TestRun_LowerPhrases(t *testing.T) {
	rules := writeFile(t, "rules.yaml", "phrases: [{key: CITY, phrases: [[paris]]}]")

	out, err := execute(t, "docs: [{text: PARIS paris}]", "--rules", rules, "--attr", "lower")
	require.NoError(t, err)
	assert.Equal(t, "0\tCITY\t0\t1\tPARIS\n0\tCITY\t1\t2\tparis\n", out)
}

func TestRun_Errors(t *testing.T) {
	rules := writeFile(t, "rules.yaml", testRules)
	bad := writeFile(t, "bad.yaml", "patterns: [{key: A, patterns: [[{NOPE: 1}]]}]")

	tests := []struct {
		name string
		args []string
	}{
		{"missing rules flag", nil},
		{"missing rules file", []string{"--rules", filepath.Join(t.TempDir(), "nope.yaml")}},
		{"bad rules", []string{"--rules", bad}},
		{"bad strategy", []string{"--rules", rules, "--strategy", "dfa"}},
		{"bad attr", []string{"--rules", rules, "--attr", "COLOR"}},
		{"string-only attr", []string{"--rules", rules, "--attr", "IS_ALPHA"}},
		{"bad workers", []string{"--rules", rules, "-w", "0"}},
		{"positional args", []string{"--rules", rules, "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "docs: []", tt.args...)
			assert.Error(t, err)
		})
	}
}
