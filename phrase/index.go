// Package phrase indexes closed sets of multi-token phrases.
//
// Phrases are sequences of uint64 token keys (typically the interned hash
// of one token attribute). An Index stores them as root-to-node paths in an
// arena Trie and reports, for a document given as the same kind of keys,
// every (phrase, start, end) occurrence.
package phrase

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/coregx/ahocorasick"
)

// ErrEmptyPhrase indicates a phrase with no tokens.
var ErrEmptyPhrase = errors.New("empty phrase")

// keyBytes is the width of one encoded token key in the prefilter haystack.
const keyBytes = 8

// Hit is one phrase occurrence. Entry is the phrase's position in the
// slice passed to Build; [Start, End) are token offsets.
type Hit struct {
	Entry int
	Start int
	End   int
}

// Index is an immutable phrase index. It is safe for concurrent use;
// per-search buffers live in a Cache.
type Index struct {
	trie    *Trie
	entries int
	maxLen  int

	// prefilter recognises any phrase inside the big-endian encoded
	// document; nil when disabled or when the automaton could not be built
	prefilter *ahocorasick.Automaton
}

// Options configures Build.
type Options struct {
	// Prefilter builds an Aho-Corasick automaton over the encoded phrases
	// to skip documents and prefixes that cannot contain a match.
	Prefilter bool
}

// Build indexes phrases. Entry i of every Hit refers to phrases[i].
func Build(phrases [][]uint64, opts Options) (*Index, error) {
	ix := &Index{
		trie:    NewTrie(),
		entries: len(phrases),
	}
	for i, p := range phrases {
		if len(p) == 0 {
			return nil, fmt.Errorf("phrase %d: %w", i, ErrEmptyPhrase)
		}
		ix.trie.Insert(p, i)
		ix.maxLen = max(ix.maxLen, len(p))
	}

	if opts.Prefilter && len(phrases) > 0 {
		builder := ahocorasick.NewBuilder()
		for _, p := range phrases {
			builder.AddPattern(encode(nil, p))
		}
		// On failure the index still works, it just scans every start
		if auto, err := builder.Build(); err == nil {
			ix.prefilter = auto
		}
	}
	return ix, nil
}

// Len returns the number of indexed phrases.
func (ix *Index) Len() int {
	return ix.entries
}

// MaxLen returns the length in tokens of the longest phrase.
func (ix *Index) MaxLen() int {
	return ix.maxLen
}

// HasPrefilter reports whether the Aho-Corasick prefilter is active.
func (ix *Index) HasPrefilter() bool {
	return ix.prefilter != nil
}

// Trie exposes the underlying trie.
func (ix *Index) Trie() *Trie {
	return ix.trie
}

// Cache holds reusable per-search buffers. A Cache is not safe for
// concurrent use.
type Cache struct {
	encoded []byte
}

// NewCache creates an empty search cache.
func NewCache() *Cache {
	return &Cache{}
}

// Find appends every phrase occurrence in keys to dst and returns it.
// present[i] == false marks a token lacking the indexed attribute; such a
// token never matches. A nil present treats every token as present. A nil
// cache allocates its buffers per call.
//
// Hits are ordered by start, then end, then entry.
func (ix *Index) Find(cache *Cache, keys []uint64, present []bool, dst []Hit) []Hit {
	if ix.entries == 0 || len(keys) == 0 {
		return dst
	}

	from := 0
	if ix.prefilter != nil {
		var ok bool
		from, ok = ix.firstCandidate(cache, keys)
		if !ok {
			return dst
		}
	}

	for start := from; start < len(keys); start++ {
		node := Root
		for pos := start; pos < len(keys); pos++ {
			if present != nil && !present[pos] {
				break
			}
			next, ok := ix.trie.Child(node, keys[pos])
			if !ok {
				break
			}
			node = next
			for _, e := range ix.trie.Entries(node) {
				dst = append(dst, Hit{Entry: e, Start: start, End: pos + 1})
			}
		}
	}
	return dst
}

// firstCandidate bounds the earliest start offset at which a phrase can
// occur. It returns false when no phrase occurs anywhere in keys.
//
// Any real occurrence is also a byte-level occurrence in the encoding, and
// the first one the automaton reports ends no later than it and is no
// longer than the longest phrase. So no occurrence starts before
// End - maxLen*keyBytes.
func (ix *Index) firstCandidate(cache *Cache, keys []uint64) (int, bool) {
	var buf []byte
	if cache != nil {
		buf = cache.encoded[:0]
	}
	buf = encode(buf, keys)
	if cache != nil {
		cache.encoded = buf
	}

	m := ix.prefilter.Find(buf, 0)
	if m == nil {
		return 0, false
	}
	lo := max(0, m.End-ix.maxLen*keyBytes)
	return lo / keyBytes, true
}

// encode appends the big-endian encoding of keys to dst.
func encode(dst []byte, keys []uint64) []byte {
	for _, k := range keys {
		dst = binary.BigEndian.AppendUint64(dst, k)
	}
	return dst
}
