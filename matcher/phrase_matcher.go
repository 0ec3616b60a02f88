package matcher

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/phrase"
	"github.com/coregx/tokmatch/vocab"
	"go.uber.org/zap"
)

// PhraseCallback is the PhraseMatcher counterpart of Callback.
type PhraseCallback func(pm *PhraseMatcher, doc attr.Sequence, i int, matches []Match) error

// PhraseMatcher finds exact token sequences. Tokens are compared on one
// attribute, Config.PhraseAttr (ORTH by default).
//
// Every phrase ending at a trie node is reported, so "Washington" and
// "Washington , D.C." both match in "Washington , D.C.". Matches are
// ordered by start, then end, then registration order.
//
// Thread safety: a PhraseMatcher is safe for concurrent use.
type PhraseMatcher struct {
	vocab  *vocab.Vocab
	config Config
	logger *zap.Logger

	mu  sync.Mutex
	reg *registry[[]uint64, PhraseCallback]

	snap atomic.Pointer[phraseSnapshot]

	stats counters
}

type phraseSnapshot struct {
	// index is nil when no phrases are registered
	index *phrase.Index

	// owner[e] is the registration rank of phrase entry e's key
	owner []int
	ids   []uint64

	callbacks callbackTable[PhraseCallback]

	pool sync.Pool
}

type phraseState struct {
	cache   *phrase.Cache
	keys    []uint64
	present []bool
	hits    []phrase.Hit
}

// NewPhraseMatcher creates a PhraseMatcher with the default configuration.
func NewPhraseMatcher(v *vocab.Vocab) *PhraseMatcher {
	return newPhraseMatcher(v, DefaultConfig())
}

// NewPhraseMatcherWithConfig creates a PhraseMatcher with the given
// configuration.
func NewPhraseMatcherWithConfig(v *vocab.Vocab, config Config) (*PhraseMatcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newPhraseMatcher(v, config), nil
}

func newPhraseMatcher(v *vocab.Vocab, config Config) *PhraseMatcher {
	pm := &PhraseMatcher{
		vocab:  v,
		config: config,
		logger: config.logger(),
		reg:    newRegistry[[]uint64, PhraseCallback](),
	}
	pm.snap.Store(&phraseSnapshot{callbacks: newCallbackTable[PhraseCallback]()})
	return pm
}

// Vocab returns the matcher's vocabulary.
func (pm *PhraseMatcher) Vocab() *vocab.Vocab {
	return pm.vocab
}

// Attr returns the attribute phrases are compared on.
func (pm *PhraseMatcher) Attr() attr.ID {
	return pm.config.PhraseAttr
}

// Add registers phrases under key, replacing previous phrases and
// callback. Each phrase is a token sequence whose tokens all carry the
// phrase attribute.
func (pm *PhraseMatcher) Add(key string, cb PhraseCallback, phrases ...attr.Sequence) error {
	if key == "" {
		return configErr(key, -1, -1, ErrEmptyKey)
	}
	if len(phrases) == 0 {
		return configErr(key, -1, -1, ErrNoPatterns)
	}

	id := pm.config.PhraseAttr
	encoded := make([][]uint64, len(phrases))
	for i, p := range phrases {
		if p == nil || p.Len() == 0 {
			return configErr(key, i, -1, ErrEmptyPhrase)
		}
		keys := make([]uint64, p.Len())
		for j := range keys {
			v, ok := p.At(j).Attr(id)
			if !ok {
				return configErr(key, i, j, fmt.Errorf("%w: token lacks %s", ErrBadValue, id))
			}
			keys[j] = v
		}
		encoded[i] = keys
	}
	return pm.register(key, cb, encoded)
}

// AddText registers phrases given as words. Each word is the phrase
// attribute's string value, lowercased when the attribute is LOWER. The
// phrase attribute must be a string attribute.
func (pm *PhraseMatcher) AddText(key string, cb PhraseCallback, phrases ...[]string) error {
	encoded, err := pm.prepareText(key, phrases)
	if err != nil {
		return err
	}
	return pm.register(key, cb, encoded)
}

// prepareText validates text phrases for key and encodes them without
// registering anything.
func (pm *PhraseMatcher) prepareText(key string, phrases [][]string) ([][]uint64, error) {
	if key == "" {
		return nil, configErr(key, -1, -1, ErrEmptyKey)
	}
	if len(phrases) == 0 {
		return nil, configErr(key, -1, -1, ErrNoPatterns)
	}
	id := pm.config.PhraseAttr
	if id.Kind() != attr.KindString {
		return nil, configErr(key, -1, -1, fmt.Errorf("%w: text phrases need a string attribute, have %s", ErrBadValue, id))
	}

	encoded := make([][]uint64, len(phrases))
	for i, words := range phrases {
		if len(words) == 0 {
			return nil, configErr(key, i, -1, ErrEmptyPhrase)
		}
		keys := make([]uint64, len(words))
		for j, w := range words {
			if id == attr.Lower {
				w = strings.ToLower(w)
			}
			keys[j] = pm.vocab.Strings.Add(w)
		}
		encoded[i] = keys
	}
	return encoded, nil
}

func (pm *PhraseMatcher) register(key string, cb PhraseCallback, phrases [][]uint64) error {
	return pm.registerAll(&entry[[]uint64, PhraseCallback]{key: key, cb: cb, patterns: phrases})
}

// registerAll adds entries in order with a single rebuild. On error none
// of them is registered.
func (pm *PhraseMatcher) registerAll(entries ...*entry[[]uint64, PhraseCallback]) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	reg := pm.reg
	for _, e := range entries {
		e.id = pm.vocab.Strings.Add(e.key)
		reg = reg.put(e)
	}
	snap, err := pm.compile(reg)
	if err != nil {
		return configErr(failedKey(reg, entries, err), -1, -1, err)
	}
	pm.publish(reg, snap)

	for _, e := range entries {
		pm.logger.Debug("registered phrases",
			zap.String("key", e.key),
			zap.Int("phrases", len(e.patterns)),
			zap.Int("nodes", snap.nodes()))
	}
	return nil
}

// Remove unregisters key. It returns a *LookupError if key is unknown.
func (pm *PhraseMatcher) Remove(key string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	reg, ok := pm.reg.remove(vocab.Hash(key))
	if !ok {
		return &LookupError{Key: key}
	}
	snap, err := pm.compile(reg)
	if err != nil {
		return configErr(key, -1, -1, err)
	}
	pm.publish(reg, snap)

	pm.logger.Debug("removed phrases", zap.String("key", key))
	return nil
}

// Has reports whether key is registered.
func (pm *PhraseMatcher) Has(key string) bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	_, ok := pm.reg.get(vocab.Hash(key))
	return ok
}

// Get returns the callback and the phrases, as attribute keys, registered
// under key.
func (pm *PhraseMatcher) Get(key string) (PhraseCallback, [][]uint64, error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	e, ok := pm.reg.get(vocab.Hash(key))
	if !ok {
		return nil, nil, &LookupError{Key: key}
	}
	return e.cb, e.patterns, nil
}

// Len returns the number of registered keys.
func (pm *PhraseMatcher) Len() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.reg.len()
}

// Stats returns a copy of the matcher's counters.
func (pm *PhraseMatcher) Stats() Stats {
	return pm.stats.snapshot()
}

// ResetStats zeroes the matcher's counters.
func (pm *PhraseMatcher) ResetStats() {
	pm.stats.reset()
}

func (pm *PhraseMatcher) compile(reg *registry[[]uint64, PhraseCallback]) (*phraseSnapshot, error) {
	s := &phraseSnapshot{
		ids:       make([]uint64, len(reg.entries)),
		callbacks: newCallbackTable[PhraseCallback](),
	}
	phrases := make([][]uint64, 0, reg.patterns())
	for rank, e := range reg.entries {
		s.ids[rank] = e.id
		if e.cb != nil {
			s.callbacks.add(e.id, e.key, e.cb)
		}
		for _, p := range e.patterns {
			phrases = append(phrases, p)
			s.owner = append(s.owner, rank)
		}
	}
	if len(phrases) == 0 {
		return s, nil
	}

	ix, err := phrase.Build(phrases, phrase.Options{Prefilter: pm.config.EnablePrefilter})
	if err != nil {
		return nil, err
	}
	s.index = ix
	s.pool.New = func() any {
		return &phraseState{cache: phrase.NewCache()}
	}
	return s, nil
}

func (s *phraseSnapshot) nodes() int {
	if s.index == nil {
		return 0
	}
	return s.index.Trie().Nodes()
}

func (pm *PhraseMatcher) publish(reg *registry[[]uint64, PhraseCallback], snap *phraseSnapshot) {
	pm.reg = reg
	pm.snap.Store(snap)
	pm.stats.rebuilds.Add(1)
	pm.config.Metrics.setKeys(enginePhrase, reg.len())
}

// Scan finds every phrase occurrence in doc and then dispatches
// callbacks, with the same error contract as Matcher.Scan.
func (pm *PhraseMatcher) Scan(doc attr.Sequence) ([]Match, error) {
	snap := pm.snap.Load()
	matches := pm.match(snap, doc)
	return matches, pm.dispatch(snap, doc, matches)
}

// Match finds every phrase occurrence in doc without dispatching
// callbacks.
func (pm *PhraseMatcher) Match(doc attr.Sequence) []Match {
	return pm.match(pm.snap.Load(), doc)
}

// ScanMany scans a sequence of documents like Matcher.ScanMany.
func (pm *PhraseMatcher) ScanMany(ctx context.Context, docs iter.Seq[attr.Sequence]) iter.Seq2[Result, error] {
	return scanMany(ctx, &pm.config, docs,
		func(doc attr.Sequence) ([]Match, *phraseSnapshot) {
			snap := pm.snap.Load()
			return pm.match(snap, doc), snap
		},
		pm.dispatch)
}

func (pm *PhraseMatcher) match(snap *phraseSnapshot, doc attr.Sequence) []Match {
	start := time.Now()
	n := doc.Len()

	var matches []Match
	if snap.index != nil && n > 0 {
		st := snap.pool.Get().(*phraseState)

		st.keys = st.keys[:0]
		st.present = st.present[:0]
		for i := 0; i < n; i++ {
			v, ok := doc.At(i).Attr(pm.config.PhraseAttr)
			st.keys = append(st.keys, v)
			st.present = append(st.present, ok)
		}

		st.hits = snap.index.Find(st.cache, st.keys, st.present, st.hits[:0])
		for _, h := range st.hits {
			matches = append(matches, Match{ID: snap.ids[snap.owner[h.Entry]], Start: h.Start, End: h.End})
		}
		snap.pool.Put(st)
	}

	pm.stats.scans.Add(1)
	pm.stats.matches.Add(uint64(len(matches)))
	pm.config.Metrics.observeScan(enginePhrase, len(matches), time.Since(start))
	return matches
}

func (pm *PhraseMatcher) dispatch(snap *phraseSnapshot, doc attr.Sequence, matches []Match) error {
	if err := dispatch(pm, &snap.callbacks, doc, matches); err != nil {
		callbackFailed(&pm.config, pm.logger, &pm.stats, enginePhrase, err)
		return err
	}
	return nil
}
