package matcher

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/nfa"
	"github.com/coregx/tokmatch/vocab"
	"go.uber.org/zap"
)

// Callback is invoked once per match of its key, after the whole match
// list of a document is known. i indexes matches. Callbacks run on the
// scanning goroutine, may mutate doc and may register or remove keys on
// m; such changes apply to later scans.
type Callback func(m *Matcher, doc attr.Sequence, i int, matches []Match) error

// Matcher finds token patterns in documents.
//
// Thread safety: a Matcher is safe for concurrent use. Registration
// methods serialize on an internal mutex; Scan and ScanMany never lock.
type Matcher struct {
	vocab  *vocab.Vocab
	config Config
	logger *zap.Logger

	mu  sync.Mutex
	reg *registry[[]attr.Constraint, Callback]

	snap atomic.Pointer[snapshot]

	stats counters
}

// snapshot is the immutable compiled form of a registry.
type snapshot struct {
	// nfa is nil when no patterns are registered
	nfa *nfa.NFA

	// owner[p] is the registration rank of pattern p's key
	owner []int
	ids   []uint64

	callbacks callbackTable[Callback]

	pool sync.Pool
}

// searchState holds per-scan mutable state.
type searchState struct {
	cache       *nfa.Cache
	backtracker *nfa.BoundedBacktracker
	pikevm      *nfa.PikeVM
	ends        []int
	next        []int
}

func (s *snapshot) get() *searchState {
	return s.pool.Get().(*searchState)
}

func (s *snapshot) put(st *searchState) {
	st.cache.Release()
	s.pool.Put(st)
}

// New creates a Matcher with the default configuration.
func New(v *vocab.Vocab) *Matcher {
	return newMatcher(v, DefaultConfig())
}

// NewWithConfig creates a Matcher with the given configuration.
func NewWithConfig(v *vocab.Vocab, config Config) (*Matcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newMatcher(v, config), nil
}

func newMatcher(v *vocab.Vocab, config Config) *Matcher {
	m := &Matcher{
		vocab:  v,
		config: config,
		logger: config.logger(),
		reg:    newRegistry[[]attr.Constraint, Callback](),
	}
	m.snap.Store(&snapshot{callbacks: newCallbackTable[Callback]()})
	return m
}

// Vocab returns the vocabulary the matcher interns keys and values in.
func (m *Matcher) Vocab() *vocab.Vocab {
	return m.vocab
}

// Add registers literal patterns under key, replacing any patterns and
// callback previously registered under it. A replaced key keeps its
// original position in the match order. cb may be nil.
//
// On error nothing is registered; the error is a *ConfigurationError.
func (m *Matcher) Add(key string, cb Callback, patterns ...Pattern) error {
	compiled, err := m.prepare(key, patterns)
	if err != nil {
		return err
	}
	return m.register(key, cb, compiled)
}

// prepare validates literal patterns for key and lowers them into
// constraints without registering anything.
func (m *Matcher) prepare(key string, patterns []Pattern) ([][]attr.Constraint, error) {
	if key == "" {
		return nil, configErr(key, -1, -1, ErrEmptyKey)
	}
	if len(patterns) == 0 {
		return nil, configErr(key, -1, -1, ErrNoPatterns)
	}

	compiled := make([][]attr.Constraint, len(patterns))
	for i, p := range patterns {
		c, tok, err := compilePattern(m.vocab, p)
		if err != nil {
			return nil, configErr(key, i, tok, err)
		}
		compiled[i] = c
	}
	return compiled, nil
}

// AddConstraints is Add for patterns already in typed form. Flag
// predicates without a function are resolved against the vocab.
func (m *Matcher) AddConstraints(key string, cb Callback, patterns ...[]attr.Constraint) error {
	if key == "" {
		return configErr(key, -1, -1, ErrEmptyKey)
	}
	if len(patterns) == 0 {
		return configErr(key, -1, -1, ErrNoPatterns)
	}

	compiled := make([][]attr.Constraint, len(patterns))
	for i, p := range patterns {
		if len(p) == 0 {
			return configErr(key, i, -1, ErrEmptyPattern)
		}
		steps := make([]attr.Constraint, len(p))
		for j, c := range p {
			checked, err := m.checkConstraint(c)
			if err != nil {
				return configErr(key, i, j, err)
			}
			steps[j] = checked
		}
		compiled[i] = steps
	}
	return m.register(key, cb, compiled)
}

func (m *Matcher) checkConstraint(c attr.Constraint) (attr.Constraint, error) {
	if c.Quant > attr.Zero {
		return c, fmt.Errorf("%w: %v", ErrBadQuantifier, c.Quant)
	}
	out := attr.Constraint{Quant: c.Quant, Preds: make([]attr.Predicate, len(c.Preds))}
	for i, p := range c.Preds {
		switch {
		case p.Attr.IsFlag():
			if p.Flag == nil {
				fn, ok := m.vocab.Flag(p.Attr)
				if !ok {
					return c, fmt.Errorf("%w: %s", ErrUnknownFlag, p.Attr)
				}
				p.Flag = fn
			}
		case !p.Attr.IsBuiltin():
			return c, fmt.Errorf("%w: %s", ErrUnknownAttribute, p.Attr)
		}
		out.Preds[i] = p
	}
	return out, nil
}

func (m *Matcher) register(key string, cb Callback, patterns [][]attr.Constraint) error {
	return m.registerAll(&entry[[]attr.Constraint, Callback]{key: key, cb: cb, patterns: patterns})
}

// registerAll adds entries in order with a single rebuild. On error none
// of them is registered.
func (m *Matcher) registerAll(entries ...*entry[[]attr.Constraint, Callback]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg := m.reg
	for _, e := range entries {
		e.id = m.vocab.Strings.Add(e.key)
		reg = reg.put(e)
	}
	snap, err := m.compile(reg)
	if err != nil {
		return configErr(failedKey(reg, entries, err), -1, -1, err)
	}
	m.publish(reg, snap)

	for _, e := range entries {
		m.logger.Debug("registered patterns",
			zap.String("key", e.key),
			zap.Int("patterns", len(e.patterns)),
			zap.Int("states", snap.states()))
	}
	return nil
}

// Remove unregisters key. It returns a *LookupError if key is unknown.
func (m *Matcher) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.reg.remove(vocab.Hash(key))
	if !ok {
		return &LookupError{Key: key}
	}
	snap, err := m.compile(reg)
	if err != nil {
		return configErr(key, -1, -1, err)
	}
	m.publish(reg, snap)

	m.logger.Debug("removed patterns", zap.String("key", key))
	return nil
}

// Has reports whether key is registered.
func (m *Matcher) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.reg.get(vocab.Hash(key))
	return ok
}

// Get returns the callback and compiled patterns registered under key.
func (m *Matcher) Get(key string) (Callback, [][]attr.Constraint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.reg.get(vocab.Hash(key))
	if !ok {
		return nil, nil, &LookupError{Key: key}
	}
	return e.cb, e.patterns, nil
}

// Len returns the number of registered keys.
func (m *Matcher) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reg.len()
}

// Keys returns the registered keys in match order.
func (m *Matcher) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, len(m.reg.entries))
	for i, e := range m.reg.entries {
		keys[i] = e.key
	}
	return keys
}

// Stats returns a copy of the matcher's counters.
func (m *Matcher) Stats() Stats {
	return m.stats.snapshot()
}

// ResetStats zeroes the matcher's counters.
func (m *Matcher) ResetStats() {
	m.stats.reset()
}

// compile builds the snapshot for reg.
func (m *Matcher) compile(reg *registry[[]attr.Constraint, Callback]) (*snapshot, error) {
	s := &snapshot{
		ids:       make([]uint64, len(reg.entries)),
		callbacks: newCallbackTable[Callback](),
	}
	patterns := make([][]attr.Constraint, 0, reg.patterns())
	for rank, e := range reg.entries {
		s.ids[rank] = e.id
		if e.cb != nil {
			s.callbacks.add(e.id, e.key, e.cb)
		}
		for _, p := range e.patterns {
			patterns = append(patterns, p)
			s.owner = append(s.owner, rank)
		}
	}
	if len(patterns) == 0 {
		return s, nil
	}

	n, err := nfa.NewDefaultCompiler().Compile(patterns...)
	if err != nil {
		return nil, err
	}
	s.nfa = n

	cfg := m.config
	s.pool.New = func() any {
		return &searchState{
			cache:       nfa.NewCache(cfg.EvalCacheBytes),
			backtracker: nfa.NewBoundedBacktrackerWithLimit(n, cfg.MaxVisitedBits),
			pikevm:      nfa.NewPikeVM(n),
			ends:        make([]int, n.PatternCount()),
			next:        make([]int, n.PatternCount()),
		}
	}
	return s, nil
}

func (s *snapshot) states() int {
	if s.nfa == nil {
		return 0
	}
	return s.nfa.States()
}

func (m *Matcher) publish(reg *registry[[]attr.Constraint, Callback], snap *snapshot) {
	m.reg = reg
	m.snap.Store(snap)
	m.stats.rebuilds.Add(1)
	m.config.Metrics.setKeys(engineMatcher, reg.len())
}

// Scan finds every match in doc and then dispatches callbacks.
//
// Matches are ordered by start, then by the registration order of their
// key, then by pattern order within the key. Each pattern reports the
// longest match at a start and resumes after its end, so matches of one
// pattern never overlap; different patterns, even under one key, report
// independently. Zero-length matches are never reported.
//
// The returned slice is complete even when a callback fails; the error is
// then a *CallbackError for the first failing callback, and later
// callbacks are not invoked.
func (m *Matcher) Scan(doc attr.Sequence) ([]Match, error) {
	snap := m.snap.Load()
	matches := m.match(snap, doc)
	return matches, m.dispatch(snap, doc, matches)
}

// Match finds every match in doc without dispatching callbacks.
func (m *Matcher) Match(doc attr.Sequence) []Match {
	return m.match(m.snap.Load(), doc)
}

// ScanMany scans a sequence of documents. See Config.BatchSize and
// Config.Workers for how the work is split.
//
// Each Result is yielded with the error of its callback dispatch, if any.
// Iteration ends early with ctx.Err() when ctx is cancelled.
func (m *Matcher) ScanMany(ctx context.Context, docs iter.Seq[attr.Sequence]) iter.Seq2[Result, error] {
	return scanMany(ctx, &m.config, docs,
		func(doc attr.Sequence) ([]Match, *snapshot) {
			snap := m.snap.Load()
			return m.match(snap, doc), snap
		},
		m.dispatch)
}

func (m *Matcher) match(snap *snapshot, doc attr.Sequence) []Match {
	start := time.Now()
	n := doc.Len()

	var matches []Match
	if snap.nfa != nil && n > 0 {
		st := snap.get()
		st.cache.Reset(snap.nfa, doc)

		longest := st.pikevm.Longest
		if m.config.Strategy == StrategyBacktrack ||
			(m.config.Strategy == StrategyAuto && st.backtracker.CanHandle(n)) {
			st.backtracker.Reset(n)
			longest = st.backtracker.Longest
			m.stats.backtrack.Add(1)
		} else {
			m.stats.pikevm.Add(1)
		}

		// a pattern resumes only after the end of its previous match
		clear(st.next)
		for i := 0; i < n; i++ {
			longest(st.cache, i, st.ends)
			for p, end := range st.ends {
				if end > i && i >= st.next[p] {
					matches = append(matches, Match{ID: snap.ids[snap.owner[p]], Start: i, End: end})
					st.next[p] = end
				}
			}
		}
		snap.put(st)
	}

	m.stats.scans.Add(1)
	m.stats.matches.Add(uint64(len(matches)))
	m.config.Metrics.observeScan(engineMatcher, len(matches), time.Since(start))
	return matches
}

func (m *Matcher) dispatch(snap *snapshot, doc attr.Sequence, matches []Match) error {
	if err := dispatch(m, &snap.callbacks, doc, matches); err != nil {
		callbackFailed(&m.config, m.logger, &m.stats, engineMatcher, err)
		return err
	}
	return nil
}
