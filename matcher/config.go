// Package matcher implements the rule-based token matching engines.
//
// A Matcher compiles token patterns (sequences of attribute constraints
// with optional quantifiers) into one NFA and reports, for every start
// offset and every pattern, the longest match. A PhraseMatcher matches
// closed sets of fixed token sequences through a trie.
//
// Both engines follow the same lifecycle: register patterns under string
// keys with an optional callback, then Scan documents. Registration
// publishes an immutable snapshot, so scans never block each other and a
// callback may register or remove keys while a scan is dispatching.
//
// Example:
//
//	m := matcher.New(vocab.New())
//	err := m.Add("HELLO_WORLD", nil, matcher.Pattern{
//		{"LOWER": "hello"},
//		{"IS_PUNCT": true, "OP": "?"},
//		{"LOWER": "world"},
//	})
//	matches, err := m.Scan(doc)
package matcher

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/nfa"
	"go.uber.org/zap"
)

// Strategy selects the NFA executor used by Matcher.Scan.
type Strategy int

const (
	// StrategyAuto uses the bounded backtracker when its visited table
	// fits MaxVisitedBits and the PikeVM otherwise.
	StrategyAuto Strategy = iota

	// StrategyBacktrack always uses the bounded backtracker.
	StrategyBacktrack

	// StrategyPikeVM always uses the PikeVM.
	StrategyPikeVM
)

// String returns a human-readable representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "Auto"
	case StrategyBacktrack:
		return "Backtrack"
	case StrategyPikeVM:
		return "PikeVM"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy resolves a strategy name as printed by String,
// ignoring case.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{StrategyAuto, StrategyBacktrack, StrategyPikeVM} {
		if strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return StrategyAuto, fmt.Errorf("unknown strategy %q", name)
}

// Config controls engine behavior and resource limits.
//
// Example:
//
//	cfg := matcher.DefaultConfig()
//	cfg.Strategy = matcher.StrategyPikeVM
//	cfg.Logger = logger
//	m, err := matcher.NewWithConfig(v, cfg)
type Config struct {
	// Strategy selects the NFA executor.
	// Default: StrategyAuto
	Strategy Strategy

	// MaxVisitedBits caps the backtracker's visited table, in
	// (state, position) entries, under StrategyAuto.
	// Default: 256K
	MaxVisitedBits int

	// EvalCacheBytes caps the per-scan memo of constraint evaluations.
	// Zero disables memoisation.
	// Default: 1MB
	EvalCacheBytes int

	// Workers bounds the goroutines ScanMany uses per batch.
	// Default: GOMAXPROCS
	Workers int

	// BatchSize is the number of documents ScanMany matches together
	// before dispatching their callbacks.
	// Default: 64
	BatchSize int

	// PhraseAttr is the token attribute a PhraseMatcher compares.
	// Default: attr.Orth
	PhraseAttr attr.ID

	// EnablePrefilter builds an Aho-Corasick prefilter for phrase sets.
	// Default: true
	EnablePrefilter bool

	// Logger receives registration and callback diagnostics.
	// Default: zap.NewNop()
	Logger *zap.Logger

	// Metrics, when set, receives scan and registration metrics.
	Metrics *Metrics
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Strategy:        StrategyAuto,
		MaxVisitedBits:  nfa.DefaultMaxVisited,
		EvalCacheBytes:  1 << 20,
		Workers:         runtime.GOMAXPROCS(0),
		BatchSize:       64,
		PhraseAttr:      attr.Orth,
		EnablePrefilter: true,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Strategy < StrategyAuto || c.Strategy > StrategyPikeVM {
		return &ConfigError{
			Field:   "Strategy",
			Message: fmt.Sprintf("unknown strategy %d", int(c.Strategy)),
		}
	}
	if c.MaxVisitedBits < 1 || c.MaxVisitedBits > 1<<30 {
		return &ConfigError{
			Field:   "MaxVisitedBits",
			Message: "must be between 1 and 1<<30",
		}
	}
	if c.EvalCacheBytes < 0 {
		return &ConfigError{
			Field:   "EvalCacheBytes",
			Message: "must not be negative",
		}
	}
	if c.Workers < 1 || c.Workers > 1024 {
		return &ConfigError{
			Field:   "Workers",
			Message: "must be between 1 and 1024",
		}
	}
	if c.BatchSize < 1 || c.BatchSize > 1<<16 {
		return &ConfigError{
			Field:   "BatchSize",
			Message: "must be between 1 and 65536",
		}
	}
	if !c.PhraseAttr.IsBuiltin() {
		return &ConfigError{
			Field:   "PhraseAttr",
			Message: fmt.Sprintf("%s is not a built-in attribute", c.PhraseAttr),
		}
	}
	return nil
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "matcher: invalid config: " + e.Field + ": " + e.Message
}
