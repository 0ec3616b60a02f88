package matcher

import (
	"strings"
	"testing"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/vocab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"strategy", func(c *Config) { c.Strategy = Strategy(9) }, "Strategy"},
		{"visited", func(c *Config) { c.MaxVisitedBits = 0 }, "MaxVisitedBits"},
		{"eval cache", func(c *Config) { c.EvalCacheBytes = -1 }, "EvalCacheBytes"},
		{"workers", func(c *Config) { c.Workers = 0 }, "Workers"},
		{"batch", func(c *Config) { c.BatchSize = 0 }, "BatchSize"},
		{"phrase attr flag", func(c *Config) { c.PhraseAttr = attr.FlagBase }, "PhraseAttr"},
		{"phrase attr invalid", func(c *Config) { c.PhraseAttr = attr.Invalid }, "PhraseAttr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			err := cfg.Validate()
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
			assert.Contains(t, err.Error(), "invalid config: "+tt.field)

			_, err = NewWithConfig(vocab.New(), cfg)
			assert.ErrorAs(t, err, &ce)
			_, err = NewPhraseMatcherWithConfig(vocab.New(), cfg)
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "Auto", StrategyAuto.String())
	assert.Equal(t, "Backtrack", StrategyBacktrack.String())
	assert.Equal(t, "PikeVM", StrategyPikeVM.String())
	assert.Equal(t, "Strategy(7)", Strategy(7).String())

	for _, name := range []string{"auto", "BACKTRACK", "pikevm"} {
		s, err := ParseStrategy(name)
		assert.NoError(t, err)
		assert.True(t, strings.EqualFold(name, s.String()))
	}
	_, err := ParseStrategy("dfa")
	assert.Error(t, err)
}
