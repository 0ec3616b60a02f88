package matcher

import (
	"errors"
	"testing"

	"github.com/coregx/tokmatch/attr"
	"github.com/coregx/tokmatch/vocab"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg, "test")

	v := vocab.New()
	cfg := DefaultConfig()
	cfg.Metrics = metrics

	m, err := NewWithConfig(v, cfg)
	require.NoError(t, err)
	pm, err := NewPhraseMatcherWithConfig(v, cfg)
	require.NoError(t, err)

	require.NoError(t, m.Add("A", nil, Pattern{orth("a", "")}))
	require.NoError(t, m.Add("B", func(*Matcher, attr.Sequence, int, []Match) error {
		return errors.New("fail")
	}, Pattern{orth("b", "")}))
	require.NoError(t, pm.AddText("P", nil, []string{"a", "b"}))

	_, err = m.Scan(newDoc(v, "a a b"))
	require.Error(t, err)
	_, err = m.Scan(newDoc(v, "c"))
	require.NoError(t, err)
	_, err = pm.Scan(newDoc(v, "a b"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.scans.WithLabelValues(engineMatcher)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.scans.WithLabelValues(enginePhrase)))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.matches.WithLabelValues(engineMatcher)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.matches.WithLabelValues(enginePhrase)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.callbackErrors.WithLabelValues(engineMatcher)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.keys.WithLabelValues(engineMatcher)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.keys.WithLabelValues(enginePhrase)))

	require.NoError(t, m.Remove("A"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.keys.WithLabelValues(engineMatcher)))

	n, err := testutil.GatherAndCount(reg, "test_tokmatch_scan_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one histogram per engine")
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observeScan(engineMatcher, 1, 0)
		m.callbackFailed(engineMatcher)
		m.setKeys(engineMatcher, 1)
	})
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	v := vocab.New()
	cfg := DefaultConfig()
	cfg.Logger = zap.New(core)
	m, err := NewWithConfig(v, cfg)
	require.NoError(t, err)

	require.NoError(t, m.Add("K", func(*Matcher, attr.Sequence, int, []Match) error {
		return errors.New("fail")
	}, Pattern{orth("a", "")}))
	_, err = m.Scan(newDoc(v, "a"))
	require.Error(t, err)
	require.NoError(t, m.Remove("K"))

	registered := logs.FilterMessage("registered patterns").All()
	require.Len(t, registered, 1)
	assert.Equal(t, "K", registered[0].ContextMap()["key"])
	assert.Equal(t, int64(2), registered[0].ContextMap()["states"])

	failed := logs.FilterMessage("callback failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, int64(0), failed[0].ContextMap()["match"])

	assert.Equal(t, 1, logs.FilterMessage("removed patterns").Len())
}
