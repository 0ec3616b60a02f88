package matcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine label values.
const (
	engineMatcher = "matcher"
	enginePhrase  = "phrase"
)

// Metrics exports engine activity to Prometheus. One Metrics may be shared
// by several engines; series are labelled by engine kind. A nil *Metrics
// records nothing.
type Metrics struct {
	scans          *prometheus.CounterVec
	matches        *prometheus.CounterVec
	callbackErrors *prometheus.CounterVec
	scanDuration   *prometheus.HistogramVec
	keys           *prometheus.GaugeVec
}

// NewMetrics creates the engine metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		scans: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokmatch_scans_total",
			Help:      "Total documents scanned by engine",
		}, []string{"engine"}),

		matches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokmatch_matches_total",
			Help:      "Total matches reported by engine",
		}, []string{"engine"}),

		callbackErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokmatch_callback_errors_total",
			Help:      "Total on-match callbacks that returned an error",
		}, []string{"engine"}),

		scanDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tokmatch_scan_duration_seconds",
			Help:      "Scan duration in seconds, excluding callbacks",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		}, []string{"engine"}),

		keys: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tokmatch_registered_keys",
			Help:      "Number of keys currently registered",
		}, []string{"engine"}),
	}
}

func (m *Metrics) observeScan(engine string, matches int, d time.Duration) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(engine).Inc()
	m.matches.WithLabelValues(engine).Add(float64(matches))
	m.scanDuration.WithLabelValues(engine).Observe(d.Seconds())
}

func (m *Metrics) callbackFailed(engine string) {
	if m == nil {
		return
	}
	m.callbackErrors.WithLabelValues(engine).Inc()
}

func (m *Metrics) setKeys(engine string, n int) {
	if m == nil {
		return
	}
	m.keys.WithLabelValues(engine).Set(float64(n))
}
