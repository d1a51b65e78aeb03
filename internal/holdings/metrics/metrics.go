package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the holdings module.
type Metrics struct {
	// Search outcomes: found, not_found, failed
	SearchOutcome *prometheus.CounterVec
	SearchLatency prometheus.Histogram

	// Record source fetches by backend
	SourceLatency *prometheus.HistogramVec
	SourceErrors  *prometheus.CounterVec
	SourceUp      prometheus.Gauge

	// Snapshot cache lookups: hit, miss, error
	CacheLookups *prometheus.CounterVec

	SnapshotRecords prometheus.Gauge
	BreakerOpen     prometheus.Gauge
	FallbackServed  prometheus.Counter
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the holdings metrics with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shareholder_holdings_search_total",
			Help: "Holding searches by outcome",
		}, []string{"outcome"}),

		SearchLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "shareholder_holdings_search_duration_seconds",
			Help:    "Duration of a holding search including snapshot loading",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		SourceLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shareholder_source_fetch_duration_seconds",
			Help:    "Duration of record source fetches by backend",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),

		SourceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shareholder_source_fetch_errors_total",
			Help: "Record source fetch failures by backend and category",
		}, []string{"source", "category"}),

		SourceUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shareholder_source_up",
			Help: "1 if the last record source health check succeeded",
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "shareholder_snapshot_cache_lookups_total",
			Help: "Snapshot cache lookups by result",
		}, []string{"result"}),

		SnapshotRecords: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shareholder_snapshot_records",
			Help: "Number of raw records in the most recently loaded snapshot",
		}),

		BreakerOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "shareholder_source_breaker_open",
			Help: "1 while the record source circuit breaker is open",
		}),

		FallbackServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "shareholder_snapshot_fallback_total",
			Help: "Requests served from the last good snapshot because the source failed",
		}),
	}
}

func (m *Metrics) IncrementSearchOutcome(outcome string) {
	if m != nil {
		m.SearchOutcome.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) ObserveSearchLatency(d time.Duration) {
	if m != nil {
		m.SearchLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveSourceLatency(source string, d time.Duration) {
	if m != nil {
		m.SourceLatency.WithLabelValues(source).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementSourceError(source, category string) {
	if m != nil {
		m.SourceErrors.WithLabelValues(source, category).Inc()
	}
}

func (m *Metrics) SetSourceUp(up bool) {
	if m != nil {
		m.SourceUp.Set(boolGauge(up))
	}
}

func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.CacheLookups.WithLabelValues("hit").Inc()
	}
}

func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.CacheLookups.WithLabelValues("miss").Inc()
	}
}

func (m *Metrics) RecordCacheError() {
	if m != nil {
		m.CacheLookups.WithLabelValues("error").Inc()
	}
}

func (m *Metrics) SetSnapshotRecords(n int) {
	if m != nil {
		m.SnapshotRecords.Set(float64(n))
	}
}

func (m *Metrics) SetBreakerOpen(open bool) {
	if m != nil {
		m.BreakerOpen.Set(boolGauge(open))
	}
}

func (m *Metrics) IncrementFallbackServed() {
	if m != nil {
		m.FallbackServed.Inc()
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
