package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.ObserveRequest("/holdings/search", "200", 0.02)
	m.ObserveRequest("/holdings/search", "200", 0.03)
	m.ObserveRequest("/holdings/search", "400", 0.001)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/holdings/search", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/holdings/search", "400")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("/status", "200", 0.1)
		m.IncrementAuditDropped()
	})
}

func TestIncrementAuditDropped(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())
	m.IncrementAuditDropped()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuditDropped))
}
