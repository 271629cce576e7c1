package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveUpstream("name", OutcomeOK, time.Millisecond, 10)
		m.ObserveSearch("api", time.Millisecond)
		m.ObserveResults(3, 1)
	})
}

func TestObserveUpstream(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())
	m.ObserveUpstream("alpha", OutcomeEmpty, 20*time.Millisecond, 512)
	m.ObserveUpstream("alpha", OutcomeEmpty, 10*time.Millisecond, 256)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("alpha", OutcomeEmpty)))
	assert.Equal(t, 768.0, testutil.ToFloat64(m.UpstreamBytes))
}
