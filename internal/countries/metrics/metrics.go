package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
)

// Metrics provides observability for the country search module.
type Metrics struct {
	// Upstream calls by endpoint and outcome
	UpstreamRequests *prometheus.CounterVec

	// Upstream call latency by endpoint
	UpstreamDuration *prometheus.HistogramVec

	// Bytes read from the upstream
	UpstreamBytes prometheus.Counter

	// Search latency by strategy, I/O included
	SearchDuration *prometheus.HistogramVec

	// Result set sizes by pipeline stage
	Results *prometheus.HistogramVec
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the module metrics with reg. Tests pass a
// fresh prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UpstreamRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "countrysearch_upstream_requests_total",
			Help: "Total upstream calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),

		UpstreamDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "countrysearch_upstream_duration_seconds",
			Help:    "Duration of upstream calls by endpoint",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"endpoint"}),

		UpstreamBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "countrysearch_upstream_bytes_total",
			Help: "Total response bytes read from the upstream",
		}),

		SearchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "countrysearch_search_duration_seconds",
			Help:    "Duration of a full search including upstream I/O",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"strategy"}),

		Results: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "countrysearch_results",
			Help:    "Number of rows per request by stage (total, shown)",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}, []string{"stage"}),
	}
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(endpoint, outcome string, d time.Duration, bytes int64) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	m.UpstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
	m.UpstreamBytes.Add(float64(bytes))
}

// ObserveSearch records the duration of a search.
func (m *Metrics) ObserveSearch(strategy string, d time.Duration) {
	if m != nil {
		m.SearchDuration.WithLabelValues(strategy).Observe(d.Seconds())
	}
}

// ObserveResults records the total and shown row counts of a request.
func (m *Metrics) ObserveResults(total, shown int) {
	if m == nil {
		return
	}
	m.Results.WithLabelValues("total").Observe(float64(total))
	m.Results.WithLabelValues("shown").Observe(float64(shown))
}
