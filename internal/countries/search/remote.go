package search

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"countrysearch/internal/countries/metrics"
	"countrysearch/internal/countries/models"
	"countrysearch/internal/countries/source"
	"countrysearch/pkg/platform/circuit"
)

const defaultConcurrency = 4

// EndpointSource is the upstream lookup contract used by Remote.
type EndpointSource interface {
	FetchByEndpoint(ctx context.Context, endpoint models.Endpoint, slug string) ([]source.RawRecord, source.Stats, error)
}

// Remote resolves each search field to its upstream endpoints and merges the
// answers.
type Remote struct {
	source      EndpointSource
	logger      *slog.Logger
	metrics     *metrics.Metrics
	concurrency int
	breaker     *circuit.Breaker
}

// RemoteOption configures a Remote engine.
type RemoteOption func(*Remote)

// WithRemoteLogger sets the logger for degraded endpoints.
func WithRemoteLogger(logger *slog.Logger) RemoteOption {
	return func(r *Remote) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRemoteMetrics records upstream calls.
func WithRemoteMetrics(m *metrics.Metrics) RemoteOption {
	return func(r *Remote) {
		r.metrics = m
	}
}

// WithConcurrency bounds how many endpoints are queried at once. 1 queries
// them sequentially.
func WithConcurrency(n int) RemoteOption {
	return func(r *Remote) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithBreaker tracks upstream outages. While the circuit is open results are
// flagged as degraded.
func WithBreaker(b *circuit.Breaker) RemoteOption {
	return func(r *Remote) {
		r.breaker = b
	}
}

// NewRemote builds the remote strategy over src.
func NewRemote(src EndpointSource, opts ...RemoteOption) *Remote {
	r := &Remote{
		source:      src,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// endpointResult is the slot one fan-out goroutine fills.
type endpointResult struct {
	endpoint models.Endpoint
	records  []source.RawRecord
	stats    source.Stats
	failed   bool
}

// Search queries every endpoint of every requested field. Endpoints may run
// concurrently, but their answers are concatenated in field order and then
// endpoint order before de-duplication, so concurrency never changes the
// result order.
func (r *Remote) Search(ctx context.Context, term string, params models.SearchParameters) (Result, error) {
	start := time.Now()
	endpoints := params.Endpoints()
	if term == "" || len(endpoints) == 0 {
		return Result{}, nil
	}
	slug := source.Slug(params.CleansedTerm(term))

	slots := make([]endpointResult, len(endpoints))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, endpoint := range endpoints {
		g.Go(func() error {
			slots[i] = r.query(ctx, endpoint, slug)
			return nil
		})
	}
	_ = g.Wait()

	var m Measurement
	var merged []source.RawRecord
	for _, slot := range slots {
		m.addStats(slot.stats)
		if slot.failed {
			m.FailedEndpoints = append(m.FailedEndpoints, string(slot.endpoint))
		}
		merged = append(merged, slot.records...)
	}

	countries := source.ToCountries(DedupeByOfficialName(merged))
	if r.breaker != nil {
		m.Degraded = r.breaker.IsOpen()
	}
	m.Elapsed = time.Since(start)
	r.metrics.ObserveSearch(string(models.StrategyAPI), m.Elapsed)

	if err := ctx.Err(); err != nil {
		return Result{Measurement: m}, err
	}
	return Result{Countries: countries, Measurement: m}, nil
}

// query runs one endpoint call, degrading any failure to an empty answer.
func (r *Remote) query(ctx context.Context, endpoint models.Endpoint, slug string) endpointResult {
	records, stats, err := r.source.FetchByEndpoint(ctx, endpoint, slug)
	res := endpointResult{endpoint: endpoint, stats: stats}

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailure
		res.failed = true
		r.logger.WarnContext(ctx, "upstream endpoint failed, treating as empty",
			"endpoint", endpoint,
			"slug", slug,
			"category", source.GetCategory(err),
			"error", err,
		)
	case len(records) == 0:
		outcome = metrics.OutcomeEmpty
	default:
		res.records = records
	}
	r.metrics.ObserveUpstream(string(endpoint), outcome, stats.Duration, stats.Bytes)
	r.trackHealth(ctx, err)
	return res
}

// trackHealth feeds the breaker. Only outages and timeouts count against the
// upstream; malformed payloads do not mean it is down.
func (r *Remote) trackHealth(ctx context.Context, err error) {
	if r.breaker == nil || ctx.Err() != nil {
		return
	}
	var change circuit.StateChange
	switch {
	case err == nil:
		_, change = r.breaker.RecordSuccess()
	case source.GetCategory(err) == source.ErrorTimeout, source.GetCategory(err) == source.ErrorProviderOutage:
		_, change = r.breaker.RecordFailure()
	default:
		return
	}
	if change.Opened {
		r.logger.WarnContext(ctx, "upstream circuit opened", "breaker", r.breaker.Name())
	}
	if change.Closed {
		r.logger.InfoContext(ctx, "upstream circuit closed", "breaker", r.breaker.Name())
	}
}
