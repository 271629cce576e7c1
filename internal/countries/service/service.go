package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"countrysearch/internal/countries/highlight"
	"countrysearch/internal/countries/metrics"
	"countrysearch/internal/countries/models"
	"countrysearch/internal/countries/search"
	"countrysearch/internal/countries/table"
	dErrors "countrysearch/pkg/domain-errors"
	"countrysearch/pkg/requestcontext"
)

// ErrStrategyUnavailable is returned when no engine is wired for the
// requested strategy.
var ErrStrategyUnavailable = errors.New("search strategy not available")

// Request is a fully validated search request.
type Request struct {
	Term      string
	Params    models.SearchParameters
	Strategy  models.Strategy
	Filters   []models.FilterPredicate
	SortKey   models.SortKey
	SortOrder models.SortOrder
}

// DisplayRow is a shown row with its highlighted text columns.
type DisplayRow struct {
	Row       models.Row
	Name      highlight.Text
	Region    highlight.Text
	Subregion highlight.Text
}

// Result is the ordered, annotated outcome of a search.
type Result struct {
	Term        string
	Rows        []DisplayRow
	Total       int
	Shown       int
	Hidden      int
	Measurement search.Measurement
}

// Service runs the search pipeline: search, filter, sort, highlight.
type Service struct {
	engines map[models.Strategy]search.Engine
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithEngine wires an engine for a strategy, replacing any already wired.
func WithEngine(strategy models.Strategy, engine search.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engines[strategy] = engine
		}
	}
}

// New constructs a Service. The API strategy is mandatory; other strategies
// are added with WithEngine.
func New(api search.Engine, opts ...Option) (*Service, error) {
	if api == nil {
		return nil, errors.New("api search engine is required")
	}
	s := &Service{
		engines: map[models.Strategy]search.Engine{models.StrategyAPI: api},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search runs the pipeline for req. Rows start in official-name order
// before filters and the sort key apply. An empty term yields an empty result
// without touching any engine.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	if req.Term == "" {
		return &Result{Rows: []DisplayRow{}}, nil
	}

	engine, ok := s.engines[req.Strategy]
	if !ok {
		return nil, dErrors.Wrap(ErrStrategyUnavailable, dErrors.CodeValidation, "search strategy "+string(req.Strategy)+" is not available")
	}

	start := time.Now()
	found, err := engine.Search(ctx, req.Term, req.Params)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "search aborted")
	}

	partition := table.Filters(req.Filters).Partition(table.NewRows(table.ByName(found.Countries)))
	ordered := table.Sorter{Key: req.SortKey, Order: req.SortOrder}.Apply(partition.Shown)

	result := &Result{
		Term:        req.Term,
		Rows:        annotate(ordered, req.Term),
		Total:       partition.Total(),
		Shown:       partition.ShownCount(),
		Hidden:      partition.HiddenCount(),
		Measurement: found.Measurement,
	}
	s.metrics.ObserveResults(result.Total, result.Shown)

	if found.Measurement.Partial() {
		s.logger.WarnContext(ctx, "search completed with failed endpoints",
			"request_id", requestcontext.RequestID(ctx),
			"strategy", req.Strategy,
			"failed_endpoints", found.Measurement.FailedEndpoints,
		)
	}
	s.logger.DebugContext(ctx, "search completed",
		"request_id", requestcontext.RequestID(ctx),
		"strategy", req.Strategy,
		"total", result.Total,
		"shown", result.Shown,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func annotate(rows []models.Row, term string) []DisplayRow {
	out := make([]DisplayRow, len(rows))
	for i, r := range rows {
		out[i] = DisplayRow{
			Row:       r,
			Name:      highlight.Highlight(r.Country.Name, term),
			Region:    highlight.Highlight(r.Country.Region, term),
			Subregion: highlight.Highlight(r.Country.Subregion, term),
		}
	}
	return out
}
