package countries

import (
	"errors"
	"log/slog"

	"countrysearch/internal/countries/handler"
	"countrysearch/internal/countries/metrics"
	"countrysearch/internal/countries/models"
	"countrysearch/internal/countries/search"
	"countrysearch/internal/countries/service"
	"countrysearch/internal/countries/source"
	"countrysearch/pkg/platform/circuit"
)

// Service exposes the country search pipeline.
type Service = service.Service

// Handler wires HTTP endpoints to the country search service.
type Handler = handler.Handler

// Deps are the collaborators of the search pipeline.
type Deps struct {
	// Upstream serves the API strategy, and the in-memory strategy when
	// Dataset is nil.
	Upstream *source.Client
	// Dataset, when set, is the fixed list searched by the in-memory strategy.
	Dataset     search.Loader
	Concurrency int
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// NewService constructs the pipeline with both strategies wired.
func NewService(d Deps) (*Service, error) {
	if d.Upstream == nil {
		return nil, errors.New("upstream client is required")
	}
	var loader search.Loader = d.Upstream
	if d.Dataset != nil {
		loader = d.Dataset
	}

	remote := search.NewRemote(d.Upstream,
		search.WithRemoteLogger(d.Logger),
		search.WithRemoteMetrics(d.Metrics),
		search.WithConcurrency(d.Concurrency),
		search.WithBreaker(circuit.New("restcountries")),
	)
	memory := search.NewInMemory(loader, d.Logger, d.Metrics)

	return service.New(remote,
		service.WithEngine(models.StrategyMemory, memory),
		service.WithLogger(d.Logger),
		service.WithMetrics(d.Metrics),
	)
}

// NewHandler constructs an HTTP handler for the country routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
