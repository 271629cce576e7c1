package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"countrysearch/internal/countries/metrics"
	"countrysearch/internal/countries/models"
	"countrysearch/internal/countries/source"
)

// datasetEndpoint names the full-list call in Measurement.FailedEndpoints.
const datasetEndpoint = "all"

// Loader supplies the full country list searched by InMemory.
type Loader interface {
	FetchAll(ctx context.Context) ([]models.Country, source.Stats, error)
}

// InMemory matches a term against a full country list, loaded once per
// search.
type InMemory struct {
	loader  Loader
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewInMemory builds the in-memory strategy over loader.
func NewInMemory(loader Loader, logger *slog.Logger, m *metrics.Metrics) *InMemory {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &InMemory{loader: loader, logger: logger, metrics: m}
}

// Search loads the dataset and keeps the countries matching term. A failed
// load searches an empty dataset.
func (s *InMemory) Search(ctx context.Context, term string, params models.SearchParameters) (Result, error) {
	start := time.Now()
	if term == "" || len(params.Fields) == 0 {
		return Result{}, nil
	}

	var m Measurement
	countries, stats, err := s.loader.FetchAll(ctx)
	m.addStats(stats)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeFailure
		m.FailedEndpoints = append(m.FailedEndpoints, datasetEndpoint)
		s.logger.WarnContext(ctx, "dataset load failed, searching empty list",
			"category", source.GetCategory(err),
			"error", err,
		)
		countries = nil
	}
	if stats.Requests > 0 {
		s.metrics.ObserveUpstream(datasetEndpoint, outcome, stats.Duration, stats.Bytes)
	}

	matched := Filter(countries, term, params)
	m.Elapsed = time.Since(start)
	s.metrics.ObserveSearch(string(models.StrategyMemory), m.Elapsed)
	return Result{Countries: matched, Measurement: m}, nil
}

// Filter returns the countries matching term, in their input order.
func Filter(countries []models.Country, term string, params models.SearchParameters) []models.Country {
	needle := params.CleansedTerm(term)
	out := make([]models.Country, 0)
	for _, c := range countries {
		if Matches(c, needle, params) {
			out = append(out, c)
		}
	}
	return out
}

// Matches reports whether any requested field of c contains needle. The
// needle must already be cleansed with params.CleansedTerm.
func Matches(c models.Country, needle string, params models.SearchParameters) bool {
	contains := func(haystack string) bool {
		if params.IgnoreCase {
			haystack = strings.ToLower(haystack)
		}
		return strings.Contains(haystack, needle)
	}

	for _, field := range params.Fields {
		switch field {
		case models.SearchFieldName:
			if contains(c.Name) {
				return true
			}
		case models.SearchFieldCodes:
			if contains(c.Codes.Joined()) {
				return true
			}
		case models.SearchFieldCurrency:
			if contains(c.Currency) {
				return true
			}
		case models.SearchFieldRegion:
			if contains(c.Region) || contains(c.Subregion) {
				return true
			}
		}
	}
	return false
}
