package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"countrysearch/internal/countries/metrics"
	"countrysearch/internal/countries/models"
	"countrysearch/internal/countries/search"
	dErrors "countrysearch/pkg/domain-errors"
)

type fakeEngine struct {
	result search.Result
	err    error
	calls  int
	terms  []string
}

func (f *fakeEngine) Search(_ context.Context, term string, _ models.SearchParameters) (search.Result, error) {
	f.calls++
	f.terms = append(f.terms, term)
	return f.result, f.err
}

type ServiceSuite struct {
	suite.Suite
	api    *fakeEngine
	memory *fakeEngine
	svc    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.api = &fakeEngine{}
	s.memory = &fakeEngine{}
	svc, err := New(s.api,
		WithEngine(models.StrategyMemory, s.memory),
		WithMetrics(metrics.NewWithRegisterer(prometheus.NewRegistry())),
		WithLogger(nil),
	)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *ServiceSuite) request(term string) Request {
	return Request{
		Term:      term,
		Params:    models.NewSearchParameters(),
		Strategy:  models.StrategyAPI,
		SortKey:   models.SortByName,
		SortOrder: models.SortAscending,
	}
}

func (s *ServiceSuite) TestNew() {
	_, err := New(nil)
	s.Error(err)
}

func (s *ServiceSuite) TestEmptyTerm() {
	res, err := s.svc.Search(context.Background(), s.request(""))
	s.Require().NoError(err)
	s.NotNil(res.Rows)
	s.Empty(res.Rows)
	s.Zero(s.api.calls)
}

func (s *ServiceSuite) TestPipeline() {
	s.api.result = search.Result{
		Countries: []models.Country{
			{Name: "Swiss Confederation", Region: "Europe", Subregion: "Western Europe", Population: 8_654_622},
			{Name: "Federal Republic of Germany", Region: "Europe", Subregion: "Western Europe", Population: 83_240_525},
			{Name: "Republic of Zimbabwe", Region: "Africa", Subregion: "Southern Africa", Population: 14_862_927},
		},
		Measurement: search.Measurement{Requests: 3, FailedEndpoints: []string{"demonym"}},
	}

	req := s.request("er")
	req.Filters = []models.FilterPredicate{models.FilterPopulationAbove10M}
	req.SortKey = models.SortByRegion
	req.SortOrder = models.SortDescending

	res, err := s.svc.Search(context.Background(), req)
	s.Require().NoError(err)

	s.Equal("er", res.Term)
	s.Equal(3, res.Total)
	s.Equal(2, res.Shown)
	s.Equal(1, res.Hidden)
	s.Equal(3, res.Measurement.Requests)
	s.True(res.Measurement.Partial())

	s.Require().Len(res.Rows, 2)
	s.Run("rows are filtered, ordered and renumbered", func() {
		s.Equal("Federal Republic of Germany", res.Rows[0].Row.Country.Name)
		s.Equal(1, res.Rows[0].Row.Number())
		s.Equal("Republic of Zimbabwe", res.Rows[1].Row.Country.Name)
		s.Equal(2, res.Rows[1].Row.Number())
	})

	s.Run("text columns are highlighted", func() {
		name := res.Rows[0].Name
		s.Equal("Fed", name.Prefix)
		s.Equal("er", name.Match)
		s.Equal("al Republic of Germany", name.Suffix)

		region := res.Rows[0].Region
		s.Equal("Europe", region.Prefix+region.Match+region.Suffix)
		s.False(region.Found)

		sub := res.Rows[0].Subregion
		s.Equal("West", sub.Prefix)
		s.Equal("er", sub.Match)
	})
}

func (s *ServiceSuite) TestTiesKeepNameOrder() {
	s.api.result = search.Result{
		Countries: []models.Country{
			{Name: "B", Region: "Europe", Population: 1},
			{Name: "C", Region: "Africa", Population: 2},
			{Name: "A", Region: "Europe", Population: 1},
		},
	}
	names := func(res *Result) []string {
		out := make([]string, 0, len(res.Rows))
		for _, r := range res.Rows {
			out = append(out, r.Row.Country.Name)
		}
		return out
	}

	s.Run("population ascending", func() {
		req := s.request("a")
		req.SortKey = models.SortByPopulation
		res, err := s.svc.Search(context.Background(), req)
		s.Require().NoError(err)
		s.Equal([]string{"A", "B", "C"}, names(res))
	})

	s.Run("region ascending", func() {
		req := s.request("a")
		req.SortKey = models.SortByRegion
		res, err := s.svc.Search(context.Background(), req)
		s.Require().NoError(err)
		s.Equal([]string{"C", "A", "B"}, names(res))
	})

	s.Run("no sort key", func() {
		req := s.request("a")
		req.SortKey = ""
		res, err := s.svc.Search(context.Background(), req)
		s.Require().NoError(err)
		s.Equal([]string{"A", "B", "C"}, names(res))
	})
}

func (s *ServiceSuite) TestStrategySelection() {
	s.Run("memory strategy uses the memory engine", func() {
		req := s.request("fr")
		req.Strategy = models.StrategyMemory
		_, err := s.svc.Search(context.Background(), req)
		s.Require().NoError(err)
		s.Equal(1, s.memory.calls)
		s.Zero(s.api.calls)
	})

	s.Run("unwired strategy is a validation error", func() {
		svc, err := New(s.api)
		s.Require().NoError(err)
		req := s.request("fr")
		req.Strategy = models.StrategyMemory

		_, err = svc.Search(context.Background(), req)
		s.Require().Error(err)
		s.ErrorIs(err, ErrStrategyUnavailable)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestEngineFailure() {
	s.api.err = context.Canceled

	_, err := s.svc.Search(context.Background(), s.request("fr"))
	s.Require().Error(err)
	s.True(errors.Is(err, context.Canceled))
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}
