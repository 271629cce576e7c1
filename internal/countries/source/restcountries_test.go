package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"countrysearch/internal/countries/models"
)

const franceJSON = `{
	"name": {"common": "France", "official": "French Republic"},
	"cca2": "FR", "ccn3": "250", "cca3": "FRA", "cioc": "FRA",
	"population": 67391582,
	"region": "Europe", "subregion": "Western Europe",
	"currencies": {"EUR": {"name": "Euro", "symbol": "€"}},
	"flags": {"png": "https://flagcdn.com/w320/fr.png", "svg": "https://flagcdn.com/fr.svg", "alt": "The flag of France"},
	"startOfWeek": "monday",
	"car": {"side": "right"}
}`

const fijiJSON = `{
	"name": {"common": "Fiji", "official": "Republic of Fiji"},
	"cca2": "FJ", "ccn3": "242", "cca3": "FJI", "cioc": "FIJ",
	"population": 896444,
	"region": "Oceania", "subregion": "Melanesia",
	"currencies": {"FJD": {"name": "Fijian dollar", "symbol": "$"}},
	"flags": {"png": "https://flagcdn.com/w320/fj.png"},
	"startOfWeek": "monday",
	"car": {"side": "left"}
}`

// RestCountriesSuite runs the client against a fake upstream.
type RestCountriesSuite struct {
	suite.Suite
	server *httptest.Server

	mu     sync.Mutex
	paths  []string
	routes map[string]func(w http.ResponseWriter)
}

func TestRestCountriesSuite(t *testing.T) {
	suite.Run(t, new(RestCountriesSuite))
}

func (s *RestCountriesSuite) SetupTest() {
	s.paths = nil
	s.routes = map[string]func(w http.ResponseWriter){}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.paths = append(s.paths, r.URL.EscapedPath())
		route := s.routes[r.URL.EscapedPath()]
		s.mu.Unlock()
		if route == nil {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status":404,"message":"Not Found"}`))
			return
		}
		route(w)
	}))
}

func (s *RestCountriesSuite) TearDownTest() {
	s.server.Close()
}

func (s *RestCountriesSuite) respond(path string, status int, body string) {
	s.routes[path] = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *RestCountriesSuite) client(opts ...Option) *Client {
	return NewClient(s.server.URL, opts...)
}

func (s *RestCountriesSuite) TestFetchByEndpoint() {
	ctx := context.Background()

	s.Run("array body yields one record per element", func() {
		s.respond("/name/f", http.StatusOK, "["+franceJSON+","+fijiJSON+"]")

		records, stats, err := s.client().FetchByEndpoint(ctx, models.EndpointName, "f")
		s.Require().NoError(err)
		s.Require().Len(records, 2)
		s.Equal(Text("French Republic"), records[0].Name.Official)
		s.Equal(Text("Republic of Fiji"), records[1].Name.Official)
		s.Equal(1, stats.Requests)
		s.Positive(stats.Bytes)
	})

	s.Run("bare object body is treated as a one element list", func() {
		s.respond("/alpha/fr", http.StatusOK, franceJSON)

		records, _, err := s.client().FetchByEndpoint(ctx, models.EndpointAlpha, "fr")
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(Text("FR"), records[0].CCA2)
	})

	s.Run("404 is an empty answer, not a failure", func() {
		records, stats, err := s.client().FetchByEndpoint(ctx, models.EndpointDemonym, "zz")
		s.NoError(err)
		s.Empty(records)
		s.Equal(1, stats.Requests)
	})

	s.Run("5xx is a provider outage", func() {
		s.respond("/currency/eur", http.StatusServiceUnavailable, `oops`)

		records, _, err := s.client().FetchByEndpoint(ctx, models.EndpointCurrency, "eur")
		s.Require().Error(err)
		s.Nil(records)
		s.Equal(ErrorProviderOutage, GetCategory(err))

		var ue *UpstreamError
		s.Require().ErrorAs(err, &ue)
		s.Equal(http.StatusServiceUnavailable, ue.StatusCode)
		s.Equal("currency", ue.Endpoint)
	})

	s.Run("non JSON body is bad data", func() {
		s.respond("/region/europe", http.StatusOK, `<html>maintenance</html>`)

		_, _, err := s.client().FetchByEndpoint(ctx, models.EndpointRegion, "europe")
		s.Require().Error(err)
		s.Equal(ErrorBadData, GetCategory(err))
	})

	s.Run("slow upstream is a timeout", func() {
		s.routes["/subregion/slow"] = func(w http.ResponseWriter) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}

		_, _, err := s.client(WithTimeout(20*time.Millisecond)).FetchByEndpoint(ctx, models.EndpointSubregion, "slow")
		s.Require().Error(err)
		s.Equal(ErrorTimeout, GetCategory(err))
	})

	s.Run("empty slug is rejected without a call", func() {
		s.mu.Lock()
		before := len(s.paths)
		s.mu.Unlock()

		_, stats, err := s.client().FetchByEndpoint(ctx, models.EndpointName, "")
		s.ErrorIs(err, ErrEmptySlug)
		s.Zero(stats.Requests)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.Len(s.paths, before)
	})

	s.Run("slug is sent verbatim", func() {
		s.respond("/name/united%20states", http.StatusOK, "[]")

		records, _, err := s.client().FetchByEndpoint(ctx, models.EndpointName, Slug("united states"))
		s.Require().NoError(err)
		s.Empty(records)
	})
}

func (s *RestCountriesSuite) TestFetchAll() {
	s.respond("/all", http.StatusOK, "["+franceJSON+","+fijiJSON+"]")

	countries, stats, err := s.client().FetchAll(context.Background())
	s.Require().NoError(err)
	s.Require().Len(countries, 2)
	s.Equal(1, stats.Requests)

	france := countries[0]
	s.Equal("French Republic", france.Name)
	s.Equal(models.Codes{CCA2: "FR", CCN3: "250", CCA3: "FRA", CIOC: "FRA"}, france.Codes)
	s.Equal(uint64(67391582), france.Population)
	s.Equal("€", france.Currency)
	s.Equal("https://flagcdn.com/fr.svg", france.Flag.Src)
	s.Equal("The flag of France", france.Flag.Alt)
	s.True(france.DrivesOnRight())

	fiji := countries[1]
	s.Equal("https://flagcdn.com/w320/fj.png", fiji.Flag.Src, "png is used when svg is missing")
	s.Empty(fiji.Flag.Alt)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "fr", Slug("fr"))
	assert.Equal(t, "united%20states", Slug("united states"))
	assert.Equal(t, "c%C3%B4te", Slug("côte"))
	assert.Equal(t, "a%2Fb", Slug("a/b"))
	assert.Equal(t, "%24", Slug("$"))
}

func TestDecodeRecords(t *testing.T) {
	t.Run("empty shapes decode to nothing", func(t *testing.T) {
		for _, body := range []string{"", "  ", "null", "{}", "[]"} {
			records, skipped, err := DecodeRecords([]byte(body))
			require.NoError(t, err, body)
			assert.Empty(t, records, body)
			assert.Zero(t, skipped, body)
		}
	})

	t.Run("records without official name are skipped", func(t *testing.T) {
		body := `[` + franceJSON + `, {"name": {"common": "Nowhere"}}, 42]`
		records, skipped, err := DecodeRecords([]byte(body))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 2, skipped)
	})

	t.Run("optional fields of the wrong shape degrade to empty", func(t *testing.T) {
		cases := map[string]string{
			"flags as array":        `{"name": {"official": "A"}, "flags": ["a.svg", "a.png"]}`,
			"numeric start of week": `{"name": {"official": "A"}, "startOfWeek": 1}`,
			"currency as string":    `{"name": {"official": "A"}, "currencies": {"EUR": "Euro"}}`,
			"numeric cioc":          `{"name": {"official": "A"}, "cioc": 7}`,
			"null car side":         `{"name": {"official": "A"}, "car": {"side": null}}`,
			"car as string":         `{"name": {"official": "A"}, "car": "right"}`,
			"population as string":  `{"name": {"official": "A"}, "population": "many"}`,
			"negative population":   `{"name": {"official": "A"}, "population": -5}`,
		}
		for name, body := range cases {
			records, skipped, err := DecodeRecords([]byte(body))
			require.NoError(t, err, name)
			require.Len(t, records, 1, name)
			assert.Zero(t, skipped, name)

			c := records[0].ToCountry()
			assert.Equal(t, "A", c.Name, name)
			assert.Empty(t, c.Flag.Src, name)
			assert.Empty(t, c.StartOfWeek, name)
			assert.Empty(t, c.Currency, name)
			assert.Empty(t, c.Codes.CIOC, name)
			assert.Empty(t, c.DriveSide, name)
			assert.Zero(t, c.Population, name)
		}
	})

	t.Run("bad currency entries are skipped and good ones kept", func(t *testing.T) {
		body := `{"name": {"official": "A"}, "currencies": {"EUR": "Euro", "USD": {"symbol": "$"}, "XXX": {"symbol": 4}}}`
		records, _, err := DecodeRecords([]byte(body))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "$, ", records[0].ToCountry().Currency)
	})

	t.Run("fractional population is truncated", func(t *testing.T) {
		records, _, err := DecodeRecords([]byte(`{"name": {"official": "A"}, "population": 1.5e3}`))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, uint64(1500), records[0].ToCountry().Population)
	})

	t.Run("official name of the wrong shape drops the record", func(t *testing.T) {
		records, skipped, err := DecodeRecords([]byte(`[{"name": {"official": 3}}, {"name": "A"}]`))
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.Equal(t, 2, skipped)
	})

	t.Run("scalar body is an error", func(t *testing.T) {
		_, _, err := DecodeRecords([]byte(`"nope"`))
		assert.Error(t, err)
	})
}

func TestCurrenciesKeepDocumentOrder(t *testing.T) {
	body := `{"name": {"official": "Republic of Zimbabwe"}, "currencies": {
		"ZWL": {"name": "Zimbabwean dollar", "symbol": "$"},
		"BWP": {"name": "Botswana pula", "symbol": "P"},
		"XXX": {"name": "No symbol"},
		"USD": {"name": "United States dollar", "symbol": "$"}
	}}`
	records, _, err := DecodeRecords([]byte(body))
	require.NoError(t, err)
	require.Len(t, records, 1)

	codes := make([]string, 0, len(records[0].Currencies))
	for _, c := range records[0].Currencies {
		codes = append(codes, c.Code)
	}
	assert.Equal(t, "ZWL,BWP,XXX,USD", strings.Join(codes, ","))
	assert.Equal(t, "$, P, , $", records[0].ToCountry().Currency)
}

func TestStatsAdd(t *testing.T) {
	a := Stats{Requests: 1, Bytes: 10, Duration: time.Millisecond}
	b := Stats{Requests: 2, Bytes: 5, Duration: 2 * time.Millisecond}
	assert.Equal(t, Stats{Requests: 3, Bytes: 15, Duration: 3 * time.Millisecond}, a.Add(b))
}
