// Package source adapts backing country datasets, the REST Countries API or
// a fixed list, to normalized country records.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"countrysearch/internal/countries/models"
)

const (
	// DefaultBaseURL is the public REST Countries v3.1 API.
	DefaultBaseURL = "https://restcountries.com/v3.1"

	defaultTimeout = 5 * time.Second
	maxBodyBytes   = 16 << 20
	endpointAll    = "all"
)

// HTTPClient is the subset of *http.Client the adapter needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Stats describes the I/O spent on upstream calls.
type Stats struct {
	Requests int
	Bytes    int64
	Duration time.Duration
}

// Add sums two Stats.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Requests: s.Requests + o.Requests,
		Bytes:    s.Bytes + o.Bytes,
		Duration: s.Duration + o.Duration,
	}
}

// Client queries the REST Countries API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	timeout    time.Duration
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every upstream call. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for dropped records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a REST Countries client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		logger:     slog.New(slog.DiscardHandler),
		tracer:     otel.Tracer("countrysearch/source"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Slug percent-encodes a term for use as a path segment. Everything except
// unreserved characters is escaped and spaces become %20.
func Slug(term string) string {
	return strings.ReplaceAll(url.QueryEscape(term), "+", "%20")
}

// FetchAll returns every country the upstream knows about.
func (c *Client) FetchAll(ctx context.Context) ([]models.Country, Stats, error) {
	u := fmt.Sprintf("%s/%s?fields=%s", c.baseURL, endpointAll, strings.Join(Fields, ","))
	records, stats, err := c.get(ctx, endpointAll, "", u)
	if err != nil {
		return nil, stats, err
	}
	return ToCountries(records), stats, nil
}

// FetchByEndpoint queries one lookup endpoint with an already encoded slug.
// A 404 means the endpoint has no match and yields no records and no error.
func (c *Client) FetchByEndpoint(ctx context.Context, endpoint models.Endpoint, slug string) ([]RawRecord, Stats, error) {
	if slug == "" {
		return nil, Stats{}, ErrEmptySlug
	}
	u := fmt.Sprintf("%s/%s/%s?fields=%s", c.baseURL, endpoint, slug, strings.Join(Fields, ","))
	return c.get(ctx, string(endpoint), slug, u)
}

func (c *Client) get(ctx context.Context, endpoint, slug, rawURL string) ([]RawRecord, Stats, error) {
	ctx, span := c.tracer.Start(ctx, "restcountries.fetch", trace.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("slug", slug),
	))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	stats := Stats{Requests: 1}
	body, status, err := c.fetch(ctx, endpoint, rawURL)
	stats.Bytes = int64(len(body))
	stats.Duration = time.Since(start)
	span.SetAttributes(attribute.Int("http.status_code", status))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(GetCategory(err)))
		return nil, stats, err
	}
	if status == http.StatusNotFound {
		return nil, stats, nil
	}

	records, skipped, err := DecodeRecords(body)
	if err != nil {
		err = newUpstreamError(ErrorBadData, endpoint, status, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(ErrorBadData))
		return nil, stats, err
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "dropped malformed upstream records",
			"endpoint", endpoint,
			"skipped", skipped,
		)
	}
	return records, stats, nil
}

// fetch performs the GET and returns the body of 2xx and 404 responses.
func (c *Client) fetch(ctx context.Context, endpoint, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, newUpstreamError(ErrorInternal, endpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, newUpstreamError(classifyTransport(err), endpoint, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, newUpstreamError(ErrorProviderOutage, endpoint, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return body, resp.StatusCode, newUpstreamError(classifyTransport(err), endpoint, resp.StatusCode, err)
	}
	return body, resp.StatusCode, nil
}
