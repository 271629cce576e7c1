// Package search finds countries matching a term across a set of search
// fields. Two strategies implement Engine: Remote asks the upstream lookup
// endpoints, InMemory matches against a full country list.
package search

import (
	"context"
	"time"

	"countrysearch/internal/countries/models"
	"countrysearch/internal/countries/source"
)

// Engine returns the countries matching term, de-duplicated by official
// name. Upstream failures never fail a search; they are reported in the
// Measurement.
type Engine interface {
	Search(ctx context.Context, term string, params models.SearchParameters) (Result, error)
}

// Result is the outcome of one search.
type Result struct {
	Countries   []models.Country
	Measurement Measurement
}

// Measurement is the request-scoped cost of a search.
type Measurement struct {
	// Requests is the number of upstream calls made.
	Requests int
	// Bytes is the total size of upstream response bodies.
	Bytes int64
	// IO is the summed duration of upstream calls. With concurrent fan-out
	// it can exceed Elapsed.
	IO time.Duration
	// Elapsed is the wall-clock duration of the search.
	Elapsed time.Duration
	// FailedEndpoints lists endpoints whose call failed and whose results
	// were therefore treated as empty. A 404 is not a failure.
	FailedEndpoints []string
	// Degraded is set when the upstream circuit is open.
	Degraded bool
}

// Partial reports whether any upstream call failed.
func (m Measurement) Partial() bool {
	return len(m.FailedEndpoints) > 0
}

func (m *Measurement) addStats(s source.Stats) {
	m.Requests += s.Requests
	m.Bytes += s.Bytes
	m.IO += s.Duration
}
