package handler

import (
	"math"

	"countrysearch/internal/countries/highlight"
	"countrysearch/internal/countries/service"
)

// SearchResponse is the body of GET /countries/search.
type SearchResponse struct {
	Term     string            `json:"term"`
	Rows     []RowResponse     `json:"rows"`
	Metadata *MetadataResponse `json:"metadata,omitempty"`
}

// HighlightResponse is a text column split around the search term.
type HighlightResponse struct {
	Prefix string `json:"prefix"`
	Match  string `json:"match"`
	Suffix string `json:"suffix"`
}

// FlagResponse references the flag image.
type FlagResponse struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// RowResponse is one displayed country.
type RowResponse struct {
	Number     int               `json:"number"`
	Name       HighlightResponse `json:"name"`
	Population uint64            `json:"population"`
	Region     HighlightResponse `json:"region"`
	Subregion  HighlightResponse `json:"subregion"`
	Currency   string            `json:"currency"`
	Flag       FlagResponse      `json:"flag"`
}

// MetadataResponse reports I/O and result counts of the request.
type MetadataResponse struct {
	Requests        int      `json:"requests"`
	IOMillis        int64    `json:"io_ms"`
	Kilobytes       float64  `json:"kb"`
	SearchMillis    int64    `json:"search_ms"`
	Total           int      `json:"total"`
	Shown           int      `json:"shown"`
	Hidden          int      `json:"hidden"`
	FailedEndpoints []string `json:"failed_endpoints"`
	Degraded        bool     `json:"degraded"`
}

// FromResult maps a pipeline result to the response body.
func FromResult(res *service.Result, includeMetadata bool) SearchResponse {
	resp := SearchResponse{
		Term: res.Term,
		Rows: make([]RowResponse, 0, len(res.Rows)),
	}
	for _, r := range res.Rows {
		c := r.Row.Country
		resp.Rows = append(resp.Rows, RowResponse{
			Number:     r.Row.Number(),
			Name:       fromHighlight(r.Name),
			Population: c.Population,
			Region:     fromHighlight(r.Region),
			Subregion:  fromHighlight(r.Subregion),
			Currency:   c.Currency,
			Flag:       FlagResponse{Src: c.Flag.Src, Alt: c.Flag.Alt},
		})
	}

	if includeMetadata {
		m := res.Measurement
		failed := m.FailedEndpoints
		if failed == nil {
			failed = []string{}
		}
		resp.Metadata = &MetadataResponse{
			Requests:        m.Requests,
			IOMillis:        m.IO.Milliseconds(),
			Kilobytes:       math.Round(float64(m.Bytes)/1000*100) / 100,
			SearchMillis:    m.Elapsed.Milliseconds(),
			Total:           res.Total,
			Shown:           res.Shown,
			Hidden:          res.Hidden,
			FailedEndpoints: failed,
			Degraded:        m.Degraded,
		}
	}
	return resp
}

func fromHighlight(t highlight.Text) HighlightResponse {
	return HighlightResponse{Prefix: t.Prefix, Match: t.Match, Suffix: t.Suffix}
}
