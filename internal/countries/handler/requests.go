package handler

import (
	"net/url"
	"strings"

	"countrysearch/internal/countries/models"
	"countrysearch/internal/countries/service"
	dErrors "countrysearch/pkg/domain-errors"
	pstrings "countrysearch/pkg/platform/strings"
)

// maxTermLength bounds the search term in bytes.
const maxTermLength = 100

// Query parameter names.
const (
	paramTerm       = "q"
	paramFields     = "s"
	paramFilters    = "f"
	paramIgnoreCase = "i"
	paramMetadata   = "m"
	paramSortKey    = "t"
	paramSortOrder  = "o"
	paramStrategy   = "c"
)

// SearchRequest is a parsed GET /countries/search query. Unknown enum tokens
// are ignored and missing values fall back to defaults, so the only
// rejected input is an oversized term.
type SearchRequest struct {
	Term            string
	Fields          []models.SearchField
	Filters         []models.FilterPredicate
	IgnoreCase      bool
	IncludeMetadata bool
	SortKey         models.SortKey
	SortOrder       models.SortOrder
	Strategy        models.Strategy
}

// ParseSearchRequest reads and validates query parameters.
// Repeated parameters and comma-separated lists are both accepted:
// s=name&s=region and s=name,region are equivalent.
func ParseSearchRequest(q url.Values) (*SearchRequest, error) {
	req := &SearchRequest{
		Term:            strings.TrimSpace(q.Get(paramTerm)),
		IgnoreCase:      parseFlag(q, paramIgnoreCase, true),
		IncludeMetadata: parseFlag(q, paramMetadata, true),
		SortKey:         models.SortByName,
		SortOrder:       models.SortAscending,
		Strategy:        models.StrategyAPI,
	}
	if len(req.Term) > maxTermLength {
		return nil, dErrors.New(dErrors.CodeValidation, "q must be at most 100 characters")
	}

	for _, token := range listParam(q, paramFields) {
		if f, err := models.ParseSearchField(token); err == nil {
			req.Fields = append(req.Fields, f)
		}
	}
	if len(req.Fields) == 0 {
		req.Fields = append([]models.SearchField(nil), models.DefaultSearchFields...)
	}

	for _, token := range listParam(q, paramFilters) {
		if p, err := models.ParseFilterPredicate(token); err == nil {
			req.Filters = append(req.Filters, p)
		}
	}

	if k, err := models.ParseSortKey(q.Get(paramSortKey)); err == nil {
		req.SortKey = k
	}
	if o, err := models.ParseSortOrder(q.Get(paramSortOrder)); err == nil {
		req.SortOrder = o
	}
	if s, err := models.ParseStrategy(q.Get(paramStrategy)); err == nil {
		req.Strategy = s
	}
	return req, nil
}

// ToServiceRequest converts the parsed query into a pipeline request.
func (r *SearchRequest) ToServiceRequest() service.Request {
	params := models.NewSearchParameters(r.Fields...)
	params.IgnoreCase = r.IgnoreCase
	return service.Request{
		Term:      r.Term,
		Params:    params,
		Strategy:  r.Strategy,
		Filters:   r.Filters,
		SortKey:   r.SortKey,
		SortOrder: r.SortOrder,
	}
}

func listParam(q url.Values, key string) []string {
	return pstrings.DedupeAndTrimLower(pstrings.SplitCSV(q[key]))
}

// parseFlag reads a checkbox-style flag. The last value wins, so a hidden
// "0" followed by a checked "1" reads as true. Absent means def; "", "0",
// "false", "off" and "no" mean false; anything else means true.
func parseFlag(q url.Values, key string, def bool) bool {
	values, ok := q[key]
	if !ok || len(values) == 0 {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(values[len(values)-1])) {
	case "", "0", "false", "off", "no":
		return false
	default:
		return true
	}
}
