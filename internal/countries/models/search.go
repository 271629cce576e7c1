package models

import (
	"fmt"
	"strings"

	dErrors "countrysearch/pkg/domain-errors"
)

// SearchField selects which country attributes take part in matching and
// which upstream endpoints are consulted.
type SearchField string

const (
	SearchFieldName     SearchField = "name"
	SearchFieldCodes    SearchField = "codes"
	SearchFieldCurrency SearchField = "currency"
	SearchFieldRegion   SearchField = "region"
)

// DefaultSearchFields is used when the caller does not name any field.
var DefaultSearchFields = []SearchField{SearchFieldName, SearchFieldCodes, SearchFieldCurrency}

// ParseSearchField converts a wire token into a SearchField.
func ParseSearchField(s string) (SearchField, error) {
	switch f := SearchField(strings.ToLower(strings.TrimSpace(s))); f {
	case SearchFieldName, SearchFieldCodes, SearchFieldCurrency, SearchFieldRegion:
		return f, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown search field %q", s))
	}
}

// Endpoint is one upstream lookup path.
type Endpoint string

const (
	EndpointName      Endpoint = "name"
	EndpointAlpha     Endpoint = "alpha"
	EndpointCurrency  Endpoint = "currency"
	EndpointDemonym   Endpoint = "demonym"
	EndpointRegion    Endpoint = "region"
	EndpointSubregion Endpoint = "subregion"
)

// Endpoints expands the field into the upstream endpoints that serve it, in
// the order they are queried.
func (f SearchField) Endpoints() []Endpoint {
	switch f {
	case SearchFieldName:
		return []Endpoint{EndpointName}
	case SearchFieldCodes:
		return []Endpoint{EndpointAlpha}
	case SearchFieldCurrency:
		return []Endpoint{EndpointCurrency, EndpointDemonym}
	case SearchFieldRegion:
		return []Endpoint{EndpointRegion, EndpointSubregion}
	default:
		return nil
	}
}

// SearchParameters carries the validated options of one search.
type SearchParameters struct {
	Fields     []SearchField
	IgnoreCase bool
}

// NewSearchParameters returns parameters with the defaults applied: the
// default field set when fields is empty, and case-insensitive matching.
func NewSearchParameters(fields ...SearchField) SearchParameters {
	if len(fields) == 0 {
		fields = DefaultSearchFields
	}
	return SearchParameters{Fields: fields, IgnoreCase: true}
}

// CleansedTerm applies the case policy to a term.
func (p SearchParameters) CleansedTerm(term string) string {
	if p.IgnoreCase {
		return strings.ToLower(term)
	}
	return term
}

// IsSearchingBy reports whether the field was requested.
func (p SearchParameters) IsSearchingBy(field SearchField) bool {
	for _, f := range p.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// Endpoints resolves the requested fields to upstream endpoints, keeping the
// field order and then each field's expansion order.
func (p SearchParameters) Endpoints() []Endpoint {
	var out []Endpoint
	for _, f := range p.Fields {
		out = append(out, f.Endpoints()...)
	}
	return out
}

// Strategy selects how a search is executed.
type Strategy string

const (
	// StrategyAPI queries the upstream endpoints for every requested field.
	StrategyAPI Strategy = "api"
	// StrategyMemory matches against a full, pre-fetched country list.
	StrategyMemory Strategy = "memory"
)

// ParseStrategy converts a wire token into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyAPI, StrategyMemory:
		return st, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown search strategy %q", s))
	}
}
