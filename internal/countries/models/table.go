package models

import (
	"fmt"
	"strings"

	dErrors "countrysearch/pkg/domain-errors"
)

// PopulationThreshold is the bound used by FilterPopulationAbove10M.
const PopulationThreshold = 10_000_000

// FilterPredicate is a declarative row filter.
type FilterPredicate string

const (
	FilterPopulationAbove10M FilterPredicate = "population_gt_10m"
	FilterStartsWeekSunday   FilterPredicate = "starts_week_sunday"
	FilterDrivesOnRight      FilterPredicate = "drives_right"
)

// ParseFilterPredicate converts a wire token into a FilterPredicate.
func ParseFilterPredicate(s string) (FilterPredicate, error) {
	switch p := FilterPredicate(strings.ToLower(strings.TrimSpace(s))); p {
	case FilterPopulationAbove10M, FilterStartsWeekSunday, FilterDrivesOnRight:
		return p, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown filter %q", s))
	}
}

// Matches evaluates the predicate against a country. Unknown predicates
// never match.
func (p FilterPredicate) Matches(c Country) bool {
	switch p {
	case FilterPopulationAbove10M:
		return c.Population > PopulationThreshold
	case FilterStartsWeekSunday:
		return c.StartsWeekOnSunday()
	case FilterDrivesOnRight:
		return c.DrivesOnRight()
	default:
		return false
	}
}

// SortKey names the attribute rows are ordered by.
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByPopulation SortKey = "population"
	SortByRegion     SortKey = "region"
)

// ParseSortKey converts a wire token into a SortKey.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByName, SortByPopulation, SortByRegion:
		return k, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown sort key %q", s))
	}
}

// SortOrder is the direction of an ordering.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder converts a wire token into a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortAscending, SortDescending:
		return o, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown sort order %q", s))
	}
}

// Row is a country at a position of the current ordering.
type Row struct {
	Index   int
	Country Country
}

// Number is the 1-based display number of the row.
func (r Row) Number() int {
	return r.Index + 1
}
