package table

import (
	"cmp"
	"slices"
	"strings"

	"countrysearch/internal/countries/models"
)

// Sorter orders rows by an optional key.
type Sorter struct {
	// Key is the attribute to order by. The zero value keeps input order.
	Key   models.SortKey
	Order models.SortOrder
}

// Apply returns rows ordered by the sorter and re-indexed from 0. Rows are
// stable-sorted ascending; descending reverses that whole sequence, so rows
// that tie keep a reversed relative order rather than their input order.
// Without a key the input order is kept and descending still reverses it.
func (s Sorter) Apply(rows []models.Row) []models.Row {
	out := slices.Clone(rows)
	if out == nil {
		out = []models.Row{}
	}
	if compare := comparator(s.Key); compare != nil {
		slices.SortStableFunc(out, func(a, b models.Row) int {
			return compare(a.Country, b.Country)
		})
	}
	if s.Order == models.SortDescending {
		slices.Reverse(out)
	}
	return reindex(out)
}

func comparator(key models.SortKey) func(a, b models.Country) int {
	switch key {
	case models.SortByName:
		return func(a, b models.Country) int {
			return strings.Compare(a.Name, b.Name)
		}
	case models.SortByPopulation:
		return func(a, b models.Country) int {
			return cmp.Compare(a.Population, b.Population)
		}
	case models.SortByRegion:
		return func(a, b models.Country) int {
			if c := strings.Compare(a.Region, b.Region); c != 0 {
				return c
			}
			return strings.Compare(a.Subregion, b.Subregion)
		}
	default:
		return nil
	}
}
