// Package table turns a search result into display rows and provides the
// filter and sort stages over them. Every stage returns a fresh slice; input
// rows are never modified.
package table

import (
	"slices"
	"strings"

	"countrysearch/internal/countries/models"
)

// ByName returns countries stable-sorted by official name, compared byte by
// byte. It is the base order rows are built from, so rows that tie under a
// later sort come out in name order whatever order the engine found them in.
func ByName(countries []models.Country) []models.Country {
	out := slices.Clone(countries)
	slices.SortStableFunc(out, func(a, b models.Country) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// NewRows indexes countries in their given order.
func NewRows(countries []models.Country) []models.Row {
	rows := make([]models.Row, len(countries))
	for i, c := range countries {
		rows[i] = models.Row{Index: i, Country: c}
	}
	return rows
}

func reindex(rows []models.Row) []models.Row {
	for i := range rows {
		rows[i].Index = i
	}
	return rows
}
