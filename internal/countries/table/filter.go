package table

import "countrysearch/internal/countries/models"

// Partition is the outcome of applying filters to a row set.
type Partition struct {
	Shown  []models.Row
	Hidden []models.Row
}

// Total is the number of rows partitioned.
func (p Partition) Total() int {
	return len(p.Shown) + len(p.Hidden)
}

// ShownCount is the number of rows passing every filter.
func (p Partition) ShownCount() int {
	return len(p.Shown)
}

// HiddenCount is Total minus ShownCount.
func (p Partition) HiddenCount() int {
	return p.Total() - p.ShownCount()
}

// Filters is a set of predicates combined with AND.
type Filters []models.FilterPredicate

// Keeps reports whether c satisfies every predicate. An empty set keeps
// everything.
func (f Filters) Keeps(c models.Country) bool {
	for _, p := range f {
		if !p.Matches(c) {
			return false
		}
	}
	return true
}

// Partition splits rows into those kept and those hidden, preserving the
// relative order of each side. Row indexes are left as they were.
func (f Filters) Partition(rows []models.Row) Partition {
	p := Partition{
		Shown:  make([]models.Row, 0, len(rows)),
		Hidden: make([]models.Row, 0),
	}
	for _, r := range rows {
		if f.Keeps(r.Country) {
			p.Shown = append(p.Shown, r)
		} else {
			p.Hidden = append(p.Hidden, r)
		}
	}
	return p
}
