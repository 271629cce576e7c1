package models

import "strings"

// Drive sides reported by the upstream car.side field.
const (
	DriveSideLeft  = "left"
	DriveSideRight = "right"
)

// Codes holds the country codes published for a country. Any of them may be
// empty; cioc in particular is missing for many territories.
type Codes struct {
	CCA2 string `json:"cca2" yaml:"cca2"`
	CCN3 string `json:"ccn3" yaml:"ccn3"`
	CCA3 string `json:"cca3" yaml:"cca3"`
	CIOC string `json:"cioc" yaml:"cioc"`
}

// All returns the codes in their fixed order: cca2, ccn3, cca3, cioc.
func (c Codes) All() []string {
	return []string{c.CCA2, c.CCN3, c.CCA3, c.CIOC}
}

// Joined concatenates every code with no separator. It is the haystack the
// in-memory codes search matches against.
func (c Codes) Joined() string {
	return strings.Join(c.All(), "")
}

// Flag references the flag image. Src and Alt are empty when the upstream
// omitted them.
type Flag struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt" yaml:"alt"`
}

// Country is the normalized, read-only view of one upstream country record.
// The official name is its identity: two records with the same official name
// are the same country.
type Country struct {
	Name        string `json:"name" yaml:"name"`
	Codes       Codes  `json:"codes" yaml:"codes"`
	Population  uint64 `json:"population" yaml:"population"`
	Region      string `json:"region" yaml:"region"`
	Subregion   string `json:"subregion" yaml:"subregion"`
	Currency    string `json:"currency" yaml:"currency"`
	Flag        Flag   `json:"flag" yaml:"flag"`
	StartOfWeek string `json:"start_of_week" yaml:"start_of_week"`
	DriveSide   string `json:"drive_side" yaml:"drive_side"`
}

// StartsWeekOnSunday reports whether the week starts on Sunday.
func (c Country) StartsWeekOnSunday() bool {
	return strings.EqualFold(c.StartOfWeek, "sunday")
}

// DrivesOnRight reports whether traffic keeps to the right.
func (c Country) DrivesOnRight() bool {
	return strings.EqualFold(c.DriveSide, DriveSideRight)
}
