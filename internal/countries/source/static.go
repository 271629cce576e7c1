package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"countrysearch/internal/countries/models"
)

// Static serves a fixed list of countries. It performs no I/O after
// construction, so its Stats are always zero.
type Static struct {
	countries []models.Country
}

// NewStatic wraps a fixed list. The slice is copied.
func NewStatic(countries []models.Country) *Static {
	return &Static{countries: append([]models.Country(nil), countries...)}
}

// datasetFile is the YAML layout of a dataset file.
type datasetFile struct {
	Countries []models.Country `yaml:"countries"`
}

// LoadStatic reads a YAML dataset file:
//
//	countries:
//	  - name: French Republic
//	    codes: {cca2: FR, ccn3: "250", cca3: FRA, cioc: FRA}
//	    population: 67391582
//	    region: Europe
//	    subregion: Western Europe
//	    currency: €
//	    start_of_week: monday
//	    drive_side: right
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	var f datasetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	return NewStatic(f.Countries), nil
}

// FetchAll returns a copy of the fixed list.
func (s *Static) FetchAll(ctx context.Context) ([]models.Country, Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, Stats{}, err
	}
	return append([]models.Country(nil), s.countries...), Stats{}, nil
}

// Len reports the number of countries held.
func (s *Static) Len() int {
	return len(s.countries)
}
