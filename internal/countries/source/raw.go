package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"countrysearch/internal/countries/models"
)

var errUnexpectedShape = errors.New("body is neither a record nor a list of records")

// Fields is the projection requested from the upstream for every call.
var Fields = []string{
	"name", "population", "region", "subregion", "currencies", "flags",
	"startOfWeek", "cca2", "ccn3", "cca3", "cioc", "car",
}

// RawRecord is the upstream JSON shape of one country, restricted to Fields.
// Every field is optional on the wire, and a field of the wrong shape
// decodes to its zero value instead of failing the record.
type RawRecord struct {
	Name        RawName    `json:"name"`
	CCA2        Text       `json:"cca2"`
	CCN3        Text       `json:"ccn3"`
	CCA3        Text       `json:"cca3"`
	CIOC        Text       `json:"cioc"`
	Population  Count      `json:"population"`
	Region      Text       `json:"region"`
	Subregion   Text       `json:"subregion"`
	Currencies  Currencies `json:"currencies"`
	Flags       RawFlags   `json:"flags"`
	StartOfWeek Text       `json:"startOfWeek"`
	Car         RawCar     `json:"car"`
}

// Text is a string field that decodes anything but a JSON string to "".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		s = ""
	}
	*t = Text(s)
	return nil
}

// Count is a non-negative integer field. Strings, negatives and other
// shapes decode to 0; fractional numbers are truncated.
type Count uint64

func (n *Count) UnmarshalJSON(data []byte) error {
	*n = 0
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return nil
	}
	if v, err := strconv.ParseUint(num.String(), 10, 64); err == nil {
		*n = Count(v)
		return nil
	}
	if f, err := num.Float64(); err == nil && f > 0 && f < math.MaxUint64 {
		*n = Count(f)
	}
	return nil
}

type RawName struct {
	Common   Text `json:"common"`
	Official Text `json:"official"`
}

func (n *RawName) UnmarshalJSON(data []byte) error {
	type plain RawName
	*n = RawName{}
	return decodeObject(data, (*plain)(n))
}

type RawFlags struct {
	SVG Text `json:"svg"`
	PNG Text `json:"png"`
	Alt Text `json:"alt"`
}

func (f *RawFlags) UnmarshalJSON(data []byte) error {
	type plain RawFlags
	*f = RawFlags{}
	return decodeObject(data, (*plain)(f))
}

type RawCar struct {
	Side Text `json:"side"`
}

func (c *RawCar) UnmarshalJSON(data []byte) error {
	type plain RawCar
	*c = RawCar{}
	return decodeObject(data, (*plain)(c))
}

// decodeObject fills v from a JSON object and leaves it untouched for any
// other shape. v must only hold fields that tolerate any shape themselves.
func decodeObject(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	return json.Unmarshal(trimmed, v)
}

// Currency is one entry of the upstream currencies object.
type Currency struct {
	Code   string
	Name   string
	Symbol string
}

// Currencies keeps the upstream currencies object in document order, which
// a Go map would lose.
type Currencies []Currency

// UnmarshalJSON decodes {"EUR": {"name": "Euro", "symbol": "€"}, ...}.
// Anything other than an object decodes to no currencies, and entries that
// are not objects are skipped.
func (c *Currencies) UnmarshalJSON(data []byte) error {
	*c = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	var out Currencies
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			break
		}
		code, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			break
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var entry struct {
			Name   Text `json:"name"`
			Symbol Text `json:"symbol"`
		}
		if err := json.Unmarshal(trimmed, &entry); err != nil {
			continue
		}
		out = append(out, Currency{Code: code, Name: string(entry.Name), Symbol: string(entry.Symbol)})
	}
	*c = out
	return nil
}

// Display joins the symbol of every currency with ", ". A currency without
// a symbol still takes its slot, as an empty string.
func (c Currencies) Display() string {
	symbols := make([]string, 0, len(c))
	for _, cur := range c {
		symbols = append(symbols, cur.Symbol)
	}
	return strings.Join(symbols, ", ")
}

// ToCountry normalizes a raw record. Missing optional fields become empty
// strings.
func (r RawRecord) ToCountry() models.Country {
	src := string(r.Flags.SVG)
	if src == "" {
		src = string(r.Flags.PNG)
	}
	return models.Country{
		Name: string(r.Name.Official),
		Codes: models.Codes{
			CCA2: string(r.CCA2),
			CCN3: string(r.CCN3),
			CCA3: string(r.CCA3),
			CIOC: string(r.CIOC),
		},
		Population:  uint64(r.Population),
		Region:      string(r.Region),
		Subregion:   string(r.Subregion),
		Currency:    r.Currencies.Display(),
		Flag:        models.Flag{Src: src, Alt: string(r.Flags.Alt)},
		StartOfWeek: string(r.StartOfWeek),
		DriveSide:   string(r.Car.Side),
	}
}

// ToCountries normalizes a list of raw records, keeping their order.
func ToCountries(records []RawRecord) []models.Country {
	out := make([]models.Country, 0, len(records))
	for _, r := range records {
		out = append(out, r.ToCountry())
	}
	return out
}

// DecodeRecords turns an upstream body into a list of records. The upstream
// answers single-match queries with a bare object instead of a one-element
// array; both shapes come out as a list. Empty bodies, null and {} decode to
// no records. Items that are not objects, or carry no official name, are
// dropped and counted in skipped.
func DecodeRecords(body []byte) (records []RawRecord, skipped int, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, 0, nil
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, err
		}
	case '{':
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &probe); err != nil {
			return nil, 0, err
		}
		if len(probe) == 0 {
			return nil, 0, nil
		}
		items = []json.RawMessage{trimmed}
	default:
		return nil, 0, errUnexpectedShape
	}

	records = make([]RawRecord, 0, len(items))
	for _, item := range items {
		var r RawRecord
		if err := json.Unmarshal(item, &r); err != nil || r.Name.Official == "" {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}
