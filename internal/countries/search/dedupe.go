package search

import "countrysearch/internal/countries/source"

// DedupeByOfficialName collapses records sharing an official name. The
// survivor sits where the name was first seen and holds the last record seen
// for it.
func DedupeByOfficialName(records []source.RawRecord) []source.RawRecord {
	if len(records) == 0 {
		return nil
	}

	positions := make(map[source.Text]int, len(records))
	out := make([]source.RawRecord, 0, len(records))
	for _, r := range records {
		if i, ok := positions[r.Name.Official]; ok {
			out[i] = r
			continue
		}
		positions[r.Name.Official] = len(out)
		out = append(out, r)
	}
	return out
}
