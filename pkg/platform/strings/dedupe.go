// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrimLower trims and lowercases each element, then drops empty
// strings and duplicates. Order of first occurrence is preserved. Query
// parameters with repeated values (s=name&s=Name) go through it before enum
// parsing.
//
// Example:
//
//	DedupeAndTrimLower([]string{"  NAME ", "region", "Name", ""})
//	// Returns: []string{"name", "region"}
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.ToLower(strings.TrimSpace(v)); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return Unique(result)
}

// SplitCSV splits comma-separated values, so s=name,codes and s=name&s=codes
// read the same.
func SplitCSV(values []string) []string {
	var out []string
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

// Unique drops repeated values, keeping the first occurrence of each.
func Unique[T comparable](values []T) []T {
	if values == nil {
		return nil
	}
	seen := make(map[T]struct{}, len(values))
	result := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
