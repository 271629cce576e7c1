// Package highlight splits display text around the first occurrence of a
// search term.
package highlight

import (
	"strings"
	"unicode/utf8"
)

// Text is a string split around a match. Prefix+Match+Suffix always equals
// the original text.
type Text struct {
	Prefix string
	Match  string
	Suffix string
	Found  bool
}

// Highlight finds the first case-insensitive occurrence of term in text.
// Match keeps the casing of text. An empty term is found at offset 0 with an
// empty match. When term does not occur, the whole text is the suffix.
func Highlight(text, term string) Text {
	if term == "" {
		return Text{Suffix: text, Found: true}
	}

	i := index(text, term)
	if i < 0 {
		return Text{Suffix: text}
	}
	end := i + len(term)
	return Text{
		Prefix: text[:i],
		Match:  text[i:end],
		Suffix: text[end:],
		Found:  true,
	}
}

// index returns the byte offset of the first window of text, starting on a
// rune boundary and len(term) bytes long, that equals term under simple case
// folding. Windows keep the byte length of term so the split never shifts.
func index(text, term string) int {
	n := len(term)
	for i := 0; i+n <= len(text); i++ {
		if !utf8.RuneStart(text[i]) {
			continue
		}
		if strings.EqualFold(text[i:i+n], term) {
			return i
		}
	}
	return -1
}
