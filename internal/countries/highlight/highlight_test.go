package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name string
		text string
		term string
		want Text
	}{
		{
			name: "match in the middle keeps text casing",
			text: "Switzerland",
			term: "ZER",
			want: Text{Prefix: "Swit", Match: "zer", Suffix: "land", Found: true},
		},
		{
			name: "match at the start",
			text: "French Republic",
			term: "fr",
			want: Text{Prefix: "", Match: "Fr", Suffix: "ench Republic", Found: true},
		},
		{
			name: "first occurrence wins",
			text: "Republic of the Congo",
			term: "o",
			want: Text{Prefix: "Republic ", Match: "o", Suffix: "f the Congo", Found: true},
		},
		{
			name: "no match leaves everything in the suffix",
			text: "Fiji",
			term: "zz",
			want: Text{Suffix: "Fiji"},
		},
		{
			name: "empty term matches at offset zero",
			text: "Fiji",
			term: "",
			want: Text{Suffix: "Fiji", Found: true},
		},
		{
			name: "empty text",
			text: "",
			term: "a",
			want: Text{},
		},
		{
			name: "multibyte text",
			text: "Côte d'Ivoire",
			term: "ÔTE",
			want: Text{Prefix: "C", Match: "ôte", Suffix: " d'Ivoire", Found: true},
		},
		{
			name: "term longer than text",
			text: "Chad",
			term: "Chadian",
			want: Text{Suffix: "Chad"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Highlight(tt.text, tt.term)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.Prefix+got.Match+got.Suffix)
		})
	}
}
