package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHighlight(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		search string
		want   []Segment
	}{
		{name: "empty term", text: "List files", search: "", want: []Segment{{Text: "List files"}}},
		{name: "blank term", text: "List files", search: "  ", want: []Segment{{Text: "List files"}}},
		{name: "empty text", text: "", search: "x", want: []Segment{{Text: ""}}},
		{name: "no match", text: "List files", search: "zzz", want: []Segment{{Text: "List files"}}},
		{
			name: "case insensitive keeps original casing", text: "List files", search: "list",
			want: []Segment{{Text: "List", Match: true}, {Text: " files"}},
		},
		{
			name: "multiple matches", text: "ab AB ab", search: "ab",
			want: []Segment{{Text: "ab", Match: true}, {Text: " "}, {Text: "AB", Match: true}, {Text: " "}, {Text: "ab", Match: true}},
		},
		{
			name: "regex metacharacters are literal", text: "a.b axb", search: ".",
			want: []Segment{{Text: "a"}, {Text: ".", Match: true}, {Text: "b axb"}},
		},
		{
			name: "term is trimmed", text: "ls -la", search: " -la ",
			want: []Segment{{Text: "ls "}, {Text: "-la", Match: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(tt.text, tt.search))
		})
	}
}

func TestHighlightFunc(t *testing.T) {
	mark := func(s string) string { return "[" + s + "]" }
	assert.Equal(t, "[Div] and [div]", HighlightFunc("Div and div", "DIV", nil, mark))
	assert.Equal(t, "plain", HighlightFunc("plain", "", nil, mark))

	upper := func(s string) string { return "<" + s + ">" }
	assert.Equal(t, "<x >[ab]", HighlightFunc("x ab", "ab", upper, mark))
}
