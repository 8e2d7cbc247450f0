package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureRecords() []Record {
	return []Record{
		{Command: "ls", Category: "Beginner", Purpose: "List files", Example: "ls -la", Tips: "Use -a for hidden"},
		{Element: "div", Category: "Intermediate", Purpose: "Container", Example: "<div></div>", Tips: "Block level"},
		{Property: "color", Category: "Beginner", Purpose: "Text color", Example: "color: red", Tips: "Use hex codes"},
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		category string
		want     []string
	}{
		{name: "empty filter keeps everything", want: []string{"ls", "div", "color"}},
		{name: "search in purpose", search: "list", want: []string{"ls"}},
		{name: "category only", category: "Intermediate", want: []string{"div"}},
		{name: "search and category intersect", search: "color", category: "Beginner", want: []string{"color"}},
		{name: "case insensitive name", search: "DIV", want: []string{"div"}},
		{name: "search is trimmed", search: "  list  ", want: []string{"ls"}},
		{name: "search matches example", search: "-la", want: []string{"ls"}},
		{name: "search matches tips", search: "hex", want: []string{"color"}},
		{name: "category is case sensitive", category: "beginner", want: []string{}},
		{name: "intersection can be empty", search: "div", category: "Beginner", want: []string{}},
		{name: "category keeps order", category: "Beginner", want: []string{"ls", "color"}},
		{name: "whitespace search is no constraint", search: "   ", category: "Beginner", want: []string{"ls", "color"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(fixtureRecords(), tt.search, tt.category)
			assert.Equal(t, tt.want, Names(got))
		})
	}
}

func TestFilterSingleRecordPurposeMatch(t *testing.T) {
	got := Filter(fixtureRecords(), "CONTAINER", "")
	require.Len(t, got, 1)
	assert.Equal(t, "div", got[0].Element)
}

func TestFilterUnknownNameIsSearchable(t *testing.T) {
	records := []Record{{Category: "Beginner", Purpose: "orphan"}}
	got := Filter(records, "unknown", "")
	require.Len(t, got, 1)
	assert.Equal(t, UnknownName, got[0].Name())
}

func TestFilterNilInput(t *testing.T) {
	got := Filter(nil, "x", "")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	in := fixtureRecords()
	_ = Filter(in, "list", "Beginner")
	assert.Equal(t, fixtureRecords(), in)
}
