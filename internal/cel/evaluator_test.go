package cel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/refx/pkg/reference"
)

func records() []reference.Record {
	return []reference.Record{
		reference.FromMap(map[string]any{"command": "ls", "category": "Beginner", "docs": "https://man7.org/ls", "tips": "Use -a", "level": float64(1)}),
		reference.FromMap(map[string]any{"element": "div", "category": "Intermediate", "docs": "http://example.com/div"}),
		reference.FromMap(map[string]any{"property": "color", "category": "Beginner", "docs": "https://developer.mozilla.org/color", "tips": ""}),
	}
}

func TestCompileAndFilter(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{name: "category equality", expr: `r.category == "Beginner"`, want: []string{"ls", "color"}},
		{name: "name function", expr: `name.startsWith("d")`, want: []string{"div"}},
		{name: "https docs", expr: `r.docs.startsWith("https://")`, want: []string{"ls", "color"}},
		{name: "missing field defaults to empty", expr: `size(r.tips) > 0`, want: []string{"ls"}},
		{name: "strings ext", expr: `r.category.lowerAscii() == "intermediate"`, want: []string{"div"}},
		{name: "index syntax", expr: `r["command"] != ""`, want: []string{"ls"}},
		{name: "always true", expr: `true`, want: []string{"ls", "div", "color"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.expr)
			require.NoError(t, err)
			got, err := p.Filter(records())
			require.NoError(t, err)
			assert.Equal(t, tt.want, reference.Names(got))
			assert.Equal(t, tt.expr, p.String())
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr string
	}{
		{name: "empty", expr: "  ", wantErr: "empty expression"},
		{name: "syntax", expr: `r.category ==`, wantErr: "compilation error"},
		{name: "unknown variable", expr: `x == 1`, wantErr: "compilation error"},
		{name: "static non-bool", expr: `name + "!"`, wantErr: "must return bool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMatchDynamicNonBool(t *testing.T) {
	p, err := Compile(`r.level`)
	require.NoError(t, err)
	_, err = p.Match(records()[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want bool")

	_, err = p.Filter(records())
	require.Error(t, err)
}
