package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDataset = `[
  {"command":"ls","category":"Beginner","example":"ls -la","purpose":"List files","tips":"Use -a","docs":"https://man7.org/ls"}
]`

func messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.String()
	}
	return out
}

func TestValidateBytes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  []string
	}{
		{name: "valid", input: validDataset, want: []string{}},
		{name: "empty array", input: `[]`, want: []string{}},
		{
			name:  "parse failure",
			input: `[{"command":}`,
			want:  []string{"[x-commands.json] Failed to parse JSON: invalid character '}' looking for beginning of value"},
		},
		{name: "object root", input: `{}`, want: []string{"[x-commands.json] Root must be an array."}},
		{
			name:  "missing identity",
			input: `[{"category":"Beginner","example":"e","purpose":"p","tips":"t","docs":"https://d"}]`,
			want:  []string{"[x-commands.json index 0] Missing 'element', 'command', or 'property'."},
		},
		{
			name:  "missing fields reference identifier",
			input: `[{"element":"div","category":"","example":"e","purpose":null,"tips":false,"docs":0}]`,
			want: []string{
				`[x-commands.json item "div"] Missing field: category`,
				`[x-commands.json item "div"] Missing field: purpose`,
				`[x-commands.json item "div"] Missing field: docs`,
				`[x-commands.json item "div"] Missing field: tips`,
			},
		},
		{
			name:  "falsy identity falls through",
			input: `[{"element":false,"command":"ls","category":"Beginner","example":"e","purpose":"p","tips":"t"}]`,
			want:  []string{`[x-commands.json item "ls"] Missing field: docs`},
		},
		{
			name:  "nothing at all",
			input: `[{}]`,
			want: []string{
				"[x-commands.json index 0] Missing 'element', 'command', or 'property'.",
				"[x-commands.json index 0] Missing field: category",
				"[x-commands.json index 0] Missing field: example",
				"[x-commands.json index 0] Missing field: purpose",
				"[x-commands.json index 0] Missing field: docs",
				"[x-commands.json index 0] Missing field: tips",
			},
		},
		{name: "non-object record", input: `[1]`, want: []string{"[x-commands.json index 0] Record is not an object."}},
		{
			name:  "strict checks off by default",
			input: `[{"element":"a","command":"a","category":"c","example":"e","purpose":"p","tips":"t","docs":"relative"},{"element":"a","category":"c","example":"e","purpose":"p","tips":"t","docs":"https://d"}]`,
			want:  []string{},
		},
		{
			name:  "strict checks",
			input: `[{"element":"a","command":"a","category":"c","example":"e","purpose":"p","tips":"t","docs":"relative"},{"element":"a","category":"c","example":"e","purpose":"p","tips":"t","docs":"https://d"}]`,
			opts:  Options{Strict: true},
			want: []string{
				`[x-commands.json item "a"] Multiple identity fields: element, command`,
				`[x-commands.json item "a"] Field docs is not an absolute http(s) URL: "relative"`,
				`[x-commands.json item "a"] Duplicate name (first defined at index 0).`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := ValidateBytes("x-reference-helper/x-commands.json", []byte(tt.input), tt.opts)
			assert.Equal(t, tt.want, messages(fr.Issues))
		})
	}
}

func TestValidateWalk(t *testing.T) {
	fsys := fstest.MapFS{
		"shell-reference-helper/shell-commands.json": {Data: []byte(validDataset)},
		"css-reference-helper/css-commands.json":     {Data: []byte(`[{"property":"color"}]`)},
		"css-reference-helper/notes.json":            {Data: []byte(`not json`)},
		"docs/readme-commands.json":                  {Data: []byte(`not json`)},
	}
	report, err := Validate(fsys, "root", Options{})
	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	assert.Equal(t, "css-reference-helper/css-commands.json", report.Files[0].Path)
	assert.Equal(t, "shell-reference-helper/shell-commands.json", report.Files[1].Path)
	assert.True(t, report.Failed())
	assert.Len(t, report.Issues(), 5)
	assert.Equal(t, 1, report.Files[1].Records)
}

func TestReportPrint(t *testing.T) {
	t.Run("failure", func(t *testing.T) {
		report := Report{Files: []FileReport{{
			Path:   "css-reference-helper/css-commands.json",
			Issues: []Issue{{File: "css-reference-helper/css-commands.json", Index: 0, Identifier: "color", Field: "tips", Message: "Missing field: tips"}},
		}}}
		var out, errOut bytes.Buffer
		report.Print(&out, &errOut)
		assert.Equal(t, "Starting data validation...\nValidating css-reference-helper/css-commands.json...\n", out.String())
		assert.Equal(t, "❌ [css-commands.json item \"color\"] Missing field: tips\n\n❌ Validation Failed.\n", errOut.String())
	})

	t.Run("success", func(t *testing.T) {
		report := Report{Files: []FileReport{{Path: "a-reference-helper/a-commands.json", Records: 3}}}
		var out, errOut bytes.Buffer
		report.Print(&out, &errOut)
		assert.True(t, strings.HasSuffix(out.String(), "\n✅ All data files are valid.\n"))
		assert.Empty(t, errOut.String())
	})

	t.Run("no files", func(t *testing.T) {
		var out, errOut bytes.Buffer
		Report{}.Print(&out, &errOut)
		assert.Contains(t, out.String(), "No dataset files found.")
		assert.Contains(t, out.String(), "All data files are valid.")
	})
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "shell-reference-helper")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, "shell-commands.json")

	require.NoError(t, os.WriteFile(file, []byte(validDataset), 0o600))
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, Run(root, Options{}, &out, &errOut))
	assert.Empty(t, errOut.String())

	require.NoError(t, os.WriteFile(file, []byte(`[{"command":"ls"}]`), 0o600))
	out.Reset()
	errOut.Reset()
	assert.Equal(t, 1, Run(root, Options{}, &out, &errOut))
	assert.Contains(t, errOut.String(), "Missing field: category")

	assert.Equal(t, 1, Run(filepath.Join(root, "missing"), Options{}, &out, &errOut))
}

func TestBundledExampleData(t *testing.T) {
	root := filepath.Join("..", "..", "examples", "data")
	report, err := Validate(os.DirFS(root), root, Options{Strict: true})
	require.NoError(t, err)
	assert.Len(t, report.Files, 3)
	assert.Empty(t, messages(report.Issues()))
}
