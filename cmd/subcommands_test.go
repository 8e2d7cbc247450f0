package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/refx/internal/config"
	"github.com/oakwood-commons/refx/pkg/validate"
)

func TestLanguagesCommand(t *testing.T) {
	out, _, err := execute(t, "languages", "-d", sampleRoot(t))
	require.NoError(t, err)
	assert.Equal(t, "css\nshell\n", out)

	_, _, err = execute(t, "languages", "-d", t.TempDir())
	assert.ErrorContains(t, err, "no datasets found")
}

func TestCategoriesCommand(t *testing.T) {
	root := writeDatasets(t, map[string]string{"shell": `[
  {"command":"a","category":"Zeta","example":"x","purpose":"x","tips":"x","docs":"x"},
  {"command":"b","category":"Advanced","example":"x","purpose":"x","tips":"x","docs":"x"},
  {"command":"c","category":"Beginner","example":"x","purpose":"x","tips":"x","docs":"x"},
  {"command":"d","category":"Beginner","example":"x","purpose":"x","tips":"x","docs":"x"}
]`})
	out, _, err := execute(t, "categories", "shell", "-d", root)
	require.NoError(t, err)
	assert.Equal(t, "Beginner  2\nAdvanced  1\nZeta      1\n", out)
}

func TestConfigCommand(t *testing.T) {
	out, _, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "themes:")
	assert.Contains(t, out, "searchDebounceMs: 300")

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  theme: light\n"), 0o600))
	out, _, err = execute(t, "config", "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "theme: light")

	out, _, err = execute(t, "config", "--defaults", "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultYAML()), out, "user config is not merged")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "refx "), out)
	assert.Contains(t, out, "commit ")
}

func TestValidateCommand(t *testing.T) {
	good := sampleRoot(t)
	out, stderr, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Starting data validation...")
	assert.Contains(t, out, "✅ All data files are valid.")
	assert.Empty(t, stderr)

	bad := writeDatasets(t, map[string]string{"html": `[{"element":"div","category":"Beginner"}]`})
	out, stderr, err = execute(t, "validate", bad)
	require.ErrorIs(t, err, ErrReported)
	assert.Contains(t, out, "Validating html-reference-helper/html-commands.json...")
	assert.Contains(t, stderr, "❌ Validation Failed.")

	// data root comes from --data when no argument is given
	out, _, err = execute(t, "validate", "-d", good)
	require.NoError(t, err)
	assert.Contains(t, out, "shell-reference-helper/shell-commands.json")
}

func TestValidateCommandStructuredOutput(t *testing.T) {
	bad := writeDatasets(t, map[string]string{"html": `[{"element":"div","category":"Beginner","example":"<div>","purpose":"p","tips":"t"}]`})

	out, _, err := execute(t, "validate", bad, "-o", "json")
	require.ErrorIs(t, err, ErrReported)
	var report validate.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 1)
	require.Len(t, report.Files[0].Issues, 1)
	assert.Equal(t, "docs", report.Files[0].Issues[0].Field)

	out, _, err = execute(t, "validate", bad, "-o", "yaml")
	require.ErrorIs(t, err, ErrReported)
	var fromYAML validate.Report
	require.NoError(t, yaml.Unmarshal([]byte(out), &fromYAML))
	assert.Equal(t, report, fromYAML)

	_, _, err = execute(t, "validate", bad, "-o", "xml")
	assert.ErrorContains(t, err, `invalid output "xml"`)
}

func TestValidateCommandStrict(t *testing.T) {
	root := writeDatasets(t, map[string]string{"css": `[
  {"property":"color","category":"Beginner","example":"x","purpose":"x","tips":"x","docs":"https://developer.mozilla.org/color"},
  {"property":"color","category":"Beginner","example":"x","purpose":"x","tips":"x","docs":"mdn/color"}
]`})
	_, _, err := execute(t, "validate", root)
	require.NoError(t, err)

	_, stderr, err := execute(t, "validate", root, "--strict")
	require.ErrorIs(t, err, ErrReported)
	assert.Contains(t, stderr, "❌")
}

func TestValidateCommandNotADirectory(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.json")
	require.NoError(t, os.WriteFile(f, []byte("[]"), 0o600))
	_, _, err := execute(t, "validate", f)
	assert.ErrorContains(t, err, "is not a directory")
}

func TestReportFormatFlagValue(t *testing.T) {
	var f reportFormat
	assert.Equal(t, "text", f.String())
	require.NoError(t, f.Set(" JSON "))
	assert.Equal(t, reportJSON, f)
	assert.ErrorContains(t, f.Set("xml"), `invalid output "xml"`)
	assert.Equal(t, reportJSON, f, "a rejected value keeps the previous one")
	assert.Equal(t, "format", f.Type())

	flag := validateCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "format", flag.Value.Type())
	assert.Equal(t, "text", flag.DefValue)
}
