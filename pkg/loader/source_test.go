package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, language, content string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, language+DatasetDirSuffix)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, language+DatasetFileSuffix), []byte(content), 0o600))
	return root
}

func TestLanguages(t *testing.T) {
	fsys := fstest.MapFS{
		"shell-reference-helper/shell-commands.json": {Data: []byte(`[]`)},
		"css-reference-helper/css-commands.json":     {Data: []byte(`[]`)},
		"css-reference-helper/extra-commands.json":   {Data: []byte(`[]`)},
		"html-reference-helper/README.md":            {Data: []byte(`#`)},
		"notes/shell-commands.json":                  {Data: []byte(`[]`)},
	}
	got, err := Languages(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"css", "shell"}, got)
}

func TestFSSourceLister(t *testing.T) {
	root := writeDataset(t, "python", `[]`)
	var src Source = NewDirSource(root)
	lister, ok := src.(Lister)
	require.True(t, ok)
	langs, err := lister.Languages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, langs)
	assert.Equal(t, root, src.String())
}

func TestHTTPSourceIsNotLister(t *testing.T) {
	src, err := NewHTTPSource("http://localhost:1", nil)
	require.NoError(t, err)
	_, ok := Source(src).(Lister)
	assert.False(t, ok)
}
