package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "refx", cfg.App.Name)
	assert.Equal(t, ".", cfg.Data.Root)
	assert.Equal(t, []string{"Beginner", "Intermediate", "Advanced"}, cfg.Data.Categories)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 300*time.Millisecond, cfg.UI.SearchDebounce())
	assert.Equal(t, []string{"dark", "light"}, cfg.ThemeNames())
	require.NoError(t, cfg.Validate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def, _ := Default()
	assert.Equal(t, def, cfg)
}

func TestLoadMergesUserFile(t *testing.T) {
	p := writeConfig(t, `
data:
  root: /srv/datasets
  languages: [go, rust]
ui:
  theme: light
themes:
  light:
    accent: "#ff00ff"
  solarized:
    text: "#839496"
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "/srv/datasets", cfg.Data.Root)
	assert.Equal(t, []string{"go", "rust"}, cfg.Data.Languages)
	assert.Equal(t, []string{"Beginner", "Intermediate", "Advanced"}, cfg.Data.Categories, "unset keys keep defaults")
	assert.Equal(t, 300, cfg.UI.SearchDebounceMS)
	assert.Equal(t, "light", cfg.UI.Theme)

	def, _ := Default()
	assert.Equal(t, "#ff00ff", cfg.Themes["light"].Accent)
	assert.Equal(t, def.Themes["light"].Text, cfg.Themes["light"].Text, "unset colors keep defaults")
	assert.Equal(t, "#839496", cfg.Themes["solarized"].Text)
	assert.Equal(t, def.Themes["dark"].Accent, cfg.Themes["solarized"].Accent, "new themes start from the default theme")
	assert.Equal(t, def.Themes["dark"], cfg.Themes["dark"])
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("REFX_DATA", "/env/data")
	t.Setenv("REFX_LANGUAGE", "css")
	t.Setenv("REFX_LANGUAGES", "css,html")
	t.Setenv("REFX_THEME", "light")
	t.Setenv("REFX_NO_COLOR", "true")
	t.Setenv("REFX_DEBOUNCE_MS", "50")

	p := writeConfig(t, "data:\n  root: /file/data\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/env/data", cfg.Data.Root, "env wins over file")
	assert.Equal(t, "css", cfg.Data.Language)
	assert.Equal(t, []string{"css", "html"}, cfg.Data.Languages)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.True(t, cfg.UI.NoColor)
	assert.Equal(t, 50*time.Millisecond, cfg.UI.SearchDebounce())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		path    string
		wantErr string
	}{
		{name: "missing file", path: "/definitely/not/here.yaml", wantErr: "read config"},
		{name: "bad yaml", body: "ui: [", wantErr: "decode"},
		{name: "unknown theme", body: "ui:\n  theme: neon\n", wantErr: `unknown theme "neon"`},
		{name: "negative debounce", body: "ui:\n  searchDebounceMs: -1\n", wantErr: "searchDebounceMs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.path
			if p == "" {
				p = writeConfig(t, tt.body)
			}
			_, err := Load(p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Equal(t, "", ResolvePath(""), "no file yet")

	dir := filepath.Join(xdg, "refx")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte("ui: {}\n"), 0o600))
	assert.Equal(t, p, ResolvePath(""))
}

func TestMarshalRoundTripsThemes(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	out, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "highlightBG:")
	assert.Contains(t, string(out), "searchDebounceMs: 300")
}

func TestDefaultYAMLIsACopy(t *testing.T) {
	a := DefaultYAML()
	require.NotEmpty(t, a)
	a[0] = '#'
	assert.NotEqual(t, a[0], DefaultYAML()[0])
}
