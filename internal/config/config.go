// Package config loads refx configuration: embedded defaults, an optional
// user YAML file, then REFX_* environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/refx/pkg/settings"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// Config is the merged configuration.
type Config struct {
	App    AppConfig              `yaml:"app" json:"app"`
	Data   DataConfig             `yaml:"data" json:"data"`
	UI     UIConfig               `yaml:"ui" json:"ui"`
	Themes map[string]ThemeConfig `yaml:"themes" json:"themes"`
}

// AppConfig carries display metadata.
type AppConfig struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// DataConfig controls where datasets come from.
type DataConfig struct {
	Root       string   `yaml:"root" json:"root" env:"REFX_DATA"`
	URL        string   `yaml:"url" json:"url" env:"REFX_URL"`
	Language   string   `yaml:"language" json:"language" env:"REFX_LANGUAGE"`
	Languages  []string `yaml:"languages" json:"languages" env:"REFX_LANGUAGES" envSeparator:","`
	Categories []string `yaml:"categories" json:"categories"`
}

// UIConfig controls presentation.
type UIConfig struct {
	Theme            string `yaml:"theme" json:"theme" env:"REFX_THEME"`
	NoColor          bool   `yaml:"noColor" json:"noColor" env:"REFX_NO_COLOR"`
	SearchDebounceMS int    `yaml:"searchDebounceMs" json:"searchDebounceMs" env:"REFX_DEBOUNCE_MS"`
	MaxColumnWidth   int    `yaml:"maxColumnWidth" json:"maxColumnWidth"`
}

// SearchDebounce returns the configured debounce as a duration.
func (u UIConfig) SearchDebounce() time.Duration {
	return time.Duration(u.SearchDebounceMS) * time.Millisecond
}

// ThemeConfig is a palette of terminal colors (ANSI 256 numbers or #hex).
type ThemeConfig struct {
	Text          string `yaml:"text,omitempty" json:"text,omitempty"`
	Muted         string `yaml:"muted,omitempty" json:"muted,omitempty"`
	Accent        string `yaml:"accent,omitempty" json:"accent,omitempty"`
	Border        string `yaml:"border,omitempty" json:"border,omitempty"`
	HeaderFG      string `yaml:"headerFG,omitempty" json:"headerFG,omitempty"`
	HeaderBG      string `yaml:"headerBG,omitempty" json:"headerBG,omitempty"`
	SelectedFG    string `yaml:"selectedFG,omitempty" json:"selectedFG,omitempty"`
	SelectedBG    string `yaml:"selectedBG,omitempty" json:"selectedBG,omitempty"`
	HighlightFG   string `yaml:"highlightFG,omitempty" json:"highlightFG,omitempty"`
	HighlightBG   string `yaml:"highlightBG,omitempty" json:"highlightBG,omitempty"`
	StatusError   string `yaml:"statusError,omitempty" json:"statusError,omitempty"`
	StatusSuccess string `yaml:"statusSuccess,omitempty" json:"statusSuccess,omitempty"`
}

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, errors.New("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	if cfg.Themes == nil {
		cfg.Themes = map[string]ThemeConfig{}
	}
	return cfg, nil
}

// Load merges the embedded defaults, the YAML file at path (if non-empty),
// and environment overrides, then validates the result.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := mergeYAML(&cfg, data); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeYAML overlays a user document on cfg. Scalars and lists replace the
// defaults; themes merge color by color.
func mergeYAML(cfg *Config, data []byte) error {
	var user Config
	if err := yaml.Unmarshal(data, &user); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	themes := user.Themes
	user.Themes = nil

	// Re-decode onto cfg so only keys present in the document win.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	if cfg.Themes == nil {
		cfg.Themes = map[string]ThemeConfig{}
	}
	defaults, _ := Default()
	for name, th := range themes {
		base, ok := defaults.Themes[name]
		if !ok {
			base = defaults.Themes[defaultThemeName(defaults)]
		}
		cfg.Themes[name] = MergeTheme(base, th)
	}
	return nil
}

func defaultThemeName(cfg Config) string {
	if cfg.UI.Theme != "" {
		return cfg.UI.Theme
	}
	return "dark"
}

// MergeTheme returns base with every non-empty color of over applied.
func MergeTheme(base, over ThemeConfig) ThemeConfig {
	pick := func(b, o string) string {
		if strings.TrimSpace(o) != "" {
			return o
		}
		return b
	}
	return ThemeConfig{
		Text:          pick(base.Text, over.Text),
		Muted:         pick(base.Muted, over.Muted),
		Accent:        pick(base.Accent, over.Accent),
		Border:        pick(base.Border, over.Border),
		HeaderFG:      pick(base.HeaderFG, over.HeaderFG),
		HeaderBG:      pick(base.HeaderBG, over.HeaderBG),
		SelectedFG:    pick(base.SelectedFG, over.SelectedFG),
		SelectedBG:    pick(base.SelectedBG, over.SelectedBG),
		HighlightFG:   pick(base.HighlightFG, over.HighlightFG),
		HighlightBG:   pick(base.HighlightBG, over.HighlightBG),
		StatusError:   pick(base.StatusError, over.StatusError),
		StatusSuccess: pick(base.StatusSuccess, over.StatusSuccess),
	}
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.UI.SearchDebounceMS < 0 {
		return fmt.Errorf("ui.searchDebounceMs must be >= 0, got %d", c.UI.SearchDebounceMS)
	}
	if c.UI.MaxColumnWidth < 0 {
		return fmt.Errorf("ui.maxColumnWidth must be >= 0, got %d", c.UI.MaxColumnWidth)
	}
	if _, ok := c.Themes[c.UI.Theme]; !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", c.UI.Theme, strings.Join(c.ThemeNames(), ", "))
	}
	return nil
}

// ThemeNames lists configured themes alphabetically.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.Themes))
	for n := range c.Themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ResolvePath returns explicit when set, otherwise the first existing of
// $XDG_CONFIG_HOME/refx/config.yaml and ~/.config/refx/config.yaml, else "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	var candidate string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate == "" {
		return ""
	}
	if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
		return candidate
	}
	return ""
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
