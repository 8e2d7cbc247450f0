package ui

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/refx/internal/config"
	"github.com/oakwood-commons/refx/internal/formatter"
)

// Theme defines the colors used across the UI.
type Theme struct {
	Name          string
	Text          color.Color // Body text
	Muted         color.Color // Secondary text, help descriptions
	Accent        color.Color // Title, active selectors, help keys
	Border        color.Color // Rules and detail guides
	HeaderFG      color.Color // Table header text
	HeaderBG      color.Color // Table header background
	SelectedFG    color.Color // Selected row foreground
	SelectedBG    color.Color // Selected row background
	HighlightFG   color.Color // Search match foreground
	HighlightBG   color.Color // Search match background
	StatusError   color.Color // Error status text
	StatusSuccess color.Color // Success status text
}

// fallbackTheme is used when a palette entry is missing or unparsable.
func fallbackTheme() Theme {
	return Theme{
		Name:          "dark",
		Text:          lipgloss.Color("252"),
		Muted:         lipgloss.Color("245"),
		Accent:        lipgloss.Color("81"),
		Border:        lipgloss.Color("238"),
		HeaderFG:      lipgloss.Color("81"),
		HeaderBG:      lipgloss.Color("236"),
		SelectedFG:    lipgloss.Color("255"),
		SelectedBG:    lipgloss.Color("24"),
		HighlightFG:   lipgloss.Color("16"),
		HighlightBG:   lipgloss.Color("221"),
		StatusError:   lipgloss.Color("203"),
		StatusSuccess: lipgloss.Color("114"),
	}
}

// ThemeFromConfig converts a configured palette. Empty entries take the
// fallback colors.
func ThemeFromConfig(name string, tc config.ThemeConfig) Theme {
	base := fallbackTheme()
	pick := func(s string, def color.Color) color.Color {
		s = strings.TrimSpace(s)
		if s == "" {
			return def
		}
		return lipgloss.Color(s)
	}
	return Theme{
		Name:          name,
		Text:          pick(tc.Text, base.Text),
		Muted:         pick(tc.Muted, base.Muted),
		Accent:        pick(tc.Accent, base.Accent),
		Border:        pick(tc.Border, base.Border),
		HeaderFG:      pick(tc.HeaderFG, base.HeaderFG),
		HeaderBG:      pick(tc.HeaderBG, base.HeaderBG),
		SelectedFG:    pick(tc.SelectedFG, base.SelectedFG),
		SelectedBG:    pick(tc.SelectedBG, base.SelectedBG),
		HighlightFG:   pick(tc.HighlightFG, base.HighlightFG),
		HighlightBG:   pick(tc.HighlightBG, base.HighlightBG),
		StatusError:   pick(tc.StatusError, base.StatusError),
		StatusSuccess: pick(tc.StatusSuccess, base.StatusSuccess),
	}
}

// ThemeSet holds the configured themes in toggle order.
type ThemeSet struct {
	names  []string
	themes map[string]Theme
}

// NewThemeSet builds themes from configuration. Names are ordered
// alphabetically so "dark" precedes "light".
func NewThemeSet(cfg map[string]config.ThemeConfig) ThemeSet {
	ts := ThemeSet{themes: make(map[string]Theme, len(cfg))}
	for name, tc := range cfg {
		ts.themes[name] = ThemeFromConfig(name, tc)
		ts.names = append(ts.names, name)
	}
	sort.Strings(ts.names)
	if len(ts.names) == 0 {
		fb := fallbackTheme()
		ts.themes[fb.Name] = fb
		ts.names = []string{fb.Name}
	}
	return ts
}

// Names lists the theme names in toggle order.
func (ts ThemeSet) Names() []string {
	return append([]string(nil), ts.names...)
}

// Get returns a theme by name.
func (ts ThemeSet) Get(name string) (Theme, error) {
	if th, ok := ts.themes[name]; ok {
		return th, nil
	}
	return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ts.names, ", "))
}

// Next returns the theme after name, wrapping around.
func (ts ThemeSet) Next(name string) Theme {
	for i, n := range ts.names {
		if n == name {
			return ts.themes[ts.names[(i+1)%len(ts.names)]]
		}
	}
	return ts.themes[ts.names[0]]
}

// TableColors maps the theme onto the non-interactive formatter palette.
func (t Theme) TableColors() formatter.TableColors {
	return formatter.TableColors{
		HeaderFG:       t.HeaderFG,
		HeaderBG:       t.HeaderBG,
		KeyColor:       t.Accent,
		ValueColor:     t.Text,
		SeparatorColor: t.Border,
		HighlightFG:    t.HighlightFG,
		HighlightBG:    t.HighlightBG,
	}
}

// styles are the lipgloss styles derived from a theme.
type styles struct {
	title     lipgloss.Style
	label     lipgloss.Style
	active    lipgloss.Style
	inactive  lipgloss.Style
	text      lipgloss.Style
	muted     lipgloss.Style
	highlight lipgloss.Style
	code      lipgloss.Style
	bold      lipgloss.Style
	err       lipgloss.Style
	success   lipgloss.Style
	rule      lipgloss.Style
}

func newStyles(t Theme, noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			title:     plain.Bold(true),
			label:     plain,
			active:    plain.Reverse(true),
			inactive:  plain,
			text:      plain,
			muted:     plain,
			highlight: plain.Reverse(true),
			code:      plain.Bold(true),
			bold:      plain.Bold(true),
			err:       plain,
			success:   plain,
			rule:      plain,
		}
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		label:     lipgloss.NewStyle().Foreground(t.Muted),
		active:    lipgloss.NewStyle().Bold(true).Foreground(t.SelectedFG).Background(t.SelectedBG),
		inactive:  lipgloss.NewStyle().Foreground(t.Muted),
		text:      lipgloss.NewStyle().Foreground(t.Text),
		muted:     lipgloss.NewStyle().Foreground(t.Muted),
		highlight: lipgloss.NewStyle().Bold(true).Foreground(t.HighlightFG).Background(t.HighlightBG),
		code:      lipgloss.NewStyle().Bold(true).Foreground(t.StatusSuccess),
		bold:      lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		err:       lipgloss.NewStyle().Foreground(t.StatusError),
		success:   lipgloss.NewStyle().Foreground(t.StatusSuccess),
		rule:      lipgloss.NewStyle().Foreground(t.Border),
	}
}
