// Package formatter renders filtered reference records for non-interactive
// output.
package formatter

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/oakwood-commons/refx/pkg/reference"
)

// Format is an output format name. It implements pflag.Value so it can be
// bound directly to a flag.
type Format string

const (
	FormatTable Format = "table"
	FormatList  Format = "list"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatCSV   Format = "csv"
	FormatTree  Format = "tree"
	FormatHTML  Format = "html"
)

// Formats lists every supported format in help order.
var Formats = []Format{FormatTable, FormatList, FormatJSON, FormatYAML, FormatTOML, FormatCSV, FormatTree, FormatHTML}

// ParseFormat resolves a case-insensitive format name. Empty means table.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatTable, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid output format %q: valid values are %s", s, formatNames())
}

func formatNames() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

func (f *Format) String() string {
	if *f == "" {
		return string(FormatTable)
	}
	return string(*f)
}

func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f *Format) Type() string {
	return "format"
}

// Options controls rendering.
type Options struct {
	Format Format
	// Search is highlighted in name, example, purpose and tips.
	Search string
	// Width is the total width; 0 detects the terminal, falling back to 100.
	Width   int
	NoColor bool
	// Expand prints tips beneath each table row.
	Expand bool
	// MaxColumnWidth caps a single table column; 0 uses defaultMaxColumnWidth.
	MaxColumnWidth int
	// Title labels the tree root and the HTML page.
	Title string
	// CategoryOrder orders tree branches; unknown categories follow sorted.
	CategoryOrder []string
}

var (
	defaultHeaderFG    = lipgloss.Color("12")
	defaultHeaderBG    = lipgloss.Color("236")
	defaultKeyColor    = lipgloss.Color("14")
	defaultValueColor  = lipgloss.Color("248")
	defaultSeparator   = lipgloss.Color("240")
	defaultHighlightFG = lipgloss.Color("0")
	defaultHighlightBG = lipgloss.Color("220")

	headerStyle    lipgloss.Style
	keyStyle       lipgloss.Style
	valueStyle     lipgloss.Style
	separatorStyle lipgloss.Style
	highlightStyle lipgloss.Style
)

// TableColors controls the rendered colors. Nil fields fall back to the
// built-in ANSI 256 defaults.
type TableColors struct {
	HeaderFG       color.Color
	HeaderBG       color.Color
	KeyColor       color.Color
	ValueColor     color.Color
	SeparatorColor color.Color
	HighlightFG    color.Color
	HighlightBG    color.Color
}

func applyTableTheme(tc TableColors) {
	pick := func(c, def color.Color) color.Color {
		if c == nil {
			return def
		}
		return c
	}
	headerStyle = lipgloss.NewStyle().Bold(true).
		Foreground(pick(tc.HeaderFG, defaultHeaderFG)).
		Background(pick(tc.HeaderBG, defaultHeaderBG))
	keyStyle = lipgloss.NewStyle().Foreground(pick(tc.KeyColor, defaultKeyColor))
	valueStyle = lipgloss.NewStyle().Foreground(pick(tc.ValueColor, defaultValueColor))
	separatorStyle = lipgloss.NewStyle().Foreground(pick(tc.SeparatorColor, defaultSeparator))
	highlightStyle = lipgloss.NewStyle().Bold(true).
		Foreground(pick(tc.HighlightFG, defaultHighlightFG)).
		Background(pick(tc.HighlightBG, defaultHighlightBG))
}

// SetTableTheme overrides the package styles. Zero-valued fields fall back
// to the defaults.
func SetTableTheme(tc TableColors) {
	applyTableTheme(tc)
}

//nolint:gochecknoinits // initialize default theme for package consumers
func init() {
	applyTableTheme(TableColors{})
}

// Write renders records to w in opts.Format.
func Write(w io.Writer, records []reference.Record, opts Options) error {
	switch opts.Format {
	case FormatTable, "":
		_, err := io.WriteString(w, RenderTable(records, opts))
		return err
	case FormatList:
		_, err := io.WriteString(w, RenderList(records, opts))
		return err
	case FormatTree:
		_, err := io.WriteString(w, RenderTree(records, opts))
		return err
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatYAML:
		return WriteYAML(w, records)
	case FormatTOML:
		return WriteTOML(w, records)
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatHTML:
		return WriteHTML(w, records, opts)
	default:
		return fmt.Errorf("invalid output format %q: valid values are %s", opts.Format, formatNames())
	}
}

// highlight renders text with search matches in the highlight style and the
// rest in base. With noColor both are left plain.
func highlight(text, search string, base lipgloss.Style, noColor bool) string {
	if noColor {
		return text
	}
	return reference.HighlightFunc(text, search, styleFunc(base), styleFunc(highlightStyle))
}

// styleFunc adapts a style to a single-string decorator.
func styleFunc(st lipgloss.Style) func(string) string {
	return func(s string) string { return st.Render(s) }
}

// flatten collapses line breaks and tabs so a value fits on one table line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens plain text to maxLen display cells, ending with "…".
func truncate(s string, maxLen int) string {
	if maxLen <= 0 || runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen < 2 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "…")
}

// padRight pads plain text to width display cells.
func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// resolveWidth returns explicit when positive, else the terminal width,
// else 100.
func resolveWidth(explicit int) int {
	if explicit > 0 {
		return explicit
	}
	return getTerminalWidth()
}

// getTerminalWidth returns the terminal width, or a default if detection fails
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

const defaultWidth = 100
