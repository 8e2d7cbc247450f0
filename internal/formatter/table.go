package formatter

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/refx/pkg/reference"
)

// NoResults is printed in place of an empty table.
const NoResults = "No results found."

const (
	defaultMaxColumnWidth = 48
	minColWidth           = 3
	// cellPadding is the single space on each side of a cell.
	cellPadding = 2
)

// TableHeaders are the column titles of the record table.
var TableHeaders = []string{"Name", "Category", "Example", "Purpose", "Docs"}

// highlighted columns: name, example, purpose.
var highlightColumn = []bool{true, false, true, true, false}

// wholeColumn marks the columns sized to their content before the free-text
// columns are shrunk: name, category.
var wholeColumn = []bool{true, true, false, false, false}

// TableRow returns the flattened cell values of r in TableHeaders order.
func TableRow(r reference.Record) []string {
	return []string{
		flatten(r.Name()),
		flatten(r.Category),
		flatten(r.Example),
		flatten(r.Purpose),
		flatten(r.Docs),
	}
}

// RenderTable draws a bordered table of records. With opts.Expand each row
// is followed by its tips spanning the full table width.
func RenderTable(records []reference.Record, opts Options) string {
	if len(records) == 0 {
		return NoResults + "\n"
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = TableRow(r)
	}
	maxCol := opts.MaxColumnWidth
	if maxCol <= 0 {
		maxCol = defaultMaxColumnWidth
	}
	n := len(TableHeaders)
	// borders: n+1 verticals, plus padding around every cell
	available := resolveWidth(opts.Width) - (n + 1) - n*cellPadding
	widths := calculateColumnWidths(TableHeaders, rows, available, maxCol, wholeColumn)
	inner := tableInnerWidth(widths)

	var b strings.Builder
	b.WriteString(borderLine("┌", "┬", "┐", widths, opts.NoColor) + "\n")
	b.WriteString(renderHeader(widths, opts.NoColor) + "\n")
	b.WriteString(borderLine("├", "┼", "┤", widths, opts.NoColor) + "\n")
	for i, row := range rows {
		b.WriteString(renderDataRow(row, widths, opts) + "\n")
		if opts.Expand {
			for _, line := range tipLines(records[i].Tips, inner-cellPadding) {
				b.WriteString(spanRow(line, inner, opts) + "\n")
			}
		}
	}
	b.WriteString(borderLine("└", "┴", "┘", widths, opts.NoColor) + "\n")
	return b.String()
}

// calculateColumnWidths sizes columns to their content, capped at maxCol.
// When the total exceeds availableWidth, columns not marked in keep share
// what the kept columns leave, proportionally; kept columns only shrink once
// every other column is down to minColWidth.
func calculateColumnWidths(headers []string, rows [][]string, availableWidth, maxCol int, keep []bool) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, val := range row {
			if i < len(widths) {
				if w := runewidth.StringWidth(val); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	for i := range widths {
		if widths[i] > maxCol {
			widths[i] = maxCol
		}
	}

	total := sum(widths)
	if total <= availableWidth || availableWidth <= 0 {
		return widths
	}
	kept := func(i int) bool { return i < len(keep) && keep[i] }
	fixed, flex := 0, 0
	for i, w := range widths {
		if kept(i) {
			fixed += w
		} else {
			flex += w
		}
	}
	if room := availableWidth - fixed; flex > 0 && room > 0 {
		for i := range widths {
			if kept(i) {
				continue
			}
			widths[i] = max(widths[i]*room/flex, minColWidth)
		}
	}
	// Trim the widest free column, then the widest kept one, until
	// everything fits or nothing can shrink.
	for sum(widths) > availableWidth {
		idx := widest(widths, func(i int) bool { return !kept(i) })
		if idx < 0 {
			idx = widest(widths, kept)
		}
		if idx < 0 {
			break
		}
		widths[idx]--
	}
	return widths
}

// widest returns the index of the widest column accepted by pick that can
// still shrink, or -1.
func widest(widths []int, pick func(int) bool) int {
	idx := -1
	for i, w := range widths {
		if !pick(i) || w <= minColWidth {
			continue
		}
		if idx < 0 || w > widths[idx] {
			idx = i
		}
	}
	return idx
}

func sum(ns []int) int {
	t := 0
	for _, n := range ns {
		t += n
	}
	return t
}

// tableInnerWidth is the width between the outer borders.
func tableInnerWidth(widths []int) int {
	return sum(widths) + len(widths)*cellPadding + len(widths) - 1
}

func borderLine(left, mid, right string, widths []int, noColor bool) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+cellPadding)
	}
	line := left + strings.Join(parts, mid) + right
	if noColor {
		return line
	}
	return separatorStyle.Render(line)
}

func bar(noColor bool) string {
	if noColor {
		return "│"
	}
	return separatorStyle.Render("│")
}

func renderHeader(widths []int, noColor bool) string {
	cells := make([]string, len(widths))
	for i, w := range widths {
		cell := " " + padRight(truncate(TableHeaders[i], w), w) + " "
		if !noColor {
			cell = headerStyle.Render(cell)
		}
		cells[i] = cell
	}
	sep := bar(noColor)
	return sep + strings.Join(cells, sep) + sep
}

// renderDataRow truncates on plain text first so highlighting never splits
// an escape sequence, then pads by the plain width.
func renderDataRow(values []string, widths []int, opts Options) string {
	cells := make([]string, len(widths))
	for i, w := range widths {
		val := ""
		if i < len(values) {
			val = values[i]
		}
		plain := truncate(val, w)
		base := valueStyle
		if i == 0 {
			base = keyStyle
		}
		var styled string
		switch {
		case opts.NoColor:
			styled = plain
		case highlightColumn[i]:
			styled = highlight(plain, opts.Search, base, false)
		default:
			styled = base.Render(plain)
		}
		cells[i] = " " + styled + padding(plain, w) + " "
	}
	sep := bar(opts.NoColor)
	return sep + strings.Join(cells, sep) + sep
}

// tipLines word-wraps tips to width. Empty tips yield a single "-" line.
func tipLines(tips string, width int) []string {
	tips = strings.TrimSpace(strings.ReplaceAll(tips, "\r\n", "\n"))
	if tips == "" {
		return []string{"-"}
	}
	if width < minColWidth {
		width = minColWidth
	}
	var out []string
	for _, para := range strings.Split(tips, "\n") {
		wrapped := ansi.Wrap(flatten(para), width, "")
		out = append(out, strings.Split(wrapped, "\n")...)
	}
	return out
}

func spanRow(line string, inner int, opts Options) string {
	w := inner - cellPadding
	plain := truncate(line, w)
	styled := highlight(plain, opts.Search, valueStyle, opts.NoColor)
	sep := bar(opts.NoColor)
	return sep + " " + styled + padding(plain, w) + " " + sep
}

// padding returns the spaces that fill plain out to width cells.
func padding(plain string, width int) string {
	if n := width - runewidth.StringWidth(plain); n > 0 {
		return strings.Repeat(" ", n)
	}
	return ""
}
