package table

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	runewidth "github.com/mattn/go-runewidth"
)

// EmptyMessage is shown when no rows pass the filter.
const EmptyMessage = "No results found."

// Column describes one table column. Free width is shared between columns
// in proportion to Weight once every column has its MinWidth.
type Column struct {
	Title    string
	MinWidth int
	Weight   int
}

// Row holds the plain cell values of one table row.
type Row []string

// CellFunc styles a cell whose plain text already fits its column.
type CellFunc func(col int, text string, selected bool) string

// DetailFunc returns the lines shown beneath an expanded row, wrapped to
// width.
type DetailFunc[V any] func(v V, width int) []string

// KeyMap holds the navigation bindings the table handles itself.
type KeyMap struct {
	LineUp       key.Binding
	LineDown     key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	GotoTop      key.Binding
	GotoBottom   key.Binding
	ToggleExpand key.Binding
}

// DefaultKeyMap returns the default navigation bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		LineUp:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		LineDown:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:       key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:     key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		GotoTop:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g/home", "top")),
		GotoBottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G/end", "bottom")),
		ToggleExpand: key.NewBinding(key.WithKeys("enter", "space", " "), key.WithHelp("enter/space", "show tips")),
	}
}

// Model is a generic table whose rows can be expanded to show detail lines
// beneath them. Expansion is remembered per row key, so it survives
// re-filtering and reloads that bring back a row with the same key.
// The body (rows plus their detail lines) scrolls inside a viewport.
//
// Type parameter V is the row value type.
type Model[V any] struct {
	KeyMap KeyMap

	rows     []V
	filter   func(V) bool
	filtered []V
	columns  []Column

	toRow   func(V) Row
	keyFunc func(V) string
	detail  DetailFunc[V]
	cell    CellFunc

	expanded map[string]bool
	cursor   int
	// offset is the first visible body line.
	offset int
	vp     viewport.Model

	width   int
	height  int
	focused bool
	noColor bool

	headerStyle   lipgloss.Style
	cellStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	detailStyle   lipgloss.Style
	ruleStyle     lipgloss.Style

	headerFG   color.Color
	headerBG   color.Color
	selectedFG color.Color
	selectedBG color.Color
	borderFG   color.Color
}

// NewModel creates a table.
//
//	columns: column definitions
//	toRow:   converts a value to its plain cells
//	keyFunc: identifies a value for expansion and cursor tracking
func NewModel[V any](columns []Column, toRow func(V) Row, keyFunc func(V) string) *Model[V] {
	m := &Model[V]{
		KeyMap:   DefaultKeyMap(),
		rows:     []V{},
		filtered: []V{},
		columns:  columns,
		toRow:    toRow,
		keyFunc:  keyFunc,
		expanded: map[string]bool{},
		vp:       viewport.New(),
		width:    80,
		height:   10,
		focused:  true,
	}
	m.applyColorScheme()
	return m
}

// SetDetailFunc sets the renderer for expanded rows.
func (m *Model[V]) SetDetailFunc(fn DetailFunc[V]) {
	m.detail = fn
}

// SetCellFunc sets a custom cell renderer. Nil restores the default.
func (m *Model[V]) SetCellFunc(fn CellFunc) {
	m.cell = fn
}

// SetRows replaces the row data and reapplies the filter.
func (m *Model[V]) SetRows(rows []V) {
	if rows == nil {
		rows = []V{}
	}
	m.rows = rows
	m.applyFilter()
}

// Rows returns the rows that pass the filter.
func (m *Model[V]) Rows() []V {
	return m.filtered
}

// AllRows returns all rows.
func (m *Model[V]) AllRows() []V {
	return m.rows
}

// SetFilter sets the row predicate and reapplies it. Nil shows every row.
func (m *Model[V]) SetFilter(pred func(V) bool) {
	m.filter = pred
	m.applyFilter()
}

// ClearFilter shows all rows.
func (m *Model[V]) ClearFilter() {
	m.SetFilter(nil)
}

// applyFilter recomputes the visible rows, keeping the cursor on the same
// row when it is still visible.
func (m *Model[V]) applyFilter() {
	var selectedKey string
	hadSelection := false
	if sel := m.SelectedRow(); sel != nil {
		selectedKey = m.keyFunc(*sel)
		hadSelection = true
	}

	if m.filter == nil {
		m.filtered = m.rows
	} else {
		m.filtered = make([]V, 0, len(m.rows))
		for _, row := range m.rows {
			if m.filter(row) {
				m.filtered = append(m.filtered, row)
			}
		}
	}

	m.cursor = 0
	if hadSelection {
		for i, row := range m.filtered {
			if m.keyFunc(row) == selectedKey {
				m.cursor = i
				break
			}
		}
	}
	m.offset = 0
	m.ensureVisible()
}

// Cursor returns the index of the selected visible row.
func (m *Model[V]) Cursor() int {
	return m.cursor
}

// SetCursor moves the selection, clamped to the visible rows.
func (m *Model[V]) SetCursor(pos int) {
	if pos >= len(m.filtered) {
		pos = len(m.filtered) - 1
	}
	if pos < 0 {
		pos = 0
	}
	m.cursor = pos
	m.ensureVisible()
}

// MoveCursor moves the selection by delta rows.
func (m *Model[V]) MoveCursor(delta int) {
	m.SetCursor(m.cursor + delta)
}

// SelectedRow returns the selected row, or nil when nothing is visible.
func (m *Model[V]) SelectedRow() *V {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[m.cursor]
}

// IsExpanded reports whether v is expanded.
func (m *Model[V]) IsExpanded(v V) bool {
	return m.expanded[m.keyFunc(v)]
}

// SetExpanded expands or collapses v.
func (m *Model[V]) SetExpanded(v V, expanded bool) {
	k := m.keyFunc(v)
	if expanded {
		m.expanded[k] = true
	} else {
		delete(m.expanded, k)
	}
	m.ensureVisible()
}

// ToggleSelected flips the expansion of the selected row and reports the
// new state.
func (m *Model[V]) ToggleSelected() bool {
	sel := m.SelectedRow()
	if sel == nil {
		return false
	}
	next := !m.IsExpanded(*sel)
	m.SetExpanded(*sel, next)
	return next
}

// CollapseAll collapses every row.
func (m *Model[V]) CollapseAll() {
	m.expanded = map[string]bool{}
	m.ensureVisible()
}

// SetSize sets the table dimensions. Height includes the header.
func (m *Model[V]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureVisible()
}

// Focus sets the table focus state.
func (m *Model[V]) Focus() {
	m.focused = true
}

// Blur removes focus from the table.
func (m *Model[V]) Blur() {
	m.focused = false
}

// Focused returns true if the table has focus.
func (m *Model[V]) Focused() bool {
	return m.focused
}

// SetNoColor enables/disables color output.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets custom theme colors. Nil values keep the defaults.
func (m *Model[V]) SetColors(headerFG, headerBG, selectedFG, selectedBG, borderFG color.Color) {
	m.headerFG = headerFG
	m.headerBG = headerBG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.borderFG = borderFG
	m.applyColorScheme()
}

// CellStyle returns the style used for unselected cells.
func (m *Model[V]) CellStyle() lipgloss.Style {
	return m.cellStyle
}

// SelectedStyle returns the style used for the selected row.
func (m *Model[V]) SelectedStyle() lipgloss.Style {
	return m.selectedStyle
}

func (m *Model[V]) applyColorScheme() {
	m.headerStyle = lipgloss.NewStyle().Bold(true)
	m.cellStyle = lipgloss.NewStyle()
	m.selectedStyle = lipgloss.NewStyle().Bold(true)
	m.detailStyle = lipgloss.NewStyle()
	m.ruleStyle = lipgloss.NewStyle()

	if m.noColor {
		m.selectedStyle = m.selectedStyle.Reverse(true)
		return
	}
	if m.headerFG != nil {
		m.headerStyle = m.headerStyle.Foreground(m.headerFG)
	}
	if m.headerBG != nil {
		m.headerStyle = m.headerStyle.Background(m.headerBG)
	}
	if m.selectedFG != nil {
		m.selectedStyle = m.selectedStyle.Foreground(m.selectedFG)
	}
	if m.selectedBG != nil {
		m.selectedStyle = m.selectedStyle.Background(m.selectedBG)
	}
	if m.borderFG != nil {
		m.ruleStyle = m.ruleStyle.Foreground(m.borderFG)
		m.detailStyle = m.detailStyle.Foreground(m.borderFG)
	}
}

// Update handles navigation keys and expansion toggles.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	km, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(km, m.KeyMap.LineUp):
		m.MoveCursor(-1)
	case key.Matches(km, m.KeyMap.LineDown):
		m.MoveCursor(1)
	case key.Matches(km, m.KeyMap.PageUp):
		m.MoveCursor(-m.bodyHeight())
	case key.Matches(km, m.KeyMap.PageDown):
		m.MoveCursor(m.bodyHeight())
	case key.Matches(km, m.KeyMap.GotoTop):
		m.SetCursor(0)
	case key.Matches(km, m.KeyMap.GotoBottom):
		m.SetCursor(len(m.filtered) - 1)
	case key.Matches(km, m.KeyMap.ToggleExpand):
		m.ToggleSelected()
	}
	return m, nil
}

// markerWidth is the width of the selection marker column.
const markerWidth = 2

// colSep separates cells.
const colSep = "  "

// bodyHeight is the number of lines available for rows.
func (m *Model[V]) bodyHeight() int {
	h := m.height - 2
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model[V]) detailWidth() int {
	w := m.width - markerWidth - 2
	if w < 10 {
		return 10
	}
	return w
}

// rowLines returns the number of lines row i occupies.
func (m *Model[V]) rowLines(i int) int {
	n := 1
	if m.detail != nil && m.IsExpanded(m.filtered[i]) {
		n += len(m.detail(m.filtered[i], m.detailWidth()))
	}
	return n
}

// ensureVisible scrolls so the selected row and as much of its detail as
// fits are on screen.
func (m *Model[V]) ensureVisible() {
	if len(m.filtered) == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	start := 0
	for i := 0; i < m.cursor; i++ {
		start += m.rowLines(i)
	}
	end := start + m.rowLines(m.cursor)
	body := m.bodyHeight()
	switch {
	case start < m.offset:
		m.offset = start
	case end > m.offset+body:
		m.offset = min(start, end-body)
	}
}

// ColumnWidths distributes the table width between columns.
func (m *Model[V]) ColumnWidths() []int {
	widths := make([]int, len(m.columns))
	if len(widths) == 0 {
		return widths
	}
	avail := m.width - markerWidth - len(colSep)*(len(m.columns)-1)
	totalWeight := 0
	for i, c := range m.columns {
		widths[i] = c.MinWidth
		if widths[i] < 1 {
			widths[i] = 1
		}
		avail -= widths[i]
		totalWeight += c.Weight
	}
	if avail <= 0 || totalWeight == 0 {
		return widths
	}
	given := 0
	last := -1
	for i, c := range m.columns {
		if c.Weight == 0 {
			continue
		}
		extra := avail * c.Weight / totalWeight
		widths[i] += extra
		given += extra
		last = i
	}
	if last >= 0 {
		widths[last] += avail - given
	}
	return widths
}

// View renders the header, a rule and the visible part of the body.
func (m *Model[V]) View() string {
	widths := m.ColumnWidths()

	header := make([]string, len(m.columns))
	for i, c := range m.columns {
		header[i] = fit(c.Title, widths[i])
	}
	lines := []string{
		m.headerStyle.Render(strings.Repeat(" ", markerWidth) + strings.Join(header, colSep)),
		m.ruleStyle.Render(strings.Repeat("─", max(m.width, 1))),
	}
	if len(m.filtered) == 0 {
		lines = append(lines, strings.Repeat(" ", markerWidth)+EmptyMessage)
		return strings.Join(m.clip(lines), "\n")
	}

	m.vp.SetWidth(max(m.width, 1))
	m.vp.SetHeight(m.bodyHeight())
	m.vp.SetContentLines(m.clip(m.bodyLines(widths)))
	m.vp.SetYOffset(m.offset)
	m.offset = m.vp.YOffset()
	return strings.Join(append(m.clip(lines), m.vp.View()), "\n")
}

// bodyLines renders every visible row followed by its detail lines.
func (m *Model[V]) bodyLines(widths []int) []string {
	lines := make([]string, 0, len(m.filtered))
	for i, v := range m.filtered {
		lines = append(lines, m.renderRow(v, widths, i == m.cursor))
		if m.detail == nil || !m.IsExpanded(v) {
			continue
		}
		for _, d := range m.detail(v, m.detailWidth()) {
			lines = append(lines, strings.Repeat(" ", markerWidth)+m.detailStyle.Render("│ ")+d)
		}
	}
	return lines
}

// clip truncates lines to the table width in place.
func (m *Model[V]) clip(lines []string) []string {
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, m.width, "")
	}
	return lines
}

func (m *Model[V]) renderRow(v V, widths []int, selected bool) string {
	row := m.toRow(v)
	marker := "  "
	if selected {
		marker = "▸ "
	}
	if m.detail != nil && m.IsExpanded(v) {
		if selected {
			marker = "▾ "
		} else {
			marker = "▿ "
		}
	}
	cells := make([]string, len(widths))
	for i, w := range widths {
		text := ""
		if i < len(row) {
			text = strings.Join(strings.Fields(row[i]), " ")
		}
		plain := runewidth.Truncate(text, w, "…")
		styled := m.renderCell(i, plain, selected)
		if pad := w - runewidth.StringWidth(plain); pad > 0 {
			styled += m.padStyle(selected).Render(strings.Repeat(" ", pad))
		}
		cells[i] = styled
	}
	sep := m.padStyle(selected).Render(colSep)
	return m.padStyle(selected).Render(marker) + strings.Join(cells, sep)
}

func (m *Model[V]) renderCell(col int, plain string, selected bool) string {
	if m.cell != nil {
		return m.cell(col, plain, selected)
	}
	return m.padStyle(selected).Render(plain)
}

func (m *Model[V]) padStyle(selected bool) lipgloss.Style {
	if selected {
		return m.selectedStyle
	}
	return m.cellStyle
}

// fit truncates or pads plain text to exactly width cells.
func fit(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	if pad := width - runewidth.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// Height returns the rendered height of the table (including header).
func (m *Model[V]) Height() int {
	return lipgloss.Height(m.View())
}

// Width returns the configured width.
func (m *Model[V]) Width() int {
	return m.width
}

// String returns a string representation for debugging.
func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, filtered=%d, cursor=%d, expanded=%d]",
		len(m.rows), len(m.filtered), m.cursor, len(m.expanded))
}
