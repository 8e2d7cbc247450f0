package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// layout sizes the search input, table and help to the window.
func (m *Model) layout() {
	m.help.SetWidth(m.width)
	m.search.SetWidth(max(m.width-len("Search: ")-1, 10))
	// title, categories, search, blank, status
	chrome := 5 + lipgloss.Height(m.help.View(m.keys))
	m.table.SetSize(m.width, max(m.height-chrome, 3))
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) render() string {
	lines := []string{
		m.renderTitle(),
		m.renderCategories(),
		m.st.label.Render("Search: ") + m.search.View(),
		m.table.View(),
		"",
		m.renderStatus(),
		m.help.View(m.keys),
	}
	out := strings.Join(lines, "\n")
	rows := strings.Split(out, "\n")
	for i, r := range rows {
		rows[i] = ansi.Truncate(r, m.width, "")
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderTitle() string {
	parts := []string{m.st.title.Render(m.opts.AppName)}
	for _, lang := range m.languages {
		if lang == m.language {
			parts = append(parts, m.st.active.Render(" "+lang+" "))
		} else {
			parts = append(parts, m.st.inactive.Render(" "+lang+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderCategories() string {
	cur := m.category
	if cur == "" {
		cur = AllCategories
	}
	parts := []string{m.st.label.Render("Category:")}
	for _, c := range m.Categories() {
		if c == cur {
			parts = append(parts, m.st.active.Render(" "+c+" "))
		} else {
			parts = append(parts, m.st.inactive.Render(" "+c+" "))
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) renderStatus() string {
	if m.loading {
		return m.spinner.View() + " " + m.st.text.Render(LoadingMessage)
	}
	switch {
	case m.status != "" && m.statusKind == statusError:
		return m.st.err.Render(m.status)
	case m.status != "" && m.statusKind == statusSuccess:
		return m.st.success.Render(m.status)
	case m.status != "":
		return m.st.text.Render(m.status)
	}
	if !m.loaded {
		return ""
	}
	summary := fmt.Sprintf("%d of %d entries", len(m.table.Rows()), len(m.table.AllRows()))
	if m.opts.Where != nil {
		summary += " · where " + m.opts.Where.String()
	}
	return m.st.muted.Render(summary + " · theme " + m.theme.Name)
}
