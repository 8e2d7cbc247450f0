package ui

import (
	"charm.land/bubbles/v2/key"

	"github.com/oakwood-commons/refx/internal/ui/table"
)

// keyMap holds the application bindings. Table navigation lives in
// table.KeyMap and is merged into the full help.
type keyMap struct {
	quit         key.Binding
	forceQuit    key.Binding
	focusSearch  key.Binding
	blurSearch   key.Binding
	nextCategory key.Binding
	prevCategory key.Binding
	nextLanguage key.Binding
	prevLanguage key.Binding
	toggleTheme  key.Binding
	copyExample  key.Binding
	openDocs     key.Binding
	reload       key.Binding
	collapseAll  key.Binding
	toggleHelp   key.Binding

	table table.KeyMap
}

func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		focusSearch:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		blurSearch:   key.NewBinding(key.WithKeys("esc", "enter"), key.WithHelp("esc", "leave search")),
		nextCategory: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next category")),
		prevCategory: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev category")),
		nextLanguage: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next language")),
		prevLanguage: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev language")),
		toggleTheme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		copyExample:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy example")),
		openDocs:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open docs")),
		reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		collapseAll:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "collapse all")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		table:        table.DefaultKeyMap(),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.focusSearch,
		k.table.ToggleExpand,
		k.nextCategory,
		k.nextLanguage,
		k.copyExample,
		k.toggleHelp,
		k.quit,
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.table.LineUp, k.table.LineDown, k.table.PageUp, k.table.PageDown, k.table.GotoTop, k.table.GotoBottom},
		{k.table.ToggleExpand, k.collapseAll, k.focusSearch, k.blurSearch},
		{k.nextCategory, k.prevCategory, k.nextLanguage, k.prevLanguage},
		{k.copyExample, k.openDocs, k.reload, k.toggleTheme, k.toggleHelp, k.quit},
	}
}
