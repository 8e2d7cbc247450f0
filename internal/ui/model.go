// Package ui implements the interactive reference browser.
package ui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/refx/internal/cel"
	"github.com/oakwood-commons/refx/internal/config"
	"github.com/oakwood-commons/refx/internal/ui/table"
	"github.com/oakwood-commons/refx/pkg/loader"
	"github.com/oakwood-commons/refx/pkg/logger"
	"github.com/oakwood-commons/refx/pkg/reference"
)

// AllCategories is the category selector entry that applies no filter.
const AllCategories = "All"

// LoadingMessage is the status shown while a dataset is fetched.
const LoadingMessage = "Loading data..."

// DefaultSearchDebounce is used when Options.Debounce is negative.
const DefaultSearchDebounce = 300 * time.Millisecond

const flashDuration = 2 * time.Second

// Options configures the browser.
type Options struct {
	AppName string
	Source  loader.Source
	// Languages are the selectable datasets, in cycle order.
	Languages []string
	// Language is loaded first. Empty selects Languages[0].
	Language string
	Search   string
	// Category preselects a category; empty means all.
	Category string
	// CategoryOrder orders the category selector.
	CategoryOrder []string
	// Where further restricts records; nil accepts everything.
	Where    *cel.Predicate
	Themes   map[string]config.ThemeConfig
	Theme    string
	NoColor  bool
	Debounce time.Duration
	// WatchFile maps a language to the dataset file to watch. Nil disables
	// reload on change.
	WatchFile func(language string) string
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusError
	statusSuccess
)

// dataLoadedMsg carries the result of one dataset load.
type dataLoadedMsg struct {
	Seq      int
	Language string
	Records  []reference.Record
	Err      error
}

// SearchDebounceMsg is sent after the debounce delay. The ID is compared
// against the latest scheduled ID so only the last keystroke applies.
type SearchDebounceMsg struct {
	ID    int
	Query string
}

// fileChangedMsg reports that the watched dataset changed on disk.
type fileChangedMsg struct {
	Language string
}

// watchStoppedMsg is returned when a watcher exits.
type watchStoppedMsg struct {
	Language string
	Err      error
}

// statusClearMsg clears a flash status after a delay.
type statusClearMsg struct {
	ID int
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx  context.Context
	opts Options

	keys    keyMap
	help    help.Model
	search  textinput.Model
	spinner spinner.Model
	table   *table.Model[reference.Record]

	themes ThemeSet
	theme  Theme
	st     styles

	languages []string
	language  string
	category  string
	// appliedSearch is the debounced term the table is filtered by.
	appliedSearch string
	debounceID    int
	// whereErr is the first --where evaluation error of the last filter pass.
	whereErr error

	loadSeq int
	loading bool
	loaded  bool

	status     string
	statusKind statusKind
	statusID   int

	changes     chan string
	watchCancel context.CancelFunc
	watching    string

	width  int
	height int
}

// New builds a browser model. The first dataset is requested by Init.
func New(ctx context.Context, opts Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Debounce < 0 {
		opts.Debounce = DefaultSearchDebounce
	}
	if opts.AppName == "" {
		opts.AppName = "refx"
	}

	languages := slices.Clone(opts.Languages)
	language := strings.TrimSpace(opts.Language)
	if language != "" && !slices.Contains(languages, language) {
		languages = append([]string{language}, languages...)
	}
	if language == "" && len(languages) > 0 {
		language = languages[0]
	}

	ti := textinput.New()
	ti.Placeholder = "Search name, purpose, example or tips"
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.SetWidth(60)
	ti.SetValue(opts.Search)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:           ctx,
		opts:          opts,
		keys:          newKeyMap(),
		help:          help.New(),
		search:        ti,
		spinner:       sp,
		themes:        NewThemeSet(opts.Themes),
		languages:     languages,
		language:      language,
		category:      opts.Category,
		appliedSearch: opts.Search,
		changes:       make(chan string, 1),
		width:         100,
		height:        30,
	}
	m.table = table.NewModel[reference.Record](
		[]table.Column{
			{Title: "Name", MinWidth: 12, Weight: 2},
			{Title: "Category", MinWidth: 12},
			{Title: "Example", MinWidth: 14, Weight: 3},
			{Title: "Purpose", MinWidth: 14, Weight: 4},
		},
		func(r reference.Record) table.Row {
			return table.Row{r.Name(), r.Category, r.Example, r.Purpose}
		},
		reference.Record.Name,
	)
	m.table.KeyMap = m.keys.table
	m.table.SetCellFunc(m.renderCell)
	m.table.SetDetailFunc(func(r reference.Record, width int) []string {
		return detailLines(r, m.appliedSearch, width, m.st)
	})

	th, err := m.themes.Get(opts.Theme)
	if err != nil {
		th = m.themes.Next("")
	}
	m.applyTheme(th)
	_ = m.applyFilter()
	m.layout()
	return m
}

// Init starts the first load and the change listener.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChange()}
	if m.language == "" {
		m.setStatus(statusError, "No datasets found.")
		return tea.Batch(cmds...)
	}
	cmds = append(cmds, m.startLoad(m.language))
	return tea.Batch(cmds...)
}

// Language returns the active language.
func (m *Model) Language() string { return m.language }

// Category returns the active category, "" for all.
func (m *Model) Category() string { return m.category }

// Search returns the search term the table is currently filtered by.
func (m *Model) Search() string { return m.appliedSearch }

// Loading reports whether a load is in flight.
func (m *Model) Loading() bool { return m.loading }

// Status returns the status line text.
func (m *Model) Status() string { return m.status }

// ThemeName returns the active theme.
func (m *Model) ThemeName() string { return m.theme.Name }

// Visible returns the records that pass the current filters.
func (m *Model) Visible() []reference.Record { return m.table.Rows() }

// Categories lists the category selector entries, "All" first.
func (m *Model) Categories() []string {
	cats := reference.Categories(m.table.AllRows(), m.opts.CategoryOrder)
	if m.category != "" && !slices.Contains(cats, m.category) {
		cats = append(cats, m.category)
	}
	return append([]string{AllCategories}, cats...)
}

func (m *Model) applyTheme(th Theme) {
	m.theme = th
	m.st = newStyles(th, m.opts.NoColor)
	m.table.SetNoColor(m.opts.NoColor)
	m.table.SetColors(th.HeaderFG, th.HeaderBG, th.SelectedFG, th.SelectedBG, th.Border)

	m.help.Styles.ShortKey = m.st.bold
	m.help.Styles.ShortDesc = m.st.muted
	m.help.Styles.ShortSeparator = m.st.rule
	m.help.Styles.Ellipsis = m.st.rule
	m.help.Styles.FullKey = m.st.bold
	m.help.Styles.FullDesc = m.st.muted
	m.help.Styles.FullSeparator = m.st.rule
	m.spinner.Style = m.st.title
}

func (m *Model) applyFilter() tea.Cmd {
	term := reference.NormalizeTerm(m.appliedSearch)
	category := m.category
	where := m.opts.Where
	m.whereErr = nil
	m.table.SetFilter(func(r reference.Record) bool {
		if !reference.Matches(r, term, category) {
			return false
		}
		if where == nil {
			return true
		}
		ok, err := where.Match(r)
		if err != nil {
			if m.whereErr == nil {
				m.whereErr = err
			}
			return false
		}
		return ok
	})
	return m.whereStatus()
}

// whereStatus flashes the --where evaluation error of the last filter pass.
func (m *Model) whereStatus() tea.Cmd {
	if m.whereErr == nil {
		return nil
	}
	err := m.whereErr
	m.whereErr = nil
	return m.flash(statusError, "evaluate --where: "+err.Error())
}

// renderCell highlights search matches in name, example and purpose.
func (m *Model) renderCell(col int, text string, selected bool) string {
	base := m.table.CellStyle()
	if selected {
		base = m.table.SelectedStyle()
	}
	if col == 1 {
		return base.Render(text)
	}
	return highlightText(text, m.appliedSearch, base, m.st)
}

func (m *Model) setStatus(kind statusKind, msg string) {
	m.statusID++
	m.status = msg
	m.statusKind = kind
}

// flash sets a status that clears itself after flashDuration.
func (m *Model) flash(kind statusKind, msg string) tea.Cmd {
	m.setStatus(kind, msg)
	id := m.statusID
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return statusClearMsg{ID: id} })
}

// startLoad clears the table and requests language. Results of earlier
// loads still in flight are dropped when they arrive.
func (m *Model) startLoad(language string) tea.Cmd {
	m.loadSeq++
	seq := m.loadSeq
	m.language = language
	m.loading = true
	m.table.SetRows(nil)
	m.setStatus(statusInfo, LoadingMessage)

	ctx, src := m.ctx, m.opts.Source
	load := func() tea.Msg {
		if src == nil {
			return dataLoadedMsg{Seq: seq, Language: language, Err: &loader.LoadError{Language: language, Path: loader.DatasetPath(language), Err: errors.New("no data source")}}
		}
		recs, err := loader.Load(ctx, src, language)
		return dataLoadedMsg{Seq: seq, Language: language, Records: recs, Err: err}
	}
	return tea.Batch(load, m.spinner.Tick)
}

func (m *Model) handleLoaded(msg dataLoadedMsg) tea.Cmd {
	lgr := logger.FromContext(m.ctx)
	if msg.Seq != m.loadSeq {
		lgr.V(1).Info("dropping stale load", logger.LanguageKey, msg.Language, "seq", msg.Seq, "current", m.loadSeq)
		return nil
	}
	m.loading = false
	m.loaded = true
	watch := m.startWatch(msg.Language)
	if msg.Err != nil {
		lgr.V(1).Info("load failed", logger.LanguageKey, msg.Language, "error", msg.Err.Error())
		m.table.SetRows(nil)
		var le *loader.LoadError
		if errors.As(msg.Err, &le) {
			m.setStatus(statusError, le.StatusMessage())
		} else {
			m.setStatus(statusError, loader.StatusMessage(msg.Language))
		}
		return watch
	}
	lgr.V(1).Info("dataset loaded", logger.LanguageKey, msg.Language, "records", len(msg.Records))
	m.whereErr = nil
	m.table.SetRows(msg.Records)
	m.setStatus(statusInfo, "")
	return tea.Batch(watch, m.whereStatus())
}

// startWatch replaces the active watcher with one for language.
func (m *Model) startWatch(language string) tea.Cmd {
	if m.opts.WatchFile == nil || m.watching == language {
		return nil
	}
	if m.watchCancel != nil {
		m.watchCancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.watchCancel = cancel
	m.watching = language
	file := m.opts.WatchFile(language)
	ch := m.changes
	return func() tea.Msg {
		err := loader.Watch(ctx, file, loader.DefaultWatchDebounce, func() {
			select {
			case ch <- language:
			default:
			}
		})
		return watchStoppedMsg{Language: language, Err: err}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		select {
		case lang := <-ch:
			return fileChangedMsg{Language: lang}
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watching = ""
}

// scheduleSearch debounces a search input change.
func (m *Model) scheduleSearch(query string) tea.Cmd {
	m.debounceID++
	id := m.debounceID
	if m.opts.Debounce == 0 {
		return func() tea.Msg { return SearchDebounceMsg{ID: id, Query: query} }
	}
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return SearchDebounceMsg{ID: id, Query: query}
	})
}

func (m *Model) applySearch(query string) tea.Cmd {
	m.appliedSearch = query
	return m.applyFilter()
}

func (m *Model) cycleCategory(delta int) tea.Cmd {
	cats := m.Categories()
	cur := m.category
	if cur == "" {
		cur = AllCategories
	}
	idx := slices.Index(cats, cur)
	if idx < 0 {
		idx = 0
	}
	next := cats[(idx+delta+len(cats))%len(cats)]
	if next == AllCategories {
		next = ""
	}
	m.category = next
	return m.applyFilter()
}

func (m *Model) cycleLanguage(delta int) tea.Cmd {
	if len(m.languages) == 0 {
		return nil
	}
	idx := slices.Index(m.languages, m.language)
	if idx < 0 {
		idx = 0
		delta = 0
	}
	next := m.languages[(idx+delta+len(m.languages))%len(m.languages)]
	return m.startLoad(next)
}

func (m *Model) copySelected() tea.Cmd {
	sel := m.table.SelectedRow()
	if sel == nil || sel.Example == "" {
		return m.flash(statusError, "Nothing to copy.")
	}
	if err := CopyToClipboard(sel.Example); err != nil {
		return m.flash(statusError, fmt.Sprintf("Clipboard unavailable: %v", err))
	}
	return m.flash(statusSuccess, "Copied: "+sel.Example)
}

func (m *Model) openSelectedDocs() tea.Cmd {
	sel := m.table.SelectedRow()
	if sel == nil || strings.TrimSpace(sel.Docs) == "" {
		return m.flash(statusError, "No docs link.")
	}
	if err := OpenURL(sel.Docs); err != nil {
		return m.flash(statusError, fmt.Sprintf("Cannot open browser: %v", err))
	}
	return m.flash(statusSuccess, "Opened "+sel.Docs)
}

func (m *Model) quit() tea.Cmd {
	m.stopWatch()
	return tea.Quit
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case dataLoadedMsg:
		return m, m.handleLoaded(msg)

	case SearchDebounceMsg:
		if msg.ID == m.debounceID {
			return m, m.applySearch(msg.Query)
		}
		return m, nil

	case fileChangedMsg:
		cmds := []tea.Cmd{m.waitForChange()}
		if msg.Language == m.language && !m.loading {
			logger.FromContext(m.ctx).Info("dataset changed, reloading", logger.LanguageKey, msg.Language)
			cmds = append(cmds, m.startLoad(msg.Language))
		}
		return m, tea.Batch(cmds...)

	case watchStoppedMsg:
		if msg.Err != nil {
			logger.FromContext(m.ctx).Error(msg.Err, "watch stopped", logger.LanguageKey, msg.Language)
		}
		if msg.Language == m.watching && msg.Err != nil {
			m.watching = ""
		}
		return m, nil

	case statusClearMsg:
		if msg.ID == m.statusID {
			m.setStatus(statusInfo, "")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.forceQuit):
		return m.quit()
	case key.Matches(msg, k.nextCategory):
		return m.cycleCategory(1)
	case key.Matches(msg, k.prevCategory):
		return m.cycleCategory(-1)
	}

	if m.search.Focused() {
		switch {
		case key.Matches(msg, k.blurSearch):
			m.search.Blur()
			m.table.Focus()
			if m.search.Value() != m.appliedSearch {
				m.debounceID++
				return m.applySearch(m.search.Value())
			}
			return nil
		case key.Matches(msg, k.table.LineUp, k.table.LineDown, k.table.PageUp, k.table.PageDown) && msg.Text == "":
			m.table.Focus()
			m.table, _ = m.table.Update(msg)
			m.table.Blur()
			return nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if after := m.search.Value(); after != before {
			return tea.Batch(cmd, m.scheduleSearch(after))
		}
		return cmd
	}

	switch {
	case key.Matches(msg, k.quit):
		return m.quit()
	case key.Matches(msg, k.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return nil
	case key.Matches(msg, k.focusSearch):
		m.table.Blur()
		return m.search.Focus()
	case key.Matches(msg, k.nextLanguage):
		return m.cycleLanguage(1)
	case key.Matches(msg, k.prevLanguage):
		return m.cycleLanguage(-1)
	case key.Matches(msg, k.reload):
		if m.language == "" {
			return nil
		}
		return m.startLoad(m.language)
	case key.Matches(msg, k.toggleTheme):
		m.applyTheme(m.themes.Next(m.theme.Name))
		return nil
	case key.Matches(msg, k.copyExample):
		return m.copySelected()
	case key.Matches(msg, k.openDocs):
		return m.openSelectedDocs()
	case key.Matches(msg, k.collapseAll):
		m.table.CollapseAll()
		return nil
	case key.Matches(msg, k.blurSearch) && msg.String() == "esc":
		if m.appliedSearch != "" {
			m.search.SetValue("")
			m.debounceID++
			return m.applySearch("")
		}
		return nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return cmd
}
