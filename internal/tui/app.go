package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/browser"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/classify"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/content"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/trending"
	"github.com/KaungHtetCho-22/trendlens-ai-horizon/internal/view"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeHome
	modeSearch
	modeHelp
)

type App struct {
	ctx      context.Context
	engine   *view.Engine
	sentinel *view.Sentinel
	now      func() time.Time

	snap   view.Snapshot
	items  []content.Item // snap.Items narrowed by query
	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	searchInput   textinput.Model
	suggestions   []string
	suggestCursor int
	query         string

	spinner   spinner.Model
	filterBar filterBar
	tags      []trending.Tag

	previewScroll int
	currentDate   string
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Context context.Context
	Engine  *view.Engine
	// Home starts on the topic screen instead of the article list.
	Home bool
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search articles or topics..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	a := &App{
		ctx:         ctx,
		engine:      opts.Engine,
		sentinel:    view.NewSentinel(opts.Engine),
		now:         time.Now,
		searchInput: ti,
		spinner:     sp,
		filterBar:   newFilterBar(),
		currentDate: time.Now().Format("Jan 2"),
	}
	if opts.Home {
		a.mode = modeHome
	}
	a.sync()
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadCmd(false), a.spinner.Tick)
}

func (a *App) loadCmd(retry bool) tea.Cmd {
	e, ctx := a.engine, a.ctx
	return func() tea.Msg {
		var err error
		if retry {
			err = e.Retry(ctx)
		} else {
			err = e.Load(ctx)
		}
		return loadedMsg{err: err}
	}
}

// maybeLoadMore asks the sentinel whether the loader row is in view and, if so, fetches
// the next page in the background.
func (a *App) maybeLoadMore() tea.Cmd {
	if a.query != "" {
		return nil
	}
	ratio := sentinelRatio(a.cursor, len(a.items), a.listHeight())
	if !a.sentinel.ShouldLoad(ratio) {
		return nil
	}
	s, ctx := a.sentinel, a.ctx
	return tea.Batch(func() tea.Msg {
		ran, err := s.Observe(ctx, ratio)
		if !ran {
			return nil
		}
		return moreLoadedMsg{err: err}
	}, a.spinner.Tick)
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

// sync copies the engine state into the model.
func (a *App) sync() {
	a.snap = a.engine.Snapshot()
	a.items = filterItems(a.snap.Items, a.query)
	if a.cursor >= len(a.items) {
		a.cursor = max(0, len(a.items)-1)
	}
}

// filterItems keeps items whose title or excerpt contains query, case-insensitively.
func filterItems(items []content.Item, query string) []content.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	var out []content.Item
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), q) || strings.Contains(strings.ToLower(it.Excerpt), q) {
			out = append(out, it)
		}
	}
	return out
}

func (a *App) setFilter(f view.Filter) tea.Cmd {
	if err := a.engine.SetFilter(f); err != nil {
		a.err = err
	}
	a.cursor = 0
	a.previewScroll = 0
	a.sync()
	return a.maybeLoadMore()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.maybeLoadMore()

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case loadedMsg:
		a.sync()
		a.cursor = 0
		a.tags = trending.Compute(a.engine.All(), a.now(), trending.DefaultLimit)
		return a, a.maybeLoadMore()

	case moreLoadedMsg:
		a.sync()
		if msg.err != nil && len(a.items) > 0 {
			a.err = msg.err
		}
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		a.snap = a.engine.Snapshot()
		if a.snap.Loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeHome:
		return a.handleHomeKey(msg)
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	filter := a.snap.Filter
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.items)-1 {
			a.cursor++
			a.previewScroll = 0
			return a, a.maybeLoadMore()
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "G", "end":
		a.cursor = max(0, len(a.items)-1)
		return a, a.maybeLoadMore()
	case "g", "home":
		a.cursor = 0
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if a.cursor < len(a.items) {
			return a, openBrowserCmd(a.items[a.cursor].URL)
		}
		return a, nil
	case "c":
		filter.Category = a.filterBar.nextCategory(filter.Category, 1)
		return a, a.setFilter(filter)
	case "C":
		filter.Category = a.filterBar.nextCategory(filter.Category, -1)
		return a, a.setFilter(filter)
	case "1", "2", "3", "4", "5":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.filterBar.categories) {
			filter.Category = a.filterBar.categories[idx]
			return a, a.setFilter(filter)
		}
		return a, nil
	case "d":
		filter.DateRange = nextDateRange(filter.DateRange)
		return a, a.setFilter(filter)
	case "s":
		filter.SortBy = nextSort(filter.SortBy)
		return a, a.setFilter(filter)
	case "/":
		a.mode = modeSearch
		a.searchInput.SetValue(a.query)
		a.suggestions = classify.Suggest(a.query)
		a.suggestCursor = -1
		a.searchInput.Focus()
		return a, textinput.Blink
	case "esc":
		if a.query != "" {
			a.query = ""
			a.sync()
		}
		return a, nil
	case "r":
		if !a.snap.Loading {
			a.snap.State = view.Loading
			a.snap.Loading = true
			return a, tea.Batch(a.loadCmd(true), a.spinner.Tick)
		}
		return a, nil
	case "h":
		a.mode = modeHome
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "1", "2", "3", "4":
		topics := classify.Topics()
		idx := int(msg.String()[0] - '1')
		a.mode = modeNormal
		filter := a.snap.Filter
		filter.Category = topics[idx].Category
		return a, a.setFilter(filter)
	case "e", "esc", "enter":
		a.mode = modeNormal
		return a, nil
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	case "up", "ctrl+p":
		if a.suggestCursor >= 0 {
			a.suggestCursor--
		}
		return a, nil
	case "down", "ctrl+n":
		if a.suggestCursor < len(a.suggestions)-1 {
			a.suggestCursor++
		}
		return a, nil
	case "enter":
		term := strings.TrimSpace(a.searchInput.Value())
		if a.suggestCursor >= 0 && a.suggestCursor < len(a.suggestions) {
			term = a.suggestions[a.suggestCursor]
		}
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, a.applySearch(term)
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	a.suggestions = classify.Suggest(a.searchInput.Value())
	if a.suggestCursor >= len(a.suggestions) {
		a.suggestCursor = len(a.suggestions) - 1
	}
	return a, cmd
}

// applySearch switches category when term names a topic and filters by text otherwise.
func (a *App) applySearch(term string) tea.Cmd {
	if t, err := classify.ResolveTopic(term); err == nil {
		a.query = ""
		filter := a.snap.Filter
		filter.Category = t.Category
		return a.setFilter(filter)
	}
	a.query = term
	a.cursor = 0
	a.sync()
	return nil
}

// listHeight is the number of rows available to the article list.
func (a *App) listHeight() int {
	// header, topic line, filter bar, status bar and pane borders
	h := a.height - 1 - 1 - 1 - 1 - 2
	if a.mode == modeSearch {
		h -= len(a.suggestions)
	}
	return max(h, 3)
}

func (a *App) withBottomBar(body string, hints string) string {
	bar := renderBottomBar(hints, a.width)
	lines := strings.Split(body, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  trendlens")
	}

	switch a.mode {
	case modeHome:
		return a.withBottomBar(renderHomeScreen(a.width, a.height, a.tags), "1-4 topic  e browse  q quit")
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	}

	// Header
	headerLeft := headerStyle.Render("trendlens")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := max(a.width-lipgloss.Width(headerLeft)-lipgloss.Width(headerRight), 0)
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	topic := a.renderTopicLine()

	filter := a.filterBar.render(a.snap.Filter, a.width)
	if a.mode == modeSearch {
		filter = a.renderSearch()
	}

	status := renderStatusBar(a.snap, len(a.items), a.query, a.width, a.mode == modeSearch)
	if a.snap.Loading {
		status = a.spinner.View() + " " + status
	}
	if a.err != nil {
		status = errorStyle.Render(" " + view.Message(a.err))
	}

	contentHeight := a.listHeight()

	// Nothing to show: the error replaces both panes.
	if a.snap.State == view.Error && len(a.snap.Items) == 0 {
		msg := errorStyle.Render(view.Message(a.snap.Err)) + "\n\n" + helpDimStyle.Render("Press r to try again")
		body := lipgloss.Place(a.width, contentHeight+2, lipgloss.Center, lipgloss.Center, msg)
		return lipgloss.JoinVertical(lipgloss.Left, header, topic, filter, body, status)
	}
	if a.snap.State == view.Loading && len(a.snap.Items) == 0 {
		msg := a.spinner.View() + " Loading articles..."
		body := lipgloss.Place(a.width, contentHeight+2, lipgloss.Center, lipgloss.Center, msg)
		return lipgloss.JoinVertical(lipgloss.Left, header, topic, filter, body, status)
	}

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1

	innerListW := listWidth - 4
	listContent := renderList(a.items, a.cursor, contentHeight, innerListW, a.snap, a.now())

	listPane := listPaneStyle
	if a.focus == focusList {
		listPane = listPaneActiveStyle
	}
	listView := listPane.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	var selected *content.Item
	if a.cursor < len(a.items) {
		selected = &a.items[a.cursor]
	}
	previewContent := renderPreview(selected, previewWidth-4, contentHeight, a.previewScroll)

	previewPane := previewPaneStyle
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle
	}
	previewView := previewPane.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, listView, previewView)
	return lipgloss.JoinVertical(lipgloss.Left, header, topic, filter, panes, status)
}

func (a *App) renderTopicLine() string {
	t, ok := classify.TopicFor(a.snap.Filter.Category)
	if !ok {
		return topicTitleStyle.Render("All topics") + " " + topicDescStyle.Render(truncateStr("Latest AI news from every source", a.width-14))
	}
	line := topicTitleStyle.Render(t.Title) + " "
	return line + topicDescStyle.Render(truncateStr(t.Description, max(a.width-lipgloss.Width(line)-1, 0)))
}

func (a *App) renderSearch() string {
	lines := []string{a.searchInput.View()}
	for i, s := range a.suggestions {
		style := suggestionStyle
		if i == a.suggestCursor {
			style = suggestionActiveStyle
		}
		lines = append(lines, style.Render(s))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("trendlens")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓      Navigate article list\n" +
		"  g/G           Jump to top / bottom\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Filters") + "\n" +
		"  c/C, 1-5      Change category\n" +
		"  d             Cycle date range\n" +
		"  s             Cycle sort order\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open article in browser\n" +
		"  /             Search articles or jump to a topic\n" +
		"  esc           Clear search\n" +
		"  r             Reload feeds\n\n" +
		dim.Render("General") + "\n" +
		"  h             Topics and trending\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c     Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(app.ctx))
	_, err := p.Run()
	return err
}
