package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrSnakeDoc/marquee/internal/domain"
	"github.com/MrSnakeDoc/marquee/internal/logger"
	"github.com/MrSnakeDoc/marquee/internal/screen"
	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

// NoPosterText stands in for the placeholder image in a terminal.
const NoPosterText = "(no poster)"

// Options configures the UI.
type Options struct {
	Context context.Context
	Catalog screen.Catalog
	Terms   termstore.Store // already scoped to this terminal
	TermKey string
	Logger  logger.Logger
}

type view int

const (
	viewSearch view = iota
	viewDetail
)

// changedMsg is sent when a subscribed screen changed state.
type changedMsg struct{}

// queryDoneMsg is sent when a query issued from Update has been handled.
type queryDoneMsg struct{}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx     context.Context
	catalog screen.Catalog
	terms   termstore.Store
	key     string
	log     logger.Logger

	// changed coalesces screen notifications into a single pending signal.
	changed chan tea.Msg

	current view
	styles  styles
	width   int

	// Search state
	search    *screen.Search
	snap      screen.SearchState
	input     textinput.Model
	listFocus bool
	cursor    int

	// Detail state
	detail *screen.Detail
	movie  domain.MovieDetail
}

// New creates the model with an unmounted Search screen; Init mounts it.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	in := textinput.New()
	in.Placeholder = "Your movie title"
	in.Prompt = "> "
	in.CharLimit = 200
	in.Focus()

	m := Model{
		ctx:     ctx,
		catalog: opts.Catalog,
		terms:   opts.Terms,
		key:     opts.TermKey,
		log:     log,
		changed: make(chan tea.Msg, 1),
		current: viewSearch,
		styles:  defaultStyles(),
		input:   in,
	}
	m.search = m.newSearch()
	return m
}

func (m Model) newSearch() *screen.Search {
	s := screen.NewSearch(m.ctx, m.catalog, m.terms, m.key, m.log)
	s.Subscribe(func(screen.SearchState) { m.signal() })
	return s
}

func (m Model) signal() {
	select {
	case m.changed <- changedMsg{}:
	default:
	}
}

func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func await(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return queryDoneMsg{}
	}
}

// mount mounts s off the update loop; Mount may read the term store.
func mount(s interface{ Mount() <-chan struct{} }) tea.Cmd {
	return func() tea.Msg {
		<-s.Mount()
		return queryDoneMsg{}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, mount(m.search), listen(m.changed))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-4)
		return m, nil

	case changedMsg:
		m.refresh()
		return m, listen(m.changed)

	case queryDoneMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Close()
			return m, tea.Quit
		}
		if m.current == viewDetail {
			return m.updateDetail(msg)
		}
		return m.updateSearch(msg)
	}

	if m.current == viewSearch && !m.listFocus {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Close()
		return m, tea.Quit

	case tea.KeyTab, tea.KeyShiftTab:
		m.listFocus = !m.listFocus && len(m.snap.Movies) > 0
		if m.listFocus {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return m, nil

	case tea.KeyCtrlX:
		m.search.Clear()
		m.listFocus = false
		m.input.Focus()
		m.refresh()
		return m, nil

	case tea.KeyEnter:
		if m.listFocus {
			return m.openDetail()
		}
		return m, await(m.search.Submit())
	}

	if m.listFocus {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.snap.Movies)-1 {
				m.cursor++
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.search.InputChange(v)
	}
	return m, cmd
}

func (m Model) openDetail() (tea.Model, tea.Cmd) {
	if m.cursor >= len(m.snap.Movies) {
		return m, nil
	}
	id := m.snap.Movies[m.cursor].ID

	m.detail = screen.NewDetail(m.ctx, m.catalog, id, m.log)
	m.detail.Subscribe(func(domain.MovieDetail) { m.signal() })
	m.movie = domain.MovieDetail{}
	m.current = viewDetail
	return m, mount(m.detail)
}

// updateDetail handles keys on the detail view. Going back is a fresh
// mount of the list, which restores the persisted term.
func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "backspace", "left":
		m.detail.Unmount()
		m.detail = nil
		m.movie = domain.MovieDetail{}

		m.search.Unmount()
		m.search = m.newSearch()
		m.snap = screen.SearchState{}
		m.cursor = 0
		m.listFocus = false
		m.input.Focus()
		m.current = viewSearch
		return m, mount(m.search)
	}
	return m, nil
}

// refresh pulls the latest snapshots from the live screens.
func (m *Model) refresh() {
	m.snap = m.search.Snapshot()
	if m.input.Value() != m.snap.Term {
		m.input.SetValue(m.snap.Term)
		m.input.CursorEnd()
	}
	if m.cursor >= len(m.snap.Movies) {
		m.cursor = max(0, len(m.snap.Movies)-1)
	}
	if len(m.snap.Movies) == 0 && m.listFocus {
		m.listFocus = false
		m.input.Focus()
	}
	if m.detail != nil {
		m.movie = m.detail.Snapshot()
	}
}

// Close unmounts every live screen.
func (m Model) Close() {
	if m.detail != nil {
		m.detail.Unmount()
	}
	m.search.Unmount()
}

// View implements tea.Model.
func (m Model) View() string {
	if m.current == viewDetail {
		return m.viewDetail()
	}
	return m.viewSearch()
}

func (m Model) viewSearch() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Movie Search"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render("Look for any movie with our engine"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for i, mv := range m.snap.Movies {
		line := fmt.Sprintf("%s (%s)  %s  %s", mv.Title, mv.Year, m.styles.Muted.Render(mv.ID), m.styles.Muted.Render(mv.PosterOr(NoPosterText)))
		if m.listFocus && i == m.cursor {
			b.WriteString(m.styles.Selected.Render("▸ " + line))
		} else {
			b.WriteString(m.styles.Item.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.snap.NoResults && len(m.snap.Movies) == 0 {
		b.WriteString(m.styles.NotFound.Render("No movies found"))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("enter search/open · tab results · ctrl+x clear results · esc quit"))
	return b.String()
}

func (m Model) viewDetail() string {
	mv := m.movie
	rows := []struct{ label, value string }{
		{"Poster", mv.Poster},
		{"Plot", mv.Plot},
		{"Released", mv.Released},
		{"Director", mv.Director},
		{"Actors", mv.Actors},
		{"Awards", mv.Awards},
	}

	valueWidth := 60
	if m.width > 20 {
		valueWidth = m.width - 12
	}
	value := lipgloss.NewStyle().Width(valueWidth)

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("%s (%s)", mv.Title, mv.Year)))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.styles.Label.Render(r.label), value.Render(r.value)))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("esc back · ctrl+c quit"))
	return b.String()
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.Close()
	}
	return err
}
