// Package tui is an interactive list browser that drives a listing session. Scrolling to
// the last row loads the next page and backdrops show up as they arrive.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/s0up4200/marquee/session"
	"github.com/s0up4200/marquee/tmdb"
)

// Controller is the part of a session the browser drives. Every method must return
// without waiting on the listener.
type Controller interface {
	Start(query string)
	ResetForNewQuery(query string)
	RequestNextPageIfNeeded(visibleIndex int)
	Snapshot() session.State
}

type snapshotMsg session.State

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(accentColor).Padding(0, 1)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(faintColor).Padding(0, 1)
)

// Model is the bubbletea model of the browser
type Model struct {
	controller Controller
	title      string
	query      string
	searchable bool
	keymap     keymap

	list    list.Model
	input   textinput.Model
	spinner spinner.Model

	searching bool
	loading   bool
	err       *errorMsg

	records     []tmdb.MovieRecord
	reported    map[int]bool
	currentPage int
	totalPages  int
}

// NewModel creates a browser for controller. query is the initial query, empty for
// listings without one. New queries can only be entered when searchable is set.
func NewModel(controller Controller, title, query string, searchable bool) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(accentColor).
		Foreground(accentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	km := newKeymap()

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = titleStyle
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = km.ShortHelp

	input := textinput.New()
	input.Placeholder = "Search movies"
	input.CharLimit = 100
	input.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accentColor)

	return Model{
		controller:  controller,
		title:       title,
		query:       query,
		searchable:  searchable,
		keymap:      km,
		list:        l,
		input:       input,
		spinner:     sp,
		loading:     true,
		reported:    make(map[int]bool),
		currentPage: 1,
		totalPages:  1,
	}
}

func (m Model) Init() tea.Cmd {
	controller, query := m.controller, m.query
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		controller.Start(query)
		return nil
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, max(msg.Height-2, 0))
		return m, nil

	case listChangedMsg:
		m.loading = false
		m.err = nil
		m.currentPage = msg.currentPage
		m.totalPages = msg.totalPages
		cmd := m.setRecords(msg.records)
		if msg.currentPage == 1 {
			m.list.ResetSelected()
		}
		return m, cmd

	case imageUpdatedMsg:
		m.reported[msg.recordID] = true
		controller := m.controller
		return m, func() tea.Msg {
			return snapshotMsg(controller.Snapshot())
		}

	case snapshotMsg:
		// Records only grow within a query; a shorter snapshot predates the last list change.
		if msg.Query != m.query || len(msg.Records) < len(m.records) {
			return m, nil
		}
		return m, m.setRecords(msg.Records)

	case errorMsg:
		m.loading = false
		m.err = &msg
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.forceQuit) {
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.cancel):
		m.searching = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keymap.confirm):
		m.searching = false
		m.input.Blur()
		m.query = strings.TrimSpace(m.input.Value())
		m.loading = true
		m.err = nil
		m.reported = make(map[int]bool)
		m.controller.ResetForNewQuery(m.query)
		return m, m.spinner.Tick
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.search) && m.searchable:
		m.searching = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keymap.retry) && m.err != nil:
		retry := m.err.retry
		m.err = nil
		m.loading = true
		if retry != nil {
			retry()
		}
		return m, m.spinner.Tick
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	index := m.list.Index()
	if len(m.records) > 0 && index == len(m.records)-1 && m.currentPage < m.totalPages && !m.loading {
		m.loading = true
		m.controller.RequestNextPageIfNeeded(index)
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m *Model) setRecords(records []tmdb.MovieRecord) tea.Cmd {
	m.records = records
	items := lo.Map(records, func(record tmdb.MovieRecord, _ int) list.Item {
		return newMovieItem(record, m.reported[record.ID])
	})
	return m.list.SetItems(items)
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.list.View())
	sb.WriteString("\n")

	switch {
	case m.searching:
		sb.WriteString(m.input.View())
	case m.err != nil:
		sb.WriteString(errorStyle.Render(m.err.message))
		sb.WriteString(statusStyle.Render("press r to retry"))
	case m.loading:
		sb.WriteString(m.spinner.View())
		sb.WriteString(" Loading…")
	default:
		sb.WriteString(statusStyle.Render(m.status()))
	}

	return sb.String()
}

func (m Model) status() string {
	status := fmt.Sprintf("%d movies • page %d of %d", len(m.records), m.currentPage, m.totalPages)
	if m.query != "" {
		status = fmt.Sprintf("%q • %s", m.query, status)
	}
	return status
}

// Run opens the browser on a new session. newSession must register the given listener
// with the session it creates.
func Run(title, query string, searchable bool, newSession func(listener session.Listener) (*session.Session, error), opts ...tea.ProgramOption) error {
	listener := &Listener{}
	sess, err := newSession(listener)
	if err != nil {
		return err
	}
	defer sess.Close()

	p := tea.NewProgram(NewModel(sess, title, query, searchable), opts...)
	listener.Attach(p)

	_, err = p.Run()
	return err
}
