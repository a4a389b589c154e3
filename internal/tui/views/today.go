package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/chronos/internal/cli"
	"github.com/xolan/chronos/internal/query"
	"github.com/xolan/chronos/internal/session"
	"github.com/xolan/chronos/internal/timeutil"
	"github.com/xolan/chronos/internal/tui/ui"
)

// TodayModel shows today's entries with a live total and drives the
// session: n starts a new entry, s stops the running one.
type TodayModel struct {
	ctx     context.Context
	query   *query.Facade
	session session.Controller
	styles  ui.Styles
	keys    ui.KeyMap

	// UI state
	width   int
	height  int
	day     query.DaySummary
	now     time.Time
	loading bool
	err     error
	notice  string

	// Label input for a new entry
	inputMode bool
	input     textinput.Model
}

// NewTodayModel creates a new today view model. Mutations go through
// controller, normally the running session loop.
func NewTodayModel(ctx context.Context, q *query.Facade, controller session.Controller, styles ui.Styles, keys ui.KeyMap) TodayModel {
	ti := textinput.New()
	ti.Placeholder = "What are you working on?"
	ti.CharLimit = 200
	ti.Width = 50

	return TodayModel{
		ctx:     ctx,
		query:   q,
		session: controller,
		styles:  styles,
		keys:    keys,
		loading: true,
		input:   ti,
	}
}

// dayLoadedMsg is sent when today's summary is loaded
type dayLoadedMsg struct {
	day query.DaySummary
	now time.Time
	err error
}

// sessionChangedMsg is sent after a start or stop went through the session
type sessionChangedMsg struct {
	notice string
	err    error
}

// TickMsg is sent every second to refresh the elapsed times
type TickMsg time.Time

// Init implements tea.Model
func (m TodayModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.tick())
}

// Update implements tea.Model
func (m TodayModel) Update(msg tea.Msg) (TodayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputMode(msg)
		}

		switch {
		case key.Matches(msg, m.keys.New):
			m.inputMode = true
			m.notice = ""
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Stop):
			return m, m.stop()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		}

	case dayLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.day = msg.day
			m.now = msg.now
		}
		return m, nil

	case sessionChangedMsg:
		m.notice = msg.notice
		m.err = msg.err
		return m, m.load()

	case TickMsg:
		m.now = m.query.Now()
		// The open entry may have been closed by a new day; reload then.
		if m.day.Date != "" && m.day.Date != timeutil.FormatDate(m.now) {
			return m, tea.Batch(m.load(), m.tick())
		}
		return m, m.tick()

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.inputMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleInputMode handles key events while the label is being typed
func (m TodayModel) handleInputMode(msg tea.KeyMsg) (TodayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		label := strings.TrimSpace(m.input.Value())
		if label == "" {
			return m, nil
		}
		m.inputMode = false
		m.input.Blur()
		return m, m.start(label)
	case key.Matches(msg, m.keys.Back):
		m.inputMode = false
		m.input.Blur()
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m TodayModel) View() string {
	var b strings.Builder

	title := "Today"
	if m.day.Date != "" {
		title += " " + m.day.Date
	}
	b.WriteString(m.styles.ViewTitle.Render(title))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString("Loading...")
		return b.String()
	}

	if m.inputMode {
		b.WriteString(m.styles.StatLabel.Render("New entry"))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Enter to start, Esc to cancel"))
		return b.String()
	}

	if len(m.day.Entries) == 0 {
		b.WriteString(m.styles.Idle.Render("No entries yet today"))
		b.WriteString("\n")
	} else {
		b.WriteString(RenderEntryTable(m.day.Entries, m.styles, TableOptions{
			Now:    m.now,
			Loc:    m.query.Location(),
			Width:  m.width,
			Cursor: -1,
		}))
	}
	b.WriteString("\n")

	b.WriteString(m.styles.StatLabel.Render("Total:"))
	b.WriteString(m.styles.Total.Render(timeutil.FormatHHMM(Elapsed(m.day.Entries, m.now, m.query.Location()))))
	b.WriteString("\n")

	b.WriteString(m.styles.StatLabel.Render("Session:"))
	if open := m.day.Open; open != nil {
		b.WriteString(m.styles.Running.Render(fmt.Sprintf("● %s since %s", open.Label, open.TimeStart)))
	} else {
		b.WriteString(m.styles.Idle.Render("idle"))
	}
	b.WriteString("\n")

	if len(m.day.Drinks) > 0 {
		b.WriteString(m.styles.StatLabel.Render("Drinks:"))
		b.WriteString(m.styles.StatValue.Render(cli.FormatDrinks(m.day.Drinks)))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(describeError(m.err)))
	} else if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.notice))
	}

	return b.String()
}

// SetSize sets the view dimensions
func (m *TodayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true when the view is capturing keyboard input
func (m TodayModel) IsInputMode() bool {
	return m.inputMode
}

func (m TodayModel) load() tea.Cmd {
	return func() tea.Msg {
		day, err := m.query.Day(m.ctx, m.query.Today())
		return dayLoadedMsg{day: day, now: m.query.Now(), err: err}
	}
}

func (m TodayModel) start(label string) tea.Cmd {
	return func() tea.Msg {
		tr, err := m.session.StartNow(m.ctx, label)
		if err != nil {
			return sessionChangedMsg{err: err}
		}
		return sessionChangedMsg{notice: cli.FormatStarted(*tr.Started)}
	}
}

func (m TodayModel) stop() tea.Cmd {
	return func() tea.Msg {
		stopped, err := m.session.StopNow(m.ctx)
		if err != nil {
			return sessionChangedMsg{err: err}
		}
		if stopped == nil {
			return sessionChangedMsg{notice: "No entry is running"}
		}
		return sessionChangedMsg{notice: cli.FormatStopped(*stopped, m.query.Location())}
	}
}

func (m TodayModel) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func describeError(err error) string {
	switch {
	case errors.Is(err, session.ErrEmptyLabel):
		return "Error: Label cannot be empty"
	case errors.Is(err, session.ErrInvalidTimeRange):
		return "Error: The running entry would end before it started"
	case errors.Is(err, session.ErrLoopClosed):
		return "Error: Session is shutting down"
	}
	return fmt.Sprintf("Error: %v", err)
}
