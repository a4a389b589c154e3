// Package tui provides the terminal dashboard for chronos.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/chronos/internal/service"
	"github.com/xolan/chronos/internal/session"
	"github.com/xolan/chronos/internal/tui/ui"
	"github.com/xolan/chronos/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabToday Tab = iota
	TabConfig
)

var tabNames = []string{"Today", "Config"}

// Model is the root TUI model
type Model struct {
	services *service.Services

	// UI state
	activeTab Tab
	width     int
	height    int
	showHelp  bool

	todayView  views.TodayModel
	configView views.ConfigModel

	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates the root model. Session changes go through controller.
func New(ctx context.Context, services *service.Services, controller session.Controller) Model {
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	return Model{
		services:      services,
		activeTab:     TabToday,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		todayView:     views.NewTodayModel(ctx, services.Query, controller, styles, keys),
		configView:    views.NewConfigModel(services.Config, services.Store.Path(), themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.todayView.Init(),
		m.configView.Init(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		modal := m.isModalInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit) && (!modal || msg.Type == tea.KeyCtrlC):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help) && !modal:
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab) && !modal:
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, nil

		case key.Matches(msg, m.keys.PrevTab) && !modal:
			m.activeTab = Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames))
			return m, nil

		case key.Matches(msg, m.keys.Tab1) && !modal:
			m.activeTab = TabToday
			return m, nil

		case key.Matches(msg, m.keys.Tab2) && !modal:
			m.activeTab = TabConfig
			return m, m.configView.Init()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // tabs and status bar
		m.todayView.SetSize(m.width, contentHeight)
		m.configView.SetSize(m.width, contentHeight)
		return m, nil

	case views.TickMsg:
		// Ticks keep the today view live whichever tab is shown.
		m.todayView, cmd = m.todayView.Update(msg)
		return m, cmd

	case ui.ThemeChangeRequestMsg:
		m.themeProvider.SetTheme(msg.ThemeName)
		name := m.themeProvider.CurrentName()
		m.styles = m.themeProvider.Styles()

		changed := ui.ThemeChangedMsg{ThemeName: name, Styles: m.styles}
		m.todayView, _ = m.todayView.Update(changed)
		m.configView, _ = m.configView.Update(changed)
		return m, m.saveTheme(name)

	case ui.ThemeSavedMsg:
		m.configView, cmd = m.configView.Update(msg)
		return m, cmd
	}

	switch m.activeTab {
	case TabToday:
		m.todayView, cmd = m.todayView.Update(msg)
	case TabConfig:
		m.configView, cmd = m.configView.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabToday:
		b.WriteString(m.todayView.View())
	case TabConfig:
		b.WriteString(m.configView.View())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.styles.App.Render(m.renderHelp())
	}
	return m.styles.App.Render(b.String())
}

func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.isModalInputMode() {
		parts = append(parts, m.renderKeyHelp("Enter", "confirm"))
		parts = append(parts, m.renderKeyHelp("Esc", "cancel"))
	} else {
		switch m.activeTab {
		case TabToday:
			parts = append(parts, m.renderKeyHelp("n", "new"))
			parts = append(parts, m.renderKeyHelp("s", "stop"))
			parts = append(parts, m.renderKeyHelp("r", "refresh"))
		case TabConfig:
			parts = append(parts, m.renderKeyHelp("t", "themes"))
		}
		parts = append(parts, m.renderKeyHelp("1-2", "views"))
		parts = append(parts, m.renderKeyHelp("?", "help"))
		parts = append(parts, m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")
	if padding := m.width - lipgloss.Width(content); padding > 0 {
		content += strings.Repeat(" ", padding)
	}
	return m.styles.StatusBar.Render(content)
}

func (m Model) renderKeyHelp(k, desc string) string {
	return fmt.Sprintf("%s %s", m.styles.StatusKey.Render(k), m.styles.StatusHelp.Render(desc))
}

func (m Model) renderHelp() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")
	help.WriteString("  Tab/1-2    Switch views\n")
	help.WriteString("  n          Start a new entry (stops the running one)\n")
	help.WriteString("  s          Stop the running entry\n")
	help.WriteString("  r          Refresh\n")
	help.WriteString("  t          Choose a theme (Config view)\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit (the running entry keeps running)\n")
	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))

	return m.styles.Dialog.Render(help.String())
}

// isModalInputMode reports whether the active view captures keys
func (m Model) isModalInputMode() bool {
	switch m.activeTab {
	case TabToday:
		return m.todayView.IsInputMode()
	case TabConfig:
		return m.configView.IsSelecting()
	}
	return false
}

func (m Model) saveTheme(name string) tea.Cmd {
	return func() tea.Msg {
		cfg := m.services.Config.Get()
		cfg.Theme = name
		return ui.ThemeSavedMsg{ThemeName: name, Err: m.services.Config.Update(cfg)}
	}
}

// Run starts the dashboard. The engine is driven through a session loop
// until the program exits.
func Run(ctx context.Context, services *service.Services) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := services.NewLoop()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	defer func() {
		cancel()
		<-done
	}()

	p := tea.NewProgram(New(ctx, services, loop), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
