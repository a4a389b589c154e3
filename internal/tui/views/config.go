package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/chronos/internal/config"
	"github.com/xolan/chronos/internal/service"
	"github.com/xolan/chronos/internal/tui/ui"
)

// ConfigModel is the model for the config view
type ConfigModel struct {
	config        *service.ConfigService
	database      string
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap

	// UI state
	width     int
	height    int
	cfg       config.Config
	path      string
	exists    bool
	themeName string
	err       error

	// Theme selector state
	selectingTheme bool
	themes         []string
	themeCursor    int
	themeOffset    int
}

// NewConfigModel creates a new config view model
func NewConfigModel(cfg *service.ConfigService, database string, themeProvider *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) ConfigModel {
	m := ConfigModel{
		config:        cfg,
		database:      database,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		themes:        themeProvider.AvailableThemes(),
		themeName:     themeProvider.CurrentName(),
	}
	m.moveCursorTo(m.themeName)
	return m
}

// Init implements tea.Model
func (m ConfigModel) Init() tea.Cmd {
	return m.loadConfig()
}

// configLoadedMsg is sent when config is loaded
type configLoadedMsg struct {
	cfg    config.Config
	path   string
	exists bool
}

// maxVisibleThemes is the maximum number of themes to show at once
const maxVisibleThemes = 10

// Update implements tea.Model
func (m ConfigModel) Update(msg tea.Msg) (ConfigModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.selectingTheme {
			return m.handleThemeSelection(msg)
		}
		if key.Matches(msg, m.keys.Select) || key.Matches(msg, m.keys.Theme) {
			m.selectingTheme = true
			m.updateThemeOffset()
			return m, nil
		}

	case configLoadedMsg:
		m.cfg = msg.cfg
		m.path = msg.path
		m.exists = msg.exists

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.themeName = msg.ThemeName
		m.moveCursorTo(m.themeName)
		return m, nil

	case ui.ThemeSavedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			return m, m.loadConfig()
		}
		return m, nil
	}

	return m, nil
}

// handleThemeSelection handles keys when theme selector is open
func (m ConfigModel) handleThemeSelection(msg tea.KeyMsg) (ConfigModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
			m.updateThemeOffset()
		}
	case key.Matches(msg, m.keys.Down):
		if m.themeCursor < len(m.themes)-1 {
			m.themeCursor++
			m.updateThemeOffset()
		}
	case key.Matches(msg, m.keys.Select):
		m.selectingTheme = false
		if len(m.themes) == 0 {
			return m, nil
		}
		name := m.themes[m.themeCursor]
		return m, func() tea.Msg {
			return ui.ThemeChangeRequestMsg{ThemeName: name}
		}
	case key.Matches(msg, m.keys.Back):
		m.selectingTheme = false
		m.moveCursorTo(m.themeName)
	}
	return m, nil
}

func (m *ConfigModel) moveCursorTo(theme string) {
	for i, t := range m.themes {
		if t == theme {
			m.themeCursor = i
			return
		}
	}
}

// updateThemeOffset keeps the cursor inside the visible window
func (m *ConfigModel) updateThemeOffset() {
	if m.themeCursor < m.themeOffset {
		m.themeOffset = m.themeCursor
	} else if m.themeCursor >= m.themeOffset+maxVisibleThemes {
		m.themeOffset = m.themeCursor - maxVisibleThemes + 1
	}
}

// View implements tea.Model
func (m ConfigModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Configuration"))
	b.WriteString("\n\n")

	b.WriteString(m.renderLine("Config file:", m.path))
	b.WriteString(m.styles.StatLabel.Render("Status:"))
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (no config file)"))
	}
	b.WriteString("\n\n")

	b.WriteString(strings.Repeat("─", min(50, max(m.width, 1))))
	b.WriteString("\n\n")

	kinds := "(any)"
	if len(m.cfg.DrinkKinds) > 0 {
		kinds = strings.Join(m.cfg.DrinkKinds, ", ")
	}
	b.WriteString(m.renderLine("database:", m.database))
	b.WriteString(m.renderLine("timezone:", m.cfg.Timezone))
	b.WriteString(m.renderLine("trigger_label:", m.cfg.TriggerLabel))
	b.WriteString(m.renderLine("drink_kinds:", kinds))
	b.WriteString(m.renderLine("log_level:", m.cfg.LogLevel))

	if m.selectingTheme {
		b.WriteString(m.renderThemeSelector())
	} else {
		b.WriteString(m.renderLine("theme:", m.themeName))
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Press Enter or 't' to change theme"))
	}

	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render("Error: Failed to save theme: " + m.err.Error()))
	}

	return b.String()
}

// renderThemeSelector renders the theme selection list
func (m ConfigModel) renderThemeSelector() string {
	var b strings.Builder

	b.WriteString(m.styles.StatLabel.Render("theme:"))
	b.WriteString(m.styles.StatValue.Render("Select a theme"))
	b.WriteString("\n\n")

	end := min(m.themeOffset+maxVisibleThemes, len(m.themes))
	if m.themeOffset > 0 {
		b.WriteString(m.styles.StatLabel.Render("  ↑ more"))
		b.WriteString("\n")
	}
	for i := m.themeOffset; i < end; i++ {
		theme := m.themes[i]
		current := ""
		if theme == m.themeName {
			current = " (current)"
		}
		if i == m.themeCursor {
			b.WriteString(m.styles.EntrySelected.Render("▸ " + theme))
			b.WriteString(m.styles.Success.Render(current))
		} else {
			b.WriteString("  " + m.styles.StatValue.Render(theme) + m.styles.Success.Render(current))
		}
		b.WriteString("\n")
	}
	if end < len(m.themes) {
		b.WriteString(m.styles.StatLabel.Render("  ↓ more"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("↑/↓ navigate  Enter select  Esc cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *ConfigModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsSelecting reports whether the theme selector is open
func (m ConfigModel) IsSelecting() bool {
	return m.selectingTheme
}

func (m ConfigModel) loadConfig() tea.Cmd {
	return func() tea.Msg {
		return configLoadedMsg{
			cfg:    m.config.Get(),
			path:   m.config.GetPath(),
			exists: m.config.Exists(),
		}
	}
}

func (m ConfigModel) renderLine(label, value string) string {
	return m.styles.StatLabel.Render(label) + m.styles.StatValue.Render(value) + "\n"
}
