package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// ColorScheme defines colors for a specific theme
type ColorScheme struct {
	Primary       lipgloss.Color
	Secondary     lipgloss.Color
	Accent        lipgloss.Color
	Error         lipgloss.Color
	Background    lipgloss.Color
	Text          lipgloss.Color
	Muted         lipgloss.Color
	Success       lipgloss.Color
	GradientStart string
	GradientEnd   string
}

// DarkTheme colors
var DarkTheme = ColorScheme{
	Primary:       lipgloss.Color("#8c9eff"),
	Secondary:     lipgloss.Color("#667eea"),
	Accent:        lipgloss.Color("#b388ff"),
	Error:         lipgloss.Color("#ff5370"),
	Background:    lipgloss.Color("#1a1b26"),
	Text:          lipgloss.Color("#e0e0e0"),
	Muted:         lipgloss.Color("#808080"),
	Success:       lipgloss.Color("#69f0ae"),
	GradientStart: "#667eea",
	GradientEnd:   "#764ba2",
}

// LightTheme colors
var LightTheme = ColorScheme{
	Primary:       lipgloss.Color("#3f51b5"),
	Secondary:     lipgloss.Color("#5c6bc0"),
	Accent:        lipgloss.Color("#6a1b9a"),
	Error:         lipgloss.Color("#c62828"),
	Background:    lipgloss.Color("#ffffff"),
	Text:          lipgloss.Color("#212121"),
	Muted:         lipgloss.Color("#757575"),
	Success:       lipgloss.Color("#2e7d32"),
	GradientStart: "#667eea",
	GradientEnd:   "#764ba2",
}

// Manager hands out theme-aware styles
type Manager struct {
	theme  Theme
	colors ColorScheme
}

// NewManager detects the terminal theme and picks a palette
func NewManager() *Manager {
	return NewManagerFor(NewDetector().DetectTheme())
}

// NewManagerFor creates a manager for a known theme
func NewManagerFor(theme Theme) *Manager {
	colors := DarkTheme
	if theme == ThemeLight {
		colors = LightTheme
	}
	return &Manager{theme: theme, colors: colors}
}

func (m *Manager) GetTheme() Theme {
	return m.theme
}

func (m *Manager) GetColors() ColorScheme {
	return m.colors
}

// HeaderStyle is used for screen titles
func (m *Manager) HeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Accent).
		Bold(true).
		Padding(0, 1)
}

func (m *Manager) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Error).
		Bold(true)
}

// ErrorBannerStyle frames a dismissable error
func (m *Manager) ErrorBannerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Error).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.colors.Error).
		Padding(0, 1)
}

func (m *Manager) HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Secondary).
		Faint(true)
}

func (m *Manager) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Success).
		Bold(true)
}

func (m *Manager) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Muted).
		Faint(true)
}

func (m *Manager) TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Text)
}

func (m *Manager) SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Accent).
		Bold(true)
}

// CardStyle boxes a demo or the payload preview
func (m *Manager) CardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.colors.Secondary).
		Padding(1, 2)
}

// Table styles for bubble-table
func (m *Manager) TableHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Accent).
		Bold(true).
		Align(lipgloss.Center)
}

func (m *Manager) TableSelectedRowStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Background).
		Background(m.colors.Primary).
		Bold(true)
}

func (m *Manager) MenuItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Text).
		Padding(0, 1)
}

func (m *Manager) SelectedMenuItemStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(m.colors.Background).
		Background(m.colors.Primary).
		Bold(true).
		Padding(0, 1)
}
