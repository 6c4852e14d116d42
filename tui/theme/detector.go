package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents the detected terminal theme
type Theme int

const (
	ThemeUnknown Theme = iota
	ThemeLight
	ThemeDark
)

// String returns the theme name
func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "unknown"
	}
}

// Detector decides between the light and dark palettes
type Detector struct {
	getenv        func(string) string
	hasDarkBackground func() bool
}

// NewDetector creates a detector reading the process environment
func NewDetector() *Detector {
	return &Detector{
		getenv:        os.Getenv,
		hasDarkBackground: lipgloss.HasDarkBackground,
	}
}

// DetectTheme checks, in order: LOTTIE_THEME, COLORFGBG, then the terminal's
// reported background. It falls back to dark.
func (d *Detector) DetectTheme() Theme {
	if theme := d.detectFromOverride(); theme != ThemeUnknown {
		return theme
	}
	if theme := d.detectFromColorFGBG(); theme != ThemeUnknown {
		return theme
	}
	if d.canQueryTerminal() && !d.hasDarkBackground() {
		return ThemeLight
	}
	return ThemeDark
}

func (d *Detector) detectFromOverride() Theme {
	switch strings.ToLower(strings.TrimSpace(d.getenv("LOTTIE_THEME"))) {
	case "light":
		return ThemeLight
	case "dark":
		return ThemeDark
	}
	return ThemeUnknown
}

// COLORFGBG is "fg;bg" or "fg;default;bg"; the last field is the background.
func (d *Detector) detectFromColorFGBG() Theme {
	value := d.getenv("COLORFGBG")
	if value == "" {
		return ThemeUnknown
	}
	parts := strings.Split(value, ";")
	if len(parts) < 2 {
		return ThemeUnknown
	}
	switch strings.TrimSpace(parts[len(parts)-1]) {
	case "7", "15":
		return ThemeLight
	case "0", "8":
		return ThemeDark
	}
	return ThemeUnknown
}

func (d *Detector) canQueryTerminal() bool {
	if d.getenv("NO_COLOR") != "" {
		return false
	}
	term := d.getenv("TERM")
	return term != "" && term != "dumb"
}
