package footer

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Component renders key hints at the bottom of a screen
type Component struct {
	style lipgloss.Style
}

// New creates a footer with the given style
func New(style lipgloss.Style) *Component {
	return &Component{style: style}
}

// KeyBinding represents a single key hint
type KeyBinding struct {
	Key         string
	Description string
}

// View renders the hints, skipping incomplete ones
func (c *Component) View(bindings ...KeyBinding) string {
	var parts []string
	for _, binding := range bindings {
		if s := binding.Format(); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return c.style.Render(strings.Join(parts, "  "))
}

// Format renders a key binding as "[key] description"
func (kb KeyBinding) Format() string {
	if kb.Key == "" || kb.Description == "" {
		return ""
	}
	return "[" + kb.Key + "] " + kb.Description
}

// Common key bindings for reuse
var (
	QuitBinding     = KeyBinding{Key: "q", Description: "quit"}
	BackBinding     = KeyBinding{Key: "esc/b", Description: "back"}
	OpenBinding     = KeyBinding{Key: "enter", Description: "details"}
	StartBinding    = KeyBinding{Key: "enter", Description: "start"}
	NavigateBinding = KeyBinding{Key: "↑/↓ or k/j", Description: "move"}
	DownloadBinding = KeyBinding{Key: "d", Description: "download"}
	FolderBinding   = KeyBinding{Key: "o", Description: "open folder"}
	RetryBinding    = KeyBinding{Key: "r", Description: "reload"}
	DismissBinding  = KeyBinding{Key: "x", Description: "dismiss error"}
	DemosBinding    = KeyBinding{Key: "tab", Description: "demos"}
	PlayBinding     = KeyBinding{Key: "space", Description: "play/pause"}
	SpeedBinding    = KeyBinding{Key: "s", Description: "speed"}
)
