package state

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Screen identifies what the TUI is showing
type Screen int

const (
	// CatalogList - the animation catalog, with loading, error and empty variants
	CatalogList Screen = iota

	// AnimationDetail - one animation with its download progress and payload preview
	AnimationDetail

	// Demos - the staged, sweep and playback loading demos
	Demos
)

// String returns a human-readable representation of the screen
func (s Screen) String() string {
	switch s {
	case CatalogList:
		return "CatalogList"
	case AnimationDetail:
		return "AnimationDetail"
	case Demos:
		return "Demos"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// IsValid checks if the screen is known
func (s Screen) IsValid() bool {
	return s >= CatalogList && s <= Demos
}

// Transition represents a screen change
type Transition struct {
	From Screen
	To   Screen
}

// String returns a human-readable representation of the transition
func (t Transition) String() string {
	return fmt.Sprintf("%s -> %s", t.From, t.To)
}

// Machine tracks the current screen and the path back to the first one
type Machine struct {
	current Screen
	history []Screen
}

// NewMachine creates a new state machine with the given initial screen
func NewMachine(initial Screen) *Machine {
	return &Machine{
		current: initial,
		history: []Screen{initial},
	}
}

// Current returns the current screen
func (m *Machine) Current() Screen {
	return m.current
}

// Transition moves to a new screen
func (m *Machine) Transition(to Screen) tea.Cmd {
	if !to.IsValid() {
		return func() tea.Msg {
			return ErrorMsg{
				Error: fmt.Errorf("invalid screen transition to %s", to),
			}
		}
	}

	transition := Transition{From: m.current, To: to}
	m.current = to
	m.history = append(m.history, to)

	return func() tea.Msg {
		return TransitionMsg{Transition: transition}
	}
}

// CanGoBack returns true if there's a previous screen to go back to
func (m *Machine) CanGoBack() bool {
	return len(m.history) > 1
}

// GoBack returns to the previous screen
func (m *Machine) GoBack() tea.Cmd {
	if !m.CanGoBack() {
		return nil
	}

	m.history = m.history[:len(m.history)-1]
	previous := m.history[len(m.history)-1]

	transition := Transition{From: m.current, To: previous}
	m.current = previous

	return func() tea.Msg {
		return TransitionMsg{Transition: transition}
	}
}

// History returns a copy of the screen history
func (m *Machine) History() []Screen {
	history := make([]Screen, len(m.history))
	copy(history, m.history)
	return history
}

// Messages for state machine events
type (
	// TransitionMsg is sent when a screen transition occurs
	TransitionMsg struct {
		Transition Transition
	}

	// ErrorMsg reports a rejected transition or a failed screen action
	ErrorMsg struct {
		Error error
	}
)
