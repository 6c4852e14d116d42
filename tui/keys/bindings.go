package keys

import (
	"lottie-catalog/tui/components/footer"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// GlobalKeyMap defines the key bindings used across the application
type GlobalKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Back     key.Binding
	Download key.Binding
	Retry    key.Binding
	Dismiss  key.Binding
	Demos    key.Binding
	Play     key.Binding
	Speed    key.Binding
	Folder   key.Binding
}

// DefaultGlobalKeys returns the default key bindings
func DefaultGlobalKeys() GlobalKeyMap {
	return GlobalKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "dismiss"),
		),
		Demos: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "demos"),
		),
		Play: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Speed: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "speed"),
		),
		Folder: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open folder"),
		),
	}
}

// Handler provides a centralized way to match key presses
type Handler struct {
	keys GlobalKeyMap
}

// NewHandler creates a new key handler with default bindings
func NewHandler() *Handler {
	return &Handler{
		keys: DefaultGlobalKeys(),
	}
}

func (h *Handler) IsQuit(msg tea.KeyMsg) bool     { return key.Matches(msg, h.keys.Quit) }
func (h *Handler) IsBack(msg tea.KeyMsg) bool     { return key.Matches(msg, h.keys.Back) }
func (h *Handler) IsEnter(msg tea.KeyMsg) bool    { return key.Matches(msg, h.keys.Enter) }
func (h *Handler) IsUp(msg tea.KeyMsg) bool       { return key.Matches(msg, h.keys.Up) }
func (h *Handler) IsDown(msg tea.KeyMsg) bool     { return key.Matches(msg, h.keys.Down) }
func (h *Handler) IsDownload(msg tea.KeyMsg) bool { return key.Matches(msg, h.keys.Download) }
func (h *Handler) IsRetry(msg tea.KeyMsg) bool    { return key.Matches(msg, h.keys.Retry) }
func (h *Handler) IsDismiss(msg tea.KeyMsg) bool  { return key.Matches(msg, h.keys.Dismiss) }
func (h *Handler) IsDemos(msg tea.KeyMsg) bool    { return key.Matches(msg, h.keys.Demos) }
func (h *Handler) IsPlay(msg tea.KeyMsg) bool     { return key.Matches(msg, h.keys.Play) }
func (h *Handler) IsSpeed(msg tea.KeyMsg) bool    { return key.Matches(msg, h.keys.Speed) }
func (h *Handler) IsFolder(msg tea.KeyMsg) bool   { return key.Matches(msg, h.keys.Folder) }

// FooterBindings returns the footer hints for each screen
type FooterBindings struct{}

// NewFooterBindings creates a new footer bindings helper
func NewFooterBindings() *FooterBindings {
	return &FooterBindings{}
}

// Catalog returns bindings for the catalog list. The dismiss hint only shows
// while an error is displayed.
func (f *FooterBindings) Catalog(hasError bool) []footer.KeyBinding {
	bindings := []footer.KeyBinding{
		footer.NavigateBinding,
		footer.OpenBinding,
		footer.DownloadBinding,
		footer.RetryBinding,
	}
	if hasError {
		bindings = append(bindings, footer.DismissBinding)
	}
	return append(bindings, footer.DemosBinding, footer.QuitBinding)
}

// Detail returns bindings for the animation detail screen
func (f *FooterBindings) Detail(hasError bool) []footer.KeyBinding {
	bindings := []footer.KeyBinding{footer.DownloadBinding, footer.FolderBinding}
	if hasError {
		bindings = append(bindings, footer.DismissBinding)
	}
	return append(bindings, footer.BackBinding, footer.QuitBinding)
}

// Demos returns bindings for the demos screen
func (f *FooterBindings) Demos() []footer.KeyBinding {
	return []footer.KeyBinding{
		footer.NavigateBinding,
		footer.StartBinding,
		footer.PlayBinding,
		footer.SpeedBinding,
		footer.BackBinding,
		footer.QuitBinding,
	}
}
