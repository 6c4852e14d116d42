package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Item is one selectable entry
type Item struct {
	Title       string
	Description string
}

// Component represents a vertical menu with selectable items
type Component struct {
	items         []Item
	selectedIndex int
	styles        Styles
}

// Styles defines the visual styling for menu components
type Styles struct {
	ItemStyle        lipgloss.Style
	SelectedStyle    lipgloss.Style
	DescriptionStyle lipgloss.Style
	Cursor           string
	SelectedCursor   string
}

// DefaultStyles returns unstyled items with a text cursor
func DefaultStyles() Styles {
	return Styles{
		ItemStyle:        lipgloss.NewStyle(),
		SelectedStyle:    lipgloss.NewStyle().Bold(true),
		DescriptionStyle: lipgloss.NewStyle().Faint(true),
		Cursor:           "  ",
		SelectedCursor:   "> ",
	}
}

// New creates a new menu component with the given items
func New(items []Item) *Component {
	return &Component{
		items:  items,
		styles: DefaultStyles(),
	}
}

// SetItems updates the menu items
func (c *Component) SetItems(items []Item) {
	c.items = items
	if c.selectedIndex >= len(items) {
		c.selectedIndex = 0
	}
}

// SetStyles updates the menu styling
func (c *Component) SetStyles(styles Styles) {
	c.styles = styles
}

// SelectedIndex returns the current selection index
func (c *Component) SelectedIndex() int {
	return c.selectedIndex
}

// SetSelectedIndex sets the current selection, ignoring out of range values
func (c *Component) SetSelectedIndex(index int) {
	if index >= 0 && index < len(c.items) {
		c.selectedIndex = index
	}
}

// SelectedItem returns the highlighted item and false for an empty menu
func (c *Component) SelectedItem() (Item, bool) {
	if len(c.items) == 0 {
		return Item{}, false
	}
	return c.items[c.selectedIndex], true
}

// SelectMsg is sent when an item is chosen with enter
type SelectMsg struct {
	Index int
	Item  Item
}

// Update handles keyboard input for menu navigation
func (c *Component) Update(msg tea.Msg) (*Component, tea.Cmd) {
	if len(c.items) == 0 {
		return c, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		c.selectedIndex--
		if c.selectedIndex < 0 {
			c.selectedIndex = len(c.items) - 1
		}
	case "down", "j":
		c.selectedIndex = (c.selectedIndex + 1) % len(c.items)
	case "enter":
		selected := SelectMsg{Index: c.selectedIndex, Item: c.items[c.selectedIndex]}
		return c, func() tea.Msg { return selected }
	}

	return c, nil
}

// View renders the menu, one item per line with its description alongside
func (c *Component) View() string {
	lines := make([]string, 0, len(c.items))
	for i, item := range c.items {
		cursor, style := c.styles.Cursor, c.styles.ItemStyle
		if i == c.selectedIndex {
			cursor, style = c.styles.SelectedCursor, c.styles.SelectedStyle
		}
		line := cursor + style.Render(item.Title)
		if item.Description != "" {
			line += " " + c.styles.DescriptionStyle.Render(item.Description)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
