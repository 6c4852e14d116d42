package table

import (
	"lottie-catalog/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	btable "github.com/evertras/bubble-table/table"
)

const (
	columnKeyID       = "id"
	columnKeyName     = "name"
	columnKeySize     = "size"
	columnKeyDuration = "duration"
	columnKeyStatus   = "status"

	defaultPageSize = 10
)

// StatusProvider supplies the status column for an animation
type StatusProvider interface {
	AnimationStatus(id string) string
}

// StatusFunc adapts a function to StatusProvider
type StatusFunc func(id string) string

func (f StatusFunc) AnimationStatus(id string) string { return f(id) }

// Component is the catalog table
type Component struct {
	table          btable.Model
	animations     []api.AnimationDescriptor
	statusProvider StatusProvider
	focused        bool
}

// New creates an empty catalog table
func New(statusProvider StatusProvider) *Component {
	columns := []btable.Column{
		btable.NewColumn(columnKeyName, "Name", 28),
		btable.NewColumn(columnKeySize, "Size", 10),
		btable.NewColumn(columnKeyDuration, "Duration", 10),
		btable.NewColumn(columnKeyStatus, "Status", 14),
	}

	return &Component{
		table:          btable.New(columns).WithPageSize(defaultPageSize),
		statusProvider: statusProvider,
	}
}

// SetStyles applies header and highlight styles
func (c *Component) SetStyles(header, highlight lipgloss.Style) {
	c.table = c.table.HeaderStyle(header).HighlightStyle(highlight)
}

// SetAnimations replaces the rows. The highlight stays on the same animation
// when it is still present.
func (c *Component) SetAnimations(animations []api.AnimationDescriptor) {
	var keepID string
	if current := c.HighlightedAnimation(); current != nil {
		keepID = current.ID
	}

	c.animations = animations
	c.refreshTable()

	for i, a := range animations {
		if a.ID == keepID {
			c.table = c.table.WithHighlightedRow(i)
			break
		}
	}
}

// Len returns the number of rows
func (c *Component) Len() int {
	return len(c.animations)
}

// SetFocused sets whether the table reacts to navigation keys
func (c *Component) SetFocused(focused bool) {
	c.focused = focused
	c.table = c.table.Focused(focused)
}

// HighlightedAnimation returns the animation under the cursor, or nil
func (c *Component) HighlightedAnimation() *api.AnimationDescriptor {
	row := c.table.HighlightedRow()
	if row.Data == nil {
		return nil
	}

	id, ok := row.Data[columnKeyID].(string)
	if !ok {
		return nil
	}
	for i := range c.animations {
		if c.animations[i].ID == id {
			a := c.animations[i]
			return &a
		}
	}
	return nil
}

// Update handles Bubble Tea messages
func (c *Component) Update(msg tea.Msg) (*Component, tea.Cmd) {
	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

// View renders the table
func (c *Component) View() string {
	return c.table.View()
}

// RefreshStatus re-reads the status column
func (c *Component) RefreshStatus() {
	index := c.table.GetHighlightedRowIndex()
	c.refreshTable()
	if index < len(c.animations) {
		c.table = c.table.WithHighlightedRow(index)
	}
}

func (c *Component) refreshTable() {
	rows := make([]btable.Row, 0, len(c.animations))
	for _, a := range c.animations {
		status := ""
		if c.statusProvider != nil {
			status = c.statusProvider.AnimationStatus(a.ID)
		}

		rows = append(rows, btable.NewRow(btable.RowData{
			columnKeyID:       a.ID,
			columnKeyName:     a.Name,
			columnKeySize:     a.SizeLabel(),
			columnKeyDuration: a.DurationLabel(),
			columnKeyStatus:   status,
		}))
	}

	c.table = c.table.WithRows(rows).Focused(c.focused)
}
