// Package tui is the interactive catalog browser.
package tui

import (
	"lottie-catalog/tui/controller"

	tea "github.com/charmbracelet/bubbletea"
)

// Model adapts the controller to tea.Model
type Model struct {
	controller *controller.Controller
}

// New creates the root model
func New(deps controller.Dependencies) Model {
	return Model{controller: controller.New(deps)}
}

func (m Model) Init() tea.Cmd {
	return m.controller.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	c, cmd := m.controller.Update(msg)
	m.controller = c
	return m, cmd
}

func (m Model) View() string {
	return m.controller.View()
}
