package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Gradient blends between two colors in Lab space
type Gradient struct {
	start colorful.Color
	end   colorful.Color
}

// NewGradient parses two hex colors
func NewGradient(startHex, endHex string) (Gradient, error) {
	start, err := colorful.Hex(startHex)
	if err != nil {
		return Gradient{}, err
	}
	end, err := colorful.Hex(endHex)
	if err != nil {
		return Gradient{}, err
	}
	return Gradient{start: start, end: end}, nil
}

// HeaderGradient is the gradient for the current palette
func (m *Manager) HeaderGradient() Gradient {
	g, err := NewGradient(m.colors.GradientStart, m.colors.GradientEnd)
	if err != nil {
		return Gradient{start: colorful.Color{R: 0.4, G: 0.5, B: 0.9}, end: colorful.Color{R: 0.46, G: 0.29, B: 0.64}}
	}
	return g
}

// At returns the hex color at position t in [0, 1]
func (g Gradient) At(t float64) string {
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return g.start.BlendLab(g.end, t).Clamped().Hex()
}

// Steps returns n evenly spaced colors from start to end
func (g Gradient) Steps(n int) []string {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []string{g.At(0)}
	}
	colors := make([]string, n)
	for i := range colors {
		colors[i] = g.At(float64(i) / float64(n-1))
	}
	return colors
}

// Render colors text one rune at a time along the gradient
func (g Gradient) Render(text string, bold bool) string {
	runes := []rune(text)
	colors := g.Steps(len(runes))

	var b strings.Builder
	for i, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colors[i])).Bold(bold)
		b.WriteString(style.Render(string(r)))
	}
	return b.String()
}
