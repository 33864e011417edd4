package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for screen panels so
// that stacked panels line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 80)
}

// Panel wraps content in a rounded-border card at the given content width.
// A nil accent uses the theme border color.
func Panel(content string, cw int, accent color.Color) string {
	if accent == nil {
		accent = theme.Border
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Width(cw).
		Padding(0, 1).
		Render(content)
}

// Banner renders a full-width message line, used for errors and notices.
func Banner(msg string, cw int, fg color.Color) string {
	return lipgloss.NewStyle().
		Width(cw).
		Foreground(fg).
		Bold(true).
		Render(msg)
}
