package components

import (
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

// Button is a styled button. An inactive button renders dimmed and ignores
// presses.
type Button struct {
	Label   string
	Active  bool
	Focused bool
}

// NewButton creates a new button.
func NewButton(label string, active bool) Button {
	return Button{Label: label, Active: active}
}

// View renders the button.
func (b Button) View() string {
	label := b.Label
	if b.Focused {
		label = "▸ " + label
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
