package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/ui/theme"
)

// Confirm is a Y/N prompt for irreversible actions.
type Confirm struct {
	Prompt string
	Open   bool
}

// ConfirmResult is returned by Confirm.Update once the user answers.
type ConfirmResult int

const (
	ConfirmPending ConfirmResult = iota
	ConfirmYes
	ConfirmNo
)

// Ask opens the prompt.
func (c *Confirm) Ask(prompt string) {
	c.Prompt = prompt
	c.Open = true
}

// Update consumes a key press while the prompt is open. Anything other than
// y, n or esc is ignored.
func (c *Confirm) Update(msg tea.Msg) ConfirmResult {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !c.Open {
		return ConfirmPending
	}
	switch kmsg.String() {
	case "y", "Y":
		c.Open = false
		return ConfirmYes
	case "n", "N", "esc":
		c.Open = false
		return ConfirmNo
	}
	return ConfirmPending
}

// View renders the prompt.
func (c Confirm) View(width int) string {
	if !c.Open {
		return ""
	}
	return lipgloss.NewStyle().
		Width(width).
		Foreground(theme.Warning).
		Bold(true).
		Render(c.Prompt + "  [y/N]")
}
