package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/ui/theme"
)

// AnswerBar shows how many questions of a quiz have an answer. The bar
// is followed by an "answered/total" count.
type AnswerBar struct {
	Answered int
	Total    int
	Width    int
}

// NewAnswerBar creates a bar for answered of total questions.
func NewAnswerBar(answered, total, width int) AnswerBar {
	return AnswerBar{Answered: answered, Total: total, Width: width}
}

// Fraction returns the answered share in [0, 1]. An empty quiz is 0.
func (a AnswerBar) Fraction() float64 {
	if a.Total <= 0 {
		return 0
	}
	return min(max(float64(a.Answered)/float64(a.Total), 0), 1)
}

// View renders the bar.
func (a AnswerBar) View() string {
	count := fmt.Sprintf(" %d/%d", max(a.Answered, 0), max(a.Total, 0))
	cells := max(a.Width-lipgloss.Width(count), 4)

	filled := int(float64(cells) * a.Fraction())
	if a.Total > 0 && a.Answered >= a.Total {
		filled = cells
	}

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", cells-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(count)
}
