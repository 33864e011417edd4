package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D", "E", "F"}

func optionLabel(i int) string {
	if i < len(optionLabels) {
		return optionLabels[i]
	}
	return fmt.Sprint(i + 1)
}

// MultiChoice is the option picker for one question. Chosen is the text
// of the picked option, or nil when nothing is picked yet.
type MultiChoice struct {
	Question quiz.Question
	Cursor   int
	Chosen   *string
}

// NewMultiChoice creates a picker with the cursor on the chosen option, if any.
func NewMultiChoice(q quiz.Question, chosen *string) MultiChoice {
	m := MultiChoice{Question: q, Chosen: chosen}
	if chosen != nil {
		for i, o := range q.Options {
			if o.Text == *chosen {
				m.Cursor = i
				break
			}
		}
	}
	return m
}

// PickedMsg reports that an option was chosen.
type PickedMsg struct {
	QuestionID int64
	Text       string
}

// Update handles keyboard navigation and selection. Letter keys pick an
// option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.Question.Options)-1 {
			m.Cursor++
		}
		return m, nil
	case "enter", "space":
		return m.pick(m.Cursor)
	}

	for i := range m.Question.Options {
		if strings.EqualFold(key, optionLabel(i)) {
			m.Cursor = i
			return m.pick(i)
		}
	}
	return m, nil
}

func (m MultiChoice) pick(i int) (MultiChoice, tea.Cmd) {
	if i < 0 || i >= len(m.Question.Options) {
		return m, nil
	}
	text := m.Question.Options[i].Text
	m.Chosen = &text
	id := m.Question.ID
	return m, func() tea.Msg { return PickedMsg{QuestionID: id, Text: text} }
}

// View renders the question and its options for answering.
func (m MultiChoice) View(width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(m.Question.QuestionText))
	b.WriteString("\n\n")

	for i, opt := range m.Question.Options {
		marker := "○"
		if m.Chosen != nil && *m.Chosen == opt.Text {
			marker = "●"
		}
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, optionLabel(i), opt.Text)

		style := theme.Unselected
		if i == m.Cursor {
			style = theme.Selected
		}
		b.WriteString(style.Width(width).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// ReviewView renders a finished question: the student's answer marked
// right or wrong, and the correct answer.
func ReviewView(q quiz.Question, answer *string, width int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(width).Render(q.QuestionText))
	b.WriteString("\n")

	correct, _ := q.CorrectOption()
	if quiz.IsCorrect(q, answer) {
		b.WriteString(theme.Correct.Render("✓ Your answer: " + *answer))
		b.WriteString("\n")
		return b.String()
	}

	yours := "Not answered"
	if answer != nil {
		yours = *answer
	}
	b.WriteString(theme.Incorrect.Width(width).Render("✗ Your answer: " + yours))
	b.WriteString("\n")
	b.WriteString(theme.Correct.Width(width).Render("✓ Correct answer: " + correct.Text))
	b.WriteString("\n")
	return b.String()
}
