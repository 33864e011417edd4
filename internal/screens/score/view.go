package score

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/ui/components"
	"github.com/abhisek/emtquiz/internal/ui/layout"
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

func (s *ScoreScreen) View(width, height int) string {
	v := s.current()
	cw := components.ContentWidth(width)

	band := quiz.BandFor(v.result.Percentage)
	pct := lipgloss.NewStyle().Bold(true).Foreground(theme.BandColor(band)).
		Render(fmt.Sprintf("%d%%", v.result.Percentage))

	var head strings.Builder
	head.WriteString(theme.Title.Render(v.title))
	head.WriteString("\n\n")
	head.WriteString(layout.Center(pct, cw-2))
	head.WriteString("\n")
	head.WriteString(layout.Center(theme.Body.Bold(true).Render(
		fmt.Sprintf("You scored %d out of %d", v.result.Score, len(v.questions))), cw-2))
	if v.loading {
		head.WriteString("\n\n")
		head.WriteString(s.spinner.View() + " " + theme.Body.Render("Generating a fresh set of questions..."))
	}

	var b strings.Builder
	b.WriteString(components.Panel(head.String(), cw, theme.BandColor(band)))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Review Your Answers"))
	b.WriteString("\n")

	// Show a window of questions around the cursor. The highlighted card
	// carries its explanation, so it gets most of the space.
	budget := max(height-14, 6)
	used := 0
	for i := s.cursor; i < len(v.questions) && used < budget; i++ {
		card := s.card(v, i, cw)
		b.WriteString(card)
		b.WriteString("\n")
		used += lipgloss.Height(card)
	}
	if s.cursor > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("↑ %d earlier", s.cursor)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ScoreScreen) card(v view, i, cw int) string {
	q := v.questions[i]
	var ans *string
	if i < len(v.answers) {
		ans = v.answers[i]
	}
	correct := quiz.IsCorrect(q, ans)

	numbered := q
	numbered.QuestionText = fmt.Sprintf("%d. %s", i+1, q.QuestionText)

	var b strings.Builder
	b.WriteString(components.ReviewView(numbered, ans, cw-4))

	if i == s.cursor && !correct {
		st, ok := s.deps.Tracker.State(q.ID)
		switch {
		case ok && st.Loading:
			b.WriteString("\n" + s.spinner.View() + " " + theme.Hint.Render("Explaining..."))
		case ok && st.Err != "":
			b.WriteString("\n" + components.Banner(st.Err, cw-4, theme.Error))
		case ok && st.Text != "":
			b.WriteString("\n" + theme.Subtitle.Render("AI Explanation") + "\n")
			b.WriteString(theme.Body.Render(layout.Wrap(st.Text, cw-4)))
		default:
			b.WriteString("\n" + theme.Hint.Render("Press e to explain this answer."))
		}
	}

	accent := theme.Error
	if correct {
		accent = theme.Success
	}
	if i == s.cursor {
		accent = theme.Primary
	}
	return components.Panel(b.String(), cw, accent)
}
