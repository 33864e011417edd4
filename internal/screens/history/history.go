// Package history lists past quiz results and leads into their review.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/session"
	"github.com/abhisek/emtquiz/internal/ui/components"
	"github.com/abhisek/emtquiz/internal/ui/layout"
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

const clearPrompt = "Are you sure you want to clear all quiz history and custom topics? This action cannot be undone."

// HistoryScreen displays stored results, most recent first.
type HistoryScreen struct {
	deps     *screen.Deps
	selected int
	expanded map[int64]bool
	confirm  components.Confirm
	now      func() time.Time
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)
var _ screen.InputCapturer = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(deps *screen.Deps) *HistoryScreen {
	return &HistoryScreen{
		deps:     deps,
		expanded: make(map[int64]bool),
		now:      time.Now,
	}
}

func (s *HistoryScreen) Init() tea.Cmd { return nil }

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) CapturingInput() bool { return s.confirm.Open }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.confirm.Open {
		return []layout.KeyHint{{Key: "y", Description: "Clear everything"}, {Key: "n", Description: "Cancel"}}
	}
	hints := []layout.KeyHint{{Key: "Esc", Description: "Back to Start"}}
	if len(s.results()) > 0 {
		hints = append([]layout.KeyHint{
			{Key: "Enter", Description: "Review"},
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Space", Description: "Details"},
		}, hints...)
		hints = append(hints, layout.KeyHint{Key: "c", Description: "Clear All App Data"})
	}
	return hints
}

func (s *HistoryScreen) state() session.Browsing {
	st, _ := s.deps.Session.State().(session.Browsing)
	return st
}

func (s *HistoryScreen) results() []quiz.Result {
	return s.state().History
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.confirm.Open {
		if s.confirm.Update(kmsg) == components.ConfirmYes {
			// A storage failure shows up as the Browsing error banner.
			_ = s.deps.Session.ClearData(context.Background())
			s.selected = 0
			s.deps.Tracker.Reset()
		}
		return s, nil
	}

	results := s.results()
	switch kmsg.String() {
	case "esc", "b", "backspace":
		if err := s.deps.Session.Home(); err != nil {
			return s, nil
		}
		return s, screen.Sync
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(results)-1 {
			s.selected++
		}
	case "space":
		if s.selected < len(results) {
			id := results[s.selected].ID
			s.expanded[id] = !s.expanded[id]
		}
	case "enter":
		if s.selected < len(results) {
			if err := s.deps.Session.Review(results[s.selected].ID); err != nil {
				return s, nil
			}
			return s, screen.Sync
		}
	case "c":
		if len(results) > 0 {
			s.confirm.Ask(clearPrompt)
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	st := s.state()

	var b strings.Builder
	b.WriteString(theme.Title.Render("Quiz History"))
	b.WriteString("\n\n")

	if st.Error != "" {
		b.WriteString(components.Banner(st.Error, cw, theme.Error))
		b.WriteString("\n\n")
	}

	if len(st.History) == 0 {
		empty := lipgloss.JoinVertical(lipgloss.Center,
			theme.Subtitle.Render("No quizzes completed yet."),
			theme.Hint.Render("Your past quiz results will appear here."),
		)
		b.WriteString(components.Panel(layout.Center(empty, cw-4), cw, nil))
		return b.String()
	}

	stats := s.deps.History.Stats()
	b.WriteString(theme.Hint.Render(fmt.Sprintf("%d quizzes · average %d%% · best %d%%",
		stats.Attempts, stats.AveragePercentage, stats.BestPercentage)))
	b.WriteString("\n\n")

	// Keep the selection in view.
	rows := max((height-10)/2, 3)
	first := 0
	if s.selected >= rows {
		first = s.selected - rows + 1
	}
	last := min(first+rows, len(st.History))

	for i := first; i < last; i++ {
		b.WriteString(s.row(st.History[i], i == s.selected, cw))
		b.WriteString("\n")
	}
	if last < len(st.History) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("… %d older", len(st.History)-last)))
		b.WriteString("\n")
	}

	if s.confirm.Open {
		b.WriteString("\n")
		b.WriteString(s.confirm.View(cw))
	}
	return b.String()
}

func (s *HistoryScreen) row(r quiz.Result, selected bool, cw int) string {
	title := fmt.Sprintf("%s %s Quiz - %s", r.Difficulty, r.QuestionType, s.when(r.Date))
	score := lipgloss.NewStyle().Foreground(theme.BandColor(quiz.BandFor(r.Percentage))).Bold(true).
		Render(fmt.Sprintf("%d/%d (%d%%)", r.Score, r.TotalQuestions, r.Percentage))

	titleStyle := theme.Unselected
	prefix := "  "
	if selected {
		titleStyle = theme.Selected
		prefix = "▸ "
	}
	line := titleStyle.Render(prefix+title) + "\n" + "  " + theme.Body.Render("Score: ") + score

	if s.expanded[r.ID] {
		line += "\n" + theme.Hint.Width(cw-4).Render("  Topics: "+strings.Join(r.Topics, ", "))
	}
	return line
}

// when renders a stored date as local time with a relative hint.
func (s *HistoryScreen) when(date string) string {
	t, err := time.Parse(quiz.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM") + " (" + humanize.RelTime(t, s.now(), "ago", "from now") + ")"
}
