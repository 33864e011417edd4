// Package play implements the screen for answering an in-progress quiz.
package play

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/session"
	"github.com/abhisek/emtquiz/internal/ui/components"
	"github.com/abhisek/emtquiz/internal/ui/layout"
	"github.com/abhisek/emtquiz/internal/ui/theme"
)

const submitHint = "Please answer all questions to submit."

// PlayScreen shows one question at a time with a navigator across the set.
type PlayScreen struct {
	deps    *screen.Deps
	current int
	choice  components.MultiChoice
	confirm components.Confirm
	notice  string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.InputCapturer = (*PlayScreen)(nil)

// New creates a PlayScreen positioned on the first question.
func New(deps *screen.Deps) *PlayScreen {
	s := &PlayScreen{deps: deps}
	s.load()
	return s
}

func (s *PlayScreen) Init() tea.Cmd { return nil }

func (s *PlayScreen) Title() string { return "Quiz" }

func (s *PlayScreen) CapturingInput() bool { return s.confirm.Open }

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	if s.confirm.Open {
		return []layout.KeyHint{{Key: "y", Description: "Abandon"}, {Key: "n", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "A-D", Description: "Answer"},
		{Key: "←→", Description: "Question"},
		{Key: "s", Description: "Submit"},
		{Key: "Esc", Description: "Abandon"},
	}
}

func (s *PlayScreen) state() session.InProgress {
	st, _ := s.deps.Session.State().(session.InProgress)
	return st
}

// Current returns the index of the question on screen.
func (s *PlayScreen) Current() int { return s.current }

// load rebuilds the picker for the current question from session state.
func (s *PlayScreen) load() {
	st := s.state()
	if len(st.Questions) == 0 {
		s.choice = components.MultiChoice{}
		return
	}
	s.current = min(max(s.current, 0), len(st.Questions)-1)
	var chosen *string
	if s.current < len(st.Answers) {
		chosen = st.Answers[s.current]
	}
	s.choice = components.NewMultiChoice(st.Questions[s.current], chosen)
}

func (s *PlayScreen) goTo(i int) {
	s.current = i
	s.notice = ""
	s.load()
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.PickedMsg:
		return s, s.record(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PlayScreen) record(msg components.PickedMsg) tea.Cmd {
	st := s.state()
	if s.current >= len(st.Questions) || st.Questions[s.current].ID != msg.QuestionID {
		return nil
	}
	if err := s.deps.Session.Answer(s.current, msg.Text); err != nil {
		s.deps.Logger.Warn("failed to record answer", "error", err)
		return nil
	}
	s.notice = ""
	if s.current < len(st.Questions)-1 {
		s.goTo(s.current + 1)
	} else {
		s.load()
	}
	return nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.confirm.Open {
		if s.confirm.Update(msg) == components.ConfirmYes {
			s.deps.Session.Restart()
			return s, screen.Sync
		}
		return s, nil
	}

	total := len(s.state().Questions)
	switch msg.String() {
	case "left", "p":
		if s.current > 0 {
			s.goTo(s.current - 1)
		}
		return s, nil
	case "right", "n", "tab":
		if s.current < total-1 {
			s.goTo(s.current + 1)
		}
		return s, nil
	case "home":
		s.goTo(0)
		return s, nil
	case "end":
		s.goTo(total - 1)
		return s, nil
	case "s":
		return s, s.submit()
	case "esc":
		s.confirm.Ask("Abandon this quiz? Your answers will be lost.")
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

func (s *PlayScreen) submit() tea.Cmd {
	if !s.deps.Session.AllAnswered() {
		s.notice = submitHint
		return nil
	}
	if _, err := s.deps.Session.Submit(context.Background()); err != nil {
		s.deps.Logger.Error("submit failed", "error", err)
		return nil
	}
	return screen.Sync
}

func (s *PlayScreen) View(width, height int) string {
	st := s.state()
	cw := components.ContentWidth(width)
	answered, total := s.deps.Session.Progress()

	var b strings.Builder
	b.WriteString(theme.Title.Render(st.Config.Title()))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Answered %d of %d", answered, total)))
	b.WriteString("\n\n")

	b.WriteString(components.NewAnswerBar(answered, total, cw).View())
	b.WriteString("\n\n")
	b.WriteString(s.navigator(st))
	b.WriteString("\n\n")

	if total > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Question %d of %d", s.current+1, total)))
		b.WriteString("\n")
		b.WriteString(s.choice.View(cw - 4))
		b.WriteString("\n")
	}

	btn := components.NewButton("Submit Answers", answered == total && total > 0)
	b.WriteString(btn.View())
	switch {
	case s.confirm.Open:
		b.WriteString("\n\n")
		b.WriteString(s.confirm.View(cw))
	case s.notice != "":
		b.WriteString("\n\n")
		b.WriteString(components.Banner(s.notice, cw, theme.Warning))
	case answered < total:
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(submitHint))
	}

	return components.Panel(b.String(), cw, theme.Primary)
}

// navigator renders one cell per question: a check when answered, the
// question number otherwise. The current question is bracketed.
func (s *PlayScreen) navigator(st session.InProgress) string {
	cells := make([]string, len(st.Questions))
	for i := range st.Questions {
		label := fmt.Sprint(i + 1)
		style := theme.Unselected
		if i < len(st.Answers) && st.Answers[i] != nil {
			label = "✓"
			style = theme.Correct
		}
		if i == s.current {
			label = "[" + label + "]"
			style = style.Bold(true).Underline(true)
		} else {
			label = " " + label + " "
		}
		cells[i] = style.Render(label)
	}
	return strings.Join(cells, " ")
}
