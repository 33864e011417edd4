// Package score shows a scored quiz, either just submitted or replayed from
// history, with per-question review and explanations.
package score

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emtquiz/internal/explain"
	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/session"
	"github.com/abhisek/emtquiz/internal/ui/layout"
)

// ExplainedMsg reports that an explanation request finished. The tracker
// already holds the outcome.
type ExplainedMsg struct {
	QuestionID int64
}

// ScoreScreen renders a quiz result. In the Completed phase it offers
// regenerate and new quiz; in the Reviewing phase it leads back to history.
type ScoreScreen struct {
	deps    *screen.Deps
	cursor  int
	spinner spinner.Model
}

var _ screen.Screen = (*ScoreScreen)(nil)
var _ screen.KeyHintProvider = (*ScoreScreen)(nil)

// New creates a ScoreScreen for the session's current result.
func New(deps *screen.Deps) *ScoreScreen {
	return &ScoreScreen{
		deps:    deps,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (s *ScoreScreen) Init() tea.Cmd {
	if s.busy() {
		return s.spinner.Tick
	}
	return nil
}

func (s *ScoreScreen) Title() string {
	if s.reviewing() {
		return "Review"
	}
	return "Results"
}

func (s *ScoreScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Question"}}
	if s.canExplain() {
		hints = append(hints, layout.KeyHint{Key: "e", Description: "Explain"})
	}
	if s.reviewing() {
		return append(hints, layout.KeyHint{Key: "b", Description: "Back to History"})
	}
	return append(hints,
		layout.KeyHint{Key: "r", Description: "Try Again"},
		layout.KeyHint{Key: "n", Description: "New Quiz"},
	)
}

// view is what the screen needs from either phase.
type view struct {
	title     string
	result    quiz.Result
	questions []quiz.Question
	answers   []*string
	topics    []string
	loading   bool
}

func (s *ScoreScreen) current() view {
	switch st := s.deps.Session.State().(type) {
	case session.Completed:
		return view{
			title:     st.Config.Title() + " Completed!",
			result:    st.Result,
			questions: st.Questions,
			answers:   st.Answers,
			topics:    st.Config.Topics,
			loading:   st.Regenerating,
		}
	case session.Reviewing:
		return view{
			title:     st.Result.Config().Title() + " Review",
			result:    st.Result,
			questions: st.Result.Questions,
			answers:   st.Result.UserAnswers,
			topics:    st.Result.Topics,
		}
	}
	return view{}
}

func (s *ScoreScreen) reviewing() bool {
	return s.deps.Session.Phase() == session.PhaseReviewing
}

// Cursor returns the index of the highlighted question.
func (s *ScoreScreen) Cursor() int { return s.cursor }

func (s *ScoreScreen) selected() (quiz.Question, *string, bool) {
	v := s.current()
	if s.cursor >= len(v.questions) {
		return quiz.Question{}, nil, false
	}
	var ans *string
	if s.cursor < len(v.answers) {
		ans = v.answers[s.cursor]
	}
	return v.questions[s.cursor], ans, true
}

// canExplain reports whether the highlighted question was answered wrongly
// and has no explanation request in flight.
func (s *ScoreScreen) canExplain() bool {
	q, ans, ok := s.selected()
	if !ok || quiz.IsCorrect(q, ans) {
		return false
	}
	return !s.deps.Tracker.IsLoading(q.ID)
}

// busy reports whether anything on screen is waiting on the provider.
func (s *ScoreScreen) busy() bool {
	v := s.current()
	if v.loading {
		return true
	}
	for _, q := range v.questions {
		if s.deps.Tracker.IsLoading(q.ID) {
			return true
		}
	}
	return false
}

func (s *ScoreScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !s.busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case ExplainedMsg:
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ScoreScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	v := s.current()
	switch msg.String() {
	case "up", "k", "shift+tab":
		if s.cursor > 0 {
			s.cursor--
		}
		return s, nil
	case "down", "j", "tab":
		if s.cursor < len(v.questions)-1 {
			s.cursor++
		}
		return s, nil
	case "e", "enter":
		return s, s.explain()
	}

	if s.reviewing() {
		switch msg.String() {
		case "b", "esc", "backspace":
			if err := s.deps.Session.BackToHistory(); err != nil {
				return s, nil
			}
			return s, screen.Sync
		}
		return s, nil
	}

	switch msg.String() {
	case "n":
		// Restart also strands a regenerate still in flight.
		s.deps.Session.Restart()
		return s, screen.Sync
	case "r":
		if v.loading {
			return s, nil
		}
		job, err := s.deps.Session.BeginRegenerate()
		if err != nil {
			return s, screen.Sync
		}
		return s, tea.Batch(s.deps.RunJob(job), s.spinner.Tick)
	}
	return s, nil
}

// explain starts an explanation request for the highlighted question. The
// tracker is marked loading before the command runs so a second press is
// refused straight away.
func (s *ScoreScreen) explain() tea.Cmd {
	if !s.canExplain() {
		return nil
	}
	q, ans, _ := s.selected()
	req := explain.Request{Question: q, Chosen: ans, Topics: s.current().topics}
	s.deps.Tracker.Begin(q.ID)

	explainer, tracker := s.deps.Explainer, s.deps.Tracker
	fetch := func() tea.Msg {
		explainer.Fetch(context.Background(), tracker, req)
		return ExplainedMsg{QuestionID: q.ID}
	}
	return tea.Batch(fetch, s.spinner.Tick)
}
