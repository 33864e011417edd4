package session

import (
	"fmt"

	"github.com/abhisek/emtquiz/internal/quiz"
)

// Phase names a session state.
type Phase string

const (
	PhaseNotStarted Phase = "not-started"
	PhaseInProgress Phase = "in-progress"
	PhaseCompleted  Phase = "completed"
	PhaseReviewing  Phase = "reviewing"
	PhaseHistory    Phase = "history"
)

// State is one of NotStarted, InProgress, Completed, Reviewing or Browsing.
// Values are snapshots: the machine never mutates a State it has handed out.
type State interface {
	Phase() Phase
	isState()
}

// NotStarted is the configuration screen. Loading is set while a start
// request is in flight; Error carries the last failure for display.
type NotStarted struct {
	Loading bool
	Error   string
}

// InProgress holds the active question set and one answer slot per question.
type InProgress struct {
	Config    quiz.Config
	Questions []quiz.Question
	Answers   []*string
}

// Completed holds a submitted quiz and its result. Regenerating is set
// while a replacement batch is in flight.
type Completed struct {
	Config       quiz.Config
	Questions    []quiz.Question
	Answers      []*string
	Result       quiz.Result
	Regenerating bool
}

// Reviewing is a read-only replay of a stored result.
type Reviewing struct {
	Result quiz.Result
}

// Browsing lists stored results, most recent first.
type Browsing struct {
	History []quiz.Result
	Error   string
}

func (NotStarted) Phase() Phase { return PhaseNotStarted }
func (InProgress) Phase() Phase { return PhaseInProgress }
func (Completed) Phase() Phase  { return PhaseCompleted }
func (Reviewing) Phase() Phase  { return PhaseReviewing }
func (Browsing) Phase() Phase   { return PhaseHistory }

func (NotStarted) isState() {}
func (InProgress) isState() {}
func (Completed) isState()  {}
func (Reviewing) isState()  {}
func (Browsing) isState()   {}

// TransitionError reports an event that is not valid in the current phase.
type TransitionError struct {
	From  Phase
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Event, e.From)
}
