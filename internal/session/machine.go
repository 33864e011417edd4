// Package session drives a quiz from configuration through answering,
// scoring and review.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/emtquiz/internal/llm"
	"github.com/abhisek/emtquiz/internal/questiongen"
	"github.com/abhisek/emtquiz/internal/quiz"
)

var errEmptyBatch = errors.New("generator returned no questions")

// HistoryLog is the subset of the history store the machine needs.
type HistoryLog interface {
	Results() []quiz.Result
	Get(id int64) (quiz.Result, bool)
	Append(ctx context.Context, r quiz.Result) error
	Clear(ctx context.Context) error
}

// TopicReset restores the knowledge base to its built-in topics.
type TopicReset interface {
	Reset(ctx context.Context) error
}

// JobKind says what a generation job is for.
type JobKind int

const (
	JobStart JobKind = iota
	JobRegenerate
)

func (k JobKind) String() string {
	if k == JobRegenerate {
		return "regenerate"
	}
	return "start"
}

// Job is a pending generation request. Token ties it to the machine state
// that issued it.
type Job struct {
	Token     uint64
	Kind      JobKind
	SessionID string
	Config    quiz.Config
	Request   questiongen.Request
}

// Outcome is the result of running a Job.
type Outcome struct {
	Job       Job
	Questions []quiz.Question
	Err       error
}

// Machine owns the session state. Its methods must be called from a single
// goroutine (the UI event loop); only Run may be called elsewhere.
type Machine struct {
	gen     questiongen.Generator
	history HistoryLog
	topics  TopicReset
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	state     State
	token     uint64
	sessionID string
}

// New returns a machine in the NotStarted state.
func New(gen questiongen.Generator, history HistoryLog, topics TopicReset, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		gen:     gen,
		history: history,
		topics:  topics,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
		state:   NotStarted{},
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.state.Phase() }

// SessionID returns the id of the current question set, or "" when none
// has been requested since the last restart.
func (m *Machine) SessionID() string { return m.sessionID }

// Loading reports whether a generation job is outstanding.
func (m *Machine) Loading() bool {
	switch s := m.state.(type) {
	case NotStarted:
		return s.Loading
	case Completed:
		return s.Regenerating
	}
	return false
}

// BeginStart validates the configuration and moves to a loading NotStarted
// state. A start issued while another is loading supersedes it.
func (m *Machine) BeginStart(cfg quiz.Config, count int) (Job, error) {
	if _, ok := m.state.(NotStarted); !ok {
		return Job{}, m.illegal("start a quiz")
	}

	req := questiongen.Request{
		QuestionType: cfg.QuestionType,
		Difficulty:   cfg.Difficulty,
		Count:        count,
		Topics:       slices.Clone(cfg.Topics),
	}
	if err := questiongen.ValidateRequest(req); err != nil {
		m.token++
		m.state = NotStarted{Error: failureMessage(JobStart, err)}
		return Job{}, err
	}

	return m.begin(JobStart, cfg.Clone(), req), nil
}

// BeginRegenerate requests a fresh batch with the completed quiz's
// configuration and size, excluding its questions.
func (m *Machine) BeginRegenerate() (Job, error) {
	c, ok := m.state.(Completed)
	if !ok {
		return Job{}, m.illegal("regenerate")
	}
	if len(c.Questions) == 0 {
		m.Restart()
		return Job{}, &quiz.ValidationError{Message: "There is no quiz to regenerate."}
	}

	req := questiongen.Request{
		QuestionType: c.Config.QuestionType,
		Difficulty:   c.Config.Difficulty,
		Count:        len(c.Questions),
		Topics:       slices.Clone(c.Config.Topics),
		Previous:     quiz.CloneQuestions(c.Questions),
	}
	job := m.begin(JobRegenerate, c.Config.Clone(), req)
	c.Regenerating = true
	m.state = c
	return job, nil
}

func (m *Machine) begin(kind JobKind, cfg quiz.Config, req questiongen.Request) Job {
	m.token++
	m.sessionID = m.newID()
	if kind == JobStart {
		m.state = NotStarted{Loading: true}
	}
	m.logger.Debug("generation requested",
		"session_id", m.sessionID,
		"kind", kind,
		"count", req.Count,
		"topics", len(req.Topics),
	)
	return Job{
		Token:     m.token,
		Kind:      kind,
		SessionID: m.sessionID,
		Config:    cfg,
		Request:   req,
	}
}

// Run calls the generator for job. It touches no machine state and is safe
// to call from any goroutine.
func (m *Machine) Run(ctx context.Context, job Job) Outcome {
	ctx = llm.WithSession(ctx, job.SessionID)
	qs, err := m.gen.Generate(ctx, job.Request)
	if err == nil && len(qs) == 0 {
		err = &quiz.ProviderError{Op: "generate questions", Err: errEmptyBatch}
	}
	return Outcome{Job: job, Questions: qs, Err: err}
}

// Complete applies o if it belongs to the most recent job and reports
// whether it did. Outcomes superseded by a later start, a restart or
// navigation are dropped.
func (m *Machine) Complete(o Outcome) bool {
	if o.Job.Token != m.token || !m.Loading() {
		m.logger.Debug("discarding stale generation outcome",
			"session_id", o.Job.SessionID,
			"token", o.Job.Token,
			"current", m.token,
		)
		return false
	}

	if o.Err != nil {
		m.logger.Warn("question generation failed",
			"session_id", o.Job.SessionID,
			"kind", o.Job.Kind,
			"error", o.Err,
		)
		// A failed regenerate falls back to a full restart.
		m.reset()
		m.state = NotStarted{Error: failureMessage(o.Job.Kind, o.Err)}
		return true
	}

	m.state = InProgress{
		Config:    o.Job.Config,
		Questions: o.Questions,
		Answers:   make([]*string, len(o.Questions)),
	}
	m.logger.Info("quiz started",
		"session_id", o.Job.SessionID,
		"questions", len(o.Questions),
		"difficulty", o.Job.Config.Difficulty,
		"type", o.Job.Config.QuestionType,
	)
	return true
}

// Start runs BeginStart, Run and Complete in sequence.
func (m *Machine) Start(ctx context.Context, cfg quiz.Config, count int) error {
	job, err := m.BeginStart(cfg, count)
	if err != nil {
		return err
	}
	o := m.Run(ctx, job)
	m.Complete(o)
	return o.Err
}

// Regenerate runs BeginRegenerate, Run and Complete in sequence.
func (m *Machine) Regenerate(ctx context.Context) error {
	job, err := m.BeginRegenerate()
	if err != nil {
		return err
	}
	o := m.Run(ctx, job)
	m.Complete(o)
	return o.Err
}

// Answer records text as the answer to question i, replacing any earlier
// answer.
func (m *Machine) Answer(i int, text string) error {
	s, ok := m.state.(InProgress)
	if !ok {
		return m.illegal("answer")
	}
	if i < 0 || i >= len(s.Questions) {
		return &quiz.ValidationError{Field: "answer", Message: fmt.Sprintf("question %d does not exist", i+1)}
	}
	answers := quiz.CloneAnswers(s.Answers)
	answers[i] = &text
	s.Answers = answers
	m.state = s
	return nil
}

// Progress returns the number of answered questions and the total. Both are
// zero outside InProgress.
func (m *Machine) Progress() (answered, total int) {
	s, ok := m.state.(InProgress)
	if !ok {
		return 0, 0
	}
	for _, a := range s.Answers {
		if a != nil {
			answered++
		}
	}
	return answered, len(s.Questions)
}

// AllAnswered reports whether every question has an answer.
func (m *Machine) AllAnswered() bool {
	answered, total := m.Progress()
	return total > 0 && answered == total
}

// Submit scores the quiz, records the result in history and moves to
// Completed. Unanswered questions count as wrong. A history write failure
// is logged; the result is still returned and shown.
func (m *Machine) Submit(ctx context.Context) (quiz.Result, error) {
	s, ok := m.state.(InProgress)
	if !ok {
		return quiz.Result{}, m.illegal("submit")
	}

	result := quiz.NewResult(s.Config, s.Questions, s.Answers, m.now())
	if err := m.history.Append(ctx, result); err != nil {
		m.logger.Warn("failed to save quiz history", "session_id", m.sessionID, "error", err)
	}

	m.state = Completed{
		Config:    s.Config,
		Questions: s.Questions,
		Answers:   s.Answers,
		Result:    result,
	}
	m.logger.Info("quiz submitted",
		"session_id", m.sessionID,
		"score", result.Score,
		"total", result.TotalQuestions,
		"percentage", result.Percentage,
	)
	return result, nil
}

// Restart abandons everything and returns to a clean NotStarted. Any
// outstanding job becomes stale. Restart is valid in every state.
func (m *Machine) Restart() {
	m.reset()
	m.state = NotStarted{}
}

func (m *Machine) reset() {
	m.token++
	m.sessionID = ""
}

// ViewHistory moves to the history list. From a loading NotStarted it
// abandons the pending start.
func (m *Machine) ViewHistory() error {
	switch m.state.(type) {
	case NotStarted, Reviewing:
	default:
		return m.illegal("view history")
	}
	m.token++
	m.state = Browsing{History: m.history.Results()}
	return nil
}

// Review opens the stored result with the given id read-only.
func (m *Machine) Review(id int64) error {
	if _, ok := m.state.(Browsing); !ok {
		return m.illegal("review")
	}
	r, ok := m.history.Get(id)
	if !ok {
		return &quiz.ValidationError{Field: "id", Message: fmt.Sprintf("no quiz result with id %d", id)}
	}
	m.state = Reviewing{Result: r}
	return nil
}

// BackToHistory leaves a review.
func (m *Machine) BackToHistory() error {
	if _, ok := m.state.(Reviewing); !ok {
		return m.illegal("go back to history")
	}
	m.state = Browsing{History: m.history.Results()}
	return nil
}

// Home leaves the history list for the start screen.
func (m *Machine) Home() error {
	if _, ok := m.state.(Browsing); !ok {
		return m.illegal("go home")
	}
	m.state = NotStarted{}
	return nil
}

// ClearData deletes all history and custom topics. The caller is
// responsible for confirming with the user first. In-memory data is cleared
// even when storage fails; the storage error is returned.
func (m *Machine) ClearData(ctx context.Context) error {
	if _, ok := m.state.(Browsing); !ok {
		return m.illegal("clear data")
	}

	err := errors.Join(m.history.Clear(ctx), m.topics.Reset(ctx))
	next := Browsing{History: m.history.Results()}
	if err != nil {
		m.logger.Warn("failed to clear app data", "error", err)
		next.Error = "Could not clear history and topics. Please try again."
	}
	m.state = next
	return err
}

func (m *Machine) illegal(event string) error {
	return &TransitionError{From: m.state.Phase(), Event: event}
}

func failureMessage(kind JobKind, err error) string {
	prefix := "Failed to start."
	if kind == JobRegenerate {
		prefix = "Failed to regenerate."
	}
	return prefix + " " + quiz.UserMessage(err)
}
