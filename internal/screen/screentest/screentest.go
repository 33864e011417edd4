// Package screentest provides fixtures for screen tests.
package screentest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/emtquiz/internal/explain"
	"github.com/abhisek/emtquiz/internal/history"
	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/llm"
	"github.com/abhisek/emtquiz/internal/questiongen"
	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/screen"
	"github.com/abhisek/emtquiz/internal/session"
	"github.com/abhisek/emtquiz/internal/store"
)

// Generator returns req.Count questions whose correct option is always
// "right". Set Err to make every call fail.
type Generator struct {
	mu       sync.Mutex
	Requests []questiongen.Request
	Err      error
}

func (g *Generator) Generate(_ context.Context, req questiongen.Request) ([]quiz.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Requests = append(g.Requests, req)
	if g.Err != nil {
		return nil, g.Err
	}
	qs := make([]quiz.Question, req.Count)
	for i := range qs {
		qs[i] = quiz.Question{
			ID:           int64(len(g.Requests)*100 + i),
			QuestionText: fmt.Sprintf("Question %d?", i+1),
			Options: []quiz.QuestionOption{
				{Text: "right", IsCorrect: true},
				{Text: "wrong a"},
				{Text: "wrong b"},
				{Text: "wrong c"},
			},
			Difficulty: req.Difficulty,
		}
	}
	return qs, nil
}

// Fixture bundles Deps with the fakes behind them.
type Fixture struct {
	Deps     *screen.Deps
	KV       *store.MemoryKV
	Gen      *Generator
	Provider *llm.MockProvider
}

// New returns a Fixture backed by in-memory storage.
func New() *Fixture {
	kv := store.NewMemoryKV()
	gen := &Generator{}
	provider := llm.NewMockProvider()
	topics := knowledge.New(kv, nil)
	hist := history.New(kv, nil)
	return &Fixture{
		KV:       kv,
		Gen:      gen,
		Provider: provider,
		Deps: &screen.Deps{
			Session:   session.New(gen, hist, topics, nil),
			Topics:    topics,
			History:   hist,
			Explainer: explain.NewService(provider, topics, explain.DefaultConfig(), nil),
			Tracker:   explain.NewTracker(),
			Logger:    slog.New(slog.DiscardHandler),
		},
	}
}

// Config is an easy knowledge-based quiz over the first built-in topic.
func Config() quiz.Config {
	return quiz.Config{
		Topics:       []string{knowledge.Builtins()[0].Name},
		QuestionType: quiz.QuestionTypeKnowledge,
		Difficulty:   quiz.DifficultyEasy,
	}
}

// StartQuiz drives the session into progress with count questions.
func (f *Fixture) StartQuiz(count int) {
	if err := f.Deps.Session.Start(context.Background(), Config(), count); err != nil {
		panic(err)
	}
}

// Complete answers every question, getting the first correct answers right
// and the rest wrong, then submits.
func (f *Fixture) Complete(correct int) quiz.Result {
	_, total := f.Deps.Session.Progress()
	for i := range total {
		ans := "wrong a"
		if i < correct {
			ans = "right"
		}
		if err := f.Deps.Session.Answer(i, ans); err != nil {
			panic(err)
		}
	}
	r, err := f.Deps.Session.Submit(context.Background())
	if err != nil {
		panic(err)
	}
	return r
}

// Key builds a key press for a printable rune.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special builds a key press for a non-printable key such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Collect runs cmd and any batched commands it returns and gathers the
// messages. Only pass commands known to return promptly.
func Collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
