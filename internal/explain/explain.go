// Package explain fetches tutor-style explanations for answered questions.
package explain

import (
	"context"
	"errors"
	"log/slog"

	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/llm"
	"github.com/abhisek/emtquiz/internal/quiz"
)

// FailureMessage is shown in place of an explanation whenever fetching fails.
const FailureMessage = "Failed to load explanation. Please try again."

var errEmptyExplanation = errors.New("empty explanation")

// TopicResolver supplies the knowledge context for a set of topic names.
type TopicResolver interface {
	Resolve(names []string) []knowledge.Topic
}

// Request identifies what to explain.
type Request struct {
	Question quiz.Question
	// Chosen is the student's answer; nil means not answered.
	Chosen *string
	// Topics are the topic names the quiz was generated from.
	Topics []string
}

// Config holds generation parameters for explanations.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.4,
	}
}

// Service produces explanations through an LLM provider.
type Service struct {
	provider llm.Provider
	topics   TopicResolver
	cfg      Config
	logger   *slog.Logger
}

// NewService creates an explanation service.
func NewService(provider llm.Provider, topics TopicResolver, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{provider: provider, topics: topics, cfg: cfg, logger: logger}
}

// Explain asks the provider why the correct option is right and, when the
// student chose differently, why their choice is wrong. The reply is free
// text. Any failure, including an empty reply, is a *quiz.ProviderError.
func (s *Service) Explain(ctx context.Context, req Request) (string, error) {
	ctx = llm.WithPurpose(ctx, "explanation")

	msg, err := buildExplainMessage(req, s.topics.Resolve(req.Topics))
	if err != nil {
		return "", &quiz.ProviderError{Op: "build explanation prompt", Err: err}
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      explainSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", &quiz.ProviderError{Op: "explain", Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &quiz.ProviderError{Op: "explain", Err: errEmptyExplanation}
	}
	return text, nil
}

// Fetch runs one explanation request against tracker: it marks the question
// loading, calls Explain and records the outcome. The returned State is the
// one Fetch recorded, which may already have been overwritten by a newer
// request for the same question.
func (s *Service) Fetch(ctx context.Context, tracker *Tracker, req Request) State {
	id := req.Question.ID
	tracker.Begin(id)

	text, err := s.Explain(ctx, req)
	if err != nil {
		s.logger.Warn("failed to get explanation", "question_id", id, "error", err)
		tracker.Fail(id, FailureMessage)
		return State{Err: FailureMessage}
	}

	tracker.Resolve(id, text)
	return State{Text: text}
}
