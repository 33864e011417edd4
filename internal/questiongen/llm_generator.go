package questiongen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/emtquiz/internal/llm"
	"github.com/abhisek/emtquiz/internal/quiz"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	topics   TopicResolver
	config   Config
	now      func() time.Time
}

// New creates a new LLMGenerator with the given provider, topic source and config.
func New(provider llm.Provider, topics TopicResolver, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, topics: topics, config: cfg, now: time.Now}
}

// Generate produces a question batch for req.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) ([]quiz.Question, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	resolved := g.topics.Resolve(req.Topics)
	if len(resolved) == 0 {
		return nil, &quiz.ValidationError{Field: "topics", Message: "No topics were provided for quiz generation."}
	}

	ctx = llm.WithPurpose(ctx, "question-gen")

	llmReq := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, resolved, g.config)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		if verr := g.itemFailure(err, req); verr != nil {
			return nil, verr
		}
		return nil, &quiz.ProviderError{Op: "generate questions", Err: err}
	}

	raw, err := decodeQuestions(resp.Content)
	if err != nil {
		return nil, err
	}
	questions, verr := g.assemble(raw, req)
	if verr != nil {
		return nil, verr
	}
	return questions, nil
}

// assemble stamps ids and difficulty on decoded items and runs the
// validators in order; the first failure rejects the batch.
func (g *LLMGenerator) assemble(raw []questionOutput, req Request) ([]quiz.Question, *quiz.ValidationError) {
	base := g.now().UnixMilli()
	questions := make([]quiz.Question, len(raw))
	for i, r := range raw {
		questions[i] = quiz.Question{
			ID:           base + int64(i),
			QuestionText: r.QuestionText,
			Options:      r.Options,
			Difficulty:   req.Difficulty,
		}
	}

	for _, v := range validators(g.config) {
		for i, q := range questions {
			if verr := v.Validate(i, q); verr != nil {
				return nil, verr
			}
		}
	}
	return questions, nil
}

// itemFailure looks inside a reply the provider rejected against the
// schema. When the envelope is intact but an item is missing its text or
// options, the failure is the item's, not the provider's.
func (g *LLMGenerator) itemFailure(err error, req Request) error {
	var inv *llm.ErrInvalidResponse
	if !errors.As(err, &inv) || len(inv.Content) == 0 {
		return nil
	}
	raw, derr := decodeQuestions(inv.Content)
	if derr != nil {
		return nil
	}
	if _, verr := g.assemble(raw, req); verr != nil {
		return verr
	}
	return nil
}

// ValidateRequest checks req before any provider call. Failures are
// *quiz.ValidationError.
func ValidateRequest(req Request) error {
	if len(req.Topics) == 0 {
		return &quiz.ValidationError{Field: "topics", Message: "Please select at least one topic to start the quiz."}
	}
	if req.Count <= 0 {
		return &quiz.ValidationError{Field: "count", Message: fmt.Sprintf("question count must be positive, got %d", req.Count)}
	}
	if !req.QuestionType.Valid() {
		return &quiz.ValidationError{Field: "questionType", Message: fmt.Sprintf("unknown question type %q", req.QuestionType)}
	}
	if !req.Difficulty.Valid() {
		return &quiz.ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q", req.Difficulty)}
	}
	return nil
}
