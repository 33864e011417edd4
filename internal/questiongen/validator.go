package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/emtquiz/internal/quiz"
)

// Validator checks a generated question. Implementations are stateless.
type Validator interface {
	// Name returns a short identifier used in error fields and logs.
	Name() string

	// Validate returns nil if q passes. index is q's position in the batch.
	Validate(index int, q quiz.Question) *quiz.ValidationError
}

// StructuralValidator requires question text and at least one option.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(index int, q quiz.Question) *quiz.ValidationError {
	if strings.TrimSpace(q.QuestionText) == "" {
		return &quiz.ValidationError{
			Field:   fmt.Sprintf("questions[%d]", index),
			Message: fmt.Sprintf("question %d has no text", index+1),
		}
	}
	if len(q.Options) == 0 {
		return &quiz.ValidationError{
			Field:   fmt.Sprintf("questions[%d]", index),
			Message: fmt.Sprintf("question %d has no options", index+1),
		}
	}
	return nil
}

// ShapeValidator requires exactly four options with exactly one correct.
// It is enabled by Config.Strict.
type ShapeValidator struct{}

func (v *ShapeValidator) Name() string { return "shape" }

func (v *ShapeValidator) Validate(index int, q quiz.Question) *quiz.ValidationError {
	if len(q.Options) != 4 {
		return &quiz.ValidationError{
			Field:   fmt.Sprintf("questions[%d]", index),
			Message: fmt.Sprintf("question %d has %d options, want 4", index+1, len(q.Options)),
		}
	}
	correct := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return &quiz.ValidationError{
			Field:   fmt.Sprintf("questions[%d]", index),
			Message: fmt.Sprintf("question %d has %d correct options, want 1", index+1, correct),
		}
	}
	return nil
}

func validators(cfg Config) []Validator {
	vs := []Validator{&StructuralValidator{}}
	if cfg.Strict {
		vs = append(vs, &ShapeValidator{})
	}
	return vs
}
