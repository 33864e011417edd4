// Package questiongen builds multiple-choice EMT question sets with an LLM,
// grounded in the knowledge base topics the learner selected.
package questiongen

import (
	"context"

	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/quiz"
)

// Generator produces question sets.
type Generator interface {
	// Generate returns a batch of questions for req. The batch is not
	// guaranteed to cover every requested topic.
	Generate(ctx context.Context, req Request) ([]quiz.Question, error)
}

// Request describes one batch.
type Request struct {
	QuestionType quiz.QuestionType
	Difficulty   quiz.Difficulty
	Count        int
	Topics       []string

	// Previous holds the questions of the batch being replaced; the prompt
	// asks the model to avoid them.
	Previous []quiz.Question
}

// TopicResolver maps topic names to their reference content.
type TopicResolver interface {
	Resolve(names []string) []knowledge.Topic
}
