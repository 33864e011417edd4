package questiongen

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/emtquiz/internal/llm"
	"github.com/abhisek/emtquiz/internal/quiz"
)

var (
	errInvalidFormat = errors.New("invalid response format from AI")
	errNoQuestions   = errors.New("AI returned no questions")
)

// questionSetOutput is the raw LLM response before validation.
type questionSetOutput struct {
	Questions *[]questionOutput `json:"questions"`
}

type questionOutput struct {
	QuestionText string                `json:"questionText"`
	Options      []quiz.QuestionOption `json:"options"`
}

// decodeQuestions parses a question set reply. Structural problems with the
// envelope are provider errors; problems with individual items are left to
// the validators.
func decodeQuestions(content []byte) ([]questionOutput, error) {
	var out questionSetOutput
	if err := json.Unmarshal(llm.StripCodeFences(content), &out); err != nil {
		return nil, &quiz.ProviderError{Op: "decode questions", Err: fmt.Errorf("%w: %v", errInvalidFormat, err)}
	}
	if out.Questions == nil {
		return nil, &quiz.ProviderError{Op: "decode questions", Err: fmt.Errorf("%w: missing questions array", errInvalidFormat)}
	}
	if len(*out.Questions) == 0 {
		return nil, &quiz.ProviderError{Op: "decode questions", Err: errNoQuestions}
	}
	return *out.Questions, nil
}
