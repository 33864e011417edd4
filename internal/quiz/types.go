package quiz

import (
	"fmt"
	"slices"
	"strings"
)

// Difficulty is the calibration level requested for a question set.
type Difficulty string

const (
	DifficultyEasy Difficulty = "Easy"
	DifficultyHard Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyHard
}

// QuestionType selects the wording style of generated questions.
type QuestionType string

const (
	QuestionTypeKnowledge QuestionType = "Knowledge-Based"
	QuestionTypeScenario  QuestionType = "Scenario-Based"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	return t == QuestionTypeKnowledge || t == QuestionTypeScenario
}

// ParseDifficulty accepts "Easy"/"Hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", &ValidationError{Field: "difficulty", Message: fmt.Sprintf("unknown difficulty %q (want Easy or Hard)", s)}
}

// ParseQuestionType accepts the full names or the short forms "knowledge" and
// "scenario", in any case.
func ParseQuestionType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "knowledge", "knowledge-based":
		return QuestionTypeKnowledge, nil
	case "scenario", "scenario-based":
		return QuestionTypeScenario, nil
	}
	return "", &ValidationError{Field: "questionType", Message: fmt.Sprintf("unknown question type %q (want Knowledge-Based or Scenario-Based)", s)}
}

// QuestionOption is one of the four answer choices of a question.
type QuestionOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a generated multiple-choice question. Questions are immutable
// once the generator returns them.
type Question struct {
	ID           int64            `json:"id"`
	QuestionText string           `json:"questionText"`
	Options      []QuestionOption `json:"options"`
	Difficulty   Difficulty       `json:"difficulty"`
}

// CorrectOption returns the first option flagged as correct.
func (q Question) CorrectOption() (QuestionOption, bool) {
	for _, o := range q.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return QuestionOption{}, false
}

// Clone returns a deep copy of q.
func (q Question) Clone() Question {
	q.Options = slices.Clone(q.Options)
	return q
}

// CloneQuestions deep-copies a question slice.
func CloneQuestions(qs []Question) []Question {
	if qs == nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.Clone()
	}
	return out
}

// CloneAnswers deep-copies an answer slice, preserving absent (nil) slots.
func CloneAnswers(as []*string) []*string {
	if as == nil {
		return nil
	}
	out := make([]*string, len(as))
	for i, a := range as {
		if a != nil {
			v := *a
			out[i] = &v
		}
	}
	return out
}

// Config captures the parameters a session was started with. It is reused
// verbatim when the session is regenerated.
type Config struct {
	Difficulty   Difficulty
	QuestionType QuestionType
	Topics       []string
}

// Clone returns a copy of c that shares no memory with it.
func (c Config) Clone() Config {
	c.Topics = slices.Clone(c.Topics)
	return c
}

// Title renders the heading used on quiz screens, e.g. "Easy Knowledge-Based Quiz".
func (c Config) Title() string {
	return fmt.Sprintf("%s %s Quiz", c.Difficulty, c.QuestionType)
}
