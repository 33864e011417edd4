package quiz

import (
	"math"
	"slices"
	"time"
)

// DateLayout is the ISO-8601 layout used for Result.Date.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Tally is the aggregate outcome of scoring a question set.
type Tally struct {
	Correct    int
	Total      int
	Percentage int
}

// Score counts the answers that exactly match each question's correct option.
// Missing or nil answers never match. Score is pure: identical inputs always
// produce identical output.
func Score(questions []Question, answers []*string) Tally {
	t := Tally{Total: len(questions)}
	for i, q := range questions {
		if IsCorrect(q, answerAt(answers, i)) {
			t.Correct++
		}
	}
	t.Percentage = Percentage(t.Correct, t.Total)
	return t
}

// IsCorrect reports whether answer is the text of q's correct option.
func IsCorrect(q Question, answer *string) bool {
	if answer == nil {
		return false
	}
	correct, ok := q.CorrectOption()
	return ok && *answer == correct.Text
}

// Percentage returns round(correct/total*100), rounding halves up, or 0 when
// total is 0.
func Percentage(correct, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Floor(float64(correct)/float64(total)*100 + 0.5))
	return min(max(p, 0), 100)
}

func answerAt(answers []*string, i int) *string {
	if i < len(answers) {
		return answers[i]
	}
	return nil
}

// Result is the immutable record of one submitted quiz. It is the unit stored
// in history.
type Result struct {
	ID             int64        `json:"id"`
	Date           string       `json:"date"`
	Score          int          `json:"score"`
	TotalQuestions int          `json:"totalQuestions"`
	Percentage     int          `json:"percentage"`
	Questions      []Question   `json:"questions"`
	UserAnswers    []*string    `json:"userAnswers"`
	Difficulty     Difficulty   `json:"difficulty"`
	QuestionType   QuestionType `json:"questionType"`
	Topics         []string     `json:"topics"`
}

// NewResult scores the answers and snapshots everything into a Result. The
// result owns copies of its inputs.
func NewResult(cfg Config, questions []Question, answers []*string, now time.Time) Result {
	t := Score(questions, answers)
	return Result{
		ID:             now.UnixMilli(),
		Date:           now.UTC().Format(DateLayout),
		Score:          t.Correct,
		TotalQuestions: t.Total,
		Percentage:     t.Percentage,
		Questions:      CloneQuestions(questions),
		UserAnswers:    CloneAnswers(answers),
		Difficulty:     cfg.Difficulty,
		QuestionType:   cfg.QuestionType,
		Topics:         slices.Clone(cfg.Topics),
	}
}

// Config returns the configuration the result was produced with.
func (r Result) Config() Config {
	return Config{
		Difficulty:   r.Difficulty,
		QuestionType: r.QuestionType,
		Topics:       slices.Clone(r.Topics),
	}
}

// Band classifies a percentage for display.
type Band string

const (
	BandPass       Band = "pass"
	BandBorderline Band = "borderline"
	BandFail       Band = "fail"
)

// BandFor returns BandPass at 75% and above, BandBorderline at 50% and above,
// and BandFail otherwise.
func BandFor(percentage int) Band {
	switch {
	case percentage >= 75:
		return BandPass
	case percentage >= 50:
		return BandBorderline
	default:
		return BandFail
	}
}
