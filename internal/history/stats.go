package history

import "github.com/abhisek/emtquiz/internal/quiz"

// Stats summarizes the history for the history screen and `history list`.
type Stats struct {
	Attempts          int
	AveragePercentage int
	BestPercentage    int
	ByQuestionType    map[quiz.QuestionType]int
}

// Stats computes summary figures over the current history.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeStats(s.results)
}

func computeStats(results []quiz.Result) Stats {
	st := Stats{ByQuestionType: make(map[quiz.QuestionType]int)}
	if len(results) == 0 {
		return st
	}
	sum := 0
	for _, r := range results {
		sum += r.Percentage
		st.BestPercentage = max(st.BestPercentage, r.Percentage)
		st.ByQuestionType[r.QuestionType]++
	}
	st.Attempts = len(results)
	st.AveragePercentage = quiz.Percentage(sum, 100*len(results))
	return st
}
