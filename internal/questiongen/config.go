package questiongen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the LLM response. A batch of 20
	// scenario questions runs to roughly 6k tokens.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorQuestions caps how many previous question texts are listed
	// in the avoid-repetition directive. 0 lists all of them.
	MaxPriorQuestions int

	// Strict rejects batches containing a question that does not have
	// exactly four options with exactly one correct.
	Strict bool
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         8192,
		Temperature:       0.7,
		MaxPriorQuestions: 0,
		Strict:            false,
	}
}
