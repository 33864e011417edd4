package quiz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	for _, in := range []string{"easy", "Easy", " EASY "} {
		d, err := ParseDifficulty(in)
		require.NoError(t, err)
		assert.Equal(t, DifficultyEasy, d)
	}
	d, err := ParseDifficulty("hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, d)

	_, err = ParseDifficulty("medium")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestParseQuestionType(t *testing.T) {
	tests := map[string]QuestionType{
		"knowledge":       QuestionTypeKnowledge,
		"Knowledge-Based": QuestionTypeKnowledge,
		"scenario":        QuestionTypeScenario,
		"SCENARIO-BASED":  QuestionTypeScenario,
	}
	for in, want := range tests {
		got, err := ParseQuestionType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseQuestionType("trivia")
	assert.True(t, IsValidation(err))
}

func TestCorrectOption(t *testing.T) {
	q := Question{Options: []QuestionOption{{Text: "a"}, {Text: "b", IsCorrect: true}, {Text: "c", IsCorrect: true}}}
	o, ok := q.CorrectOption()
	require.True(t, ok)
	assert.Equal(t, "b", o.Text, "first correct option wins")

	_, ok = Question{}.CorrectOption()
	assert.False(t, ok)
}

func TestCloneAnswersPreservesNil(t *testing.T) {
	assert.Nil(t, CloneAnswers(nil))

	a := "x"
	in := []*string{&a, nil}
	out := CloneAnswers(in)
	require.Len(t, out, 2)
	assert.Nil(t, out[1])
	assert.NotSame(t, in[0], out[0])
	assert.Equal(t, "x", *out[0])
}

func TestConfigCloneAndTitle(t *testing.T) {
	c := Config{Difficulty: DifficultyEasy, QuestionType: QuestionTypeKnowledge, Topics: []string{"TXA"}}
	cp := c.Clone()
	cp.Topics[0] = "changed"
	assert.Equal(t, "TXA", c.Topics[0])
	assert.Equal(t, "Easy Knowledge-Based Quiz", c.Title())
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Please select at least one topic.",
		UserMessage(&ValidationError{Field: "topics", Message: "Please select at least one topic."}))

	wrapped := fmt.Errorf("start: %w", &ProviderError{Op: "generate", Err: errors.New("boom")})
	assert.True(t, IsProvider(wrapped))
	assert.NotContains(t, UserMessage(wrapped), "boom")

	perr := &PersistenceError{Op: "save", Key: "history", Err: errors.New("disk full")}
	assert.True(t, IsPersistence(perr))
	assert.ErrorContains(t, perr, "disk full")
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}
