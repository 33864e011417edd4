package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/emtquiz/internal/history"
	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/quiz"
	"github.com/abhisek/emtquiz/internal/store"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), err
}

func seedResult(t *testing.T, dbPath string) quiz.Result {
	t.Helper()
	s, err := store.Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	right, wrong := "Epinephrine", "Aspirin"
	questions := []quiz.Question{
		{ID: 1, QuestionText: "First-line drug for anaphylaxis?", Difficulty: quiz.DifficultyEasy, Options: []quiz.QuestionOption{
			{Text: "Epinephrine", IsCorrect: true}, {Text: "Aspirin"}, {Text: "Nitroglycerin"}, {Text: "Oral glucose"},
		}},
		{ID: 2, QuestionText: "Normal adult respiratory rate?", Difficulty: quiz.DifficultyEasy, Options: []quiz.QuestionOption{
			{Text: "12-20", IsCorrect: true}, {Text: "4-8"}, {Text: "30-40"}, {Text: "60-80"},
		}},
	}
	cfg := quiz.Config{Difficulty: quiz.DifficultyEasy, QuestionType: quiz.QuestionTypeKnowledge, Topics: []string{"Airway"}}
	r := quiz.NewResult(cfg, questions, []*string{&right, &wrong}, time.Now().Add(-2*time.Hour))

	h := history.New(s.KV(), nil)
	_, err = h.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.Append(context.Background(), r))
	return r
}

func TestThemeCommand(t *testing.T) {
	db := filepath.Join(t.TempDir(), "emtquiz.db")

	out, err := execute(t, "", "theme", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = execute(t, "", "theme", "--db", db, "light")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme set to light.")

	out, err = execute(t, "", "theme", "--db", db, "toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme set to dark.")

	_, err = execute(t, "", "theme", "--db", db, "sepia")
	assert.Error(t, err)
}

func TestTopicsAddAndDelete(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "emtquiz.db")
	notes := filepath.Join(dir, "Burns.md")
	require.NoError(t, os.WriteFile(notes, []byte("Rule of nines estimates burned body surface area."), 0o644))

	out, err := execute(t, "", "topics", "add", "--db", db, notes)
	require.NoError(t, err)
	assert.Contains(t, out, `Added topic "Burns"`)

	out, err = execute(t, "", "topics", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Burns")
	assert.Contains(t, out, "custom")

	_, err = execute(t, "", "topics", "add", "--db", db, notes)
	assert.Error(t, err, "duplicate names are rejected")

	out, err = execute(t, "n\n", "topics", "delete", "--db", db, "Burns")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	out, err = execute(t, "", "topics", "delete", "--db", db, "--yes", "Burns")
	require.NoError(t, err)
	assert.Contains(t, out, `Deleted topic "Burns".`)

	builtin := knowledge.Builtins()[0].Name
	_, err = execute(t, "", "topics", "delete", "--db", db, "--yes", builtin)
	assert.ErrorContains(t, err, "built-in")
}

func TestHistoryCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "emtquiz.db")
	r := seedResult(t, db)
	id := strconv.FormatInt(r.ID, 10)

	out, err := execute(t, "", "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "1 quizzes · average 50% · best 50%")
	assert.Contains(t, out, "Easy Knowledge-Based Quiz")
	assert.Contains(t, out, "1/2 (50%)")
	assert.Contains(t, out, "2 hours ago")

	out, err = execute(t, "", "history", "show", "--db", db, "-o", "text", id)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Epinephrine")
	assert.Contains(t, out, "✗ 4-8")

	out, err = execute(t, "", "history", "show", "--db", db, "-o", "json", id)
	require.NoError(t, err)
	var rep resultReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 50, rep.Percentage)
	require.Len(t, rep.Questions, 2)
	assert.True(t, rep.Questions[0].IsRight)
	assert.False(t, rep.Questions[1].IsRight)

	out, err = execute(t, "", "history", "show", "--db", db, "-o", "yaml", id)
	require.NoError(t, err)
	assert.Contains(t, out, "questionType: Knowledge-Based")

	_, err = execute(t, "", "history", "show", "--db", db, "-o", "text", "42")
	assert.ErrorContains(t, err, "not found")

	out, err = execute(t, "y\n", "history", "clear", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared quiz history and custom topics.")

	out, err = execute(t, "", "history", "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No quizzes completed yet.")
}

func TestRelDate(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 days ago", relDate("2025-02-26T12:00:00.000Z", now))
	assert.Equal(t, "garbage", relDate("garbage", now))
}

func TestLLMCommandsRejectEphemeral(t *testing.T) {
	t.Cleanup(func() { _ = rootCmd.PersistentFlags().Set("ephemeral", "false") })
	_, err := execute(t, "", "llm", "prune", "--ephemeral")
	assert.ErrorContains(t, err, "--ephemeral")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "emtquiz "))
	assert.Contains(t, out, strconv.Itoa(len(knowledge.Builtins()))+" built-in topics")
}

func TestLogPath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "emtquiz.log"), logPath(filepath.Join(dir, "emtquiz.db"), false))
	assert.Equal(t, filepath.Join(os.TempDir(), "emtquiz-ephemeral.log"), logPath("", true))
	assert.Empty(t, logPath("", false))
}
