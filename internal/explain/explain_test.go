package explain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/emtquiz/internal/knowledge"
	"github.com/abhisek/emtquiz/internal/llm"
	"github.com/abhisek/emtquiz/internal/quiz"
)

func txaQuestion() quiz.Question {
	return quiz.Question{
		ID:           42,
		QuestionText: "What is the adult TXA dose?",
		Options: []quiz.QuestionOption{
			{Text: "1g IV"},
			{Text: "2g IV", IsCorrect: true},
			{Text: "500mg IV"},
			{Text: "10mg/kg"},
		},
		Difficulty: quiz.DifficultyEasy,
	}
}

func strPtr(s string) *string { return &s }

func newService(p llm.Provider) *Service {
	return NewService(p, knowledge.New(nil, nil), DefaultConfig(), nil)
}

func TestExplain_PromptContents(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("  Because the guideline says 2g.  ")})
	svc := newService(mock)

	text, err := svc.Explain(context.Background(), Request{
		Question: txaQuestion(),
		Chosen:   strPtr("1g IV"),
		Topics:   []string{"Tranexamic Acid (TXA)"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Because the guideline says 2g.", text)

	require.Equal(t, 1, mock.CallCount())
	call := mock.Calls[0]
	assert.Nil(t, call.Schema, "explanations are free text")
	msg := call.Messages[0].Content
	assert.Contains(t, msg, "Topic: Tranexamic Acid (TXA)")
	assert.Contains(t, msg, `"What is the adult TXA dose?"`)
	assert.Contains(t, msg, "- 500mg IV\n")
	assert.Contains(t, msg, "The Correct Answer is:\n\"2g IV\"")
	assert.Contains(t, msg, "The student answered:\n\"1g IV\"")
	assert.NotContains(t, msg, "Topic: Vital Signs")
}

func TestExplain_NotAnswered(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("ok")})
	_, err := newService(mock).Explain(context.Background(), Request{Question: txaQuestion()})
	require.NoError(t, err)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "\"Not answered\"")
}

func TestExplain_MultipleTopicsSeparated(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("ok")})
	_, err := newService(mock).Explain(context.Background(), Request{
		Question: txaQuestion(),
		Topics:   []string{"Vital Signs", "IV Cannulation"},
	})
	require.NoError(t, err)
	msg := mock.Calls[0].Messages[0].Content
	assert.Equal(t, 1, strings.Count(msg, "\n---\n"))
}

func TestExplain_Failures(t *testing.T) {
	tests := map[string]llm.MockResponse{
		"provider error": {Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}},
		"empty text":     {Content: json.RawMessage("   ")},
	}
	for name, resp := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := newService(llm.NewMockProvider(resp)).Explain(context.Background(), Request{Question: txaQuestion()})
			assert.True(t, quiz.IsProvider(err), "got %v", err)
		})
	}
}

func TestExplain_Purpose(t *testing.T) {
	var purpose string
	p := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		purpose = llm.PurposeFrom(ctx)
		return &llm.Response{Content: json.RawMessage("fine")}, nil
	})
	_, err := newService(p).Explain(context.Background(), Request{Question: txaQuestion()})
	require.NoError(t, err)
	assert.Equal(t, "explanation", purpose)
}

type providerFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}
func (f providerFunc) ModelID() string { return "func" }

func TestFetch(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: errors.New("boom")},
		llm.MockResponse{Content: json.RawMessage("2g is the loading dose.")},
	)
	svc := newService(mock)
	tr := NewTracker()
	req := Request{Question: txaQuestion()}

	got := svc.Fetch(context.Background(), tr, req)
	assert.Equal(t, State{Err: FailureMessage}, got)
	st, ok := tr.State(42)
	require.True(t, ok)
	assert.Equal(t, FailureMessage, st.Err)
	assert.False(t, st.Loading)

	// Retrying after a failure is allowed and clears the error.
	got = svc.Fetch(context.Background(), tr, req)
	assert.Equal(t, "2g is the loading dose.", got.Text)
	st, _ = tr.State(42)
	assert.Equal(t, State{Text: "2g is the loading dose."}, st)
}

func TestTracker_Transitions(t *testing.T) {
	tr := NewTracker()
	_, ok := tr.State(1)
	assert.False(t, ok)

	tr.Begin(1)
	assert.True(t, tr.IsLoading(1))
	tr.Resolve(1, "text")
	assert.False(t, tr.IsLoading(1))

	tr.Begin(1)
	st, _ := tr.State(1)
	assert.Equal(t, State{Loading: true}, st, "Begin clears previous text")

	tr.Fail(1, "nope")
	st, _ = tr.State(1)
	assert.Equal(t, State{Err: "nope"}, st)

	tr.Reset()
	_, ok = tr.State(1)
	assert.False(t, ok)
}

func TestTracker_NoDeduplication(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	p := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started)
			<-release
			return &llm.Response{Content: json.RawMessage("first")}, nil
		}
		return &llm.Response{Content: json.RawMessage("second")}, nil
	})
	svc := newService(p)
	tr := NewTracker()
	req := Request{Question: txaQuestion()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		svc.Fetch(context.Background(), tr, req)
	}()

	<-started
	assert.True(t, tr.IsLoading(42))

	// A second request for the same id is not suppressed.
	got := svc.Fetch(context.Background(), tr, req)
	assert.Equal(t, "second", got.Text)

	close(release)
	<-done

	mu.Lock()
	assert.Equal(t, 2, calls)
	mu.Unlock()

	// The slower request finished last, so its text wins.
	st, _ := tr.State(42)
	assert.Equal(t, State{Text: "first"}, st)
}

func TestTracker_DistinctIDsIndependent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	for i := int64(0); i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			tr.Begin(id)
			if id%2 == 0 {
				tr.Resolve(id, "ok")
			} else {
				tr.Fail(id, FailureMessage)
			}
		}(i)
	}
	wg.Wait()
	for i := int64(0); i < 20; i++ {
		st, ok := tr.State(i)
		require.True(t, ok)
		if i%2 == 0 {
			assert.Equal(t, "ok", st.Text)
		} else {
			assert.Equal(t, FailureMessage, st.Err)
		}
	}
}
