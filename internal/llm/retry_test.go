package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// newTestRetry returns a retry decorator that records waits instead of
// sleeping.
func newTestRetry(p Provider, cfg RetryConfig) (*RetryProvider, *[]time.Duration) {
	r := WithRetry(p, cfg, nil).(*RetryProvider)
	var waits []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		waits = append(waits, d)
		return nil
	}
	r.jitter = func() float64 { return 0.5 }
	return r, &waits
}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503")}}
}

func ok() MockResponse {
	return MockResponse{Content: json.RawMessage(`{"ok":true}`)}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), ok())
	r, waits := newTestRetry(mock, retryConfig())

	resp, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Content))
	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, *waits)
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), unavailable(), ok())
	r, _ := newTestRetry(mock, retryConfig())

	_, err := r.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_PermanentErrorsNotRetried(t *testing.T) {
	tests := map[string]error{
		"max tokens":    &ErrMaxTokensExceeded{Content: json.RawMessage(`{"questions":[`)},
		"auth":          &ErrAuth{Status: 401, Err: errors.New("bad key")},
		"content block": &ErrContentBlocked{Reason: "SAFETY"},
		"canceled":      context.Canceled,
	}
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			mock := NewMockProvider(MockResponse{Err: want}, ok())
			r, waits := newTestRetry(mock, retryConfig())

			_, err := r.Generate(context.Background(), Request{})
			assert.ErrorIs(t, err, want)
			assert.Equal(t, 1, mock.CallCount())
			assert.Empty(t, *waits)
		})
	}
}

func TestRetry_InvalidResponseRetriedOnce(t *testing.T) {
	invalid := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}

	mock := NewMockProvider(invalid, invalid, ok())
	r, _ := newTestRetry(mock, retryConfig())
	_, err := r.Generate(context.Background(), Request{})
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
	assert.Equal(t, 2, mock.CallCount())

	// The single retry for malformed output does not use up the budget
	// for outages.
	mock = NewMockProvider(invalid, unavailable(), ok())
	r, _ = newTestRetry(mock, retryConfig())
	_, err = r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 3, mock.CallCount())
}

func TestRetry_ContextCancellation(t *testing.T) {
	mock := NewMockProvider(unavailable(), ok())
	r, _ := newTestRetry(mock, retryConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_RateLimitRespectsRetryAfter(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 7 * time.Second, Err: errors.New("429")}},
		ok(),
	)
	r, waits := newTestRetry(mock, retryConfig())

	_, err := r.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{7 * time.Second}, *waits)
}

func TestRetry_Backoff(t *testing.T) {
	r, _ := newTestRetry(NewMockProvider(), retryConfig())
	err := errors.New("network")

	assert.Equal(t, 100*time.Millisecond, r.backoff(1, err))
	assert.Equal(t, 200*time.Millisecond, r.backoff(2, err))
	assert.Equal(t, 300*time.Millisecond, r.backoff(3, err), "capped at MaxWait")
	assert.Equal(t, 300*time.Millisecond, r.backoff(10, err))

	r.jitter = func() float64 { return 0 }
	assert.Equal(t, 80*time.Millisecond, r.backoff(1, err), "-20% jitter")
}

func TestRetry_SleepHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepCtx(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepCtx(context.Background(), time.Millisecond))
}

func TestRetry_AtLeastOneAttempt(t *testing.T) {
	mock := NewMockProvider(unavailable(), ok())
	r, _ := newTestRetry(mock, RetryConfig{})

	_, err := r.Generate(context.Background(), Request{})
	assert.Error(t, err)
	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "mock", r.ModelID())
}
