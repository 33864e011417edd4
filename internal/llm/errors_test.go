package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("upstream")
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusUnauthorized, func(err error) bool { var e *ErrAuth; return errors.As(err, &e) && e.Status == 401 }},
		{http.StatusForbidden, func(err error) bool { var e *ErrAuth; return errors.As(err, &e) && e.Status == 403 }},
		{http.StatusBadGateway, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{http.StatusBadRequest, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := classifyStatus(tt.status, cause)
			assert.True(t, tt.check(err), "got %T", err)
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestRetryPolicy(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		retry, once bool
	}{
		{"network", errors.New("connection reset"), true, false},
		{"rate limit", &ErrRateLimit{}, true, false},
		{"outage", &ErrProviderUnavailable{}, true, false},
		{"invalid", &ErrInvalidResponse{Err: errors.New("schema")}, true, true},
		{"wrapped invalid", fmt.Errorf("generate: %w", &ErrInvalidResponse{Err: errors.New("schema")}), true, true},
		{"max tokens", &ErrMaxTokensExceeded{}, false, false},
		{"auth", &ErrAuth{Status: 401}, false, false},
		{"blocked", &ErrContentBlocked{}, false, false},
		{"deadline", context.DeadlineExceeded, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retry, once := retryPolicy(tt.err)
			assert.Equal(t, tt.retry, retry)
			assert.Equal(t, tt.once, once)
		})
	}
}

func TestErrContentBlockedMessage(t *testing.T) {
	assert.Equal(t, "LLM response blocked by the provider's content filter", (&ErrContentBlocked{}).Error())
	assert.Contains(t, (&ErrContentBlocked{Reason: "SAFETY"}).Error(), "SAFETY")
}
