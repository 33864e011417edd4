package llm

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with capped exponential backoff.
// A malformed response is retried once; auth failures, content blocks and
// truncation are returned immediately.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	logger *slog.Logger

	// jitter returns a value in [0, 1). Tests pin it.
	jitter func() float64
	sleep  func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps a Provider with retry logic. logger may be nil.
func WithRetry(p Provider, cfg RetryConfig, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{
		inner:  p,
		config: cfg,
		logger: logger,
		jitter: rand.Float64,
		sleep:  sleepCtx,
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	usedOnce := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		retry, once := retryPolicy(err)
		if once {
			retry = retry && !usedOnce
			usedOnce = true
		}
		if !retry || attempt >= r.config.MaxAttempts {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.logger.Debug("retrying LLM call",
			"purpose", PurposeFrom(ctx),
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
		if err := r.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// backoff returns the wait before attempt+1. A provider-supplied
// Retry-After wins; otherwise InitialWait grows by Multiplier per attempt,
// capped at MaxWait, with ±20% jitter.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait)
	for range attempt - 1 {
		wait *= r.config.Multiplier
		if wait >= float64(r.config.MaxWait) {
			break
		}
	}
	wait = min(wait, float64(r.config.MaxWait))
	wait += wait * 0.2 * (2*r.jitter() - 1)
	return time.Duration(max(wait, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
