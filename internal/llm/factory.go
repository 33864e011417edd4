package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/emtquiz/internal/store"
)

// ErrNoProvider is returned by NewProviderFromEnv when no API key is
// configured for any provider.
var ErrNoProvider = errors.New("no LLM provider configured: set GEMINI_API_KEY (or EMTQUIZ_LLM_PROVIDER with its API key)")

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with retry, timeout and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → retry → timeout → logging → base
	var p Provider = base
	if eventRepo != nil || logger != nil {
		p = WithLogging(p, cfg.Provider, eventRepo, logger)
	}
	p = WithTimeout(p, cfg.Timeout)
	p = WithRetry(p, cfg.Retry, logger)

	return p, nil
}

// NewProviderFromEnv resolves configuration from the environment and builds
// the decorated provider. It returns ErrNoProvider when nothing is configured.
func NewProviderFromEnv(ctx context.Context, eventRepo store.EventRepo, logger *slog.Logger) (Provider, error) {
	cfg, ok := ResolveConfig()
	if !ok {
		return nil, ErrNoProvider
	}
	return NewProvider(ctx, cfg, eventRepo, logger)
}
