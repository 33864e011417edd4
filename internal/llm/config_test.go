package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var providerEnv = []string{
	"EMTQUIZ_LLM_PROVIDER", "EMTQUIZ_GEMINI_API_KEY", "EMTQUIZ_GEMINI_MODEL",
	"EMTQUIZ_OPENAI_API_KEY", "EMTQUIZ_ANTHROPIC_API_KEY", "EMTQUIZ_OPENROUTER_API_KEY",
	"EMTQUIZ_ANTHROPIC_BASE_URL", "EMTQUIZ_OPENROUTER_MODEL",
	"EMTQUIZ_LLM_TIMEOUT", "EMTQUIZ_LLM_MAX_ATTEMPTS",
	"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
}

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, k := range providerEnv {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
}

func TestConfigFromEnv(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("EMTQUIZ_LLM_PROVIDER", "openai")
	t.Setenv("EMTQUIZ_OPENAI_API_KEY", "sk-test")
	t.Setenv("EMTQUIZ_LLM_TIMEOUT", "15s")
	t.Setenv("EMTQUIZ_LLM_MAX_ATTEMPTS", "5")

	cfg := ConfigFromEnv()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_IgnoresBadDurations(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("EMTQUIZ_LLM_TIMEOUT", "soon")
	assert.Equal(t, DefaultConfig().Timeout, ConfigFromEnv().Timeout)
}

func TestConfigFromEnv_AllStringBindings(t *testing.T) {
	clearProviderEnv(t)
	var cfg Config
	for name := range cfg.envStrings() {
		t.Setenv(name, name)
	}

	got := ConfigFromEnv()
	assert.Equal(t, "EMTQUIZ_ANTHROPIC_BASE_URL", got.Anthropic.BaseURL)
	assert.Equal(t, "EMTQUIZ_OPENROUTER_MODEL", got.OpenRouter.Model)
	assert.Equal(t, "EMTQUIZ_GEMINI_API_KEY", got.Gemini.APIKey)
}

func TestConfig_ValidateNamesVariable(t *testing.T) {
	err := Config{Provider: "openrouter"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMTQUIZ_OPENROUTER_API_KEY")
}

func TestResolveConfig(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		clearProviderEnv(t)
		_, ok := ResolveConfig()
		assert.False(t, ok)
	})

	t.Run("default provider key", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("EMTQUIZ_GEMINI_API_KEY", "g-key")
		cfg, ok := ResolveConfig()
		require.True(t, ok)
		assert.Equal(t, "gemini", cfg.Provider)
		assert.Equal(t, "g-key", cfg.Gemini.APIKey)
	})

	t.Run("discovered key keeps env timeout", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("ANTHROPIC_API_KEY", "a-key")
		t.Setenv("EMTQUIZ_LLM_TIMEOUT", "5s")
		cfg, ok := ResolveConfig()
		require.True(t, ok)
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
	})

	t.Run("google key maps to gemini", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("GOOGLE_API_KEY", "g")
		cfg, ok := ResolveConfig()
		require.True(t, ok)
		assert.Equal(t, "gemini", cfg.Provider)
	})
}

func TestNewProviderFromEnv_NoProvider(t *testing.T) {
	clearProviderEnv(t)
	_, err := NewProviderFromEnv(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, ErrNoProvider))
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock", Retry: retryConfig()}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestNewProvider_OpenRouter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "openrouter"
	cfg.OpenRouter.APIKey = "sk-or"
	p, err := NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	require.NotNil(t, c)
	assert.InDelta(t, 0.3+2.5, c.Cost(1_000_000, 1_000_000), 1e-9)

	assert.NotNil(t, LookupCost("google/gemini-2.5-flash"), "vendor prefix stripped")
	assert.Nil(t, LookupCost("mock"))
}
