package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single provider attempt. Retries get a fresh
	// deadline each. Default: 60s; question sets of 20 are slow.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string // Optional. Override for proxies or compatible APIs.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-2.5-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-flash"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// envStrings binds EMTQUIZ_ variables to the string fields they set.
func (c *Config) envStrings() map[string]*string {
	return map[string]*string{
		"EMTQUIZ_LLM_PROVIDER":        &c.Provider,
		"EMTQUIZ_ANTHROPIC_API_KEY":   &c.Anthropic.APIKey,
		"EMTQUIZ_ANTHROPIC_MODEL":     &c.Anthropic.Model,
		"EMTQUIZ_ANTHROPIC_BASE_URL":  &c.Anthropic.BaseURL,
		"EMTQUIZ_OPENAI_API_KEY":      &c.OpenAI.APIKey,
		"EMTQUIZ_OPENAI_MODEL":        &c.OpenAI.Model,
		"EMTQUIZ_OPENAI_BASE_URL":     &c.OpenAI.BaseURL,
		"EMTQUIZ_GEMINI_API_KEY":      &c.Gemini.APIKey,
		"EMTQUIZ_GEMINI_MODEL":        &c.Gemini.Model,
		"EMTQUIZ_OPENROUTER_API_KEY":  &c.OpenRouter.APIKey,
		"EMTQUIZ_OPENROUTER_MODEL":    &c.OpenRouter.Model,
		"EMTQUIZ_OPENROUTER_BASE_URL": &c.OpenRouter.BaseURL,
	}
}

// ConfigFromEnv builds a Config from EMTQUIZ_ variables on top of
// DefaultConfig. Unparseable numbers and durations are ignored.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, dst := range cfg.envStrings() {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	if v, err := time.ParseDuration(os.Getenv("EMTQUIZ_LLM_TIMEOUT")); err == nil && v > 0 {
		cfg.Timeout = v
	}
	if v, err := strconv.Atoi(os.Getenv("EMTQUIZ_LLM_MAX_ATTEMPTS")); err == nil && v > 0 {
		cfg.Retry.MaxAttempts = v
	}
	return cfg
}

// ResolveConfig returns the EMTQUIZ_ configuration when a provider is
// selected explicitly or the default provider has its key, otherwise the
// first provider found by DiscoverConfig. The bool is false when neither
// yields a provider.
func ResolveConfig() (Config, bool) {
	env := ConfigFromEnv()
	if os.Getenv("EMTQUIZ_LLM_PROVIDER") != "" || env.Validate() == nil {
		return env, true
	}
	if cfg, ok := DiscoverConfig(); ok {
		cfg.Timeout = env.Timeout
		cfg.Retry = env.Retry
		return cfg, true
	}
	return Config{}, false
}

// discovery lists the vendor key variables probed by DiscoverConfig, in
// priority order.
var discovery = []struct {
	provider string
	vars     []string
}{
	{"gemini", []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}},
	{"openai", []string{"OPENAI_API_KEY"}},
	{"anthropic", []string{"ANTHROPIC_API_KEY"}},
	{"openrouter", []string{"OPENROUTER_API_KEY"}},
}

// DiscoverConfig returns a default Config for the first provider whose
// vendor key variable is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, d := range discovery {
		for _, name := range d.vars {
			if k := os.Getenv(name); k != "" {
				cfg.Provider = d.provider
				*cfg.apiKey(d.provider) = k
				return cfg, true
			}
		}
	}
	return Config{}, false
}

// apiKey points at the key field for provider, or nil for providers
// without one.
func (c *Config) apiKey(provider string) *string {
	switch provider {
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "gemini":
		return &c.Gemini.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// Validate checks that the selected provider has its API key set.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	key := c.apiKey(c.Provider)
	if key == nil {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *key == "" {
		return fmt.Errorf("EMTQUIZ_%s_API_KEY is required for the %s provider",
			strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
