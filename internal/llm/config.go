package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Provider names accepted in Config.Provider and PHASA_LLM_PROVIDER.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Settings are the per-backend knobs. An empty Model selects the backend
// default; BaseURL is for proxies and tests.
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config selects a backend and holds settings for all of them, so switching
// PHASA_LLM_PROVIDER does not lose the others.
type Config struct {
	Provider string

	Anthropic  Settings
	OpenAI     Settings
	Gemini     Settings
	OpenRouter Settings

	Retry RetryPolicy

	// Timeout bounds one question generation, retries included.
	Timeout time.Duration
}

// backend ties a provider name to its environment stem and constructor.
type backend struct {
	name     string
	env      string
	settings func(*Config) *Settings
	open     func(context.Context, Settings) (Provider, error)
}

// backends is ordered by discovery priority.
var backends = []backend{
	{
		name:     ProviderAnthropic,
		env:      "ANTHROPIC",
		settings: func(c *Config) *Settings { return &c.Anthropic },
		open: func(_ context.Context, s Settings) (Provider, error) {
			return NewAnthropicProvider(s)
		},
	},
	{
		name:     ProviderOpenAI,
		env:      "OPENAI",
		settings: func(c *Config) *Settings { return &c.OpenAI },
		open: func(_ context.Context, s Settings) (Provider, error) {
			return NewOpenAIProvider(s)
		},
	},
	{
		name:     ProviderGemini,
		env:      "GEMINI",
		settings: func(c *Config) *Settings { return &c.Gemini },
		open: func(ctx context.Context, s Settings) (Provider, error) {
			return NewGeminiProvider(ctx, s)
		},
	},
	{
		name:     ProviderOpenRouter,
		env:      "OPENROUTER",
		settings: func(c *Config) *Settings { return &c.OpenRouter },
		open: func(_ context.Context, s Settings) (Provider, error) {
			return NewOpenRouterProvider(s)
		},
	},
}

func lookupBackend(name string) (backend, bool) {
	for _, b := range backends {
		if b.name == name {
			return b, true
		}
	}
	return backend{}, false
}

const (
	envPrefix      = "PHASA_"
	defaultTimeout = 20 * time.Second
)

// DefaultConfig selects Anthropic with no credentials.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderAnthropic,
		Retry:    DefaultRetryPolicy(),
		Timeout:  defaultTimeout,
	}
}

// ConfigFromEnv reads PHASA_LLM_PROVIDER, PHASA_LLM_TIMEOUT and, for each
// backend, PHASA_<NAME>_API_KEY, _MODEL and _BASE_URL.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv(envPrefix + "LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	for _, b := range backends {
		s := b.settings(&cfg)
		s.APIKey = os.Getenv(envPrefix + b.env + "_API_KEY")
		s.Model = os.Getenv(envPrefix + b.env + "_MODEL")
		s.BaseURL = os.Getenv(envPrefix + b.env + "_BASE_URL")
	}
	if v := os.Getenv(envPrefix + "LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.Timeout = d
		} else {
			slog.Warn("ignoring invalid duration", "var", envPrefix+"LLM_TIMEOUT", "value", v)
		}
	}
	return cfg
}

// DiscoverConfig looks for the vendors' own <NAME>_API_KEY variables and
// picks the first backend that has one.
func DiscoverConfig() (Config, bool) {
	for _, b := range backends {
		key := os.Getenv(b.env + "_API_KEY")
		if key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = b.name
		b.settings(&cfg).APIKey = key
		return cfg, true
	}
	return Config{}, false
}

// Validate reports ErrNotConfigured when the selected backend has no key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	b, ok := lookupBackend(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if b.settings(&c).APIKey == "" {
		return fmt.Errorf("%w: set %s%s_API_KEY to use %s", ErrNotConfigured, envPrefix, b.env, b.name)
	}
	return nil
}

// Model is the configured model for the selected backend, empty when the
// backend default applies.
func (c Config) Model() string {
	if b, ok := lookupBackend(c.Provider); ok {
		return b.settings(&c).Model
	}
	return ""
}

func missingKey(provider string) error {
	return fmt.Errorf("%s: API key is required", provider)
}
