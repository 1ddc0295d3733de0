package llm

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all generation engine configuration.
type Config struct {
	// Engines lists the provider/model pairs to try, in priority order.
	// Cheapest and fastest first.
	Engines []EngineSpec `validate:"dive"`

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds a single rewrite attempt against one engine,
	// including the retry decorator's own retries. Default: 8s.
	Timeout time.Duration `validate:"gt=0"`
}

// EngineSpec names one engine as provider plus model.
type EngineSpec struct {
	Provider string `validate:"required,oneof=anthropic openai gemini openrouter mock"`
	Model    string `validate:"required"`
}

// String renders the engine in its "provider:model" form.
func (e EngineSpec) String() string {
	return e.Provider + ":" + e.Model
}

// ParseEngines parses a comma separated "provider:model" list.
// Blank entries are skipped.
func ParseEngines(s string) ([]EngineSpec, error) {
	var specs []EngineSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		provider, model, ok := strings.Cut(part, ":")
		provider = strings.ToLower(strings.TrimSpace(provider))
		model = strings.TrimSpace(model)
		if !ok || provider == "" || model == "" {
			return nil, fmt.Errorf("invalid engine %q: want provider:model", part)
		}
		specs = append(specs, EngineSpec{Provider: provider, Model: model})
	}
	return specs, nil
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Proxy or test server.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures within a
// single attempt. The rewriter counts one attempt as one generation call,
// so MaxAttempts defaults to 1; MINDCHECK_ENGINE_RETRIES raises it for
// callers that accept the extra calls.
type RetryConfig struct {
	MaxAttempts int `validate:"min=1"`
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// defaultLadders is the engine order used for each provider when
// MINDCHECK_ENGINES is not set.
var defaultLadders = map[string][]string{
	"openai":     {"gpt-4.1-nano", "gpt-4o-mini", "gpt-3.5-turbo"},
	"anthropic":  {"claude-haiku", "claude-sonnet"},
	"gemini":     {"gemini-flash-lite", "gemini-flash"},
	"openrouter": {"openai/gpt-4o-mini", "google/gemini-2.0-flash-exp"},
}

// DefaultLadder returns the default engine list for one provider.
func DefaultLadder(provider string) []EngineSpec {
	var specs []EngineSpec
	for _, m := range defaultLadders[provider] {
		specs = append(specs, EngineSpec{Provider: provider, Model: m})
	}
	return specs
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engines: DefaultLadder("openai"),
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 200 * time.Millisecond,
			MaxWait:     1 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 8 * time.Second,
	}
}

// envKey returns the first non-empty value among the given variables.
func envKey(names ...string) string {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v
		}
	}
	return ""
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. API keys are read from both the
// MINDCHECK_-prefixed and the vendor-standard names.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.OpenAI.APIKey = envKey("MINDCHECK_OPENAI_API_KEY", "OPENAI_API_KEY")
	cfg.OpenAI.BaseURL = os.Getenv("MINDCHECK_OPENAI_BASE_URL")
	cfg.Anthropic.APIKey = envKey("MINDCHECK_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	cfg.Gemini.APIKey = envKey("MINDCHECK_GEMINI_API_KEY", "GEMINI_API_KEY")
	cfg.Gemini.BaseURL = os.Getenv("MINDCHECK_GEMINI_BASE_URL")
	cfg.OpenRouter.APIKey = envKey("MINDCHECK_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	cfg.OpenRouter.BaseURL = os.Getenv("MINDCHECK_OPENROUTER_BASE_URL")

	if s := os.Getenv("MINDCHECK_ENGINES"); s != "" {
		engines, err := ParseEngines(s)
		if err != nil {
			return Config{}, fmt.Errorf("MINDCHECK_ENGINES: %w", err)
		}
		cfg.Engines = engines
	} else {
		cfg.Engines = discoverEngines(cfg)
	}

	if s := os.Getenv("MINDCHECK_ENGINE_RETRIES"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("MINDCHECK_ENGINE_RETRIES: want a positive integer, got %q", s)
		}
		cfg.Retry.MaxAttempts = n
	}

	if s := os.Getenv("MINDCHECK_ATTEMPT_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("MINDCHECK_ATTEMPT_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// discoverEngines probes API keys in priority order
// (OpenAI → Anthropic → Gemini → OpenRouter) and returns the default
// ladder for the first provider whose key is present. With no key at all
// the OpenAI ladder is kept so Validate reports the missing credential.
func discoverEngines(cfg Config) []EngineSpec {
	switch {
	case cfg.OpenAI.APIKey != "":
		return DefaultLadder("openai")
	case cfg.Anthropic.APIKey != "":
		return DefaultLadder("anthropic")
	case cfg.Gemini.APIKey != "":
		return DefaultLadder("gemini")
	case cfg.OpenRouter.APIKey != "":
		return DefaultLadder("openrouter")
	}
	return DefaultLadder("openai")
}

// Validate checks that every configured engine has its API key set.
func (c Config) Validate() error {
	for _, e := range c.Engines {
		switch e.Provider {
		case "anthropic":
			if c.Anthropic.APIKey == "" {
				return fmt.Errorf("%w: ANTHROPIC_API_KEY is required for engine %s", ErrMissingCredential, e)
			}
		case "openai":
			if c.OpenAI.APIKey == "" {
				return fmt.Errorf("%w: OPENAI_API_KEY is required for engine %s", ErrMissingCredential, e)
			}
		case "gemini":
			if c.Gemini.APIKey == "" {
				return fmt.Errorf("%w: GEMINI_API_KEY is required for engine %s", ErrMissingCredential, e)
			}
		case "openrouter":
			if c.OpenRouter.APIKey == "" {
				return fmt.Errorf("%w: OPENROUTER_API_KEY is required for engine %s", ErrMissingCredential, e)
			}
		case "mock":
			// No API key needed.
		default:
			return fmt.Errorf("unknown LLM provider: %q", e.Provider)
		}
	}
	return nil
}
