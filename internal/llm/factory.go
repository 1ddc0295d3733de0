package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/mindcheck/internal/store"
)

// NewProvider creates a single Provider for one configured engine.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, spec EngineSpec, eventRepo store.EventRepo, logger *zap.Logger) (Provider, error) {
	var base Provider
	var err error

	switch spec.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(AnthropicConfig{APIKey: cfg.Anthropic.APIKey, Model: spec.Model})
	case "openai":
		base, err = NewOpenAIProvider(OpenAIConfig{APIKey: cfg.OpenAI.APIKey, Model: spec.Model, BaseURL: cfg.OpenAI.BaseURL})
	case "gemini":
		base, err = NewGeminiProvider(ctx, GeminiConfig{APIKey: cfg.Gemini.APIKey, Model: spec.Model, BaseURL: cfg.Gemini.BaseURL})
	case "openrouter":
		base, err = NewOpenRouterProvider(OpenRouterConfig{APIKey: cfg.OpenRouter.APIKey, Model: spec.Model, BaseURL: cfg.OpenRouter.BaseURL})
	case "mock":
		base = &MockProvider{Model: spec.Model}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", spec.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", spec, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, spec.String(), eventRepo, logger)
	retried := WithRetry(logged, cfg.Retry)

	return retried, nil
}

// NewEngines builds one Engine per configured engine, in order.
func NewEngines(ctx context.Context, cfg Config, eventRepo store.EventRepo, logger *zap.Logger) ([]Engine, error) {
	engines := make([]Engine, 0, len(cfg.Engines))
	for _, spec := range cfg.Engines {
		p, err := NewProvider(ctx, cfg, spec, eventRepo, logger)
		if err != nil {
			return nil, err
		}
		engines = append(engines, Engine{Name: spec.String(), Provider: p})
	}
	return engines, nil
}
