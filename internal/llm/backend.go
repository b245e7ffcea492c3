// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/autosurvey/pkg/types"
)

// Default model identifiers per provider.
const (
	DefaultClaudeModel = "claude-sonnet-4-5"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// NewBackend builds the backend selected by cfg.Provider.
func NewBackend(ctx context.Context, cfg types.LLMConfig) (Backend, error) {
	cfg = cfg.WithDefaults()
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case types.ProviderClaude:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("claude provider requires an API key (.secrets/anthropic-api-key or AUTOSURVEY_LLM_API_KEY)")
		}
		return &ClaudeBackend{
			APIKey:    cfg.APIKey,
			Model:     ModelFor(cfg),
			MaxTokens: cfg.MaxTokens,
			UserAgent: cfg.UserAgent,
			Client:    httpClient,
		}, nil
	case types.ProviderGemini:
		return NewGeminiBackend(ctx, cfg.APIKey, ModelFor(cfg), cfg.MaxTokens)
	case types.ProviderOpenAI:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai provider requires an API key or a base URL")
		}
		return &OpenAIBackend{
			APIKey:    cfg.APIKey,
			Model:     ModelFor(cfg),
			BaseURL:   cfg.BaseURL,
			MaxTokens: cfg.MaxTokens,
			UserAgent: cfg.UserAgent,
			Client:    httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want claude, gemini, or openai)", cfg.Provider)
	}
}

// ModelFor returns the model identifier cfg resolves to: cfg.Model, or the
// provider's default when it is empty.
func ModelFor(cfg types.LLMConfig) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	switch cfg.WithDefaults().Provider {
	case types.ProviderGemini:
		return DefaultGeminiModel
	case types.ProviderOpenAI:
		return DefaultOpenAIModel
	default:
		return DefaultClaudeModel
	}
}
