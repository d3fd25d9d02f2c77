package llm

import (
	"fmt"

	"draftdeck/internal/config"
	domainllm "draftdeck/internal/domain/services/llm"
	"draftdeck/internal/service/llm/providers/anthropic"
	"draftdeck/internal/service/llm/providers/gemini"
	"draftdeck/internal/service/llm/providers/lorem"
)

// ProviderFactory creates provider instances from config
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{config: cfg}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "gemini" - Google Gemini models (the default)
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - Mock provider for dev and tests (no API key required)
func (f *ProviderFactory) GetProvider(providerName string) (domainllm.Provider, error) {
	switch providerName {
	case "gemini":
		if f.config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		return gemini.NewProvider(f.config.GeminiAPIKey, f.config.GeminiModel)

	case "anthropic":
		if f.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
		return anthropic.NewProvider(f.config.AnthropicAPIKey, f.config.AnthropicModel)

	case "lorem":
		return lorem.NewProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}
