package llm

import (
	"fmt"
	"strings"

	"github.com/vkarel/concord/internal/model"
)

// NewProvider creates a provider based on configuration. An empty provider
// name means generation is disabled; the returned handle is nil and callers
// degrade to heuristics.
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// NewProviderPair builds the primary and the cheaper secondary capability
// handles. The secondary is the same provider pointed at FallbackModel; it
// is nil when no distinct fallback model is configured.
func NewProviderPair(config Config) (Provider, Provider, error) {
	primary, err := NewProvider(config)
	if err != nil || primary == nil {
		return primary, nil, err
	}

	if config.FallbackModel == "" || config.FallbackModel == config.Model {
		return primary, nil, nil
	}

	fallbackConfig := config
	fallbackConfig.Model = config.FallbackModel
	secondary, err := NewProvider(fallbackConfig)
	if err != nil {
		return primary, nil, err
	}
	return primary, secondary, nil
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:      modelConfig.Provider,
		Model:         modelConfig.Model,
		FallbackModel: modelConfig.FallbackModel,
		APIKey:        modelConfig.APIKey,
		BaseURL:       modelConfig.BaseURL,
		Timeout:       modelConfig.Timeout,
		MaxTokens:     modelConfig.MaxTokens,
	}
}
