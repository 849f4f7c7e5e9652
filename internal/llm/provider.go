// Package llm abstracts the text-generation capability behind a single
// normalized interface. All provider-specific response-shape handling lives
// inside the adapters; callers only ever see one raw text string.
package llm

import "context"

// Provider is an abstract text-generation capability.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Generate produces raw text for a prompt. Rate-limit rejections come
	// back as *RateLimitError so callers can classify them.
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateRequest is the single request shape shared by all providers.
type GenerateRequest struct {
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// FallbackModel is the cheaper model used for the secondary handle
	FallbackModel string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "", // Disabled by default
		Timeout:   30,
		MaxTokens: 400,
	}
}
