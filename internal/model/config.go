package model

// Config is the complete concord configuration tree. Values are layered:
// CLI flags > CONCORD_* environment variables > config file > defaults.
type Config struct {
	Chunking    ChunkingConfig    `yaml:"chunking" mapstructure:"chunking"`
	Synthesis   SynthesisConfig   `yaml:"synthesis" mapstructure:"synthesis"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
}

// ChunkingConfig bounds how documents are segmented before extraction.
type ChunkingConfig struct {
	MaxChars     int `yaml:"max_chars" mapstructure:"max_chars"`
	OverlapChars int `yaml:"overlap_chars" mapstructure:"overlap_chars"`
	MaxChunks    int `yaml:"max_chunks" mapstructure:"max_chunks"` // Per-paper chunk cap
}

// SynthesisConfig tunes the cross-paper heuristics.
type SynthesisConfig struct {
	TokenThreshold int `yaml:"token_threshold" mapstructure:"token_threshold"` // Shared tokens for consensus
	CapPerPaper    int `yaml:"cap_per_paper" mapstructure:"cap_per_paper"`
	GlobalCap      int `yaml:"global_cap" mapstructure:"global_cap"`
}

// LLMConfig selects and configures the text-generation capability.
// An empty Provider disables generation entirely; extraction and synthesis
// then run on heuristics alone.
type LLMConfig struct {
	Provider      string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, ""
	Model         string  `yaml:"model" mapstructure:"model"`
	FallbackModel string  `yaml:"fallback_model" mapstructure:"fallback_model"` // Cheaper secondary handle
	APIKey        string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout       int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens     int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature   float64 `yaml:"temperature" mapstructure:"temperature"`
}

// ConcurrencyConfig bounds cross-paper parallelism and request pacing.
type ConcurrencyConfig struct {
	AnalysisWorkers   int     `yaml:"analysis_workers" mapstructure:"analysis_workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls the in-memory chunk-level claim cache.
type CacheConfig struct {
	Enabled        bool `yaml:"enabled" mapstructure:"enabled"`
	TTLMinutes     int  `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	CleanupMinutes int  `yaml:"cleanup_minutes" mapstructure:"cleanup_minutes"`
}

// DefaultConfig returns sensible defaults for all settings.
func DefaultConfig() Config {
	return Config{
		Chunking: ChunkingConfig{
			MaxChars:     1500,
			OverlapChars: 200,
			MaxChunks:    6, // keeps a paper within model token budgets
		},
		Synthesis: SynthesisConfig{
			TokenThreshold: 2,
			CapPerPaper:    10,
			GlobalCap:      30,
		},
		LLM: LLMConfig{
			Provider:    "", // Disabled by default
			Timeout:     30,
			MaxTokens:   400,
			Temperature: 0.15,
		},
		Concurrency: ConcurrencyConfig{
			AnalysisWorkers:   3,
			RequestsPerSecond: 1,
			Burst:             2,
		},
		Cache: CacheConfig{
			Enabled:        true,
			TTLMinutes:     60,
			CleanupMinutes: 10,
		},
	}
}
