package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vkarel/concord/internal/cache"
	"github.com/vkarel/concord/internal/docload"
	"github.com/vkarel/concord/internal/llm"
	"github.com/vkarel/concord/internal/model"
	"github.com/vkarel/concord/internal/pipeline"
	"github.com/vkarel/concord/internal/synth"
	"github.com/vkarel/concord/internal/worker"
)

var (
	outJSON        string
	concurrency    int
	analyzeTimeout time.Duration
	noCache        bool
	noSynthesis    bool
	llmProvider    string
	llmModel       string
	fallbackModel  string
)

// Report is the top-level JSON output of an analyze run.
type Report struct {
	Analyses  []model.Analysis       `json:"analyses"`
	Synthesis *model.SynthesisResult `json:"synthesis,omitempty"`
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Extract claims from papers and synthesize across them",
	Long: `Analyze reads one or more paper files (.txt, .md, .html), extracts
one provenance-tagged claim per chunk, and, given two or more papers,
cross-references the claims into consensus statements and
contradiction pairs.

Example:
  concord analyze paper1.txt paper2.txt
  concord analyze papers/*.txt --out report.json
  concord analyze paper1.txt paper2.txt --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "out", "report.json", "output JSON path")
	analyzeCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent paper analyses (default from config)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 10*time.Minute, "total timeout for the run")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the chunk claim cache")
	analyzeCmd.Flags().BoolVar(&noSynthesis, "no-synthesis", false, "skip cross-paper synthesis")

	// LLM flags
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama); empty runs heuristics only")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
	analyzeCmd.Flags().StringVar(&fallbackModel, "fallback-model", "", "cheaper model tried after the primary fails")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if concurrency > 0 {
		cfg.Concurrency.AnalysisWorkers = concurrency
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if fallbackModel != "" {
		cfg.LLM.FallbackModel = fallbackModel
	}
	if err := resolveAPIKey(&cfg.LLM); err != nil {
		return err
	}

	// Load papers up front so bad paths fail before any model call
	papers := make([]worker.PaperInput, 0, len(args))
	for _, path := range args {
		doc, err := docload.Load(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		papers = append(papers, worker.PaperInput{PaperID: doc.PaperID, Text: doc.Text})
	}

	primary, secondary, err := llm.NewProviderPair(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		primary, secondary = nil, nil
	}
	if verbose && primary != nil {
		fmt.Fprintf(os.Stderr, "Using provider: %s\n", primary.Name())
	}

	var claimCache cache.Cache
	if cfg.Cache.Enabled {
		claimCache = cache.NewMemoryCache(
			time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.CleanupMinutes)*time.Minute,
		)
	}
	limiter := worker.NewLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.Burst)

	analyzer := pipeline.NewAnalyzer(&cfg, primary, secondary, claimCache, limiter)
	processor := worker.NewBatchProcessor(analyzer, cfg.Concurrency.AnalysisWorkers)

	fmt.Fprintf(os.Stderr, "Analyzing %d papers with %d workers...\n", len(papers), cfg.Concurrency.AnalysisWorkers)
	results := processor.ProcessPapers(ctx, papers)

	report := &Report{Analyses: make([]model.Analysis, 0, len(results))}
	failures := 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.PaperID, res.Error)
			continue
		}
		report.Analyses = append(report.Analyses, *res.Analysis)
		fmt.Fprintf(os.Stderr, "✓ %s: %d claims from %d chunks\n", res.PaperID, res.Analysis.NumClaims, res.Analysis.NumChunksAnalyzed)
	}

	if !noSynthesis && len(report.Analyses) >= 2 {
		engine := synth.NewEngine(primary, synth.Options{
			TokenThreshold: cfg.Synthesis.TokenThreshold,
			CapPerPaper:    cfg.Synthesis.CapPerPaper,
			GlobalCap:      cfg.Synthesis.GlobalCap,
			Temperature:    float32(cfg.LLM.Temperature),
			MaxTokens:      cfg.LLM.MaxTokens,
		})
		synthesis, err := engine.Synthesize(ctx, report.Analyses)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: synthesis failed: %v\n", err)
		} else {
			report.Synthesis = synthesis
			fmt.Fprintf(os.Stderr, "Synthesis: %d consensus, %d contradictions\n", synthesis.NumConsensus, synthesis.NumContradictions)
		}
	}

	if err := writeReport(report, outJSON); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote report: %s\n", outJSON)

	if failures == len(results) {
		return fmt.Errorf("all %d papers failed", failures)
	}
	return nil
}

// loadConfig layers the config file and CONCORD_* environment over defaults.
func loadConfig() (model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse configuration: %w", err)
	}
	return cfg, nil
}

// resolveAPIKey fills the key for the selected provider from the
// conventional environment variables.
func resolveAPIKey(cfg *model.LLMConfig) error {
	if cfg.APIKey != "" {
		return nil
	}
	switch cfg.Provider {
	case "openai":
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.BaseURL == "" {
			cfg.BaseURL = baseURL
		}
	}
	return nil
}

func writeReport(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
