// Package pipeline orchestrates per-paper analysis: chunking, rate-limited
// claim extraction with caching, and aggregation into an Analysis.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vkarel/concord/internal/cache"
	"github.com/vkarel/concord/internal/chunk"
	"github.com/vkarel/concord/internal/extract"
	"github.com/vkarel/concord/internal/llm"
	"github.com/vkarel/concord/internal/model"
	"github.com/vkarel/concord/internal/worker"
)

// Analyzer turns one paper's text into provenance-tagged claims.
type Analyzer struct {
	config    *model.Config
	primary   llm.Provider
	secondary llm.Provider
	cache     cache.Cache
	limiter   *worker.Limiter
}

// NewAnalyzer creates an analyzer. Providers may be nil; extraction then
// runs on heuristics alone. cache and limiter may also be nil.
func NewAnalyzer(cfg *model.Config, primary, secondary llm.Provider, c cache.Cache, limiter *worker.Limiter) *Analyzer {
	if cfg == nil {
		def := model.DefaultConfig()
		cfg = &def
	}
	return &Analyzer{
		config:    cfg,
		primary:   primary,
		secondary: secondary,
		cache:     c,
		limiter:   limiter,
	}
}

// AnalyzePaper analyzes a single paper's text. The only error is empty
// input; extraction failures degrade per chunk and never propagate.
func (a *Analyzer) AnalyzePaper(ctx context.Context, paperID, text string) (*model.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("pipeline: paper %s has no text", paperID)
	}

	chunks := chunk.Split(text, a.config.Chunking.MaxChars, a.config.Chunking.OverlapChars)
	if limit := a.config.Chunking.MaxChunks; limit > 0 && len(chunks) > limit {
		chunks = chunks[:limit]
	}

	extractor := extract.NewClaimExtractor(a.primary, a.secondary)

	analysis := &model.Analysis{
		PaperID:           paperID,
		NumChunksAnalyzed: len(chunks),
		Claims:            make([]model.Claim, 0, len(chunks)),
	}

	for i, chunkText := range chunks {
		chunkID := fmt.Sprintf("chunk_%d", i)

		claim, cached := a.cachedClaim(chunkText)
		if !cached {
			a.waitForSlot(ctx)
			claim = extractor.ExtractClaim(ctx, chunkText, chunkID)
			a.storeClaim(chunkText, claim)
		}

		claim.ClaimID = fmt.Sprintf("%s_claim_%d", paperID, i)
		if len(claim.Provenance) == 0 {
			claim.Provenance = []string{chunkID}
		}
		if claim.UsedFallback {
			analysis.UsedFallback = true
		}
		analysis.Claims = append(analysis.Claims, claim)
	}

	analysis.NumClaims = len(analysis.Claims)
	return analysis, nil
}

// waitForSlot blocks on the provider's rate bucket. Heuristic-only runs
// make no requests and skip the limiter.
func (a *Analyzer) waitForSlot(ctx context.Context) {
	if a.limiter == nil || a.primary == nil {
		return
	}
	if err := a.limiter.Wait(ctx, a.primary.Name()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: rate limiter wait interrupted: %v\n", err)
	}
}

// cachedClaim looks up a chunk's claim by content hash. ClaimID is not
// stored, so a hit is valid for any paper containing the same chunk.
func (a *Analyzer) cachedClaim(chunkText string) (model.Claim, bool) {
	if a.cache == nil {
		return model.Claim{}, false
	}
	data, found := a.cache.Get(cache.Key(chunkText))
	if !found {
		return model.Claim{}, false
	}
	var claim model.Claim
	if err := json.Unmarshal(data, &claim); err != nil {
		return model.Claim{}, false
	}
	return claim, true
}

func (a *Analyzer) storeClaim(chunkText string, claim model.Claim) {
	if a.cache == nil {
		return
	}
	claim.ClaimID = ""
	data, err := json.Marshal(claim)
	if err != nil {
		return
	}
	ttl := time.Duration(a.config.Cache.TTLMinutes) * time.Minute
	_ = a.cache.Set(cache.Key(chunkText), data, ttl)
}
