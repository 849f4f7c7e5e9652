// Package synth cross-references claims from multiple papers to surface
// agreement and disagreement. A model attempt runs first when a capability
// is configured; token heuristics cover every failure mode, and the
// post-processing stage applies to both paths.
package synth

import (
	"context"
	"fmt"

	"github.com/vkarel/concord/internal/llm"
	"github.com/vkarel/concord/internal/model"
	"github.com/vkarel/concord/internal/repair"
)

// Options tunes the synthesis heuristics. Zero values fall back to the
// defaults below.
type Options struct {
	// TokenThreshold is the minimum shared-token count for the consensus
	// fallback.
	TokenThreshold int

	// NegationOverlap is the minimum shared-token count for the
	// negation-asymmetry contradiction check.
	NegationOverlap int

	// CapPerPaper bounds how many claims each paper contributes to the pool.
	CapPerPaper int

	// GlobalCap bounds the total pool size.
	GlobalCap int

	Temperature float32
	MaxTokens   int
}

func (o Options) withDefaults() Options {
	if o.TokenThreshold <= 0 {
		o.TokenThreshold = 2
	}
	if o.NegationOverlap <= 0 {
		o.NegationOverlap = 1
	}
	if o.CapPerPaper <= 0 {
		o.CapPerPaper = 10
	}
	if o.GlobalCap <= 0 {
		o.GlobalCap = 30
	}
	if o.Temperature == 0 {
		o.Temperature = 0.15
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = 400
	}
	return o
}

// Engine derives consensus statements and contradiction pairs from a set
// of per-paper analyses. The provider may be nil; synthesis then runs on
// heuristics alone. An Engine holds no mutable state: every Synthesize
// call builds its own pools, so concurrent calls are safe.
type Engine struct {
	provider llm.Provider
	opts     Options
}

// NewEngine creates a synthesis engine. provider may be nil.
func NewEngine(provider llm.Provider, opts Options) *Engine {
	return &Engine{
		provider: provider,
		opts:     opts.withDefaults(),
	}
}

// pooledClaim carries what synthesis needs from one claim, with its
// normalized token set precomputed.
type pooledClaim struct {
	PaperID    string
	ClaimID    string
	Text       string
	Confidence float64

	tokens  map[string]struct{}
	negated bool
}

// Synthesize cross-references the analyses. The only caller-visible error
// is malformed input (fewer than two papers); capability failures degrade
// to the heuristic path and never propagate.
func (e *Engine) Synthesize(ctx context.Context, analyses []model.Analysis) (*model.SynthesisResult, error) {
	if len(analyses) < 2 {
		return nil, fmt.Errorf("synth: need at least 2 analyzed papers, got %d", len(analyses))
	}

	pool := buildPool(analyses, e.opts.CapPerPaper, e.opts.GlobalCap)

	consensus := e.modelConsensus(ctx, pool)
	contradictions := e.modelContradictions(ctx, pool)

	if len(consensus) == 0 {
		consensus = tokenOverlapConsensus(pool, e.opts.TokenThreshold)
	}
	if len(contradictions) == 0 {
		contradictions = heuristicContradictions(pool, e.opts.NegationOverlap)
	}

	consensus = postProcessConsensus(consensus, pool)
	contradictions = postProcessContradictions(contradictions)

	return &model.SynthesisResult{
		NumPapers:         len(analyses),
		NumConsensus:      len(consensus),
		NumContradictions: len(contradictions),
		Consensus:         consensus,
		Contradictions:    contradictions,
	}, nil
}

// buildPool takes up to capPerPaper claims per paper, up to globalCap in
// total, preserving input order.
func buildPool(analyses []model.Analysis, capPerPaper, globalCap int) []pooledClaim {
	var pool []pooledClaim
	for _, a := range analyses {
		claims := a.Claims
		if len(claims) > capPerPaper {
			claims = claims[:capPerPaper]
		}
		for _, c := range claims {
			if len(pool) >= globalCap {
				return pool
			}
			tokens, negated := analyzeText(c.Text)
			pool = append(pool, pooledClaim{
				PaperID:    a.PaperID,
				ClaimID:    c.ClaimID,
				Text:       c.Text,
				Confidence: c.Confidence,
				tokens:     tokens,
				negated:    negated,
			})
		}
	}
	return pool
}

// modelConsensus runs the model attempt; any failure yields nil so the
// caller falls back to the token heuristic.
func (e *Engine) modelConsensus(ctx context.Context, pool []pooledClaim) []model.ConsensusStatement {
	if e.provider == nil || len(pool) == 0 {
		return nil
	}
	raw, err := e.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:      consensusPrompt(pool),
		Temperature: e.opts.Temperature,
		MaxTokens:   e.opts.MaxTokens,
	})
	if err != nil {
		return nil
	}
	var out []model.ConsensusStatement
	if err := repair.RepairInto(raw, &out); err != nil {
		return nil
	}
	return out
}

func (e *Engine) modelContradictions(ctx context.Context, pool []pooledClaim) []model.ContradictionPair {
	if e.provider == nil || len(pool) == 0 {
		return nil
	}
	raw, err := e.provider.Generate(ctx, llm.GenerateRequest{
		Prompt:      contradictionsPrompt(pool),
		Temperature: e.opts.Temperature,
		MaxTokens:   e.opts.MaxTokens,
	})
	if err != nil {
		return nil
	}
	var out []model.ContradictionPair
	if err := repair.RepairInto(raw, &out); err != nil {
		return nil
	}
	return out
}
