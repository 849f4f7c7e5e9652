package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vkarel/concord/internal/cache"
	"github.com/vkarel/concord/internal/llm"
	"github.com/vkarel/concord/internal/model"
	"github.com/vkarel/concord/internal/worker"
)

// countingProvider returns a fixed claim payload and counts calls.
type countingProvider struct {
	calls int
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Generate(ctx context.Context, req llm.GenerateRequest) (string, error) {
	p.calls++
	return `{"text": "model claim", "confidence": 0.9, "methods": [], "metrics": []}`, nil
}

func longText(sentences int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&b, "Sentence number %d states that accuracy improves with training data size. ", i)
	}
	return b.String()
}

func TestAnalyzePaper_EmptyText(t *testing.T) {
	a := NewAnalyzer(nil, nil, nil, nil, nil)

	if _, err := a.AnalyzePaper(context.Background(), "paper1", ""); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := a.AnalyzePaper(context.Background(), "paper1", "   \n\t "); err == nil {
		t.Error("expected error for whitespace-only text")
	}
}

func TestAnalyzePaper_Heuristic(t *testing.T) {
	a := NewAnalyzer(nil, nil, nil, nil, nil)

	analysis, err := a.AnalyzePaper(context.Background(), "paper1", longText(40))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if analysis.PaperID != "paper1" {
		t.Errorf("paper id = %q", analysis.PaperID)
	}
	if analysis.NumClaims != len(analysis.Claims) {
		t.Errorf("NumClaims %d != len(Claims) %d", analysis.NumClaims, len(analysis.Claims))
	}
	if analysis.NumChunksAnalyzed != len(analysis.Claims) {
		t.Errorf("expected one claim per chunk, %d chunks vs %d claims", analysis.NumChunksAnalyzed, len(analysis.Claims))
	}
	if !analysis.UsedFallback {
		t.Error("heuristic-only run must mark UsedFallback")
	}

	for i, c := range analysis.Claims {
		wantID := fmt.Sprintf("paper1_claim_%d", i)
		if c.ClaimID != wantID {
			t.Errorf("claim %d id = %q, want %q", i, c.ClaimID, wantID)
		}
		if len(c.Provenance) == 0 {
			t.Errorf("claim %d has no provenance", i)
		}
		if c.Text == "" {
			t.Errorf("claim %d has empty text", i)
		}
	}
}

func TestAnalyzePaper_MaxChunksCap(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Chunking.MaxChunks = 2
	a := NewAnalyzer(&cfg, nil, nil, nil, nil)

	analysis, err := a.AnalyzePaper(context.Background(), "paper1", longText(100))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if analysis.NumChunksAnalyzed != 2 {
		t.Errorf("expected 2 chunks analyzed, got %d", analysis.NumChunksAnalyzed)
	}
	if len(analysis.Claims) != 2 {
		t.Errorf("expected 2 claims, got %d", len(analysis.Claims))
	}
}

func TestAnalyzePaper_ModelPath(t *testing.T) {
	p := &countingProvider{}
	a := NewAnalyzer(nil, p, nil, nil, nil)

	analysis, err := a.AnalyzePaper(context.Background(), "paper1", "Short paper text with a single chunk.")
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}

	if p.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", p.calls)
	}
	if len(analysis.Claims) != 1 {
		t.Fatalf("expected 1 claim, got %d", len(analysis.Claims))
	}
	if analysis.Claims[0].Text != "model claim" {
		t.Errorf("claim text = %q", analysis.Claims[0].Text)
	}
	if analysis.UsedFallback {
		t.Error("model path must not mark UsedFallback")
	}
}

func TestAnalyzePaper_CacheHit(t *testing.T) {
	p := &countingProvider{}
	c := cache.NewMemoryCache(time.Minute, time.Minute)
	a := NewAnalyzer(nil, p, nil, c, nil)

	text := "Identical chunk text shared by two papers in this corpus."

	first, err := a.AnalyzePaper(context.Background(), "paperA", text)
	if err != nil {
		t.Fatalf("first analyze failed: %v", err)
	}
	second, err := a.AnalyzePaper(context.Background(), "paperB", text)
	if err != nil {
		t.Fatalf("second analyze failed: %v", err)
	}

	if p.calls != 1 {
		t.Errorf("expected 1 provider call with cache hit, got %d", p.calls)
	}

	// ClaimID is owned by the current paper, never the cache
	if first.Claims[0].ClaimID != "paperA_claim_0" {
		t.Errorf("first claim id = %q", first.Claims[0].ClaimID)
	}
	if second.Claims[0].ClaimID != "paperB_claim_0" {
		t.Errorf("second claim id = %q", second.Claims[0].ClaimID)
	}
	if second.Claims[0].Text != first.Claims[0].Text {
		t.Errorf("cached claim text differs: %q vs %q", second.Claims[0].Text, first.Claims[0].Text)
	}
}

func TestAnalyzePaper_WithLimiter(t *testing.T) {
	p := &countingProvider{}
	limiter := worker.NewLimiter(100, 10)
	a := NewAnalyzer(nil, p, nil, nil, limiter)

	if _, err := a.AnalyzePaper(context.Background(), "paper1", "A short paper under one chunk."); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if p.calls != 1 {
		t.Errorf("expected 1 call, got %d", p.calls)
	}
}
