package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vkarel/concord/internal/model"
)

// MockAnalyzer implements Analyzer
type MockAnalyzer struct {
	ShouldError bool
}

func (m *MockAnalyzer) AnalyzePaper(ctx context.Context, paperID, text string) (*model.Analysis, error) {
	time.Sleep(10 * time.Millisecond) // Simulate work
	if m.ShouldError {
		return nil, errors.New("analyze error")
	}
	return &model.Analysis{
		PaperID:   paperID,
		NumClaims: 1,
		Claims: []model.Claim{
			{ClaimID: paperID + "_claim_0", Text: "claim from " + paperID, Confidence: 0.5},
		},
	}, nil
}

func TestBatchProcessor_ProcessPapers(t *testing.T) {
	analyzer := &MockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2)

	papers := []PaperInput{
		{PaperID: "paper1", Text: "text one"},
		{PaperID: "paper2", Text: "text two"},
		{PaperID: "paper3", Text: "text three"},
	}

	results := processor.ProcessPapers(context.Background(), papers)

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	seen := make(map[string]bool)
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.PaperID, res.Error)
			continue
		}
		if res.Analysis == nil {
			t.Errorf("expected analysis for %s", res.PaperID)
			continue
		}
		if res.Analysis.PaperID != res.PaperID {
			t.Errorf("result paper mismatch: %s vs %s", res.Analysis.PaperID, res.PaperID)
		}
		seen[res.PaperID] = true
	}

	for _, p := range papers {
		if !seen[p.PaperID] {
			t.Errorf("missing result for %s", p.PaperID)
		}
	}
}

func TestBatchProcessor_ProcessPapers_Error(t *testing.T) {
	analyzer := &MockAnalyzer{ShouldError: true}
	processor := NewBatchProcessor(analyzer, 2)

	results := processor.ProcessPapers(context.Background(), []PaperInput{{PaperID: "paper1", Text: "x"}})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Analysis != nil {
		t.Error("expected nil analysis on error")
	}
}

func TestBatchProcessor_ProcessPapers_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockAnalyzer{}, 2)

	results := processor.ProcessPapers(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestAnalyzeResult_GetError(t *testing.T) {
	r1 := &AnalyzeResult{PaperID: "paper1"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analysis failed")
	r2 := &AnalyzeResult{PaperID: "paper1", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
