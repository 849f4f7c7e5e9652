package worker

import (
	"context"

	"github.com/vkarel/concord/internal/model"
)

// Analyzer defines the interface for analyzing a single paper.
type Analyzer interface {
	AnalyzePaper(ctx context.Context, paperID, text string) (*model.Analysis, error)
}

// PaperInput is one document to analyze.
type PaperInput struct {
	PaperID string
	Text    string
}

// AnalyzeJob represents a single-paper analysis job
type AnalyzeJob struct {
	Input    PaperInput
	Analyzer Analyzer
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	analysis, err := j.Analyzer.AnalyzePaper(ctx, j.Input.PaperID, j.Input.Text)
	return &AnalyzeResult{
		PaperID:  j.Input.PaperID,
		Analysis: analysis,
		Error:    err,
	}
}

// AnalyzeResult represents the result of an analysis job
type AnalyzeResult struct {
	PaperID  string
	Analysis *model.Analysis
	Error    error
}

// GetError returns the error from the analysis result
func (r *AnalyzeResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple papers concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessPapers analyzes the given papers concurrently and returns one
// result per input, in completion order.
func (b *BatchProcessor) ProcessPapers(ctx context.Context, papers []PaperInput) []*AnalyzeResult {
	if len(papers) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, p := range papers {
		pool.Submit(&AnalyzeJob{
			Input:    p,
			Analyzer: b.analyzer,
		})
	}

	results := pool.Wait()

	analyzeResults := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		analyzeResults[i] = result.(*AnalyzeResult)
	}

	return analyzeResults
}
