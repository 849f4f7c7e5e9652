package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vkarel/concord/internal/model"
)

// Confidence steps for heuristic claims: a low base, raised when method or
// metric signals are present, raised again when both are.
const (
	heuristicBaseConfidence   = 0.35
	heuristicSingleConfidence = 0.45
	heuristicDoubleConfidence = 0.55
)

// minSentenceChars is the shortest sentence accepted as a claim before the
// extractor degrades to the first sentence or a raw prefix.
const minSentenceChars = 30

// prefixChars bounds the raw-text claim used when no sentence qualifies.
const prefixChars = 200

var percentRe = regexp.MustCompile(`\b\d{1,3}(?:\.\d+)?\s?%`)

// HeuristicExtractor derives a claim from chunk text without any model
// call. It is the terminal fallback of the extraction chain: it never
// fails and performs no I/O.
type HeuristicExtractor struct {
	methodKeywords []string
	metricKeywords []string
}

// NewHeuristicExtractor creates an extractor with the fixed technique and
// metric vocabularies.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{
		methodKeywords: []string{
			"BERT", "RoBERTa", "Transformer", "CNN", "RNN", "LSTM",
			"GAN", "SVM", "reinforcement learning", "deep learning",
			"self-supervised", "contrastive", "fine-tun", "pre-train",
			"encoder", "decoder",
		},
		metricKeywords: []string{
			"accuracy", "f1", "precision", "recall", "auc", "mse", "rmse", "bleu",
		},
	}
}

// Extract derives one claim from chunkText: the first sentence longer than
// the minimum, else the first sentence, else a truncated prefix of the raw
// text. The result is always marked as fallback output.
func (e *HeuristicExtractor) Extract(chunkText, chunkID string) model.Claim {
	primary := ""
	sentences := splitSentences(chunkText)
	for _, s := range sentences {
		if len(s) > minSentenceChars {
			primary = s
			break
		}
	}
	if primary == "" {
		if len(sentences) > 0 {
			primary = sentences[0]
		} else {
			t := strings.TrimSpace(chunkText)
			if len(t) > prefixChars {
				t = strings.TrimSpace(t[:runeBoundary(t, prefixChars)])
			}
			primary = t
		}
	}

	methods := e.detectMethods(chunkText)
	metrics := e.detectMetrics(chunkText)

	confidence := heuristicBaseConfidence
	switch {
	case len(methods) > 0 && len(metrics) > 0:
		confidence = heuristicDoubleConfidence
	case len(methods) > 0 || len(metrics) > 0:
		confidence = heuristicSingleConfidence
	}

	return model.Claim{
		Text:         primary,
		Confidence:   confidence,
		Provenance:   []string{chunkID},
		Methods:      methods,
		Metrics:      metrics,
		UsedFallback: true,
	}
}

// detectMethods matches the fixed technique/architecture vocabulary,
// case-insensitively.
func (e *HeuristicExtractor) detectMethods(text string) []string {
	lower := strings.ToLower(text)
	found := make(map[string]bool)
	for _, kw := range e.methodKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found[kw] = true
		}
	}
	return sortedKeys(found)
}

// detectMetrics matches percentage literals plus the fixed metric
// vocabulary.
func (e *HeuristicExtractor) detectMetrics(text string) []string {
	found := make(map[string]bool)
	for _, m := range percentRe.FindAllString(text, -1) {
		found[strings.TrimSpace(m)] = true
	}
	lower := strings.ToLower(text)
	for _, kw := range e.metricKeywords {
		if strings.Contains(lower, kw) {
			found[kw] = true
		}
	}
	return sortedKeys(found)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// runeBoundary walks cut back until it does not split a multibyte rune.
func runeBoundary(s string, cut int) int {
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}
