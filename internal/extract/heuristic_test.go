package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestHeuristic_PicksFirstLongSentence(t *testing.T) {
	e := NewHeuristicExtractor()

	text := "Short one. Our transformer model improves accuracy by 12.5% on the benchmark. Another sentence follows here."
	claim := e.Extract(text, "chunk_0")

	if !strings.HasPrefix(claim.Text, "Our transformer model") {
		t.Errorf("expected the first long sentence, got %q", claim.Text)
	}
	if !claim.UsedFallback {
		t.Error("heuristic claims must be marked as fallback")
	}
	if len(claim.Provenance) != 1 || claim.Provenance[0] != "chunk_0" {
		t.Errorf("expected provenance [chunk_0], got %v", claim.Provenance)
	}
}

func TestHeuristic_ShortChunkFallsBackToFirstSentence(t *testing.T) {
	e := NewHeuristicExtractor()

	claim := e.Extract("Tiny result. Small note.", "chunk_3")
	if claim.Text != "Tiny result." {
		t.Errorf("expected first sentence, got %q", claim.Text)
	}
	if !claim.UsedFallback {
		t.Error("expected used_fallback = true")
	}
}

func TestHeuristic_NoSentenceUsesPrefix(t *testing.T) {
	e := NewHeuristicExtractor()

	// No terminal punctuation at all, longer than the prefix cap.
	text := strings.Repeat("word ", 60)
	claim := e.Extract(text, "chunk_1")

	if len(claim.Text) == 0 || len(claim.Text) > 200 {
		t.Errorf("expected non-empty prefix of at most 200 chars, got %d chars", len(claim.Text))
	}
	if !claim.UsedFallback {
		t.Error("expected used_fallback = true")
	}
}

func TestHeuristic_PrefixKeepsRuneBoundary(t *testing.T) {
	e := NewHeuristicExtractor()

	// Unterminated multibyte text whose 200-byte mark lands inside a rune.
	text := strings.Repeat("测", 80)
	claim := e.Extract(text, "chunk_1")

	if !utf8.ValidString(claim.Text) {
		t.Errorf("prefix truncation produced invalid UTF-8: %q", claim.Text)
	}
	if len(claim.Text) == 0 || len(claim.Text) > 200 {
		t.Errorf("expected non-empty prefix of at most 200 bytes, got %d", len(claim.Text))
	}
}

func TestHeuristic_MethodAndMetricDetection(t *testing.T) {
	e := NewHeuristicExtractor()

	claim := e.Extract("We fine-tune a BERT encoder and report 92.5% accuracy and F1 on the test set.", "chunk_0")

	hasMethod := func(name string) bool {
		for _, m := range claim.Methods {
			if m == name {
				return true
			}
		}
		return false
	}
	if !hasMethod("BERT") || !hasMethod("encoder") {
		t.Errorf("expected BERT and encoder in methods, got %v", claim.Methods)
	}

	foundPercent, foundAccuracy := false, false
	for _, m := range claim.Metrics {
		if m == "92.5%" {
			foundPercent = true
		}
		if m == "accuracy" {
			foundAccuracy = true
		}
	}
	if !foundPercent || !foundAccuracy {
		t.Errorf("expected 92.5%% and accuracy in metrics, got %v", claim.Metrics)
	}

	if claim.Confidence != heuristicDoubleConfidence {
		t.Errorf("expected confidence %v with methods and metrics, got %v", heuristicDoubleConfidence, claim.Confidence)
	}
}

func TestHeuristic_ConfidenceSteps(t *testing.T) {
	e := NewHeuristicExtractor()

	none := e.Extract("The weather was pleasant throughout the entire field study period.", "c0")
	if none.Confidence != heuristicBaseConfidence {
		t.Errorf("expected base confidence, got %v", none.Confidence)
	}

	one := e.Extract("The LSTM variant was considerably harder to train in this setting.", "c1")
	if one.Confidence != heuristicSingleConfidence {
		t.Errorf("expected single-signal confidence, got %v", one.Confidence)
	}
}

func TestSplitSentences(t *testing.T) {
	sents := splitSentences("First here. Second with 3.5 inside! Third?")
	if len(sents) != 3 {
		t.Fatalf("expected 3 sentences, got %d: %v", len(sents), sents)
	}
	if sents[1] != "Second with 3.5 inside!" {
		t.Errorf("decimal point split the sentence: %q", sents[1])
	}
}

func TestSplitSentences_UnterminatedFragment(t *testing.T) {
	sents := splitSentences("Complete sentence here. trailing fragment without terminator")
	if len(sents) != 1 {
		t.Fatalf("expected 1 sentence, got %d: %v", len(sents), sents)
	}

	if sents := splitSentences("no terminator at all"); len(sents) != 0 {
		t.Errorf("expected no sentences, got %v", sents)
	}
}
