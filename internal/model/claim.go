package model

// Claim represents a single structured assertion extracted from one chunk
// of a paper's text. Claims are created once during extraction and not
// mutated afterwards.
type Claim struct {
	ClaimID      string   `json:"claim_id"`
	Text         string   `json:"text"`
	Confidence   float64  `json:"confidence"`    // Always within [0,1] after normalization
	Provenance   []string `json:"provenance"`    // Source chunk ids, never empty
	Methods      []string `json:"methods"`       // Detected technique/architecture names
	Metrics      []string `json:"metrics"`       // Detected metric names and percentage literals
	UsedFallback bool     `json:"used_fallback"` // True when the heuristic path produced the claim
}

// Analysis is the per-paper extraction result: an ordered sequence of
// claims plus bookkeeping counters.
type Analysis struct {
	PaperID           string  `json:"paper_id"`
	Title             string  `json:"title,omitempty"`
	NumChunksAnalyzed int     `json:"num_chunks_analyzed"`
	NumClaims         int     `json:"num_claims"`
	Claims            []Claim `json:"claims"`
	UsedFallback      bool    `json:"used_fallback"` // True when any claim came from the fallback
}

// ClampConfidence forces a confidence value into [0,1]. NaN and other
// non-finite inputs collapse to 0.
func ClampConfidence(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
