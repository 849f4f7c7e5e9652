package model

// ConsensusStatement is a claim-level agreement supported by at least two
// distinct papers.
type ConsensusStatement struct {
	Text              string   `json:"text"`
	Papers            []string `json:"papers"` // Sorted, deduplicated, always >= 2 entries
	AverageConfidence float64  `json:"average_confidence"`
}

// ContradictionPair holds two claims from distinct papers judged to conflict.
type ContradictionPair struct {
	ClaimA string `json:"claim_a"`
	PaperA string `json:"paper_a"`
	ClaimB string `json:"claim_b"`
	PaperB string `json:"paper_b"`
}

// SynthesisResult is the cross-paper output handed back to the caller.
// It is derived transiently and never persisted by this module.
type SynthesisResult struct {
	NumPapers         int                  `json:"num_papers"`
	NumConsensus      int                  `json:"num_consensus"`
	NumContradictions int                  `json:"num_contradictions"`
	Consensus         []ConsensusStatement `json:"consensus"`
	Contradictions    []ContradictionPair  `json:"contradictions"`
}
