package synth

import (
	"fmt"
	"strings"
)

func claimsList(pool []pooledClaim) string {
	var b strings.Builder
	for i, c := range pool {
		fmt.Fprintf(&b, "%d. (%s) %s\n", i+1, c.PaperID, c.Text)
	}
	return b.String()
}

// consensusPrompt asks for agreements supported by two or more papers, as
// a fenced JSON array the repair chain can recover.
func consensusPrompt(pool []pooledClaim) string {
	return fmt.Sprintf(`Analyze the following research claims and identify CONSENSUS statements:
claims supported by similar claims from 2 or more different papers.

Claims:
%s
Respond with a JSON array wrapped in a `+"```json"+` fence, shaped exactly like:
`+"```json"+`
[
  {
    "text": "consensus statement",
    "papers": ["paper_id1", "paper_id2"],
    "average_confidence": 0.0
  }
]
`+"```"+`

No explanation outside the fence.`, claimsList(pool))
}

// contradictionsPrompt asks for directly conflicting claim pairs from
// different papers.
func contradictionsPrompt(pool []pooledClaim) string {
	return fmt.Sprintf(`Analyze the following research claims and identify CONTRADICTIONS:
pairs of claims from different papers that directly conflict.

Claims:
%s
Respond with a JSON array wrapped in a `+"```json"+` fence, shaped exactly like:
`+"```json"+`
[
  {
    "claim_a": "text of claim A",
    "paper_a": "paper_idA",
    "claim_b": "text of claim B",
    "paper_b": "paper_idB"
  }
]
`+"```"+`

No explanation outside the fence.`, claimsList(pool))
}
