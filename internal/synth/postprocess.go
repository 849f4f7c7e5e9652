package synth

import (
	"sort"
	"strings"

	"github.com/vkarel/concord/internal/model"
)

// placeholderConfidence is the unexplained default some sources emit; a
// consensus entry carrying it gets its confidence recomputed from the
// underlying claims.
const placeholderConfidence = 0.5

// consensusPrefixChars bounds the normalized text prefix in dedupe keys.
const consensusPrefixChars = 60

// postProcessConsensus applies the invariants regardless of whether the
// entries came from the model or the heuristic path: paper sets are
// deduplicated and must keep at least two members, near-duplicates merge
// (confidence averaged, longer text kept), and missing or placeholder
// confidences are recomputed from the claim pool. Output order follows
// first appearance; the pass is idempotent.
func postProcessConsensus(in []model.ConsensusStatement, pool []pooledClaim) []model.ConsensusStatement {
	type entry struct {
		stmt  model.ConsensusStatement
		count int
	}

	var order []string
	entries := make(map[string]*entry)

	for _, c := range in {
		papers := dedupeSorted(c.Papers)
		if len(papers) < 2 {
			continue
		}

		conf := c.AverageConfidence
		if conf == 0 || conf == placeholderConfidence {
			conf = poolAverageConfidence(pool, papers, conf)
		}
		conf = model.ClampConfidence(conf)

		key := normalizedPrefix(c.Text) + "|" + strings.Join(papers, ",")
		if e, ok := entries[key]; ok {
			e.stmt.AverageConfidence = (e.stmt.AverageConfidence*float64(e.count) + conf) / float64(e.count+1)
			e.count++
			if len(c.Text) > len(e.stmt.Text) {
				e.stmt.Text = c.Text
			}
			continue
		}
		entries[key] = &entry{
			stmt: model.ConsensusStatement{
				Text:              c.Text,
				Papers:            papers,
				AverageConfidence: conf,
			},
			count: 1,
		}
		order = append(order, key)
	}

	out := make([]model.ConsensusStatement, 0, len(order))
	for _, k := range order {
		out = append(out, entries[k].stmt)
	}
	return out
}

// postProcessContradictions drops same-paper pairs and collapses
// duplicates by the canonical (papers, truncated texts) key, keeping the
// first occurrence.
func postProcessContradictions(in []model.ContradictionPair) []model.ContradictionPair {
	seen := make(map[string]bool)
	out := make([]model.ContradictionPair, 0, len(in))

	for _, c := range in {
		if c.PaperA == c.PaperB {
			continue
		}
		key := canonicalPairKey(c.ClaimA, c.PaperA, c.ClaimB, c.PaperB)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func dedupeSorted(papers []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range papers {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// poolAverageConfidence is the mean confidence of pooled claims belonging
// to the given papers; fallback is returned when none match.
func poolAverageConfidence(pool []pooledClaim, papers []string, fallback float64) float64 {
	inSet := make(map[string]bool, len(papers))
	for _, p := range papers {
		inSet[p] = true
	}

	sum, n := 0.0, 0
	for _, c := range pool {
		if inSet[c.PaperID] {
			sum += c.Confidence
			n++
		}
	}
	if n == 0 {
		return fallback
	}
	return sum / float64(n)
}

func normalizedPrefix(text string) string {
	joined := strings.Join(splitWords(text), " ")
	if len(joined) > consensusPrefixChars {
		joined = joined[:consensusPrefixChars]
	}
	return joined
}
