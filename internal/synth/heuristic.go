package synth

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vkarel/concord/internal/model"
)

// polarityPairs are opposing keywords: one claim containing a member while
// the other contains its opposite signals a contradiction. Matching happens
// on stemmed tokens, so "improves" and "improvement" both hit "improve".
var polarityPairs = [][2]string{
	{"increase", "decrease"},
	{"improve", "worse"},
	{"higher", "lower"},
	{"positive", "negative"},
	{"gain", "loss"},
	{"better", "worse"},
}

// negationTerms mark a negated claim. Checked against raw words before the
// short-token filter, so "not" and "no" still count.
var negationTerms = map[string]bool{
	"not": true, "no": true, "none": true, "never": true,
	"without": true, "lack": true, "lacks": true,
	"fails": true, "failed": true,
	"dont": true, "doesnt": true, "didnt": true,
	"cannot": true, "cant": true,
}

// tokenSuffixes are stripped (longest first) before the trailing-e trim in
// stemToken.
var tokenSuffixes = []string{"ments", "ment", "ings", "ing", "edly", "ed", "es", "s"}

// topSharedTokens caps how many shared tokens enter a consensus dedupe key.
const topSharedTokens = 5

// claimTextTruncate bounds claim text inside canonical dedupe keys.
const claimTextTruncate = 60

// analyzeText normalizes claim text into a stemmed token set: lowercase,
// apostrophes removed, non-alphanumerics treated as separators, tokens of
// three characters or fewer dropped. It also reports whether the raw words
// contain a negation marker.
func analyzeText(text string) (map[string]struct{}, bool) {
	words := splitWords(text)

	negated := false
	tokens := make(map[string]struct{})
	for _, w := range words {
		if negationTerms[w] {
			negated = true
		}
		if len(w) <= 3 {
			continue
		}
		tokens[stemToken(w)] = struct{}{}
	}
	return tokens, negated
}

func splitWords(text string) []string {
	t := strings.ToLower(text)
	t = strings.ReplaceAll(t, "'", "")
	t = strings.ReplaceAll(t, "’", "")

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Fields(b.String())
}

// stemToken collapses simple inflections so that "improves", "improved"
// and "improvement" land on one token. Suffixes are only stripped when at
// least four characters remain.
func stemToken(w string) string {
	for _, suf := range tokenSuffixes {
		if strings.HasSuffix(w, suf) && len(w)-len(suf) >= 4 {
			w = w[:len(w)-len(suf)]
			break
		}
	}
	return strings.TrimSuffix(w, "e")
}

func sharedTokens(a, b map[string]struct{}) []string {
	var shared []string
	for t := range a {
		if _, ok := b[t]; ok {
			shared = append(shared, t)
		}
	}
	sort.Strings(shared)
	return shared
}

func sortedPaperPair(a, b string) []string {
	if b < a {
		a, b = b, a
	}
	return []string{a, b}
}

// tokenOverlapConsensus emits a consensus candidate for every pair of
// claims from distinct papers whose token sets share at least threshold
// members. Candidates are keyed by the sorted paper pair plus the top
// shared tokens so near-identical claim pairs collapse into one emission.
func tokenOverlapConsensus(pool []pooledClaim, threshold int) []model.ConsensusStatement {
	seen := make(map[string]bool)
	var out []model.ConsensusStatement

	for i := range pool {
		for j := i + 1; j < len(pool); j++ {
			a, b := pool[i], pool[j]
			if a.PaperID == b.PaperID {
				continue
			}

			shared := sharedTokens(a.tokens, b.tokens)
			if len(shared) < threshold {
				continue
			}
			if len(shared) > topSharedTokens {
				shared = shared[:topSharedTokens]
			}

			papers := sortedPaperPair(a.PaperID, b.PaperID)
			key := strings.Join(papers, "||") + " :: " + strings.Join(shared, "/")
			if seen[key] {
				continue
			}
			seen[key] = true

			out = append(out, model.ConsensusStatement{
				Text:              a.Text + " / " + b.Text,
				Papers:            papers,
				AverageConfidence: (a.Confidence + b.Confidence) / 2,
			})
		}
	}
	return out
}

// heuristicContradictions tests every claim pair from distinct papers that
// shares at least one token. The polarity check runs first; the
// negation-asymmetry check only fires when no polarity pair matched.
// Canonical keys guarantee a pair is emitted at most once.
func heuristicContradictions(pool []pooledClaim, negationOverlap int) []model.ContradictionPair {
	seen := make(map[string]bool)
	var out []model.ContradictionPair

	for i := range pool {
		for j := i + 1; j < len(pool); j++ {
			a, b := pool[i], pool[j]
			if a.PaperID == b.PaperID {
				continue
			}

			shared := sharedTokens(a.tokens, b.tokens)
			if len(shared) == 0 {
				continue
			}

			conflict := polarityConflict(a, b)
			if !conflict && a.negated != b.negated && len(shared) >= negationOverlap {
				conflict = true
			}
			if !conflict {
				continue
			}

			key := canonicalPairKey(a.Text, a.PaperID, b.Text, b.PaperID)
			if seen[key] {
				continue
			}
			seen[key] = true

			out = append(out, model.ContradictionPair{
				ClaimA: a.Text,
				PaperA: a.PaperID,
				ClaimB: b.Text,
				PaperB: b.PaperID,
			})
		}
	}
	return out
}

func polarityConflict(a, b pooledClaim) bool {
	for _, pair := range polarityPairs {
		x, y := stemToken(pair[0]), stemToken(pair[1])
		if (hasToken(a, x) && hasToken(b, y)) || (hasToken(a, y) && hasToken(b, x)) {
			return true
		}
	}
	return false
}

func hasToken(c pooledClaim, token string) bool {
	_, ok := c.tokens[token]
	return ok
}

// canonicalPairKey is sorted paper ids plus sorted truncated claim texts,
// so (A,B) and (B,A) collapse to one key.
func canonicalPairKey(textA, paperA, textB, paperB string) string {
	ta, tb := truncateText(textA), truncateText(textB)
	if tb < ta {
		ta, tb = tb, ta
	}
	papers := sortedPaperPair(paperA, paperB)
	return strings.Join(papers, "||") + " :: " + ta + " ## " + tb
}

func truncateText(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > claimTextTruncate {
		cut := claimTextTruncate
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	return s
}
