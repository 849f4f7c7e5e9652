package extract

import "strings"

// splitSentences splits text into sentences on terminal punctuation
// (simple heuristic). Every terminated sentence is kept, however short,
// because the fallback needs the first one as a last resort; a trailing
// fragment with no terminator is not a sentence.
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations like "3.5"
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t' {
				flush()
			}
		}
	}

	return sentences
}
