// Package chunk splits document text into bounded, overlapping,
// sentence-aligned segments for downstream claim extraction.
package chunk

import "strings"

// Default splitting parameters, applied when the caller passes
// non-positive values.
const (
	DefaultMaxChars     = 1500
	DefaultOverlapChars = 200
)

// Split cuts text into segments of at most maxChars characters. A segment's
// end is pulled back to the nearest sentence terminator when one exists past
// the segment's midpoint; otherwise the raw character boundary is used. The
// next segment starts overlapChars before the previous end, but never at or
// before the previous start, so the loop always advances even when
// overlapChars >= maxChars. Empty input yields an empty sequence.
func Split(text string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlapChars < 0 {
		overlapChars = 0
	}

	text = strings.ReplaceAll(text, "\r", " ")
	n := len(text)

	var chunks []string
	start := 0
	for start < n {
		end := start + maxChars
		if end > n {
			end = n
		}
		if end < n {
			if p := lastTerminator(text, start, end); p > start+(end-start)/2 {
				end = p + 1
			}
		}

		if c := strings.TrimSpace(text[start:end]); c != "" {
			chunks = append(chunks, c)
		}

		next := end - overlapChars
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// lastTerminator returns the index of the last sentence-terminating
// punctuation in text[start:end), or -1 when there is none.
func lastTerminator(text string, start, end int) int {
	for i := end - 1; i >= start; i-- {
		switch text[i] {
		case '.', '!', '?':
			return i
		}
	}
	return -1
}
