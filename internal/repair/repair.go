// Package repair recovers structured JSON from arbitrary, possibly
// malformed generated text. Models wrap answers in code fences, prepend
// prose, or emit trailing commas; the chain here tolerates all of it.
package repair

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrUnparseable is the sentinel returned when no strategy recovers a
// structured payload. Callers treat it as a failed model step, never as a
// fatal condition.
var ErrUnparseable = errors.New("repair: no parseable JSON in response")

var (
	fenceRe        = regexp.MustCompile("```(?:[a-zA-Z]+)?\\s*([\\s\\S]*?)\\s*```")
	minimalBraceRe = regexp.MustCompile(`(?s)\{.*?\}`)
	trailingSepRe  = regexp.MustCompile(`,\s*([}\]])`)
	leadingJSONRe  = regexp.MustCompile(`(?i)^\s*json\b\s*`)
)

// Repair runs the ordered strategy chain over raw model text and returns
// the first candidate that parses as a JSON object or array:
//
//  1. direct parse of the whole text
//  2. content of a fenced region (the delimiter pair prompts instruct the
//     model to use)
//  3. first-opening to last-matching-closing bracket slice, retried once
//     after removing a leading "json" token
//  4. minimal regex match for a brace-delimited object
//  5. trailing-separator repair, then the structural attempts again
func Repair(raw string) (json.RawMessage, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrUnparseable
	}

	for _, strategy := range []func(string) (json.RawMessage, bool){
		parseDirect,
		parseFenced,
		parseBracketed,
		parseMinimal,
		parseAfterSyntaxRepair,
	} {
		if out, ok := strategy(raw); ok {
			return out, nil
		}
	}
	return nil, ErrUnparseable
}

// RepairInto runs the chain and decodes the recovered payload into v.
func RepairInto(raw string, v any) error {
	out, err := Repair(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, v); err != nil {
		return ErrUnparseable
	}
	return nil
}

// tryParse accepts s only when it is a valid JSON object or array.
func tryParse(s string) (json.RawMessage, bool) {
	s = strings.TrimSpace(s)
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}

func parseDirect(raw string) (json.RawMessage, bool) {
	return tryParse(raw)
}

func parseFenced(raw string) (json.RawMessage, bool) {
	for _, m := range fenceRe.FindAllStringSubmatch(raw, -1) {
		if out, ok := tryParse(m[1]); ok {
			return out, true
		}
	}
	return nil, false
}

func parseBracketed(raw string) (json.RawMessage, bool) {
	if out, ok := sliceBrackets(raw); ok {
		return out, true
	}
	// Retry once without a leading non-structural "json" marker.
	if stripped := leadingJSONRe.ReplaceAllString(raw, ""); stripped != raw {
		return sliceBrackets(stripped)
	}
	return nil, false
}

// sliceBrackets cuts from the first opening brace/bracket to the last
// closing one of the same kind.
func sliceBrackets(raw string) (json.RawMessage, bool) {
	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(raw, pair[0])
		end := strings.LastIndexByte(raw, pair[1])
		if start < 0 || end <= start {
			continue
		}
		if out, ok := tryParse(raw[start : end+1]); ok {
			return out, true
		}
	}
	return nil, false
}

func parseMinimal(raw string) (json.RawMessage, bool) {
	if m := minimalBraceRe.FindString(raw); m != "" {
		return tryParse(m)
	}
	return nil, false
}

// parseAfterSyntaxRepair strips separators dangling before a closing
// bracket (",}" and ",]") and retries the structural strategies.
func parseAfterSyntaxRepair(raw string) (json.RawMessage, bool) {
	repaired := trailingSepRe.ReplaceAllString(raw, "$1")
	if repaired == raw {
		return nil, false
	}
	if out, ok := parseDirect(repaired); ok {
		return out, true
	}
	if out, ok := parseFenced(repaired); ok {
		return out, true
	}
	return parseBracketed(repaired)
}
