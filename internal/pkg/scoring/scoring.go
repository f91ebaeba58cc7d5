// Package scoring holds the pure scoring helpers shared by the POI and
// image rankers.
package scoring

import (
	"math"
	"strings"
)

// Clamp01 clamps v to the [0,1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Round rounds to the nearest integer, halves away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// ContainsFold reports whether s contains substr, case-insensitively.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// SplitTags splits a comma-separated tag string into trimmed,
// lowercased tokens, dropping empties.
func SplitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "at": {}, "de": {}, "del": {}, "der": {},
	"di": {}, "du": {}, "for": {}, "in": {}, "la": {}, "le": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "to": {}, "von": {},
}

// SignificantWords lowercases, tokenizes and strips stopwords from a
// subject name. Used to match image titles against POI names.
func SignificantWords(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?()[]\"'")
		if f == "" {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		out = append(out, f)
	}
	return out
}
