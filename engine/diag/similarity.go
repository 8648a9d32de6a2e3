// Package diag implements script diagnostics: the error taxonomy shared by
// the compiler and the interaction layer, and the "did you mean" matcher.
package diag

import (
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Thresholds used by the compiler when suggesting a replacement.
const (
	CommandThreshold  = 50
	ArgumentThreshold = 33
	PropertyThreshold = 33
	TypeThreshold     = 50
)

// Similarity scores a against b on a 0..100 scale using the Levenshtein
// distance normalized by the length of b. The score is not symmetric.
// Long edits can push it below zero.
func Similarity(a, b string) int {
	n := utf8.RuneCountInString(b)
	if n == 0 {
		if a == "" {
			return 100
		}
		return 0
	}
	return 100 - (100*matchr.Levenshtein(a, b))/n
}

// FindNearest returns the first candidate, in iteration order, whose
// similarity with query is strictly greater than threshold.
func FindNearest(query string, candidates []string, threshold int) (string, bool) {
	for _, c := range candidates {
		if Similarity(query, c) > threshold {
			return c, true
		}
	}
	return "", false
}
