// Package similarity provides string similarity scoring and answer
// clustering for survey processing.
package similarity

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the minimum similarity score for two answers to be
// considered the same group.
const DefaultThreshold = 0.80

// Ratio returns a similarity score in [0, 1] between two strings. It is
// symmetric and Ratio(a, a) == 1.
//
// The score is the better of a plain normalized edit-distance ratio and a
// token-sort ratio (tokens sorted before comparison), so word-order
// variations like "pizza lover" vs "lover of pizza" score far higher than
// straight edit distance would allow. A token-set comparison is deliberately
// not used: subset containment would score "i love pizza" against "pizza"
// as identical, collapsing answers that are different statements.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	best := editRatio(a, b)
	if r := editRatio(tokenSort(a), tokenSort(b)); r > best {
		best = r
	}
	return best
}

// editRatio is the normalized Levenshtein ratio (maxLen-dist)/maxLen over
// runes. Computed as a single division so a score that should equal the
// threshold exactly (one edit in five runes vs 0.80) compares as equal.
func editRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	la := len([]rune(a))
	lb := len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}
	dist := levenshtein.ComputeDistance(a, b)
	if dist > maxLen {
		dist = maxLen
	}
	return float64(maxLen-dist) / float64(maxLen)
}

// tokenSort returns the string's tokens sorted and rejoined.
func tokenSort(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
