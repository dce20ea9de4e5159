// Package normalize provides deterministic canonicalization of raw answer
// text so that trivially-equivalent answers compare identically.
package normalize

import (
	"strings"

	"github.com/surgebase/porter2"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes free-text answers. With StemWords enabled each
// word is additionally reduced to its stem, which folds common plural forms
// and simple spelling variants ("pizzas" and "pizza" normalize identically).
type Normalizer struct {
	StemWords bool
}

// New creates a Normalizer. stemWords enables the optional stemming step.
func New(stemWords bool) *Normalizer {
	return &Normalizer{StemWords: stemWords}
}

// Normalize canonicalizes text. It is pure and total: any input, including
// the empty string, yields a deterministic result and never an error.
//
// Steps, in order: Unicode NFKC normalization, whitespace trim and collapse,
// lower-casing, repeated stripping of trailing sentence punctuation, then
// optional per-word stemming. Two answers with identical normalized form are
// always grouped together regardless of the similarity threshold.
func (n *Normalizer) Normalize(text string) string {
	s := norm.NFKC.String(text)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	s = stripTrailingPunct(s)

	if n.StemWords && s != "" {
		words := strings.Fields(s)
		for i, w := range words {
			words[i] = porter2.Stem(w)
		}
		s = strings.Join(words, " ")
	}

	return s
}

// stripTrailingPunct removes trailing '.', '!', '?' and ',' runs, re-trimming
// whitespace exposed by the removal ("pizza !" becomes "pizza").
func stripTrailingPunct(s string) string {
	for {
		trimmed := strings.TrimRight(s, ".!?,")
		trimmed = strings.TrimRight(trimmed, " ")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}
