package textnorm

import (
	"github.com/factweave/factweave/internal/stopwords"
)

// minTermLength filters single-character leftovers like "s" from "user's".
const minTermLength = 2

// KeyTerms tokenizes normalized text and removes stop words, yielding the
// distinguishing term set used by the key-term similarity strategy.
func KeyTerms(s string) map[string]struct{} {
	tokens := Tokens(s)
	if len(tokens) == 0 {
		return nil
	}

	terms := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if len(tok) < minTermLength {
			continue
		}
		if stopwords.Contains(tok) {
			continue
		}
		terms[tok] = struct{}{}
	}

	if len(terms) == 0 {
		return nil
	}
	return terms
}

// Intersection returns the number of terms present in both sets.
func Intersection(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	count := 0
	for term := range a {
		if _, ok := b[term]; ok {
			count++
		}
	}
	return count
}

// Union returns the number of distinct terms across both sets.
func Union(a, b map[string]struct{}) int {
	return len(a) + len(b) - Intersection(a, b)
}
