// Package textnorm normalizes free text ahead of similarity scoring.
// All matching in the engine happens over normalized forms: lowercased,
// diacritic-folded, punctuation stripped, whitespace collapsed.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes characters and removes combining marks, so
// "Résumé Café" normalizes the same as "Resume Cafe".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases s, folds diacritics, replaces punctuation with spaces,
// and collapses runs of whitespace to a single space. The result is trimmed.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		// Fold failure leaves the original text; matching still works,
		// just without diacritic insensitivity.
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))

	lastSpace := true // leading whitespace is dropped
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			// Punctuation, symbols and whitespace all become a single
			// separating space.
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(b.String(), " ")
}

// Tokens normalizes s and splits it into words.
func Tokens(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// TokenSet normalizes s and returns its de-duplicated word set, preserving
// first-occurrence order.
func TokenSet(s string) []string {
	tokens := Tokens(s)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tokens))
	unique := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		unique = append(unique, tok)
	}
	return unique
}
