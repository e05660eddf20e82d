package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"

	"github.com/factweave/factweave/pkg/textnorm"
)

// Score compares two strings and returns the best score across the given
// strategies together with the strategy that produced it. Both inputs are
// normalized first; byte-equal normalized forms short-circuit to
// (1.0, StrategyExact) without running anything else. Empty (or
// punctuation-only) input never matches anything.
//
// With no strategies given, DefaultStrategies applies.
func Score(a, b string, strategies ...Strategy) (float64, Strategy) {
	na, nb := textnorm.Normalize(a), textnorm.Normalize(b)
	if na == "" || nb == "" {
		return 0, StrategyExact
	}
	if na == nb {
		return 1, StrategyExact
	}

	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	best, winner := 0.0, strategies[0]
	for _, strategy := range strategies {
		var score float64
		switch strategy {
		case StrategyTokenSet:
			score = TokenSetRatio(na, nb)
		case StrategyPartial:
			score = PartialRatio(na, nb)
		case StrategyWeightedRatio:
			score = WeightedRatio(na, nb)
		case StrategyKeyTerms:
			score = KeyTermsScore(na, nb)
		default:
			// exact was handled above; embedding needs vectors.
			continue
		}
		if score > best {
			best, winner = score, strategy
		}
	}

	return clamp(best), winner
}

// Ratio is the Levenshtein similarity of two strings: 1 minus the edit
// distance over the longer length.
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	longer := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 1
	}
	dist := matchr.Levenshtein(a, b)
	return clamp(1 - float64(dist)/float64(longer))
}

// TokenSetRatio compares the de-duplicated sorted word sets of two
// normalized strings. The shared tokens form a common base; the score is
// the best Levenshtein ratio among base-vs-base-plus-remainder pairings,
// so a pure reordering scores 1.0 and a subset scores near it.
func TokenSetRatio(na, nb string) float64 {
	setA, setB := sortedTokens(na), sortedTokens(nb)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inA := make(map[string]struct{}, len(setA))
	for _, tok := range setA {
		inA[tok] = struct{}{}
	}

	var common, restB []string
	seen := make(map[string]struct{}, len(setB))
	for _, tok := range setB {
		if _, ok := inA[tok]; ok {
			common = append(common, tok)
			seen[tok] = struct{}{}
		} else {
			restB = append(restB, tok)
		}
	}
	var restA []string
	for _, tok := range setA {
		if _, ok := seen[tok]; !ok {
			restA = append(restA, tok)
		}
	}

	base := strings.Join(common, " ")
	combinedA := joinNonEmpty(base, strings.Join(restA, " "))
	combinedB := joinNonEmpty(base, strings.Join(restB, " "))

	score := Ratio(combinedA, combinedB)
	if base != "" {
		score = math.Max(score, Ratio(base, combinedA))
		score = math.Max(score, Ratio(base, combinedB))
	}
	return score
}

// PartialRatio slides the shorter string across the longer and returns the
// best window ratio, so "Dashboards" aligns well inside "Analytics
// Dashboards for Admins".
func PartialRatio(na, nb string) float64 {
	shorter, longer := []rune(na), []rune(nb)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}
	if len(shorter) == len(longer) {
		return Ratio(string(shorter), string(longer))
	}

	s := string(shorter)
	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := string(longer[i : i+len(shorter)])
		if score := Ratio(s, window); score > best {
			best = score
			if best == 1 {
				break
			}
		}
	}
	return best
}

// WeightedRatio blends the full-string ratio with discounted token-sort and
// partial comparisons. The partial comparison only participates when the
// strings differ enough in length for windowed alignment to mean anything.
func WeightedRatio(na, nb string) float64 {
	score := Ratio(na, nb)
	score = math.Max(score, 0.95*tokenSortRatio(na, nb))

	la, lb := utf8.RuneCountInString(na), utf8.RuneCountInString(nb)
	shorter, longer := la, lb
	if shorter > longer {
		shorter, longer = longer, shorter
	}
	if shorter > 0 && float64(longer)/float64(shorter) > 1.5 {
		score = math.Max(score, 0.9*PartialRatio(na, nb))
	}
	return clamp(score)
}

// KeyTermsScore compares stop-word-filtered term sets. Plain Jaccard
// punishes subset relationships, so the score averages Jaccard with the
// larger one-sided coverage ratio.
func KeyTermsScore(na, nb string) float64 {
	termsA, termsB := textnorm.KeyTerms(na), textnorm.KeyTerms(nb)
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0
	}

	inter := textnorm.Intersection(termsA, termsB)
	if inter == 0 {
		return 0
	}
	union := textnorm.Union(termsA, termsB)

	jaccard := float64(inter) / float64(union)
	coverage := math.Max(
		float64(inter)/float64(len(termsA)),
		float64(inter)/float64(len(termsB)),
	)
	return clamp((jaccard + coverage) / 2)
}

// Cosine returns the cosine similarity of two embedding vectors, clamped to
// [0,1]. Mismatched or zero-length vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return clamp(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

func tokenSortRatio(na, nb string) float64 {
	return Ratio(strings.Join(sortedTokens(na), " "), strings.Join(sortedTokens(nb), " "))
}

func sortedTokens(s string) []string {
	tokens := textnorm.TokenSet(s)
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)
	return sorted
}

func joinNonEmpty(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
