// Package similarity scores how alike two pieces of entity text are.
// Scores are always in [0,1]. Scoring is pure: no side effects, identical
// inputs always produce identical output.
package similarity

// Strategy names one scoring approach.
type Strategy string

const (
	// StrategyExact fires only when the normalized forms are byte-equal.
	StrategyExact Strategy = "exact"

	// StrategyTokenSet compares de-duplicated sorted word sets, so
	// reordered names ("Transcript AI Engine" vs "AI Engine for
	// Transcripts") still score highly.
	StrategyTokenSet Strategy = "token_set"

	// StrategyPartial finds the best alignment of the shorter string
	// within the longer one, tolerating truncation and expansion.
	StrategyPartial Strategy = "partial"

	// StrategyWeightedRatio blends full, partial and token comparisons
	// with heuristic weighting.
	StrategyWeightedRatio Strategy = "weighted_ratio"

	// StrategyKeyTerms compares stop-word-filtered term sets, rewarding
	// the case where one text's terms are a subset of the other's.
	StrategyKeyTerms Strategy = "key_terms"

	// StrategyEmbedding is cosine similarity over caller-supplied
	// vectors. It never runs by default.
	StrategyEmbedding Strategy = "embedding"
)

// DefaultStrategies returns the text strategies evaluated when the caller
// does not choose. Embedding is excluded: it needs vectors.
func DefaultStrategies() []Strategy {
	return []Strategy{StrategyTokenSet, StrategyPartial, StrategyWeightedRatio, StrategyKeyTerms}
}

// String implements fmt.Stringer.
func (s Strategy) String() string {
	return string(s)
}
