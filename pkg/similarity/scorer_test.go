package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreExactShortCircuit(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"identical", "Churn Alerts", "Churn Alerts"},
		{"case and punctuation", "Churn-Alerts!", "churn alerts"},
		{"diacritics", "Café Menu", "cafe menu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, strategy := Score(tt.a, tt.b)
			assert.Equal(t, 1.0, score)
			assert.Equal(t, StrategyExact, strategy)
		})
	}
}

func TestScoreEmptyNeverMatches(t *testing.T) {
	for _, pair := range [][2]string{{"", "Churn Alerts"}, {"Churn Alerts", ""}, {"", ""}, {"---", "Churn Alerts"}} {
		score, _ := Score(pair[0], pair[1])
		assert.Equal(t, 0.0, score)
	}
}

func TestScoreBounded(t *testing.T) {
	pairs := [][2]string{
		{"AI-powered Transcript Engine", "AI Engine for Transcript Analysis"},
		{"User Dashboard", "AI Engine for Transcript Analysis"},
		{"a", "completely different long string of text"},
		{"Résumé Parser", "resume parser"},
		{"x", "y"},
	}
	for _, pair := range pairs {
		for _, strategy := range []Strategy{StrategyTokenSet, StrategyPartial, StrategyWeightedRatio, StrategyKeyTerms} {
			score, _ := Score(pair[0], pair[1], strategy)
			assert.GreaterOrEqual(t, score, 0.0, "%s on %q vs %q", strategy, pair[0], pair[1])
			assert.LessOrEqual(t, score, 1.0, "%s on %q vs %q", strategy, pair[0], pair[1])
		}
	}
}

func TestScoreParaphrasedFeatureName(t *testing.T) {
	a := "AI-powered Transcript Engine"
	b := "AI Engine for Transcript Analysis"

	tokenSet, _ := Score(a, b, StrategyTokenSet)
	keyTerms, _ := Score(a, b, StrategyKeyTerms)

	assert.GreaterOrEqual(t, tokenSet, 0.6, "token_set should tolerate reordering and paraphrase")
	assert.GreaterOrEqual(t, keyTerms, 0.6, "key_terms should tolerate reordering and paraphrase")

	best, strategy := Score(a, b)
	assert.GreaterOrEqual(t, best, 0.6)
	thresholds := DefaultPolicy().Default
	assert.True(t, thresholds.IsMatch(best, strategy), "best %v via %s should match", best, strategy)
}

func TestScoreUnrelatedNames(t *testing.T) {
	best, _ := Score("User Dashboard", "AI Engine for Transcript Analysis")
	assert.Less(t, best, DefaultPolicy().Default.CreateThreshold)
}

func TestTokenSetRatioReordering(t *testing.T) {
	// Same word set in a different order scores 1.0.
	score := TokenSetRatio("transcript ai engine", "ai engine transcript")
	assert.Equal(t, 1.0, score)

	// Subset relationships score 1.0 against the shared base.
	score = TokenSetRatio("transcript engine", "ai transcript engine")
	assert.Equal(t, 1.0, score)
}

func TestPartialRatioTruncation(t *testing.T) {
	score := PartialRatio("dashboards", "analytics dashboards for admins")
	assert.Equal(t, 1.0, score)

	score = PartialRatio("dashbords", "analytics dashboards for admins")
	assert.Greater(t, score, 0.7)
}

func TestKeyTermsSubsetBoost(t *testing.T) {
	// One text's terms are a subset of the other's: coverage lifts the
	// score above plain Jaccard.
	score := KeyTermsScore("churn alerts", "churn alerts dashboard email")
	jaccard := 2.0 / 4.0
	assert.Greater(t, score, jaccard)
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("abc", "abc"))
	assert.Equal(t, 0.0, Ratio("abc", "xyz"))
	assert.InDelta(t, 0.75, Ratio("abcd", "abcx"), 1e-9)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.Equal(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}))
	assert.Equal(t, 0.0, Cosine([]float64{1, 2}, []float64{1, 2, 3}))
	assert.Equal(t, 0.0, Cosine(nil, nil))
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
}

func TestDefaultPolicyValid(t *testing.T) {
	policy := DefaultPolicy()
	require.NoError(t, policy.Validate())

	// Process steps run looser than the default.
	steps := policy.ForType("process_step")
	assert.Less(t, steps.TokenSet, policy.Default.TokenSet)
	assert.Less(t, steps.UpdateThreshold, policy.Default.UpdateThreshold)

	// Unknown types fall back to the default.
	assert.Equal(t, policy.Default, policy.ForType("feature"))
}

func TestThresholdsValidate(t *testing.T) {
	bad := Thresholds{TokenSet: 1.5, UpdateThreshold: 0.8}
	assert.Error(t, bad.Validate())

	inverted := Thresholds{CreateThreshold: 0.9, UpdateThreshold: 0.8}
	assert.Error(t, inverted.Validate())
}

func TestParsePolicy(t *testing.T) {
	data := []byte(`
default:
  exact: 1.0
  token_set: 0.7
  partial: 0.85
  weighted_ratio: 0.8
  key_terms: 0.6
  embedding: 0.8
  create_threshold: 0.6
  update_threshold: 0.8
per_type:
  process_step:
    exact: 1.0
    token_set: 0.6
    partial: 0.8
    weighted_ratio: 0.75
    key_terms: 0.55
    embedding: 0.75
    create_threshold: 0.55
    update_threshold: 0.75
`)

	policy, err := ParsePolicy(data)
	require.NoError(t, err)
	assert.Equal(t, 0.7, policy.Default.TokenSet)
	assert.Equal(t, 0.55, policy.ForType("process_step").CreateThreshold)

	_, err = ParsePolicy([]byte("default:\n  token_set: 2.0\n"))
	assert.Error(t, err)

	_, err = ParsePolicy([]byte("{not yaml"))
	assert.Error(t, err)
}
