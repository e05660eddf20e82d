// Package match resolves extracted candidate text against an existing
// corpus of entity records. Resolution is pure: the resolver never mutates
// the corpus and identical inputs produce identical results.
package match

import (
	"sort"

	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/similarity"
)

// defaultTopN is how many scored alternatives a Result keeps for debugging.
const defaultTopN = 3

// Scored is one corpus record with the best score any strategy gave it.
type Scored struct {
	Record   *entities.Record
	Score    float64
	Strategy similarity.Strategy
}

// Result is the outcome of resolving one candidate against a corpus.
type Result struct {
	// IsMatch holds when the best score clears its strategy's threshold.
	IsMatch bool

	// Score and Strategy describe the globally best comparison across
	// all strategies and all records, match or not.
	Score    float64
	Strategy similarity.Strategy

	// Matched is the best-scoring record when IsMatch holds, nil
	// otherwise.
	Matched *entities.Record

	// Candidates are the top-scored alternatives in descending order,
	// kept for observability. The best record is Candidates[0].
	Candidates []Scored
}

// Resolver scores candidates against a corpus under a threshold policy.
type Resolver struct {
	policy     similarity.Policy
	strategies []similarity.Strategy
	topN       int
}

// NewResolver returns a resolver using the given policy and the default
// text strategies.
func NewResolver(policy similarity.Policy) *Resolver {
	return &Resolver{
		policy:     policy,
		strategies: similarity.DefaultStrategies(),
		topN:       defaultTopN,
	}
}

// WithStrategies restricts scoring to the given strategies.
func (r *Resolver) WithStrategies(strategies ...similarity.Strategy) *Resolver {
	if len(strategies) > 0 {
		r.strategies = strategies
	}
	return r
}

// Thresholds returns the thresholds in effect for an entity type.
func (r *Resolver) Thresholds(typ entities.Type) similarity.Thresholds {
	return r.policy.ForType(typ)
}

// FindBestMatch scores candidateText against every corpus record's
// textField value and returns the globally best comparison. An empty
// candidate or an empty corpus is an immediate non-match.
func (r *Resolver) FindBestMatch(typ entities.Type, candidateText string, corpus []entities.Record, textField string) Result {
	if candidateText == "" || len(corpus) == 0 {
		return Result{}
	}

	scored := make([]Scored, 0, len(corpus))
	for i := range corpus {
		record := &corpus[i]
		text, ok := record.Fields[textField].(string)
		if !ok || text == "" {
			continue
		}
		score, strategy := similarity.Score(candidateText, text, r.strategies...)
		scored = append(scored, Scored{Record: record, Score: score, Strategy: strategy})
	}
	if len(scored) == 0 {
		return Result{}
	}

	// Stable sort keeps corpus order among equal scores, so ties resolve
	// deterministically to the earlier record.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > r.topN {
		scored = scored[:r.topN]
	}

	best := scored[0]
	result := Result{
		Score:      best.Score,
		Strategy:   best.Strategy,
		Candidates: scored,
	}
	if r.policy.ForType(typ).IsMatch(best.Score, best.Strategy) {
		result.IsMatch = true
		result.Matched = best.Record
	}
	return result
}
