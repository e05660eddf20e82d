package consolidator

import (
	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/similarity"
)

// defaultWorkers bounds how many type groups consolidate at once.
const defaultWorkers = 5

// ReviewPolicy decides what happens to matches that land in the ambiguous
// band between the create and update thresholds.
type ReviewPolicy string

const (
	// ReviewAsUpdate treats ambiguous matches as updates. This mirrors
	// the historical behavior and is the default.
	ReviewAsUpdate ReviewPolicy = "update"

	// ReviewAsProposal routes ambiguous matches to human review instead
	// of silently merging into a possibly-wrong record.
	ReviewAsProposal ReviewPolicy = "proposal"
)

type options struct {
	policy       similarity.Policy
	strategies   []similarity.Strategy
	workers      int
	reviewPolicy ReviewPolicy
	source       string
}

// Option configures an Orchestrator.
type Option func(*options) error

func defaultOptions() options {
	return options{
		policy:       similarity.DefaultPolicy(),
		workers:      defaultWorkers,
		reviewPolicy: ReviewAsUpdate,
		source:       "extraction",
	}
}

// WithThresholdPolicy replaces the built-in threshold policy.
func WithThresholdPolicy(policy similarity.Policy) Option {
	return func(o *options) error {
		if err := policy.Validate(); err != nil {
			return err
		}
		o.policy = policy
		return nil
	}
}

// WithStrategies restricts scoring to the given similarity strategies.
func WithStrategies(strategies ...similarity.Strategy) Option {
	return func(o *options) error {
		if len(strategies) == 0 {
			return errors.NewValidationError("strategies", nil, "at least one strategy required")
		}
		o.strategies = strategies
		return nil
	}
}

// WithWorkers sets how many type groups may consolidate concurrently.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.NewValidationError("workers", n, "must be at least 1")
		}
		o.workers = n
		return nil
	}
}

// WithReviewPolicy sets the handling of ambiguous-band matches.
func WithReviewPolicy(policy ReviewPolicy) Option {
	return func(o *options) error {
		switch policy {
		case ReviewAsUpdate, ReviewAsProposal:
			o.reviewPolicy = policy
			return nil
		default:
			return errors.NewValidationError("review_policy", string(policy), "must be update or proposal")
		}
	}
}

// WithEvidenceSource labels the evidence items built from candidate
// excerpts. Defaults to "extraction".
func WithEvidenceSource(source string) Option {
	return func(o *options) error {
		if source == "" {
			return errors.NewValidationError("source", source, "must not be empty")
		}
		o.source = source
		return nil
	}
}
