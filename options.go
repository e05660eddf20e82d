package factweave

import (
	"github.com/factweave/factweave/pkg/consolidator"
	"github.com/factweave/factweave/pkg/embedding"
	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/similarity"
	"github.com/factweave/factweave/pkg/store"
)

type config struct {
	store            store.Store
	embedder         embedding.Embedder
	consolidatorOpts []consolidator.Option
}

// Option configures an Engine.
type Option func(*config) error

func defaultConfig() config {
	return config{
		store: store.NewMemory(),
	}
}

// WithStore sets the record store. Defaults to an in-memory store.
func WithStore(s store.Store) Option {
	return func(c *config) error {
		if s == nil {
			return errors.NewValidationError("store", nil, "must not be nil")
		}
		c.store = s
		return nil
	}
}

// WithEmbedder enables the optional embedding similarity strategy.
func WithEmbedder(e embedding.Embedder) Option {
	return func(c *config) error {
		if e == nil {
			return errors.NewValidationError("embedder", nil, "must not be nil")
		}
		c.embedder = e
		return nil
	}
}

// WithThresholdPolicy replaces the built-in per-type threshold policy.
func WithThresholdPolicy(policy similarity.Policy) Option {
	return func(c *config) error {
		c.consolidatorOpts = append(c.consolidatorOpts, consolidator.WithThresholdPolicy(policy))
		return nil
	}
}

// WithThresholdFile loads the threshold policy from a YAML file.
func WithThresholdFile(path string) Option {
	return func(c *config) error {
		policy, err := similarity.LoadPolicy(path)
		if err != nil {
			return err
		}
		c.consolidatorOpts = append(c.consolidatorOpts, consolidator.WithThresholdPolicy(policy))
		return nil
	}
}

// WithWorkers bounds concurrent type-group consolidation.
func WithWorkers(n int) Option {
	return func(c *config) error {
		c.consolidatorOpts = append(c.consolidatorOpts, consolidator.WithWorkers(n))
		return nil
	}
}

// WithReviewPolicy sets handling of ambiguous-band matches.
func WithReviewPolicy(policy consolidator.ReviewPolicy) Option {
	return func(c *config) error {
		c.consolidatorOpts = append(c.consolidatorOpts, consolidator.WithReviewPolicy(policy))
		return nil
	}
}

// WithStrategies restricts scoring to the given similarity strategies.
func WithStrategies(strategies ...similarity.Strategy) Option {
	return func(c *config) error {
		c.consolidatorOpts = append(c.consolidatorOpts, consolidator.WithStrategies(strategies...))
		return nil
	}
}
