// Package factweave consolidates extracted candidate facts into a stable
// set of entity records. It fronts the matching, diffing, and precedence
// machinery with a small facade: build an Engine, feed it candidates, and
// apply the resulting change set.
package factweave

import (
	"context"

	"github.com/factweave/factweave/pkg/consolidator"
	"github.com/factweave/factweave/pkg/embedding"
	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/logging"
	"github.com/factweave/factweave/pkg/similarity"
	"github.com/factweave/factweave/pkg/store"
)

// Engine is the public entry point for consolidation.
type Engine struct {
	orchestrator *consolidator.Orchestrator
	store        store.Store
	embedder     embedding.Embedder
}

// New builds an Engine. Without options it uses the default threshold
// policy and an in-memory store.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	orchestrator, err := consolidator.New(cfg.consolidatorOpts...)
	if err != nil {
		return nil, err
	}

	return &Engine{
		orchestrator: orchestrator,
		store:        cfg.store,
		embedder:     cfg.embedder,
	}, nil
}

// Store exposes the engine's record store.
func (e *Engine) Store() store.Store {
	return e.store
}

// Consolidate resolves a batch of extracted candidates against the
// project's existing records and returns the change set. Nothing is
// written; pass the result to Apply to persist it.
func (e *Engine) Consolidate(ctx context.Context, projectID string, candidates []entities.Candidate) (*consolidator.Result, error) {
	if len(candidates) == 0 {
		return &consolidator.Result{}, nil
	}
	ctx = logging.WithProject(ctx, projectID)
	return e.orchestrator.Run(ctx, e.store, projectID, candidates)
}

// Apply persists a change set through the engine's store.
func (e *Engine) Apply(ctx context.Context, projectID string, changes []consolidator.Change) (store.ApplyReport, error) {
	return e.store.Apply(ctx, projectID, changes)
}

// SemanticSimilarity scores two texts with the embedding strategy. It
// requires a configured embedder; text strategies never need one.
func (e *Engine) SemanticSimilarity(ctx context.Context, a, b string) (float64, error) {
	if e.embedder == nil {
		return 0, errors.NewValidationError("embedder", nil, "no embedder configured")
	}

	va, err := e.embedder.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := e.embedder.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return similarity.Cosine(va, vb), nil
}
