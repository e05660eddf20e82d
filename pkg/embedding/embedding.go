// Package embedding produces vector embeddings for the optional embedding
// similarity strategy. Core matching never requires an embedder; callers
// opt in by configuring one.
package embedding

import (
	"context"

	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/textnorm"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Static serves pre-computed vectors keyed by normalized text. Useful in
// tests and for callers that batch-embed offline.
type Static struct {
	vectors map[string][]float64
}

// NewStatic builds a static embedder. Keys are normalized before lookup,
// so "Churn Alerts" and "churn-alerts" share a vector.
func NewStatic(vectors map[string][]float64) *Static {
	normalized := make(map[string][]float64, len(vectors))
	for text, vector := range vectors {
		normalized[textnorm.Normalize(text)] = vector
	}
	return &Static{vectors: normalized}
}

// Embed implements Embedder.
func (s *Static) Embed(_ context.Context, text string) ([]float64, error) {
	vector, ok := s.vectors[textnorm.Normalize(text)]
	if !ok {
		return nil, errors.NewNotFoundError("embedding", text)
	}
	return vector, nil
}
