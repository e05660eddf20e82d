// Package store defines how consolidated changes reach persistent entity
// records, plus an in-memory implementation used by tests and the CLI.
package store

import (
	"context"

	"github.com/factweave/factweave/pkg/consolidator"
	"github.com/factweave/factweave/pkg/entities"
)

// Store is the persistence boundary for entity records. Implementations
// must honor the change contract: creates insert, updates and merges apply
// the after map and append evidence (de-duplicated) while incrementing the
// version, proposals are queued for review and never touch the record, and
// skips have no effect.
type Store interface {
	// ListByType returns a snapshot of all records of one type in a
	// project. Callers may hold the snapshot for a full run.
	ListByType(ctx context.Context, projectID string, typ entities.Type) ([]entities.Record, error)

	// Get returns one record by ID.
	Get(ctx context.Context, projectID, id string) (entities.Record, error)

	// Put inserts or replaces a record, bumping its version.
	Put(ctx context.Context, projectID string, record entities.Record) (entities.Record, error)

	// Apply applies a change set. Each change is applied independently:
	// one failing change is recorded in the report and does not stop
	// the rest.
	Apply(ctx context.Context, projectID string, changes []consolidator.Change) (ApplyReport, error)

	// Proposals returns the queued review proposals for a project.
	Proposals(ctx context.Context, projectID string) ([]consolidator.Change, error)
}

// ApplyReport summarizes one Apply call.
type ApplyReport struct {
	Created  int
	Updated  int
	Merged   int
	Queued   int
	Skipped  int
	Failures []error
}

// Applied is the number of changes that mutated or queued state.
func (r ApplyReport) Applied() int {
	return r.Created + r.Updated + r.Merged + r.Queued
}
