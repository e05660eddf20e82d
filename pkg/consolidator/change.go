// Package consolidator orchestrates a consolidation run: partitioning
// extracted candidates by entity type, de-duplicating within the batch,
// resolving each candidate against the existing corpus, and emitting the
// resulting change set.
package consolidator

import (
	"time"

	"github.com/factweave/factweave/pkg/differ"
	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/evidence"
	"github.com/factweave/factweave/pkg/similarity"
)

// Operation is the kind of change a candidate produced.
type Operation string

const (
	// OpCreate inserts a new record.
	OpCreate Operation = "create"

	// OpUpdate applies the After map to an existing record.
	OpUpdate Operation = "update"

	// OpMerge is an update that also unions evidence and source-signal
	// arrays with the existing record's arrays.
	OpMerge Operation = "merge"

	// OpProposal routes a conflicting change to human review instead of
	// applying it.
	OpProposal Operation = "proposal"

	// OpSkip records that the candidate carried nothing new.
	OpSkip Operation = "skip"
)

// Change is one consolidated decision. Changes are output-only: never
// mutated after creation.
type Change struct {
	EntityType entities.Type `json:"entity_type" yaml:"entity_type"`
	Operation  Operation     `json:"operation" yaml:"operation"`

	// EntityID is the target record for update/merge/proposal, and the
	// pre-assigned ID for a create so dependent changes can reference it.
	EntityID string `json:"entity_id,omitempty" yaml:"entity_id,omitempty"`

	Before map[string]any `json:"before,omitempty" yaml:"before,omitempty"`
	After  map[string]any `json:"after,omitempty" yaml:"after,omitempty"`

	FieldChanges []differ.FieldChange `json:"field_changes,omitempty" yaml:"field_changes,omitempty"`

	Evidence        []evidence.Item `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	SourceSignalIDs []string        `json:"source_signal_ids,omitempty" yaml:"source_signal_ids,omitempty"`

	Rationale       string              `json:"rationale" yaml:"rationale"`
	Confidence      float64             `json:"confidence" yaml:"confidence"`
	SimilarityScore float64             `json:"similarity_score,omitempty" yaml:"similarity_score,omitempty"`
	Strategy        similarity.Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
}

// Totals aggregates a run.
type Totals struct {
	Creates   int `json:"creates" yaml:"creates"`
	Updates   int `json:"updates" yaml:"updates"`
	Merges    int `json:"merges" yaml:"merges"`
	Proposals int `json:"proposals" yaml:"proposals"`
	Skips     int `json:"skips" yaml:"skips"`

	// MeanConfidence averages the confidence of all non-skip changes.
	MeanConfidence float64 `json:"mean_confidence" yaml:"mean_confidence"`
}

// Result is the outcome of one consolidation run. Changes are ordered so
// that a created workflow always precedes the step creates that reference
// it.
type Result struct {
	Changes  []Change      `json:"changes" yaml:"changes"`
	Totals   Totals        `json:"totals" yaml:"totals"`
	Errors   []error       `json:"-" yaml:"-"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// ByType groups the result's changes by entity type.
func (r *Result) ByType() map[entities.Type][]Change {
	if len(r.Changes) == 0 {
		return nil
	}
	grouped := make(map[entities.Type][]Change)
	for _, change := range r.Changes {
		grouped[change.EntityType] = append(grouped[change.EntityType], change)
	}
	return grouped
}

// tally recomputes totals from the change list.
func tally(changes []Change) Totals {
	var totals Totals
	var confidenceSum float64
	nonSkips := 0

	for _, change := range changes {
		switch change.Operation {
		case OpCreate:
			totals.Creates++
		case OpUpdate:
			totals.Updates++
		case OpMerge:
			totals.Merges++
		case OpProposal:
			totals.Proposals++
		case OpSkip:
			totals.Skips++
		}
		if change.Operation != OpSkip {
			confidenceSum += change.Confidence
			nonSkips++
		}
	}

	if nonSkips > 0 {
		totals.MeanConfidence = confidenceSum / float64(nonSkips)
	}
	return totals
}
