package factweave

import (
	"context"

	"github.com/factweave/factweave/pkg/consolidator"
	"github.com/factweave/factweave/pkg/entities"
)

// Action describes what SmartUpsert did with the submitted fact.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionMerged  Action = "merged"
	ActionSkipped Action = "skipped"
)

// SmartUpsert consolidates a single fact in one call: match, diff,
// precedence, and persistence. It is the single-candidate case of
// Consolidate and routes through the same orchestrator, so its
// classification decisions are identical to a batch run's. Conflicts with
// confirmed fields are queued as proposals and reported as skipped.
func (e *Engine) SmartUpsert(ctx context.Context, projectID string, typ entities.Type, naturalKey string, fields map[string]any, excerpts []string) (entities.Record, Action, error) {
	desc, err := entities.ForType(typ)
	if err != nil {
		return entities.Record{}, ActionSkipped, err
	}

	raw := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		raw[k] = v
	}
	raw[desc.NaturalKeyField()] = naturalKey

	result, err := e.Consolidate(ctx, projectID, []entities.Candidate{{
		Type:             typ,
		RawFields:        raw,
		EvidenceExcerpts: excerpts,
	}})
	if err != nil {
		return entities.Record{}, ActionSkipped, err
	}
	if len(result.Errors) > 0 {
		return entities.Record{}, ActionSkipped, result.Errors[0]
	}

	report, err := e.store.Apply(ctx, projectID, result.Changes)
	if err != nil {
		return entities.Record{}, ActionSkipped, err
	}
	if len(report.Failures) > 0 {
		return entities.Record{}, ActionSkipped, report.Failures[0]
	}

	action := ActionSkipped
	recordID := ""
	for _, change := range result.Changes {
		switch change.Operation {
		case consolidator.OpCreate:
			// The dependent step create, not a helper workflow create,
			// is the caller's record.
			if change.EntityType == typ {
				action, recordID = ActionCreated, change.EntityID
			}
		case consolidator.OpUpdate:
			action, recordID = ActionUpdated, change.EntityID
		case consolidator.OpMerge:
			action, recordID = ActionMerged, change.EntityID
		case consolidator.OpProposal, consolidator.OpSkip:
			// The record itself is untouched; still return it.
			if recordID == "" {
				recordID = change.EntityID
			}
		}
	}

	if recordID == "" {
		return entities.Record{}, action, nil
	}

	record, err := e.store.Get(ctx, projectID, recordID)
	if err != nil {
		return entities.Record{}, action, err
	}
	return record, action, nil
}
