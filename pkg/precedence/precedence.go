// Package precedence decides whether a field change can be applied
// directly or must be routed to human review, based on how much
// confirmation the field has already received.
//
// The trust ordering is ai_generated < needs_client < confirmed_consultant
// < confirmed_client. Unconfirmed fields are freely overwritable; fields a
// human has confirmed are never overwritten directly.
package precedence

import (
	"github.com/factweave/factweave/pkg/differ"
	"github.com/factweave/factweave/pkg/entities"
)

// Decision splits a set of field changes by what may be done with them.
type Decision struct {
	// Applicable changes target unconfirmed fields and may be applied
	// directly as an update.
	Applicable []differ.FieldChange

	// ProposalNeeded changes conflict with confirmed fields and must be
	// surfaced to a human instead of being applied.
	ProposalNeeded []differ.FieldChange
}

// Resolve evaluates every change against the record's per-field
// confirmation status. The check is per field, not per record: one record
// can yield both direct updates and proposals from the same candidate.
func Resolve(record entities.Record, changes []differ.FieldChange) Decision {
	var decision Decision
	for _, change := range changes {
		if record.FieldStatus(change.Field).Confirmed() {
			decision.ProposalNeeded = append(decision.ProposalNeeded, change)
		} else {
			decision.Applicable = append(decision.Applicable, change)
		}
	}
	return decision
}

// Overwritable reports whether a single field on the record may be
// replaced without review.
func Overwritable(record entities.Record, field string) bool {
	return !record.FieldStatus(field).Confirmed()
}
