package precedence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/factweave/factweave/pkg/differ"
	"github.com/factweave/factweave/pkg/entities"
)

func TestResolveUnconfirmedIsApplicable(t *testing.T) {
	record := entities.Record{ConfirmationStatus: entities.StatusAIGenerated}
	changes := []differ.FieldChange{
		{Field: "name", Old: "a", New: "b"},
		{Field: "category", Old: "x", New: "y"},
	}

	decision := Resolve(record, changes)

	assert.Len(t, decision.Applicable, 2)
	assert.Empty(t, decision.ProposalNeeded)
}

func TestResolveNeedsClientIsApplicable(t *testing.T) {
	record := entities.Record{ConfirmationStatus: entities.StatusNeedsClient}

	decision := Resolve(record, []differ.FieldChange{{Field: "name"}})

	assert.Len(t, decision.Applicable, 1)
}

func TestResolveConfirmedRecordNeedsProposal(t *testing.T) {
	for _, status := range []entities.ConfirmationStatus{
		entities.StatusConfirmedConsultant,
		entities.StatusConfirmedClient,
	} {
		record := entities.Record{ConfirmationStatus: status}

		decision := Resolve(record, []differ.FieldChange{{Field: "target_value"}})

		assert.Empty(t, decision.Applicable, "status %s", status)
		assert.Len(t, decision.ProposalNeeded, 1, "status %s", status)
	}
}

func TestResolveFieldLevelOverridesRecordLevel(t *testing.T) {
	// Record as a whole is AI-generated, but the client confirmed one field.
	record := entities.Record{
		ConfirmationStatus: entities.StatusAIGenerated,
		ConfirmedFields: map[string]entities.ConfirmationStatus{
			"target_value": entities.StatusConfirmedClient,
		},
	}
	changes := []differ.FieldChange{
		{Field: "target_value", Old: 10, New: 20},
		{Field: "description", Old: "a", New: "b"},
	}

	decision := Resolve(record, changes)

	assert.Equal(t, "description", decision.Applicable[0].Field)
	assert.Equal(t, "target_value", decision.ProposalNeeded[0].Field)
}

func TestResolveFieldLevelDowngrade(t *testing.T) {
	// A field explicitly marked needs_client on a consultant-confirmed
	// record is overwritable: field-level status wins in both directions.
	record := entities.Record{
		ConfirmationStatus: entities.StatusConfirmedConsultant,
		ConfirmedFields: map[string]entities.ConfirmationStatus{
			"description": entities.StatusNeedsClient,
		},
	}

	decision := Resolve(record, []differ.FieldChange{{Field: "description"}})

	assert.Len(t, decision.Applicable, 1)
}

func TestOverwritable(t *testing.T) {
	record := entities.Record{
		ConfirmationStatus: entities.StatusAIGenerated,
		ConfirmedFields: map[string]entities.ConfirmationStatus{
			"name": entities.StatusConfirmedClient,
		},
	}

	assert.False(t, Overwritable(record, "name"))
	assert.True(t, Overwritable(record, "category"))
}
