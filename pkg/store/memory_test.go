package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factweave/factweave/pkg/consolidator"
	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/evidence"
)

const project = "proj-1"

func seedFeature(t *testing.T, m *Memory, id, name string) entities.Record {
	t.Helper()
	record, err := m.Put(context.Background(), project, entities.Record{
		ID:                 id,
		Type:               entities.TypeFeature,
		Fields:             map[string]any{"name": name},
		ConfirmationStatus: entities.StatusAIGenerated,
	})
	require.NoError(t, err)
	return record
}

func TestPutAssignsIDAndBumpsVersion(t *testing.T) {
	m := NewMemory()

	record, err := m.Put(context.Background(), project, entities.Record{
		Type:   entities.TypeFeature,
		Fields: map[string]any{"name": "Churn Alerts"},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, int64(1), record.Version)

	record, err = m.Put(context.Background(), project, record)
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.Version)
}

func TestPutRejectsUnknownType(t *testing.T) {
	m := NewMemory()

	_, err := m.Put(context.Background(), project, entities.Record{Type: "gadget"})

	assert.ErrorIs(t, err, errors.ErrUnknownEntityType)
}

func TestGetNotFound(t *testing.T) {
	m := NewMemory()

	_, err := m.Get(context.Background(), project, "missing")

	assert.True(t, errors.IsNotFound(err))
}

func TestListByTypeFiltersAndDetaches(t *testing.T) {
	m := NewMemory()
	seedFeature(t, m, "b", "Churn Alerts")
	seedFeature(t, m, "a", "User Dashboard")
	_, err := m.Put(context.Background(), project, entities.Record{
		ID: "p", Type: entities.TypePersona, Fields: map[string]any{"name": "Admin"},
	})
	require.NoError(t, err)

	features, err := m.ListByType(context.Background(), project, entities.TypeFeature)
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "a", features[0].ID)

	// Mutating the snapshot does not reach the store.
	features[0].Fields["name"] = "mutated"
	stored, err := m.Get(context.Background(), project, "a")
	require.NoError(t, err)
	assert.Equal(t, "User Dashboard", stored.Fields["name"])
}

func TestApplyCreate(t *testing.T) {
	m := NewMemory()

	report, err := m.Apply(context.Background(), project, []consolidator.Change{{
		EntityType: entities.TypeFeature,
		Operation:  consolidator.OpCreate,
		EntityID:   "f1",
		After:      map[string]any{"name": "Churn Alerts"},
		Evidence:   []evidence.Item{{Source: "extraction", Text: "we need alerts"}},
	}})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Empty(t, report.Failures)

	record, err := m.Get(context.Background(), project, "f1")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusAIGenerated, record.ConfirmationStatus)
	assert.Equal(t, int64(1), record.Version)
	assert.Len(t, record.Evidence, 1)
}

func TestApplyUpdateAppendsEvidenceAndBumpsVersion(t *testing.T) {
	m := NewMemory()
	record := seedFeature(t, m, "f1", "Churn Alerts")
	record.Evidence = []evidence.Item{{Source: "extraction", Text: "old"}}
	record, err := m.Put(context.Background(), project, record)
	require.NoError(t, err)

	report, err := m.Apply(context.Background(), project, []consolidator.Change{{
		EntityType:      entities.TypeFeature,
		Operation:       consolidator.OpMerge,
		EntityID:        "f1",
		After:           map[string]any{"category": "retention"},
		Evidence:        []evidence.Item{{Source: "extraction", Text: "old"}, {Source: "extraction", Text: "new"}},
		SourceSignalIDs: []string{"chunk-1"},
	}})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Merged)

	updated, err := m.Get(context.Background(), project, "f1")
	require.NoError(t, err)
	assert.Equal(t, "retention", updated.Fields["category"])
	assert.Equal(t, record.Version+1, updated.Version)
	// Union, not replacement: duplicates removed, never shrinks.
	assert.Len(t, updated.Evidence, 2)
	assert.Equal(t, []string{"chunk-1"}, updated.SourceSignalIDs)
}

func TestApplyRefusesClientConfirmedField(t *testing.T) {
	m := NewMemory()
	record := seedFeature(t, m, "f1", "Churn Alerts")
	record.ConfirmedFields = map[string]entities.ConfirmationStatus{"name": entities.StatusConfirmedClient}
	_, err := m.Put(context.Background(), project, record)
	require.NoError(t, err)

	report, err := m.Apply(context.Background(), project, []consolidator.Change{{
		EntityType: entities.TypeFeature,
		Operation:  consolidator.OpUpdate,
		EntityID:   "f1",
		After:      map[string]any{"name": "Renamed"},
	}})

	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0], errors.ErrConfirmedField)

	stored, err := m.Get(context.Background(), project, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Churn Alerts", stored.Fields["name"])
}

func TestApplyProposalQueuesWithoutMutating(t *testing.T) {
	m := NewMemory()
	seedFeature(t, m, "f1", "Churn Alerts")

	report, err := m.Apply(context.Background(), project, []consolidator.Change{{
		EntityType: entities.TypeFeature,
		Operation:  consolidator.OpProposal,
		EntityID:   "f1",
	}})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Queued)

	proposals, err := m.Proposals(context.Background(), project)
	require.NoError(t, err)
	assert.Len(t, proposals, 1)

	stored, err := m.Get(context.Background(), project, "f1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
}

func TestApplyPerChangeFailureBoundary(t *testing.T) {
	m := NewMemory()

	report, err := m.Apply(context.Background(), project, []consolidator.Change{
		{EntityType: entities.TypeFeature, Operation: consolidator.OpUpdate, EntityID: "missing", After: map[string]any{"name": "x"}},
		{EntityType: entities.TypeFeature, Operation: consolidator.OpCreate, EntityID: "f1", After: map[string]any{"name": "Churn Alerts"}},
		{EntityType: entities.TypeFeature, Operation: consolidator.OpSkip},
	})

	require.NoError(t, err)
	assert.Len(t, report.Failures, 1)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Applied())
}

func TestApplyCreateConflict(t *testing.T) {
	m := NewMemory()
	seedFeature(t, m, "f1", "Churn Alerts")

	report, err := m.Apply(context.Background(), project, []consolidator.Change{{
		EntityType: entities.TypeFeature,
		Operation:  consolidator.OpCreate,
		EntityID:   "f1",
		After:      map[string]any{"name": "Churn Alerts"},
	}})

	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0], errors.ErrAlreadyExists)
}
