package factweave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factweave/factweave/pkg/consolidator"
	"github.com/factweave/factweave/pkg/embedding"
	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/errors"
)

const project = "proj-1"

func TestConsolidateAndApply(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Consolidate(context.Background(), project, []entities.Candidate{
		{Type: entities.TypeFeature, RawFields: map[string]any{"name": "Churn Alerts", "category": "retention"}},
		{Type: entities.TypePersona, RawFields: map[string]any{"name": "Support Agent"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Totals.Creates)

	report, err := engine.Apply(context.Background(), project, result.Changes)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)

	features, err := engine.Store().ListByType(context.Background(), project, entities.TypeFeature)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "Churn Alerts", features[0].Fields["name"])
}

func TestConsolidateEmptyBatch(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	result, err := engine.Consolidate(context.Background(), project, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Changes)
}

func TestSmartUpsertLifecycle(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)
	ctx := context.Background()

	// First sighting creates.
	record, action, err := engine.SmartUpsert(ctx, project, entities.TypeFeature, "Churn Alerts",
		map[string]any{"category": "retention"}, []string{"we need alerts"})
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, action)
	assert.Equal(t, "Churn Alerts", record.Fields["name"])
	assert.Equal(t, int64(1), record.Version)

	// A changed field updates (and merges the new evidence).
	record, action, err = engine.SmartUpsert(ctx, project, entities.TypeFeature, "churn alerts",
		map[string]any{"category": "analytics"}, []string{"alerts inside the analytics view"})
	require.NoError(t, err)
	assert.Contains(t, []Action{ActionUpdated, ActionMerged}, action)
	assert.Equal(t, "analytics", record.Fields["category"])
	assert.Len(t, record.Evidence, 2)

	// Nothing new skips, returning the unchanged record.
	before := record.Version
	record, action, err = engine.SmartUpsert(ctx, project, entities.TypeFeature, "Churn Alerts",
		map[string]any{"category": "analytics"}, []string{"we need alerts"})
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, action)
	assert.Equal(t, before, record.Version)
}

func TestSmartUpsertConfirmedFieldSkipsAndQueues(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = engine.Store().Put(ctx, project, entities.Record{
		ID:                 "d1",
		Type:               entities.TypeBusinessDriver,
		Fields:             map[string]any{"name": "Monthly Churn Rate", "target_value": "4%"},
		ConfirmationStatus: entities.StatusAIGenerated,
		ConfirmedFields: map[string]entities.ConfirmationStatus{
			"target_value": entities.StatusConfirmedClient,
		},
	})
	require.NoError(t, err)

	record, action, err := engine.SmartUpsert(ctx, project, entities.TypeBusinessDriver, "Monthly Churn Rate",
		map[string]any{"target_value": "5%"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionSkipped, action)
	assert.Equal(t, "4%", record.Fields["target_value"])

	proposals, err := engine.Store().Proposals(ctx, project)
	require.NoError(t, err)
	assert.Len(t, proposals, 1)
}

func TestSmartUpsertUnknownType(t *testing.T) {
	engine, err := New()
	require.NoError(t, err)

	_, _, err = engine.SmartUpsert(context.Background(), project, "gadget", "Mystery", nil, nil)
	assert.ErrorIs(t, err, errors.ErrUnknownEntityType)
}

func TestSemanticSimilarity(t *testing.T) {
	engine, err := New(WithEmbedder(embedding.NewStatic(map[string][]float64{
		"churn alerts":     {1, 0, 1},
		"churn monitoring": {1, 0.2, 0.9},
	})))
	require.NoError(t, err)

	score, err := engine.SemanticSimilarity(context.Background(), "Churn Alerts", "churn monitoring")
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)

	bare, err := New()
	require.NoError(t, err)
	_, err = bare.SemanticSimilarity(context.Background(), "a", "b")
	assert.True(t, errors.IsValidationError(err))
}

func TestNewOptionErrors(t *testing.T) {
	_, err := New(WithStore(nil))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithWorkers(-1))
	assert.True(t, errors.IsValidationError(err))

	_, err = New(WithReviewPolicy(consolidator.ReviewPolicy("maybe")))
	assert.True(t, errors.IsValidationError(err))
}
