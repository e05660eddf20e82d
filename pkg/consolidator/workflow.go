package consolidator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/evidence"
	"github.com/factweave/factweave/pkg/logging"
	"github.com/factweave/factweave/pkg/textnorm"
)

// consolidateWorkflowSteps handles the cross-type case: process-step
// candidates naming a workflow resolve against the workflow corpus, not
// the step corpus. Steps are grouped by workflow name, each group's
// workflow is matched or created, and the steps become creates referencing
// the resolved workflow. Workflow creates always precede their dependent
// step creates in the returned slice.
func (o *Orchestrator) consolidateWorkflowSteps(ctx context.Context, provider CorpusProvider, projectID string, steps []entities.Candidate) ([]Change, error) {
	logger := logging.FromContext(ctx)

	workflowCorpus, err := provider.ListByType(ctx, projectID, entities.TypeWorkflow)
	if err != nil {
		return nil, errors.WrapStore("list", string(entities.TypeWorkflow), "", err)
	}

	stepDesc, err := entities.ForType(entities.TypeProcessStep)
	if err != nil {
		return nil, err
	}

	// Resolve each distinct workflow name once, in first-appearance order.
	workflowIDs := make(map[string]string)
	var workflowChanges []Change
	for _, step := range steps {
		name := step.WorkflowName()
		key := textnorm.Normalize(name)
		if _, ok := workflowIDs[key]; ok {
			continue
		}

		matched := o.resolver.FindBestMatch(entities.TypeWorkflow, name, workflowCorpus, "name")
		if matched.IsMatch {
			workflowIDs[key] = matched.Matched.ID
			logger.Debug().Str("workflow", name).Str("matched", matched.Matched.ID).Float64("score", matched.Score).Msg("resolved existing workflow")
			continue
		}

		id := uuid.New().String()
		workflowIDs[key] = id
		workflowChanges = append(workflowChanges, Change{
			EntityType: entities.TypeWorkflow,
			Operation:  OpCreate,
			EntityID:   id,
			After:      map[string]any{"name": name},
			Evidence:   evidence.FromExcerpts(o.opts.source, step.EvidenceExcerpts, step.CreateConfidence()),
			Rationale:  fmt.Sprintf("no existing workflow matched %q (best score %.2f)", name, matched.Score),
			Confidence: step.CreateConfidence(),
		})
	}

	stepChanges := make([]Change, 0, len(steps))
	for _, step := range steps {
		workflowID := workflowIDs[textnorm.Normalize(step.WorkflowName())]

		after := stepDesc.MapRawFields(step.RawFields)
		after["workflow_id"] = workflowID

		change := o.createChange(entities.TypeProcessStep, step, after, evidence.FromExcerpts(o.opts.source, step.EvidenceExcerpts, step.CreateConfidence()))
		change.Rationale = fmt.Sprintf("step %q recorded under workflow %q", step.Name(), step.WorkflowName())
		stepChanges = append(stepChanges, change)
	}

	return append(workflowChanges, stepChanges...), nil
}
