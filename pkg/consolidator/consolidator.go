package consolidator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/factweave/factweave/pkg/differ"
	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/evidence"
	"github.com/factweave/factweave/pkg/logging"
	"github.com/factweave/factweave/pkg/match"
	"github.com/factweave/factweave/pkg/precedence"
	"github.com/factweave/factweave/pkg/textnorm"
)

// CorpusProvider supplies the existing records a candidate is resolved
// against. Implementations must return snapshots the orchestrator can hold
// for the duration of a run.
type CorpusProvider interface {
	ListByType(ctx context.Context, projectID string, typ entities.Type) ([]entities.Record, error)
}

// Orchestrator runs consolidation over batches of extracted candidates.
type Orchestrator struct {
	opts     options
	resolver *match.Resolver
}

// New builds an Orchestrator.
func New(opts ...Option) (*Orchestrator, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	resolver := match.NewResolver(o.policy)
	if len(o.strategies) > 0 {
		resolver = resolver.WithStrategies(o.strategies...)
	}

	return &Orchestrator{opts: o, resolver: resolver}, nil
}

// group is one entity type's slice of the batch.
type group struct {
	typ        entities.Type
	candidates []entities.Candidate
}

// groupResult is what one group task hands back to the fold.
type groupResult struct {
	typ     entities.Type
	count   int
	changes []Change
	err     error
}

// Run consolidates a batch of candidates against the project's corpus and
// returns the full change set. Type groups execute concurrently; a failing
// group degrades to an empty change list recorded in Result.Errors rather
// than aborting the batch. Cancelling ctx stops dispatching new groups but
// lets in-flight groups finish.
func (o *Orchestrator) Run(ctx context.Context, provider CorpusProvider, projectID string, candidates []entities.Candidate) (*Result, error) {
	start := time.Now()
	logger := logging.FromContext(ctx)

	groups := partition(candidates)
	results := make([]groupResult, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.workers)

	for i, grp := range groups {
		if ctx.Err() != nil {
			results[i] = groupResult{typ: grp.typ, count: len(grp.candidates), err: fmt.Errorf("%w: %v", errors.ErrCanceled, ctx.Err())}
			continue
		}
		i, grp := i, grp
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					results[i] = groupResult{typ: grp.typ, count: len(grp.candidates), err: fmt.Errorf("group panicked: %v", r)}
				}
			}()
			results[i] = o.consolidateGroup(gctx, provider, projectID, grp)
			return nil
		})
	}

	// Group tasks never return errors; Wait is purely the join barrier.
	_ = g.Wait()

	result := &Result{}
	for _, gr := range results {
		if gr.err != nil {
			result.Errors = append(result.Errors, errors.NewGroupError(string(gr.typ), gr.count, gr.err))
			logger.Error().Err(gr.err).Str("entity_type", string(gr.typ)).Msg("type group failed")
			continue
		}
		result.Changes = append(result.Changes, gr.changes...)
	}
	result.Totals = tally(result.Changes)
	result.Duration = time.Since(start)

	logger.Info().
		Int("candidates", len(candidates)).
		Int("changes", len(result.Changes)).
		Int("creates", result.Totals.Creates).
		Int("updates", result.Totals.Updates).
		Int("errors", len(result.Errors)).
		Dur("duration", result.Duration).
		Msg("consolidation run complete")

	return result, nil
}

// partition splits candidates by entity type, preserving batch order both
// across and within groups. Unknown types get their own group so the error
// surfaces as a GroupError instead of poisoning a valid group.
func partition(candidates []entities.Candidate) []group {
	byType := make(map[entities.Type][]entities.Candidate)
	var order []entities.Type
	for _, candidate := range candidates {
		if _, ok := byType[candidate.Type]; !ok {
			order = append(order, candidate.Type)
		}
		byType[candidate.Type] = append(byType[candidate.Type], candidate)
	}

	groups := make([]group, 0, len(order))
	for _, typ := range order {
		groups = append(groups, group{typ: typ, candidates: byType[typ]})
	}
	return groups
}

// consolidateGroup runs one entity type's candidates against its corpus.
func (o *Orchestrator) consolidateGroup(ctx context.Context, provider CorpusProvider, projectID string, grp group) groupResult {
	logger := logging.FromContext(ctx)
	result := groupResult{typ: grp.typ, count: len(grp.candidates)}

	desc, err := entities.ForType(grp.typ)
	if err != nil {
		result.err = err
		return result
	}

	corpus, err := provider.ListByType(ctx, projectID, grp.typ)
	if err != nil {
		result.err = errors.WrapStore("list", string(grp.typ), "", err)
		return result
	}

	survivors := o.dedupe(ctx, desc, grp.candidates, &result.changes)

	// Process-step candidates naming a workflow bypass the plain step
	// corpus; they resolve through the workflow corpus instead.
	var stepped []entities.Candidate
	if grp.typ == entities.TypeProcessStep {
		var plain []entities.Candidate
		for _, candidate := range survivors {
			if candidate.WorkflowName() != "" {
				stepped = append(stepped, candidate)
			} else {
				plain = append(plain, candidate)
			}
		}
		survivors = plain
	}

	if len(stepped) > 0 {
		changes, err := o.consolidateWorkflowSteps(ctx, provider, projectID, stepped)
		if err != nil {
			result.err = err
			return result
		}
		result.changes = append(result.changes, changes...)
	}

	for _, candidate := range survivors {
		result.changes = append(result.changes, o.consolidateCandidate(ctx, desc, corpus, candidate)...)
	}

	logger.Info().
		Str("entity_type", string(grp.typ)).
		Int("candidates", len(grp.candidates)).
		Int("corpus", len(corpus)).
		Int("changes", len(result.changes)).
		Msg("consolidated type group")

	return result
}

// dedupe drops candidates whose normalized name was already seen earlier
// in the batch (first occurrence wins). Candidates without a name at all
// produce a skip change; later duplicates produce no change.
func (o *Orchestrator) dedupe(ctx context.Context, desc entities.Descriptor, candidates []entities.Candidate, changes *[]Change) []entities.Candidate {
	logger := logging.FromContext(ctx)
	seen := make(map[string]struct{}, len(candidates))

	var survivors []entities.Candidate
	for _, candidate := range candidates {
		name := candidate.Name()
		if name == "" {
			*changes = append(*changes, Change{
				EntityType: desc.Type(),
				Operation:  OpSkip,
				Rationale:  fmt.Sprintf("candidate has no %s; not resolvable to an entity", desc.NaturalKeyField()),
			})
			continue
		}
		normalized := textnorm.Normalize(name)
		if _, ok := seen[normalized]; ok {
			logger.Debug().Str("entity_type", string(desc.Type())).Str("name", name).Msg("dropped batch duplicate")
			continue
		}
		seen[normalized] = struct{}{}
		survivors = append(survivors, candidate)
	}
	return survivors
}

// consolidateCandidate resolves one candidate against the corpus and emits
// its changes.
func (o *Orchestrator) consolidateCandidate(ctx context.Context, desc entities.Descriptor, corpus []entities.Record, candidate entities.Candidate) []Change {
	logger := logging.FromContext(ctx)
	typ := desc.Type()
	name := candidate.Name()

	proposed := desc.MapRawFields(candidate.RawFields)
	newEvidence := evidence.FromExcerpts(o.opts.source, candidate.EvidenceExcerpts, candidate.CreateConfidence())

	matched := o.resolver.FindBestMatch(typ, name, corpus, desc.NaturalKeyField())
	if !matched.IsMatch {
		change := o.createChange(typ, candidate, proposed, newEvidence)
		change.Rationale = fmt.Sprintf("no existing %s matched %q (best score %.2f)", typ, name, matched.Score)
		logger.Debug().Str("entity_type", string(typ)).Str("name", name).Float64("score", matched.Score).Msg("creating new record")
		return []Change{change}
	}

	record := matched.Matched
	thresholds := o.resolver.Thresholds(typ)

	fieldChanges := differ.Diff(*record, proposed, desc.ImportantFields())
	decision := precedence.Resolve(*record, fieldChanges)
	applicable, proposals := decision.Applicable, decision.ProposalNeeded

	// Ambiguous-band matches optionally route everything to review.
	if match.Classify(matched.Score, thresholds) == match.ClassReview && o.opts.reviewPolicy == ReviewAsProposal {
		proposals = append(append([]differ.FieldChange{}, proposals...), applicable...)
		applicable = nil
	}

	mergedEvidence := evidence.Merge(record.Evidence, newEvidence)
	mergedIDs := evidence.MergeIDs(record.SourceSignalIDs, candidate.SourceChunkIDs)
	evidenceGrew := len(mergedEvidence) > len(record.Evidence) || len(mergedIDs) > len(record.SourceSignalIDs)

	logger.Debug().
		Str("entity_type", string(typ)).
		Str("name", name).
		Str("matched", record.ID).
		Float64("score", matched.Score).
		Str("strategy", string(matched.Strategy)).
		Int("applicable", len(applicable)).
		Int("proposals", len(proposals)).
		Msg("matched existing record")

	var changes []Change

	if len(applicable) > 0 {
		op := OpUpdate
		if evidenceGrew {
			op = OpMerge
		}
		changes = append(changes, Change{
			EntityType:      typ,
			Operation:       op,
			EntityID:        record.ID,
			Before:          beforeMap(applicable),
			After:           afterMap(applicable),
			FieldChanges:    applicable,
			Evidence:        newEvidence,
			SourceSignalIDs: candidate.SourceChunkIDs,
			Rationale:       fmt.Sprintf("matched %q at %.2f via %s; %d field(s) changed", record.Name(), matched.Score, matched.Strategy, len(applicable)),
			Confidence:      matched.Score,
			SimilarityScore: matched.Score,
			Strategy:        matched.Strategy,
		})
	}

	if len(proposals) > 0 {
		changes = append(changes, Change{
			EntityType:      typ,
			Operation:       OpProposal,
			EntityID:        record.ID,
			FieldChanges:    proposals,
			Evidence:        newEvidence,
			SourceSignalIDs: candidate.SourceChunkIDs,
			Rationale:       fmt.Sprintf("matched %q at %.2f via %s; %d field(s) need human review", record.Name(), matched.Score, matched.Strategy, len(proposals)),
			Confidence:      matched.Score,
			SimilarityScore: matched.Score,
			Strategy:        matched.Strategy,
		})
	}

	if len(changes) > 0 {
		return changes
	}

	if evidenceGrew {
		return []Change{{
			EntityType:      typ,
			Operation:       OpMerge,
			EntityID:        record.ID,
			Evidence:        newEvidence,
			SourceSignalIDs: candidate.SourceChunkIDs,
			Rationale:       fmt.Sprintf("matched %q at %.2f via %s; new evidence only", record.Name(), matched.Score, matched.Strategy),
			Confidence:      matched.Score,
			SimilarityScore: matched.Score,
			Strategy:        matched.Strategy,
		}}
	}

	return []Change{{
		EntityType:      typ,
		Operation:       OpSkip,
		EntityID:        record.ID,
		Rationale:       fmt.Sprintf("duplicate of %q; nothing new to record", record.Name()),
		SimilarityScore: matched.Score,
		Strategy:        matched.Strategy,
	}}
}

// createChange builds a create with a pre-assigned ID so dependent changes
// can reference the record before it exists.
func (o *Orchestrator) createChange(typ entities.Type, candidate entities.Candidate, after map[string]any, items []evidence.Item) Change {
	return Change{
		EntityType:      typ,
		Operation:       OpCreate,
		EntityID:        uuid.New().String(),
		After:           after,
		Evidence:        items,
		SourceSignalIDs: candidate.SourceChunkIDs,
		Confidence:      candidate.CreateConfidence(),
	}
}

func afterMap(changes []differ.FieldChange) map[string]any {
	after := make(map[string]any, len(changes))
	for _, change := range changes {
		after[change.Field] = change.New
	}
	return after
}

func beforeMap(changes []differ.FieldChange) map[string]any {
	before := make(map[string]any, len(changes))
	for _, change := range changes {
		before[change.Field] = change.Old
	}
	return before
}
