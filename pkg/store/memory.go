package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/factweave/factweave/pkg/consolidator"
	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/errors"
	"github.com/factweave/factweave/pkg/evidence"
)

// Memory is an in-memory Store. Safe for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	records   map[string]map[string]entities.Record // projectID -> recordID -> record
	proposals map[string][]consolidator.Change
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records:   make(map[string]map[string]entities.Record),
		proposals: make(map[string][]consolidator.Change),
	}
}

// ListByType implements Store. Records come back as clones sorted by ID,
// so the caller's snapshot is stable and detached.
func (m *Memory) ListByType(_ context.Context, projectID string, typ entities.Type) ([]entities.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []entities.Record
	for _, record := range m.records[projectID] {
		if record.Type == typ {
			out = append(out, record.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, projectID, id string) (entities.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[projectID][id]
	if !ok {
		return entities.Record{}, errors.NewNotFoundError("record", id)
	}
	return record.Clone(), nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, projectID string, record entities.Record) (entities.Record, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if !record.Type.IsValid() {
		return entities.Record{}, fmt.Errorf("%w: %q", errors.ErrUnknownEntityType, record.Type)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records[projectID] == nil {
		m.records[projectID] = make(map[string]entities.Record)
	}
	record.Version++
	m.records[projectID][record.ID] = record.Clone()
	return record, nil
}

// Apply implements Store.
func (m *Memory) Apply(_ context.Context, projectID string, changes []consolidator.Change) (ApplyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var report ApplyReport
	for _, change := range changes {
		if err := m.applyOne(projectID, change, &report); err != nil {
			report.Failures = append(report.Failures, errors.WrapStore(string(change.Operation), string(change.EntityType), change.EntityID, err))
		}
	}
	return report, nil
}

func (m *Memory) applyOne(projectID string, change consolidator.Change, report *ApplyReport) error {
	switch change.Operation {
	case consolidator.OpCreate:
		if err := m.applyCreate(projectID, change); err != nil {
			return err
		}
		report.Created++
	case consolidator.OpUpdate:
		if err := m.applyUpdate(projectID, change); err != nil {
			return err
		}
		report.Updated++
	case consolidator.OpMerge:
		if err := m.applyUpdate(projectID, change); err != nil {
			return err
		}
		report.Merged++
	case consolidator.OpProposal:
		m.proposals[projectID] = append(m.proposals[projectID], change)
		report.Queued++
	case consolidator.OpSkip:
		report.Skipped++
	default:
		return fmt.Errorf("%w: operation %q", errors.ErrInvalidInput, change.Operation)
	}
	return nil
}

func (m *Memory) applyCreate(projectID string, change consolidator.Change) error {
	id := change.EntityID
	if id == "" {
		id = uuid.New().String()
	}
	if _, exists := m.records[projectID][id]; exists {
		return errors.ErrAlreadyExists
	}

	fields := make(map[string]any, len(change.After))
	for k, v := range change.After {
		fields[k] = v
	}

	record := entities.Record{
		ID:                 id,
		Type:               change.EntityType,
		Fields:             fields,
		ConfirmationStatus: entities.StatusAIGenerated,
		Evidence:           change.Evidence,
		SourceSignalIDs:    change.SourceSignalIDs,
		Version:            1,
	}

	if m.records[projectID] == nil {
		m.records[projectID] = make(map[string]entities.Record)
	}
	m.records[projectID][id] = record
	return nil
}

// applyUpdate serves both update and merge: apply the after map, union
// evidence and source-signal arrays, bump the version. Fields the client
// confirmed are refused here too, independent of the engine's own routing.
func (m *Memory) applyUpdate(projectID string, change consolidator.Change) error {
	record, ok := m.records[projectID][change.EntityID]
	if !ok {
		return errors.NewNotFoundError("record", change.EntityID)
	}

	for field := range change.After {
		if record.FieldStatus(field) == entities.StatusConfirmedClient {
			return fmt.Errorf("%w: %s", errors.ErrConfirmedField, field)
		}
	}

	updated := record.Clone()
	for field, value := range change.After {
		updated.Fields[field] = value
	}
	updated.Evidence = evidence.Merge(updated.Evidence, change.Evidence)
	updated.SourceSignalIDs = evidence.MergeIDs(updated.SourceSignalIDs, change.SourceSignalIDs)
	updated.Version++

	m.records[projectID][change.EntityID] = updated
	return nil
}

// Proposals implements Store.
func (m *Memory) Proposals(_ context.Context, projectID string) ([]consolidator.Change, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]consolidator.Change, len(m.proposals[projectID]))
	copy(out, m.proposals[projectID])
	return out, nil
}
