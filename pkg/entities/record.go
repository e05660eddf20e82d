package entities

import (
	"github.com/factweave/factweave/pkg/evidence"
)

// Record is a stored entity as the corpus knows it.
type Record struct {
	ID     string         `json:"id" yaml:"id"`
	Type   Type           `json:"entity_type" yaml:"entity_type"`
	Fields map[string]any `json:"fields" yaml:"fields"`

	// ConfirmationStatus is the record-level trust status. Individual
	// fields may carry a stronger status in ConfirmedFields.
	ConfirmationStatus ConfirmationStatus            `json:"confirmation_status" yaml:"confirmation_status"`
	ConfirmedFields    map[string]ConfirmationStatus `json:"confirmed_fields,omitempty" yaml:"confirmed_fields,omitempty"`

	Evidence        []evidence.Item `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	SourceSignalIDs []string        `json:"source_signal_ids,omitempty" yaml:"source_signal_ids,omitempty"`

	Version int64 `json:"version" yaml:"version"`
}

// FieldStatus returns the effective confirmation status for one field.
// A field-level entry in ConfirmedFields overrides the record-level status.
func (r Record) FieldStatus(field string) ConfirmationStatus {
	if status, ok := r.ConfirmedFields[field]; ok {
		return status
	}
	return r.ConfirmationStatus
}

// Name returns the record's natural-key value.
func (r Record) Name() string {
	desc, err := ForType(r.Type)
	if err != nil {
		return ""
	}
	if v, ok := r.Fields[desc.NaturalKeyField()]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Clone returns a deep-enough copy of the record for use as an immutable
// snapshot: the field and confirmed-field maps and the evidence and signal
// slices are copied, so mutations on the clone never reach the original.
func (r Record) Clone() Record {
	out := r

	if r.Fields != nil {
		out.Fields = make(map[string]any, len(r.Fields))
		for k, v := range r.Fields {
			out.Fields[k] = v
		}
	}
	if r.ConfirmedFields != nil {
		out.ConfirmedFields = make(map[string]ConfirmationStatus, len(r.ConfirmedFields))
		for k, v := range r.ConfirmedFields {
			out.ConfirmedFields[k] = v
		}
	}
	if r.Evidence != nil {
		out.Evidence = make([]evidence.Item, len(r.Evidence))
		copy(out.Evidence, r.Evidence)
	}
	if r.SourceSignalIDs != nil {
		out.SourceSignalIDs = make([]string, len(r.SourceSignalIDs))
		copy(out.SourceSignalIDs, r.SourceSignalIDs)
	}

	return out
}
