package entities

import "strings"

// Candidate is one extracted fact awaiting consolidation. Candidates are
// created once per extraction pass and treated as immutable for the duration
// of a consolidation run.
type Candidate struct {
	Type             Type           `json:"entity_type" yaml:"entity_type"`
	RawFields        map[string]any `json:"raw_fields" yaml:"raw_fields"`
	EvidenceExcerpts []string       `json:"evidence_excerpts,omitempty" yaml:"evidence_excerpts,omitempty"`
	SourceChunkIDs   []string       `json:"source_chunk_ids,omitempty" yaml:"source_chunk_ids,omitempty"`

	// Confidence is the extractor's own label ("high", "medium", "low").
	// It may be empty; create confidence degrades accordingly.
	Confidence string `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// Name returns the candidate's natural-key value (its name or title,
// depending on type), trimmed. Empty means the candidate is unresolvable
// and should be skipped.
func (c Candidate) Name() string {
	desc, err := ForType(c.Type)
	if err != nil {
		return ""
	}
	return c.StringField(desc.NaturalKeyField())
}

// StringField returns a raw field coerced to a trimmed string, or "" when
// the field is absent or not a string.
func (c Candidate) StringField(field string) string {
	v, ok := c.RawFields[field]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// WorkflowName returns the workflow this process-step candidate belongs to,
// or "" for any other type or when no workflow is named.
func (c Candidate) WorkflowName() string {
	if c.Type != TypeProcessStep {
		return ""
	}
	return c.StringField("workflow_name")
}
