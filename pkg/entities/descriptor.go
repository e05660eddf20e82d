package entities

import (
	"fmt"

	"github.com/factweave/factweave/pkg/errors"
)

// Descriptor captures everything type-specific about an entity: which field
// is its natural key, which fields matter when diffing, and how raw extracted
// fields map onto the canonical schema. Each entity type has exactly one
// variant; dispatch goes through ForType rather than string comparison.
type Descriptor interface {
	// Type returns the entity type this descriptor serves.
	Type() Type

	// NaturalKeyField names the raw/canonical field holding the entity's
	// human-readable identity ("name" for most types, "title" for steps).
	NaturalKeyField() string

	// ImportantFields is the allow-list of canonical fields considered
	// during diffing and updates. Fields outside the list are ignored.
	ImportantFields() []string

	// MapRawFields converts a candidate's raw field map to the canonical
	// schema, dropping unknown keys and rewriting type-specific aliases
	// (for example fact_type on business drivers). The input is not
	// mutated.
	MapRawFields(raw map[string]any) map[string]any

	sealed()
}

var descriptors = map[Type]Descriptor{
	TypeFeature:        featureDescriptor{},
	TypePersona:        personaDescriptor{},
	TypeProcessStep:    processStepDescriptor{},
	TypeStakeholder:    stakeholderDescriptor{},
	TypeConstraint:     constraintDescriptor{},
	TypeBusinessDriver: businessDriverDescriptor{},
	TypeCompetitorRef:  competitorRefDescriptor{},
	TypeCompanyInfo:    companyInfoDescriptor{},
	TypeDataEntity:     dataEntityDescriptor{},
	TypeWorkflow:       workflowDescriptor{},
}

// ForType returns the descriptor for t, or ErrUnknownEntityType.
func ForType(t Type) (Descriptor, error) {
	desc, ok := descriptors[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnknownEntityType, t)
	}
	return desc, nil
}

// base carries the behavior shared by all variants: copy the important
// fields that are present in the raw map, untouched.
type base struct{}

func (base) sealed() {}

func copyFields(raw map[string]any, fields []string) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := raw[f]; ok && v != nil {
			out[f] = v
		}
	}
	return out
}
