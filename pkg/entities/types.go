// Package entities defines the data model shared across consolidation:
// entity types, confirmation statuses, extracted candidates, stored records,
// and the per-type descriptors that know each type's field conventions.
package entities

// Type identifies a kind of discovery entity.
type Type string

// Entity types produced by extraction.
const (
	TypeFeature        Type = "feature"
	TypePersona        Type = "persona"
	TypeProcessStep    Type = "process_step"
	TypeStakeholder    Type = "stakeholder"
	TypeConstraint     Type = "constraint"
	TypeBusinessDriver Type = "business_driver"
	TypeCompetitorRef  Type = "competitor_ref"
	TypeCompanyInfo    Type = "company_info"
	TypeDataEntity     Type = "data_entity"

	// TypeWorkflow is not extracted directly. Process-step candidates that
	// name a workflow are resolved against the workflow corpus, and the
	// resolver may emit workflow creates ahead of the dependent steps.
	TypeWorkflow Type = "workflow"
)

// AllTypes returns every extractable entity type in stable order.
// TypeWorkflow is excluded: it only appears as a resolver-internal target.
func AllTypes() []Type {
	return []Type{
		TypeFeature,
		TypePersona,
		TypeProcessStep,
		TypeStakeholder,
		TypeConstraint,
		TypeBusinessDriver,
		TypeCompetitorRef,
		TypeCompanyInfo,
		TypeDataEntity,
	}
}

// IsValid reports whether t is a known entity type.
func (t Type) IsValid() bool {
	switch t {
	case TypeFeature, TypePersona, TypeProcessStep, TypeStakeholder,
		TypeConstraint, TypeBusinessDriver, TypeCompetitorRef,
		TypeCompanyInfo, TypeDataEntity, TypeWorkflow:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}
