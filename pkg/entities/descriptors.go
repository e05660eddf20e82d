package entities

import "strings"

type featureDescriptor struct{ base }

func (featureDescriptor) Type() Type              { return TypeFeature }
func (featureDescriptor) NaturalKeyField() string { return "name" }
func (featureDescriptor) ImportantFields() []string {
	return []string{"name", "category", "is_mvp", "confidence", "status", "details", "overview", "target_personas"}
}
func (d featureDescriptor) MapRawFields(raw map[string]any) map[string]any {
	return copyFields(raw, d.ImportantFields())
}

type personaDescriptor struct{ base }

func (personaDescriptor) Type() Type              { return TypePersona }
func (personaDescriptor) NaturalKeyField() string { return "name" }
func (personaDescriptor) ImportantFields() []string {
	return []string{"name", "role", "description", "goals", "pain_points"}
}
func (d personaDescriptor) MapRawFields(raw map[string]any) map[string]any {
	return copyFields(raw, d.ImportantFields())
}

type processStepDescriptor struct{ base }

func (processStepDescriptor) Type() Type              { return TypeProcessStep }
func (processStepDescriptor) NaturalKeyField() string { return "title" }
func (processStepDescriptor) ImportantFields() []string {
	return []string{"title", "description", "step_order", "workflow_id"}
}
func (d processStepDescriptor) MapRawFields(raw map[string]any) map[string]any {
	return copyFields(raw, d.ImportantFields())
}

type stakeholderDescriptor struct{ base }

func (stakeholderDescriptor) Type() Type              { return TypeStakeholder }
func (stakeholderDescriptor) NaturalKeyField() string { return "name" }
func (stakeholderDescriptor) ImportantFields() []string {
	return []string{"name", "role", "influence", "interest", "notes"}
}
func (d stakeholderDescriptor) MapRawFields(raw map[string]any) map[string]any {
	return copyFields(raw, d.ImportantFields())
}

type constraintDescriptor struct{ base }

func (constraintDescriptor) Type() Type              { return TypeConstraint }
func (constraintDescriptor) NaturalKeyField() string { return "name" }
func (constraintDescriptor) ImportantFields() []string {
	return []string{"name", "description", "constraint_type", "severity"}
}
func (d constraintDescriptor) MapRawFields(raw map[string]any) map[string]any {
	return copyFields(raw, d.ImportantFields())
}

// driverTypes rewrites the extractor's fact_type labels onto the two
// canonical driver types.
var driverTypes = map[string]string{
	"kpi":                 "kpi",
	"metric":              "kpi",
	"objective":           "goal",
	"goal":                "goal",
	"organizational_goal": "goal",
}

type businessDriverDescriptor struct{ base }

func (businessDriverDescriptor) Type() Type              { return TypeBusinessDriver }
func (businessDriverDescriptor) NaturalKeyField() string { return "name" }
func (businessDriverDescriptor) ImportantFields() []string {
	return []string{"name", "description", "driver_type", "target_value"}
}
func (d businessDriverDescriptor) MapRawFields(raw map[string]any) map[string]any {
	out := copyFields(raw, d.ImportantFields())
	if _, ok := out["driver_type"]; !ok {
		if ft, ok := raw["fact_type"].(string); ok {
			if dt, ok := driverTypes[strings.ToLower(strings.TrimSpace(ft))]; ok {
				out["driver_type"] = dt
			}
		}
	}
	return out
}

// competitorCategories maps extraction fact_type labels to the three
// reference categories: direct competitor, alternative, inspiration.
var competitorCategories = map[string]string{
	"competitor":         "direct",
	"direct_competitor":  "direct",
	"alternative":        "alternative",
	"competitor_mention": "alternative",
	"benchmark":          "inspiration",
	"inspiration":        "inspiration",
}

type competitorRefDescriptor struct{ base }

func (competitorRefDescriptor) Type() Type              { return TypeCompetitorRef }
func (competitorRefDescriptor) NaturalKeyField() string { return "name" }
func (competitorRefDescriptor) ImportantFields() []string {
	return []string{"name", "description", "category", "url"}
}
func (d competitorRefDescriptor) MapRawFields(raw map[string]any) map[string]any {
	out := copyFields(raw, d.ImportantFields())
	if _, ok := out["category"]; !ok {
		if ft, ok := raw["fact_type"].(string); ok {
			if cat, ok := competitorCategories[strings.ToLower(strings.TrimSpace(ft))]; ok {
				out["category"] = cat
			}
		}
	}
	return out
}

type companyInfoDescriptor struct{ base }

func (companyInfoDescriptor) Type() Type              { return TypeCompanyInfo }
func (companyInfoDescriptor) NaturalKeyField() string { return "name" }
func (companyInfoDescriptor) ImportantFields() []string {
	return []string{"name", "industry", "company_size", "description"}
}
func (d companyInfoDescriptor) MapRawFields(raw map[string]any) map[string]any {
	return copyFields(raw, d.ImportantFields())
}

type dataEntityDescriptor struct{ base }

func (dataEntityDescriptor) Type() Type              { return TypeDataEntity }
func (dataEntityDescriptor) NaturalKeyField() string { return "name" }
func (dataEntityDescriptor) ImportantFields() []string {
	return []string{"name", "description", "attributes", "relationships"}
}
func (d dataEntityDescriptor) MapRawFields(raw map[string]any) map[string]any {
	return copyFields(raw, d.ImportantFields())
}

type workflowDescriptor struct{ base }

func (workflowDescriptor) Type() Type              { return TypeWorkflow }
func (workflowDescriptor) NaturalKeyField() string { return "name" }
func (workflowDescriptor) ImportantFields() []string {
	return []string{"name", "description"}
}
func (d workflowDescriptor) MapRawFields(raw map[string]any) map[string]any {
	return copyFields(raw, d.ImportantFields())
}
