package similarity

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/factweave/factweave/pkg/entities"
	"github.com/factweave/factweave/pkg/errors"
)

// Thresholds holds the per-strategy match thresholds for one entity type,
// plus the two classification boundaries. create must not exceed update;
// scores between them fall into the ambiguous review band.
type Thresholds struct {
	Exact         float64 `json:"exact" yaml:"exact"`
	TokenSet      float64 `json:"token_set" yaml:"token_set"`
	Partial       float64 `json:"partial" yaml:"partial"`
	WeightedRatio float64 `json:"weighted_ratio" yaml:"weighted_ratio"`
	KeyTerms      float64 `json:"key_terms" yaml:"key_terms"`
	Embedding     float64 `json:"embedding" yaml:"embedding"`

	CreateThreshold float64 `json:"create_threshold" yaml:"create_threshold"`
	UpdateThreshold float64 `json:"update_threshold" yaml:"update_threshold"`
}

// For returns the match threshold for a strategy. Unknown strategies get a
// threshold above 1 so they can never match.
func (t Thresholds) For(strategy Strategy) float64 {
	switch strategy {
	case StrategyExact:
		return t.Exact
	case StrategyTokenSet:
		return t.TokenSet
	case StrategyPartial:
		return t.Partial
	case StrategyWeightedRatio:
		return t.WeightedRatio
	case StrategyKeyTerms:
		return t.KeyTerms
	case StrategyEmbedding:
		return t.Embedding
	default:
		return 1.01
	}
}

// IsMatch reports whether a score produced by the given strategy counts as
// a match.
func (t Thresholds) IsMatch(score float64, strategy Strategy) bool {
	return score >= t.For(strategy)
}

// Validate checks that every threshold is in [0,1] and that the create
// boundary does not exceed the update boundary.
func (t Thresholds) Validate() error {
	values := map[string]float64{
		"exact":            t.Exact,
		"token_set":        t.TokenSet,
		"partial":          t.Partial,
		"weighted_ratio":   t.WeightedRatio,
		"key_terms":        t.KeyTerms,
		"embedding":        t.Embedding,
		"create_threshold": t.CreateThreshold,
		"update_threshold": t.UpdateThreshold,
	}
	for name, v := range values {
		if v < 0 || v > 1 {
			return errors.NewValidationError(name, v, "threshold outside [0,1]")
		}
	}
	if t.CreateThreshold > t.UpdateThreshold {
		return errors.NewValidationError("create_threshold", t.CreateThreshold,
			fmt.Sprintf("create threshold exceeds update threshold %v", t.UpdateThreshold))
	}
	return nil
}

// Policy maps entity types to their thresholds, with a fallback default.
type Policy struct {
	Default Thresholds                   `json:"default" yaml:"default"`
	PerType map[entities.Type]Thresholds `json:"per_type,omitempty" yaml:"per_type,omitempty"`
}

// ForType returns the thresholds for an entity type, falling back to the
// policy default.
func (p Policy) ForType(t entities.Type) Thresholds {
	if thresholds, ok := p.PerType[t]; ok {
		return thresholds
	}
	return p.Default
}

// Validate checks the default and every per-type override.
func (p Policy) Validate() error {
	if err := p.Default.Validate(); err != nil {
		return fmt.Errorf("default thresholds: %w", err)
	}
	for typ, thresholds := range p.PerType {
		if err := thresholds.Validate(); err != nil {
			return fmt.Errorf("thresholds for %s: %w", typ, err)
		}
	}
	return nil
}

// DefaultPolicy returns the built-in thresholds. Process steps and
// workflows run slightly looser than the rest: journey steps arrive
// heavily paraphrased across interviews.
func DefaultPolicy() Policy {
	standard := Thresholds{
		Exact:           1.0,
		TokenSet:        0.65,
		Partial:         0.85,
		WeightedRatio:   0.8,
		KeyTerms:        0.6,
		Embedding:       0.8,
		CreateThreshold: 0.6,
		UpdateThreshold: 0.8,
	}
	loose := Thresholds{
		Exact:           1.0,
		TokenSet:        0.6,
		Partial:         0.8,
		WeightedRatio:   0.75,
		KeyTerms:        0.55,
		Embedding:       0.75,
		CreateThreshold: 0.55,
		UpdateThreshold: 0.75,
	}

	return Policy{
		Default: standard,
		PerType: map[entities.Type]Thresholds{
			entities.TypeProcessStep: loose,
			entities.TypeWorkflow:    loose,
		},
	}
}

// LoadPolicy reads a threshold policy from a YAML file and validates it.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, errors.WrapParse("yaml", path, err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a threshold policy from YAML and validates it.
func ParsePolicy(data []byte) (Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, errors.WrapParse("yaml", "", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}
