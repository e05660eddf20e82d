package match

import "github.com/factweave/factweave/pkg/similarity"

// Classification is the coarse three-way decision derived from a score
// and the type's create/update boundaries.
type Classification string

const (
	// ClassCreate means the score is below the create threshold: no
	// plausible match exists, a new record should be created.
	ClassCreate Classification = "create"

	// ClassReview means the score landed in the ambiguous band between
	// the two boundaries. The caller decides how to treat it.
	ClassReview Classification = "review"

	// ClassUpdate means the score is at or above the update threshold.
	ClassUpdate Classification = "update"
)

// Classify places a score relative to the create/update boundaries.
func Classify(score float64, t similarity.Thresholds) Classification {
	switch {
	case score < t.CreateThreshold:
		return ClassCreate
	case score >= t.UpdateThreshold:
		return ClassUpdate
	default:
		return ClassReview
	}
}
