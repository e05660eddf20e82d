package entities

import "strings"

// Numeric confidence assigned to freshly created records, keyed by the
// extractor's confidence label. Anything unrecognized or absent degrades
// to the default.
const (
	confidenceHigh    = 0.9
	confidenceMedium  = 0.6
	confidenceLow     = 0.4
	confidenceDefault = 0.5
)

// CreateConfidence converts the extractor's confidence label into the
// numeric confidence recorded on a create change.
func (c Candidate) CreateConfidence() float64 {
	switch strings.ToLower(strings.TrimSpace(c.Confidence)) {
	case "high":
		return confidenceHigh
	case "medium":
		return confidenceMedium
	case "low":
		return confidenceLow
	default:
		return confidenceDefault
	}
}
