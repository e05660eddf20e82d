package entities

// ConfirmationStatus records how much human trust a record (or a single
// field) has accumulated. Statuses form a strict trust ordering; see Rank.
type ConfirmationStatus string

const (
	StatusAIGenerated         ConfirmationStatus = "ai_generated"
	StatusNeedsClient         ConfirmationStatus = "needs_client"
	StatusConfirmedConsultant ConfirmationStatus = "confirmed_consultant"
	StatusConfirmedClient     ConfirmationStatus = "confirmed_client"
)

// statusRanks orders statuses by trust. Unknown statuses rank below
// everything so malformed data is treated as freely overwritable.
var statusRanks = map[ConfirmationStatus]int{
	StatusAIGenerated:         0,
	StatusNeedsClient:         1,
	StatusConfirmedConsultant: 2,
	StatusConfirmedClient:     3,
}

// Rank returns the position of s in the trust ordering. Unknown statuses
// return -1.
func (s ConfirmationStatus) Rank() int {
	if rank, ok := statusRanks[s]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether s carries at least as much trust as other.
func (s ConfirmationStatus) AtLeast(other ConfirmationStatus) bool {
	return s.Rank() >= other.Rank()
}

// Confirmed reports whether a human has signed off on this status.
// Confirmed fields are protected from direct overwrites.
func (s ConfirmationStatus) Confirmed() bool {
	return s == StatusConfirmedConsultant || s == StatusConfirmedClient
}

// String implements fmt.Stringer.
func (s ConfirmationStatus) String() string {
	return string(s)
}
