package assignment

// Assignment is a participant's claimed percentage share of one item.
// A nil SharePercentage means the single-assignee default of 100, applied
// at compute time rather than at write time.
type Assignment struct {
	ID              string   `json:"id"`
	ItemID          string   `json:"item_id"`
	ParticipantID   string   `json:"participant_id"`
	SharePercentage *float64 `json:"share_percentage,omitempty"`
}
