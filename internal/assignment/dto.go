package assignment

// CreateAssignmentRequest represents the request to claim a share of an item.
// Omitting share_percentage stores NULL, which the split engine treats as
// the single-assignee default of 100. Assigning the same item to the same
// participant again replaces the earlier share instead of duplicating it.
type CreateAssignmentRequest struct {
	ItemID          string   `json:"item_id" validate:"required"`
	ParticipantID   string   `json:"participant_id" validate:"required"`
	SharePercentage *float64 `json:"share_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}
