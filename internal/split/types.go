package split

// Item is one bill line with a unit price and quantity.
// Its line total is UnitPrice * Quantity.
type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Assignment is one participant's claimed share of one item.
// A nil SharePercentage means the single-assignee default of 100.
type Assignment struct {
	ItemID          string   `json:"item_id"`
	ParticipantID   string   `json:"participant_id"`
	SharePercentage *float64 `json:"share_percentage,omitempty"`
}

// Participant identifies one person in the room.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LineItem is one item's contribution to a participant's subtotal.
type LineItem struct {
	ItemID   string  `json:"item_id"`
	ItemName string  `json:"item_name"`
	Amount   float64 `json:"amount"`
}

// Result is the computed breakdown for a single participant.
// Amounts are full precision; callers round for presentation.
type Result struct {
	ParticipantID   string     `json:"participant_id"`
	ParticipantName string     `json:"participant_name"`
	SubtotalOwed    float64    `json:"subtotal_owed"`
	ServiceCharge   float64    `json:"service_charge"`
	Tax             float64    `json:"tax"`
	TotalOwed       float64    `json:"total_owed"`
	LineItems       []LineItem `json:"line_items"`
}
