package room

// CreateRoomRequest represents the request to open a new room
type CreateRoomRequest struct {
	Name              string  `json:"name" validate:"required,min=1,max=100"`
	CreatorName       string  `json:"creator_name" validate:"required,min=1,max=100"`
	TaxRate           float64 `json:"tax_rate"`
	ServiceChargeRate float64 `json:"service_charge_rate"`
}

// JoinRoomRequest represents the request to join an existing room
type JoinRoomRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// UpdateRoomRequest represents a partial update of room-level settings.
// Rate changes do not rewrite stored items or assignments; they only feed
// the next split computation.
type UpdateRoomRequest struct {
	TaxRate           *float64    `json:"tax_rate,omitempty"`
	ServiceChargeRate *float64    `json:"service_charge_rate,omitempty"`
	Status            *RoomStatus `json:"status,omitempty"`
}

// CreateRoomResponse bundles the new room with its auto-joined creator
type CreateRoomResponse struct {
	Room        *Room        `json:"room"`
	Participant *Participant `json:"participant"`
}
