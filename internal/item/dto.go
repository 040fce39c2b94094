package item

// CreateItemRequest represents the request to add an item to a room
type CreateItemRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gte=1"`
}

// UpdateItemRequest represents a partial update of an item
type UpdateItemRequest struct {
	Name      *string  `json:"name,omitempty"`
	UnitPrice *float64 `json:"unit_price,omitempty"`
	Quantity  *int     `json:"quantity,omitempty"`
}
