package item

import "time"

// Item is one receipt/menu line entry with a unit price and quantity.
// Its line total is UnitPrice * Quantity.
type Item struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Name      string    `json:"name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}
