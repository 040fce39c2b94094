package room

import (
	"time"

	"github.com/snapsplit/snapsplit/internal/assignment"
	"github.com/snapsplit/snapsplit/internal/item"
)

// RoomStatus represents the lifecycle state of a room
type RoomStatus string

const (
	RoomStatusActive    RoomStatus = "active"
	RoomStatusCompleted RoomStatus = "completed"
)

// Room is a shared bill-splitting session identified by a short code
type Room struct {
	ID                string     `json:"id"`
	Code              string     `json:"code"`
	Name              string     `json:"name"`
	CreatorName       string     `json:"creator_name"`
	Status            RoomStatus `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	ExpiresAt         time.Time  `json:"expires_at"`
	TaxRate           float64    `json:"tax_rate"`
	ServiceChargeRate float64    `json:"service_charge_rate"`
}

// Participant is one person in a room, unique by (room, name)
type Participant struct {
	ID       string    `json:"id"`
	RoomID   string    `json:"room_id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// State is a consistent snapshot of everything in one room. It is the
// input surface of the split engine and the payload of GET /rooms/{code}.
type State struct {
	Room         *Room                   `json:"room"`
	Items        []item.Item             `json:"items"`
	Participants []Participant           `json:"participants"`
	Assignments  []assignment.Assignment `json:"assignments"`
}
