package item

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomNotActive   = errors.New("room is not active")
	ErrItemNotFound    = errors.New("item not found")
	ErrInvalidPrice    = errors.New("unit price cannot be negative")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Broadcaster fans an event out to every client watching a room
type Broadcaster interface {
	Broadcast(roomCode, event string, payload interface{})
}

// StateNotifier is told after every mutation so splits can be recomputed
// over the room's current snapshot and pushed to connected clients.
type StateNotifier interface {
	StateChanged(ctx context.Context, code string)
}

// Service handles item business logic. The split engine accepts whatever
// numbers it is given, so input validation lives here.
type Service struct {
	repo     *Repository
	hub      Broadcaster
	notifier StateNotifier
}

// NewService creates a new item service
func NewService(repo *Repository, hub Broadcaster, notifier StateNotifier) *Service {
	return &Service{
		repo:     repo,
		hub:      hub,
		notifier: notifier,
	}
}

// Create adds an item to a room
func (s *Service) Create(ctx context.Context, code string, req *CreateItemRequest) (*Item, error) {
	roomID, err := s.activeRoomID(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.UnitPrice < 0 {
		return nil, ErrInvalidPrice
	}
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item := &Item{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(code, "item-added", item)
	}
	s.notifier.StateChanged(ctx, code)

	return item, nil
}

// Update modifies an item in a room
func (s *Service) Update(ctx context.Context, code, itemID string, req *UpdateItemRequest) (*Item, error) {
	if _, err := s.itemInRoom(ctx, code, itemID); err != nil {
		return nil, err
	}

	if req.UnitPrice != nil && *req.UnitPrice < 0 {
		return nil, ErrInvalidPrice
	}
	if req.Quantity != nil && *req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.repo.Update(ctx, itemID, req)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}

	if s.hub != nil {
		s.hub.Broadcast(code, "item-updated", item)
	}
	s.notifier.StateChanged(ctx, code)

	return item, nil
}

// Delete removes an item from a room, cascading its assignments
func (s *Service) Delete(ctx context.Context, code, itemID string) error {
	if _, err := s.itemInRoom(ctx, code, itemID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, itemID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Broadcast(code, "item-removed", itemID)
	}
	s.notifier.StateChanged(ctx, code)

	return nil
}

// activeRoomID resolves a room code and verifies the room accepts mutations
func (s *Service) activeRoomID(ctx context.Context, code string) (string, error) {
	room, err := s.repo.GetRoomByCode(ctx, code)
	if err != nil {
		return "", err
	}
	if room == nil {
		return "", ErrRoomNotFound
	}
	if room.Status != "active" || time.Now().After(room.ExpiresAt) {
		return "", ErrRoomNotActive
	}
	return room.ID, nil
}

// itemInRoom loads an item and verifies it belongs to the room at code
func (s *Service) itemInRoom(ctx context.Context, code, itemID string) (*Item, error) {
	roomID, err := s.activeRoomID(ctx, code)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil || item.RoomID != roomID {
		return nil, ErrItemNotFound
	}

	return item, nil
}
