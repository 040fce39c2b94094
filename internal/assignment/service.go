package assignment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomNotActive       = errors.New("room is not active")
	ErrItemNotFound        = errors.New("item not found in this room")
	ErrParticipantNotFound = errors.New("participant not found in this room")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrInvalidPercentage   = errors.New("share percentage must be between 0 and 100")
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

// Service handles assignment business logic. Share percentages are range
// checked here, but their per-item sum is deliberately not: the split
// engine renormalizes shares at read time, so partial or oversubscribed
// items stay computable.
type Service struct {
	repo     *Repository
	hub      Broadcaster
	notifier StateNotifier
}

// NewService creates a new assignment service
func NewService(repo *Repository, hub Broadcaster, notifier StateNotifier) *Service {
	return &Service{
		repo:     repo,
		hub:      hub,
		notifier: notifier,
	}
}

// Create claims a share of an item for a participant
func (s *Service) Create(ctx context.Context, code string, req *CreateAssignmentRequest) (*Assignment, error) {
	roomID, err := s.activeRoomID(ctx, code)
	if err != nil {
		return nil, err
	}

	if req.SharePercentage != nil && (*req.SharePercentage < 0 || *req.SharePercentage > 100) {
		return nil, ErrInvalidPercentage
	}

	ok, err := s.repo.ItemInRoom(ctx, req.ItemID, roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrItemNotFound
	}

	ok, err = s.repo.ParticipantInRoom(ctx, req.ParticipantID, roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrParticipantNotFound
	}

	assignment, err := s.repo.Upsert(ctx, &Assignment{
		ID:              uuid.NewString(),
		ItemID:          req.ItemID,
		ParticipantID:   req.ParticipantID,
		SharePercentage: req.SharePercentage,
	})
	if err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(code, "assignment-added", assignment)
	}
	s.notifier.StateChanged(ctx, code)

	return assignment, nil
}

// Delete removes an assignment from a room
func (s *Service) Delete(ctx context.Context, code, assignmentID string) error {
	roomID, err := s.activeRoomID(ctx, code)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, assignmentID, roomID); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Broadcast(code, "assignment-removed", assignmentID)
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
