package room

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/snapsplit/snapsplit/internal/split"
)

// Common errors
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomNotActive = errors.New("room is not active")
	ErrCodeExhausted = errors.New("could not allocate an unused room code")
)

// code alphabet omits I, O, 0 and 1 to stay unambiguous when read aloud
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// Broadcaster fans an event out to every client watching a room
type Broadcaster interface {
	Broadcast(roomCode, event string, payload interface{})
}

// Service handles room business logic
type Service struct {
	repo    *Repository
	cache   *Cache // optional, nil disables caching
	hub     Broadcaster
	roomTTL time.Duration
}

// NewService creates a new room service
func NewService(repo *Repository, cache *Cache, hub Broadcaster, roomTTL time.Duration) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		hub:     hub,
		roomTTL: roomTTL,
	}
}

// Create opens a new room and joins the creator as its first participant
func (s *Service) Create(ctx context.Context, req *CreateRoomRequest) (*Room, *Participant, error) {
	now := time.Now().UTC()
	room := &Room{
		ID:                uuid.NewString(),
		Name:              req.Name,
		CreatorName:       req.CreatorName,
		Status:            RoomStatusActive,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.roomTTL),
		TaxRate:           req.TaxRate,
		ServiceChargeRate: req.ServiceChargeRate,
	}

	// Codes are short, so collisions are possible; retry with fresh codes.
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		room.Code = generateCode()
		err = s.repo.CreateRoom(ctx, room)
		if err == nil {
			break
		}
		if !errors.Is(err, errUniqueViolation) {
			return nil, nil, err
		}
	}
	if err != nil {
		return nil, nil, ErrCodeExhausted
	}

	participant, err := s.Join(ctx, room.Code, req.CreatorName)
	if err != nil {
		return nil, nil, err
	}

	return room, participant, nil
}

// Join adds a participant to a room. Joining with a name that is already
// taken returns the existing participant instead of creating a duplicate.
func (s *Service) Join(ctx context.Context, code, name string) (*Participant, error) {
	room, err := s.activeRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetParticipantByName(ctx, room.ID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	participant := &Participant{
		ID:       uuid.NewString(),
		RoomID:   room.ID,
		Name:     name,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.repo.AddParticipant(ctx, participant); err != nil {
		// Lost a race against a concurrent join with the same name.
		if errors.Is(err, errUniqueViolation) {
			return s.repo.GetParticipantByName(ctx, room.ID, name)
		}
		return nil, err
	}

	if s.hub != nil {
		s.hub.Broadcast(code, "participant-joined", participant)
	}
	s.StateChanged(ctx, code)

	return participant, nil
}

// GetByCode retrieves a room by its share code
func (s *Service) GetByCode(ctx context.Context, code string) (*Room, error) {
	room, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// RoomIDByCode resolves a share code to the room's ID
func (s *Service) RoomIDByCode(ctx context.Context, code string) (string, error) {
	room, err := s.activeRoom(ctx, code)
	if err != nil {
		return "", err
	}
	return room.ID, nil
}

// GetState returns the full snapshot for a room, served from cache when warm
func (s *Service) GetState(ctx context.Context, code string) (*State, error) {
	if s.cache != nil {
		cached, err := s.cache.GetState(ctx, code)
		if err != nil {
			log.Printf("room state cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	state, err := s.repo.GetStateByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrRoomNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetState(ctx, code, state); err != nil {
			log.Printf("room state cache write failed: %v", err)
		}
	}

	return state, nil
}

// Update applies room-level setting changes and pushes fresh totals out
func (s *Service) Update(ctx context.Context, code string, req *UpdateRoomRequest) (*Room, error) {
	room, err := s.repo.UpdateRoom(ctx, code, req)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if s.hub != nil {
		s.hub.Broadcast(code, "rates-updated", room)
	}
	s.StateChanged(ctx, code)

	return room, nil
}

// Delete removes a room and everything in it
func (s *Service) Delete(ctx context.Context, code string) error {
	if err := s.repo.DeleteByCode(ctx, code); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, code); err != nil {
			log.Printf("room state cache invalidation failed: %v", err)
		}
	}
	return nil
}

// ComputeSplits recomputes the per-participant breakdown from a consistent
// snapshot of the room. Every call recomputes from scratch; rooms are small
// enough that incremental updates would buy nothing.
func (s *Service) ComputeSplits(ctx context.Context, code string) ([]split.Result, error) {
	state, err := s.repo.GetStateByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrRoomNotFound
	}

	items := make([]split.Item, len(state.Items))
	for i, it := range state.Items {
		items[i] = split.Item{
			ID:        it.ID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		}
	}

	assignments := make([]split.Assignment, len(state.Assignments))
	for i, a := range state.Assignments {
		assignments[i] = split.Assignment{
			ItemID:          a.ItemID,
			ParticipantID:   a.ParticipantID,
			SharePercentage: a.SharePercentage,
		}
	}

	participants := make([]split.Participant, len(state.Participants))
	for i, p := range state.Participants {
		participants[i] = split.Participant{
			ID:   p.ID,
			Name: p.Name,
		}
	}

	return split.Compute(items, assignments, participants, state.Room.TaxRate, state.Room.ServiceChargeRate)
}

// StateChanged is called after every mutation to a room: it drops the
// cached snapshot, recomputes splits and fans the result out to all
// connected clients.
func (s *Service) StateChanged(ctx context.Context, code string) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, code); err != nil {
			log.Printf("room state cache invalidation failed: %v", err)
		}
	}

	if s.hub == nil {
		return
	}

	results, err := s.ComputeSplits(ctx, code)
	if err != nil {
		log.Printf("split recomputation for room %s failed: %v", code, err)
		return
	}

	s.hub.Broadcast(code, "splits-updated", results)
}

// StartCleanup purges expired rooms on an interval until ctx is done
func (s *Service) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := s.repo.DeleteExpired(ctx)
			if err != nil {
				log.Printf("expired room cleanup failed: %v", err)
				continue
			}
			if purged > 0 {
				log.Printf("purged %d expired rooms", purged)
			}
		}
	}
}

// activeRoom loads a room and verifies it accepts mutations
func (s *Service) activeRoom(ctx context.Context, code string) (*Room, error) {
	room, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Status != RoomStatusActive || time.Now().After(room.ExpiresAt) {
		return nil, ErrRoomNotActive
	}
	return room, nil
}

// generateCode builds a 6-character human-shareable room code
func generateCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.IntN(len(codeAlphabet))]
	}
	return string(code)
}
