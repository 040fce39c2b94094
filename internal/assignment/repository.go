package assignment

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// roomRef is the slice of room state assignment operations care about
type roomRef struct {
	ID        string
	Status    string
	ExpiresAt time.Time
}

// Repository handles assignment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new assignment repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetRoomByCode resolves a room code for assignment operations
func (r *Repository) GetRoomByCode(ctx context.Context, code string) (*roomRef, error) {
	query := `SELECT id, status, expires_at FROM rooms WHERE code = $1`

	ref := &roomRef{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(&ref.ID, &ref.Status, &ref.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return ref, nil
}

// ItemInRoom reports whether an item exists and belongs to the room
func (r *Repository) ItemInRoom(ctx context.Context, itemID, roomID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1 AND room_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, itemID, roomID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check item: %w", err)
	}
	return exists, nil
}

// ParticipantInRoom reports whether a participant exists and belongs to the room
func (r *Repository) ParticipantInRoom(ctx context.Context, participantID, roomID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM participants WHERE id = $1 AND room_id = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, participantID, roomID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check participant: %w", err)
	}
	return exists, nil
}

// Upsert stores an assignment, replacing any existing share for the same
// (item, participant) pair rather than duplicating it
func (r *Repository) Upsert(ctx context.Context, a *Assignment) (*Assignment, error) {
	query := `
		INSERT INTO assignments (id, item_id, participant_id, share_percentage)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, participant_id)
		DO UPDATE SET share_percentage = EXCLUDED.share_percentage
		RETURNING id, item_id, participant_id, share_percentage
	`

	stored := &Assignment{}
	err := r.db.QueryRowContext(ctx, query, a.ID, a.ItemID, a.ParticipantID, a.SharePercentage).Scan(
		&stored.ID,
		&stored.ItemID,
		&stored.ParticipantID,
		&stored.SharePercentage,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert assignment: %w", err)
	}

	return stored, nil
}

// Delete removes an assignment, scoped to the room it belongs to
func (r *Repository) Delete(ctx context.Context, id, roomID string) error {
	query := `
		DELETE FROM assignments a
		USING items i
		WHERE a.item_id = i.id AND a.id = $1 AND i.room_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}
