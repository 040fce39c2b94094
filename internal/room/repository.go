package room

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/snapsplit/snapsplit/internal/assignment"
	"github.com/snapsplit/snapsplit/internal/item"
)

// errUniqueViolation marks inserts rejected by a unique constraint
var errUniqueViolation = errors.New("unique constraint violation")

// Repository handles room and participant data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new room repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateRoom inserts a new room into the database
func (r *Repository) CreateRoom(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO rooms (id, code, name, creator_name, status, created_at, expires_at, tax_rate, service_charge_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		room.ID,
		room.Code,
		room.Name,
		room.CreatorName,
		room.Status,
		room.CreatedAt,
		room.ExpiresAt,
		room.TaxRate,
		room.ServiceChargeRate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errUniqueViolation
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

// GetByCode retrieves a room by its share code
func (r *Repository) GetByCode(ctx context.Context, code string) (*Room, error) {
	query := `
		SELECT id, code, name, creator_name, status, created_at, expires_at, tax_rate, service_charge_rate
		FROM rooms
		WHERE code = $1
	`

	room := &Room{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&room.ID,
		&room.Code,
		&room.Name,
		&room.CreatorName,
		&room.Status,
		&room.CreatedAt,
		&room.ExpiresAt,
		&room.TaxRate,
		&room.ServiceChargeRate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// UpdateRoom modifies room-level settings
func (r *Repository) UpdateRoom(ctx context.Context, code string, req *UpdateRoomRequest) (*Room, error) {
	query := `
		UPDATE rooms
		SET tax_rate = COALESCE($2, tax_rate),
		    service_charge_rate = COALESCE($3, service_charge_rate),
		    status = COALESCE($4, status)
		WHERE code = $1
		RETURNING id, code, name, creator_name, status, created_at, expires_at, tax_rate, service_charge_rate
	`

	room := &Room{}
	err := r.db.QueryRowContext(ctx, query, code, req.TaxRate, req.ServiceChargeRate, req.Status).Scan(
		&room.ID,
		&room.Code,
		&room.Name,
		&room.CreatorName,
		&room.Status,
		&room.CreatedAt,
		&room.ExpiresAt,
		&room.TaxRate,
		&room.ServiceChargeRate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}

// DeleteByCode removes a room; participants, items and assignments cascade
func (r *Repository) DeleteByCode(ctx context.Context, code string) error {
	query := `DELETE FROM rooms WHERE code = $1`

	result, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrRoomNotFound
	}

	return nil
}

// DeleteExpired purges rooms whose expiry has passed and returns the count
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM rooms WHERE expires_at < now()`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired rooms: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// AddParticipant inserts a participant into a room
func (r *Repository) AddParticipant(ctx context.Context, p *Participant) error {
	query := `
		INSERT INTO participants (id, room_id, name, joined_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.RoomID, p.Name, p.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errUniqueViolation
		}
		return fmt.Errorf("failed to add participant: %w", err)
	}

	return nil
}

// GetParticipantByName retrieves a participant in a room by display name
func (r *Repository) GetParticipantByName(ctx context.Context, roomID, name string) (*Participant, error) {
	query := `
		SELECT id, room_id, name, joined_at
		FROM participants
		WHERE room_id = $1 AND name = $2
	`

	p := &Participant{}
	err := r.db.QueryRowContext(ctx, query, roomID, name).Scan(
		&p.ID,
		&p.RoomID,
		&p.Name,
		&p.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	return p, nil
}

// GetStateByCode reads a consistent snapshot of one room inside a single
// read-only transaction, so a recomputation never observes an item whose
// assignments are mid-delete.
func (r *Repository) GetStateByCode(ctx context.Context, code string) (*State, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer tx.Rollback()

	room := &Room{}
	err = tx.QueryRowContext(ctx, `
		SELECT id, code, name, creator_name, status, created_at, expires_at, tax_rate, service_charge_rate
		FROM rooms
		WHERE code = $1
	`, code).Scan(
		&room.ID,
		&room.Code,
		&room.Name,
		&room.CreatorName,
		&room.Status,
		&room.CreatedAt,
		&room.ExpiresAt,
		&room.TaxRate,
		&room.ServiceChargeRate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	items, err := scanItems(ctx, tx, room.ID)
	if err != nil {
		return nil, err
	}

	participants, err := scanParticipants(ctx, tx, room.ID)
	if err != nil {
		return nil, err
	}

	assignments, err := scanAssignments(ctx, tx, room.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return &State{
		Room:         room,
		Items:        items,
		Participants: participants,
		Assignments:  assignments,
	}, nil
}

func scanItems(ctx context.Context, tx *sql.Tx, roomID string) ([]item.Item, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, room_id, name, unit_price, quantity, created_at
		FROM items
		WHERE room_id = $1
		ORDER BY created_at, id
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []item.Item{}
	for rows.Next() {
		var it item.Item
		if err := rows.Scan(&it.ID, &it.RoomID, &it.Name, &it.UnitPrice, &it.Quantity, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func scanParticipants(ctx context.Context, tx *sql.Tx, roomID string) ([]Participant, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, room_id, name, joined_at
		FROM participants
		WHERE room_id = $1
		ORDER BY joined_at, id
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := []Participant{}
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.RoomID, &p.Name, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

func scanAssignments(ctx context.Context, tx *sql.Tx, roomID string) ([]assignment.Assignment, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT a.id, a.item_id, a.participant_id, a.share_percentage
		FROM assignments a
		JOIN items i ON a.item_id = i.id
		WHERE i.room_id = $1
		ORDER BY a.id
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := []assignment.Assignment{}
	for rows.Next() {
		var a assignment.Assignment
		if err := rows.Scan(&a.ID, &a.ItemID, &a.ParticipantID, &a.SharePercentage); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	return assignments, rows.Err()
}

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
