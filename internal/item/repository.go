package item

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// roomRef is the slice of room state item operations care about
type roomRef struct {
	ID        string
	Status    string
	ExpiresAt time.Time
}

// Repository handles item data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new item repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetRoomByCode resolves a room code for item operations
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

// Create inserts a new item
func (r *Repository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO items (id, room_id, name, unit_price, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.RoomID,
		item.Name,
		item.UnitPrice,
		item.Quantity,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by its ID
func (r *Repository) GetByID(ctx context.Context, id string) (*Item, error) {
	query := `
		SELECT id, room_id, name, unit_price, quantity, created_at
		FROM items
		WHERE id = $1
	`

	item := &Item{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.RoomID,
		&item.Name,
		&item.UnitPrice,
		&item.Quantity,
		&item.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// Update modifies an existing item
func (r *Repository) Update(ctx context.Context, id string, req *UpdateItemRequest) (*Item, error) {
	query := `
		UPDATE items
		SET name = COALESCE($2, name),
		    unit_price = COALESCE($3, unit_price),
		    quantity = COALESCE($4, quantity)
		WHERE id = $1
		RETURNING id, room_id, name, unit_price, quantity, created_at
	`

	item := &Item{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.UnitPrice, req.Quantity).Scan(
		&item.ID,
		&item.RoomID,
		&item.Name,
		&item.UnitPrice,
		&item.Quantity,
		&item.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return item, nil
}

// Delete removes an item; its assignments cascade away with it
func (r *Repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrItemNotFound
	}

	return nil
}
