package room

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
)

var roomColumns = []string{
	"id", "code", "name", "creator_name", "status",
	"created_at", "expires_at", "tax_rate", "service_charge_rate",
}

func testRoom() *Room {
	now := time.Now().UTC()
	return &Room{
		ID:                "room-1",
		Code:              "ABC234",
		Name:              "Dinner",
		CreatorName:       "Alice",
		Status:            RoomStatusActive,
		CreatedAt:         now,
		ExpiresAt:         now.Add(168 * time.Hour),
		TaxRate:           10,
		ServiceChargeRate: 5,
	}
}

func roomRow(r *Room) *sqlmock.Rows {
	return sqlmock.NewRows(roomColumns).AddRow(
		r.ID, r.Code, r.Name, r.CreatorName, r.Status,
		r.CreatedAt, r.ExpiresAt, r.TaxRate, r.ServiceChargeRate,
	)
}

func TestCreateRoom(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)
	room := testRoom()

	insertSQL := `INSERT INTO rooms \(id, code, name, creator_name, status, created_at, expires_at, tax_rate, service_charge_rate\)`

	t.Run("inserts the room", func(t *testing.T) {
		mock.ExpectExec(insertSQL).
			WithArgs(room.ID, room.Code, room.Name, room.CreatorName, room.Status,
				room.CreatedAt, room.ExpiresAt, room.TaxRate, room.ServiceChargeRate).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.CreateRoom(context.Background(), room); err != nil {
			t.Errorf("CreateRoom returned error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("maps duplicate codes to errUniqueViolation", func(t *testing.T) {
		mock.ExpectExec(insertSQL).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateRoom(context.Background(), room)
		if !errors.Is(err, errUniqueViolation) {
			t.Errorf("expected errUniqueViolation, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestGetByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)
	room := testRoom()

	selectSQL := `SELECT id, code, name, creator_name, status, created_at, expires_at, tax_rate, service_charge_rate\s+FROM rooms\s+WHERE code = \$1`

	t.Run("returns the room", func(t *testing.T) {
		mock.ExpectQuery(selectSQL).
			WithArgs(room.Code).
			WillReturnRows(roomRow(room))

		got, err := repo.GetByCode(context.Background(), room.Code)
		if err != nil {
			t.Fatalf("GetByCode returned error: %v", err)
		}
		if got == nil || got.ID != room.ID || got.TaxRate != room.TaxRate {
			t.Errorf("got %+v, want %+v", got, room)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("returns nil for an unknown code", func(t *testing.T) {
		mock.ExpectQuery(selectSQL).
			WithArgs("ZZZZZZ").
			WillReturnRows(sqlmock.NewRows(roomColumns))

		got, err := repo.GetByCode(context.Background(), "ZZZZZZ")
		if err != nil {
			t.Fatalf("GetByCode returned error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil room, got %+v", got)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestUpdateRoom(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)
	room := testRoom()

	updateSQL := `UPDATE rooms\s+SET tax_rate = COALESCE\(\$2, tax_rate\)`

	t.Run("applies partial updates", func(t *testing.T) {
		newTax := 12.5
		room.TaxRate = newTax

		mock.ExpectQuery(updateSQL).
			WithArgs(room.Code, newTax, nil, nil).
			WillReturnRows(roomRow(room))

		got, err := repo.UpdateRoom(context.Background(), room.Code, &UpdateRoomRequest{TaxRate: &newTax})
		if err != nil {
			t.Fatalf("UpdateRoom returned error: %v", err)
		}
		if got.TaxRate != newTax {
			t.Errorf("TaxRate = %v, want %v", got.TaxRate, newTax)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("returns nil for an unknown code", func(t *testing.T) {
		mock.ExpectQuery(updateSQL).
			WillReturnRows(sqlmock.NewRows(roomColumns))

		got, err := repo.UpdateRoom(context.Background(), "ZZZZZZ", &UpdateRoomRequest{})
		if err != nil {
			t.Fatalf("UpdateRoom returned error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil room, got %+v", got)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestDeleteByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)

	deleteSQL := `DELETE FROM rooms WHERE code = \$1`

	t.Run("deletes the room", func(t *testing.T) {
		mock.ExpectExec(deleteSQL).
			WithArgs("ABC234").
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.DeleteByCode(context.Background(), "ABC234"); err != nil {
			t.Errorf("DeleteByCode returned error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("reports missing rooms", func(t *testing.T) {
		mock.ExpectExec(deleteSQL).
			WithArgs("ZZZZZZ").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteByCode(context.Background(), "ZZZZZZ")
		if !errors.Is(err, ErrRoomNotFound) {
			t.Errorf("expected ErrRoomNotFound, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestDeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec(`DELETE FROM rooms WHERE expires_at < now\(\)`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	purged, err := repo.DeleteExpired(context.Background())
	if err != nil {
		t.Fatalf("DeleteExpired returned error: %v", err)
	}
	if purged != 3 {
		t.Errorf("purged = %d, want 3", purged)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestGetParticipantByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)

	selectSQL := `SELECT id, room_id, name, joined_at\s+FROM participants\s+WHERE room_id = \$1 AND name = \$2`

	t.Run("returns the participant", func(t *testing.T) {
		joined := time.Now().UTC()
		mock.ExpectQuery(selectSQL).
			WithArgs("room-1", "Alice").
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "name", "joined_at"}).
				AddRow("part-1", "room-1", "Alice", joined))

		got, err := repo.GetParticipantByName(context.Background(), "room-1", "Alice")
		if err != nil {
			t.Fatalf("GetParticipantByName returned error: %v", err)
		}
		if got == nil || got.ID != "part-1" || got.Name != "Alice" {
			t.Errorf("got %+v", got)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("returns nil when nobody has the name", func(t *testing.T) {
		mock.ExpectQuery(selectSQL).
			WithArgs("room-1", "Mallory").
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "name", "joined_at"}))

		got, err := repo.GetParticipantByName(context.Background(), "room-1", "Mallory")
		if err != nil {
			t.Fatalf("GetParticipantByName returned error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil participant, got %+v", got)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}

func TestGetStateByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db)
	room := testRoom()

	t.Run("reads the full snapshot in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, code, name, creator_name, status, created_at, expires_at, tax_rate, service_charge_rate\s+FROM rooms`).
			WithArgs(room.Code).
			WillReturnRows(roomRow(room))
		mock.ExpectQuery(`SELECT id, room_id, name, unit_price, quantity, created_at\s+FROM items`).
			WithArgs(room.ID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "name", "unit_price", "quantity", "created_at"}).
				AddRow("item-1", room.ID, "Pizza", 12.5, 2, time.Now()))
		mock.ExpectQuery(`SELECT id, room_id, name, joined_at\s+FROM participants`).
			WithArgs(room.ID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "name", "joined_at"}).
				AddRow("part-1", room.ID, "Alice", time.Now()))
		mock.ExpectQuery(`SELECT a\.id, a\.item_id, a\.participant_id, a\.share_percentage\s+FROM assignments a`).
			WithArgs(room.ID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "item_id", "participant_id", "share_percentage"}).
				AddRow("assign-1", "item-1", "part-1", nil))
		mock.ExpectCommit()

		state, err := repo.GetStateByCode(context.Background(), room.Code)
		if err != nil {
			t.Fatalf("GetStateByCode returned error: %v", err)
		}
		if state.Room.ID != room.ID {
			t.Errorf("room ID = %s, want %s", state.Room.ID, room.ID)
		}
		if len(state.Items) != 1 || state.Items[0].Name != "Pizza" {
			t.Errorf("items = %+v", state.Items)
		}
		if len(state.Participants) != 1 || state.Participants[0].Name != "Alice" {
			t.Errorf("participants = %+v", state.Participants)
		}
		if len(state.Assignments) != 1 || state.Assignments[0].SharePercentage != nil {
			t.Errorf("assignments = %+v", state.Assignments)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})

	t.Run("returns nil for an unknown code", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id, code, name, creator_name, status, created_at, expires_at, tax_rate, service_charge_rate\s+FROM rooms`).
			WithArgs("ZZZZZZ").
			WillReturnRows(sqlmock.NewRows(roomColumns))
		mock.ExpectRollback()

		state, err := repo.GetStateByCode(context.Background(), "ZZZZZZ")
		if err != nil {
			t.Fatalf("GetStateByCode returned error: %v", err)
		}
		if state != nil {
			t.Errorf("expected nil state, got %+v", state)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("there were unfulfilled expectations: %s", err)
		}
	})
}
