// README: Reservation store backed by PostgreSQL.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"towncar/internal/types"
)

var ErrNotFound = errors.New("reservation not found")

const StatusConfirmed = "confirmed"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Create persists a new reservation and returns the stored row.
func (s *Store) Create(ctx context.Context, req Request) (Reservation, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Reservation{}, fmt.Errorf("marshal reservation payload: %w", err)
	}
	id := types.ID(uuid.NewString())
	now := time.Now().UTC()
	_, err = s.db.Exec(ctx, `
		INSERT INTO reservations (id, status, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)`,
		string(id), StatusConfirmed, payload, now)
	if err != nil {
		return Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	return Reservation{ID: id, Status: StatusConfirmed, Payload: req, CreatedAt: now, UpdatedAt: now}, nil
}

// Update replaces an existing reservation's payload.
func (s *Store) Update(ctx context.Context, id types.ID, req Request) (Reservation, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Reservation{}, fmt.Errorf("marshal reservation payload: %w", err)
	}
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE reservations SET payload = $2, updated_at = $3 WHERE id = $1`,
		string(id), payload, now)
	if err != nil {
		return Reservation{}, fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Reservation{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Get loads one reservation, including its full payload.
func (s *Store) Get(ctx context.Context, id types.ID) (Reservation, error) {
	var (
		r       Reservation
		rawID   string
		payload []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, status, payload, created_at, updated_at
		FROM reservations WHERE id = $1`, string(id)).
		Scan(&rawID, &r.Status, &payload, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	if err != nil {
		return Reservation{}, fmt.Errorf("query reservation: %w", err)
	}
	r.ID = types.ID(rawID)
	if err := json.Unmarshal(payload, &r.Payload); err != nil {
		return Reservation{}, fmt.Errorf("unmarshal reservation payload: %w", err)
	}
	return r, nil
}
