// README: Reference data store: PostgreSQL source with a Redis read-through cache.
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	airportsKey  = "refdata:airports"
	airlinesKey  = "refdata:airlines"
	meetGreetKey = "refdata:meet_greet"
)

type Store struct {
	db    *pgxpool.Pool
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(db *pgxpool.Pool, redis *redis.Client, ttl time.Duration) *Store {
	return &Store{db: db, redis: redis, ttl: ttl}
}

// Airports returns the full airport list, cache first.
func (s *Store) Airports(ctx context.Context) ([]Airport, error) {
	var out []Airport
	if s.cached(ctx, airportsKey, &out) {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `SELECT code, name, city FROM airports ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query airports: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a Airport
		if err := rows.Scan(&a.Code, &a.Name, &a.City); err != nil {
			return nil, fmt.Errorf("scan airport: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read airports: %w", err)
	}
	s.cache(ctx, airportsKey, out)
	return out, nil
}

// Airlines returns the full airline list, cache first.
func (s *Store) Airlines(ctx context.Context) ([]Airline, error) {
	var out []Airline
	if s.cached(ctx, airlinesKey, &out) {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `SELECT code, name FROM airlines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query airlines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var a Airline
		if err := rows.Scan(&a.Code, &a.Name); err != nil {
			return nil, fmt.Errorf("scan airline: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read airlines: %w", err)
	}
	s.cache(ctx, airlinesKey, out)
	return out, nil
}

// MeetGreetOptions returns the meet-and-greet choices, cache first.
func (s *Store) MeetGreetOptions(ctx context.Context) ([]MeetGreetOption, error) {
	var out []MeetGreetOption
	if s.cached(ctx, meetGreetKey, &out) {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `SELECT code, label FROM meet_greet_options ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("query meet-and-greet options: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var o MeetGreetOption
		if err := rows.Scan(&o.Code, &o.Label); err != nil {
			return nil, fmt.Errorf("scan meet-and-greet option: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read meet-and-greet options: %w", err)
	}
	s.cache(ctx, meetGreetKey, out)
	return out, nil
}

// cached loads a cache entry into dst; a miss or redis failure means false.
func (s *Store) cached(ctx context.Context, key string, dst any) bool {
	if s.redis == nil {
		return false
	}
	raw, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// cache writes an entry best effort; a failed write only costs a DB re-read.
func (s *Store) cache(ctx context.Context, key string, v any) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		log.Printf("refdata: cache write for %s failed: %v", key, err)
	}
}
