package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/giygas/empirical-rx/interfaces"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresSlot implements Slot
var _ interfaces.Slot = (*PostgresSlot)(nil)

const createSlotsTable = `CREATE TABLE IF NOT EXISTS storage_slots (
	name       TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSlot stores the payload as one row of the storage_slots table
type PostgresSlot struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresSlot connects to dsn and makes sure the storage_slots table exists
func NewPostgresSlot(ctx context.Context, dsn, name string) (*PostgresSlot, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres backend")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createSlotsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create storage_slots table: %w", err)
	}

	return &PostgresSlot{pool: pool, name: name}, nil
}

func (s *PostgresSlot) Name() string {
	return "postgres:" + s.name
}

func (s *PostgresSlot) Read(ctx context.Context) ([]byte, error) {
	var payload string
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM storage_slots WHERE name = $1`, s.name,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("select slot %s: %w", s.name, err)
	}
	return []byte(payload), nil
}

func (s *PostgresSlot) Write(ctx context.Context, payload []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO storage_slots (name, payload, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		s.name, string(payload),
	)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", s.name, err)
	}
	return nil
}

func (s *PostgresSlot) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresSlot) Close() error {
	s.pool.Close()
	return nil
}
