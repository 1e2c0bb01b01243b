package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresDB is the subset of *pgxpool.Pool the postgres stores use.
type PostgresDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const (
	getDedupeQuery = `SELECT provider, event_type, event_id, processed_at
FROM webhook_dedupe
WHERE provider = $1 AND event_type = $2 AND event_id = $3`

	// ON CONFLICT DO NOTHING makes the insert atomic; zero rows affected means another
	// request recorded the key first.
	createDedupeQuery = `INSERT INTO webhook_dedupe (provider, event_type, event_id, processed_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (provider, event_type, event_id) DO NOTHING`
)

var (
	_ DedupeStore = (*PostgresDedupeStore)(nil)
	_ Pinger      = (*PostgresDedupeStore)(nil)
)

type PostgresDedupeStore struct {
	db PostgresDB
}

func NewPostgresDedupeStore(db PostgresDB) *PostgresDedupeStore {
	return &PostgresDedupeStore{db: db}
}

func (s *PostgresDedupeStore) Get(ctx context.Context, key DedupeKey) (DedupeRecord, error) {
	var r DedupeRecord
	err := s.db.QueryRow(ctx, getDedupeQuery, key.Provider, key.EventType, key.EventID).
		Scan(&r.Provider, &r.EventType, &r.EventID, &r.ProcessedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DedupeRecord{}, ErrNotFound
	}
	if err != nil {
		return DedupeRecord{}, fmt.Errorf("failed to get dedupe record: %w", err)
	}
	return r, nil
}

func (s *PostgresDedupeStore) Create(ctx context.Context, record DedupeRecord) error {
	tag, err := s.db.Exec(ctx, createDedupeQuery,
		record.Provider,
		record.EventType,
		record.EventID,
		record.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create dedupe record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *PostgresDedupeStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
