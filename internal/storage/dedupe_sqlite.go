package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	getDedupeSQLiteQuery = `SELECT processed_at FROM webhook_dedupe
WHERE provider = ? AND event_type = ? AND event_id = ?`

	createDedupeSQLiteQuery = `INSERT OR IGNORE INTO webhook_dedupe (provider, event_type, event_id, processed_at)
VALUES (?, ?, ?, ?)`
)

var (
	_ DedupeStore = (*SQLiteDedupeStore)(nil)
	_ Pinger      = (*SQLiteDedupeStore)(nil)
)

// SQLiteDedupeStore keeps the ledger in a local database for single-instance deployments.
type SQLiteDedupeStore struct {
	db *sql.DB
}

func NewSQLiteDedupeStore(db *sql.DB) *SQLiteDedupeStore {
	return &SQLiteDedupeStore{db: db}
}

func (s *SQLiteDedupeStore) Get(ctx context.Context, key DedupeKey) (DedupeRecord, error) {
	var processedAt string
	err := s.db.QueryRowContext(ctx, getDedupeSQLiteQuery, key.Provider, key.EventType, key.EventID).
		Scan(&processedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return DedupeRecord{}, ErrNotFound
	}
	if err != nil {
		return DedupeRecord{}, fmt.Errorf("failed to get dedupe record: %w", err)
	}

	t, err := time.Parse(time.RFC3339Nano, processedAt)
	if err != nil {
		return DedupeRecord{}, fmt.Errorf("failed to parse dedupe record timestamp: %w", err)
	}

	return DedupeRecord{DedupeKey: key, ProcessedAt: t}, nil
}

func (s *SQLiteDedupeStore) Create(ctx context.Context, record DedupeRecord) error {
	res, err := s.db.ExecContext(ctx, createDedupeSQLiteQuery,
		record.Provider,
		record.EventType,
		record.EventID,
		record.ProcessedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to create dedupe record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to create dedupe record: %w", err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *SQLiteDedupeStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
