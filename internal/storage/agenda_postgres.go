package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type SessionRecord struct {
	ID           string
	Title        string
	Abstract     string
	Format       string
	Level        string
	Tags         []string
	PresenterIDs []string
	InAgenda     bool
}

type PresenterRecord struct {
	ID              string
	Name            string
	Tagline         string
	Bio             string
	ProfilePhotoURL string
	TwitterHandle   string
	WebsiteURL      string
}

type AgendaStore interface {
	ListSessions(ctx context.Context) ([]SessionRecord, error)
	ListPresenters(ctx context.Context) ([]PresenterRecord, error)
}

const (
	listSessionsQuery = `SELECT id::text, title, COALESCE(abstract, ''), COALESCE(format, ''), COALESCE(level, ''),
	COALESCE(tags, '{}'), COALESCE(presenter_ids::text[], '{}'), in_agenda
FROM sessions
ORDER BY created_at`

	listPresentersQuery = `SELECT id::text, name, COALESCE(tagline, ''), COALESCE(bio, ''),
	COALESCE(profile_photo_url, ''), COALESCE(twitter_handle, ''), COALESCE(website_url, '')
FROM presenters`
)

var _ AgendaStore = (*PostgresAgendaStore)(nil)

type PostgresAgendaStore struct {
	db PostgresDB
}

func NewPostgresAgendaStore(db PostgresDB) *PostgresAgendaStore {
	return &PostgresAgendaStore{db: db}
}

func (s *PostgresAgendaStore) ListSessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := s.db.Query(ctx, listSessionsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (SessionRecord, error) {
		var r SessionRecord
		err := row.Scan(&r.ID, &r.Title, &r.Abstract, &r.Format, &r.Level, &r.Tags, &r.PresenterIDs, &r.InAgenda)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan sessions: %w", err)
	}
	return sessions, nil
}

func (s *PostgresAgendaStore) ListPresenters(ctx context.Context) ([]PresenterRecord, error) {
	rows, err := s.db.Query(ctx, listPresentersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list presenters: %w", err)
	}

	presenters, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PresenterRecord, error) {
		var r PresenterRecord
		err := row.Scan(&r.ID, &r.Name, &r.Tagline, &r.Bio, &r.ProfilePhotoURL, &r.TwitterHandle, &r.WebsiteURL)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan presenters: %w", err)
	}
	return presenters, nil
}
