package storage

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
)

var testKey = DedupeKey{
	Provider:  "Tito",
	EventType: "registration.finished",
	EventID:   "XYZ",
}

func newMockSQLiteStore(t *testing.T) (*SQLiteDedupeStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewSQLiteDedupeStore(db), mock
}

func TestSQLiteDedupeStoreGet(t *testing.T) {
	t.Parallel()

	processedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    DedupeRecord
		wantErr error
	}{
		{
			name: "found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(getDedupeSQLiteQuery)).
					WithArgs("Tito", "registration.finished", "XYZ").
					WillReturnRows(sqlmock.NewRows([]string{"processed_at"}).AddRow("2026-01-02T03:04:05Z"))
			},
			want: DedupeRecord{DedupeKey: testKey, ProcessedAt: processedAt},
		},
		{
			name: "not found",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(getDedupeSQLiteQuery)).
					WithArgs("Tito", "registration.finished", "XYZ").
					WillReturnRows(sqlmock.NewRows([]string{"processed_at"}))
			},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, mock := newMockSQLiteStore(t)
			tt.setup(mock)

			got, err := store.Get(t.Context(), testKey)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Get() error = %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Get() mismatch (-want +got):\n%s", diff)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSQLiteDedupeStoreGetSurfacesStorageFaults(t *testing.T) {
	t.Parallel()

	store, mock := newMockSQLiteStore(t)
	fault := errors.New("database is locked")
	mock.ExpectQuery(regexp.QuoteMeta(getDedupeSQLiteQuery)).
		WithArgs("Tito", "registration.finished", "XYZ").
		WillReturnError(fault)

	_, err := store.Get(t.Context(), testKey)
	if !errors.Is(err, fault) {
		t.Fatalf("Get() error = %v, want %v", err, fault)
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("Get() storage fault reported as ErrNotFound")
	}
	if got, want := err.Error(), "failed to get dedupe record: database is locked"; got != want {
		t.Errorf("Get() error = %q, want %q", got, want)
	}
}

func TestSQLiteDedupeStoreCreate(t *testing.T) {
	t.Parallel()

	record := DedupeRecord{
		DedupeKey:   testKey,
		ProcessedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	fault := errors.New("disk I/O error")

	tests := []struct {
		name    string
		result  func(e *sqlmock.ExpectedExec)
		wantErr error
		wantMsg string
	}{
		{
			name:   "inserted",
			result: func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(1, 1)) },
		},
		{
			name:    "conflict",
			result:  func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) },
			wantErr: ErrAlreadyExists,
		},
		{
			name:    "storage fault",
			result:  func(e *sqlmock.ExpectedExec) { e.WillReturnError(fault) },
			wantErr: fault,
			wantMsg: "failed to create dedupe record: disk I/O error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store, mock := newMockSQLiteStore(t)
			tt.result(mock.ExpectExec(regexp.QuoteMeta(createDedupeSQLiteQuery)).
				WithArgs("Tito", "registration.finished", "XYZ", "2026-01-02T03:04:05Z"))

			err := store.Create(t.Context(), record)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Create() unexpected error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Create() error = %q, want %q", err.Error(), tt.wantMsg)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}
