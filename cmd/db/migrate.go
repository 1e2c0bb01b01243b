package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/garrettladley/titohook/internal/migrations"
	"github.com/garrettladley/titohook/internal/migrations/postgres"
	"github.com/garrettladley/titohook/internal/storage"
)

const envDatabaseURL = "DATABASE_URL"

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sqlitePath, _ := cmd.Flags().GetString(flagSQLite)

			var (
				applied []string
				err     error
			)
			if sqlitePath != "" {
				applied, err = migrateSQLite(ctx, sqlitePath)
			} else {
				applied, err = migratePostgres(ctx)
			}
			if err != nil {
				return err
			}

			if len(applied) == 0 {
				fmt.Println("Database is up to date")
				return nil
			}
			for _, name := range applied {
				fmt.Printf("Applied %s\n", name)
			}
			fmt.Println("Migrations applied successfully")
			return nil
		},
	}
}

func migrateSQLite(ctx context.Context, path string) ([]string, error) {
	db, err := migrations.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = db.Close()
	}()
	return migrations.Apply(ctx, db)
}

func migratePostgres(ctx context.Context) ([]string, error) {
	pool, err := openPostgres(ctx)
	if err != nil {
		return nil, err
	}
	defer pool.Close()
	return postgres.Apply(ctx, pool)
}

func openPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	url := os.Getenv(envDatabaseURL)
	if url == "" {
		return nil, fmt.Errorf("%s is not set (use --%s for SQLite)", envDatabaseURL, flagSQLite)
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return pool, nil
}

func openDedupeStore(ctx context.Context, sqlitePath string) (storage.DedupeStore, func(), error) {
	if sqlitePath != "" {
		db, err := migrations.Open(ctx, sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewSQLiteDedupeStore(db), func() { _ = db.Close() }, nil
	}

	pool, err := openPostgres(ctx)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewPostgresDedupeStore(pool), pool.Close, nil
}
