package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/garrettladley/titohook/internal/storage"
	"github.com/garrettladley/titohook/internal/tito"
)

func dedupeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe <event-type> <slug>",
		Short: "Show whether a Tito delivery has already been processed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sqlitePath, _ := cmd.Flags().GetString(flagSQLite)
			store, closeStore, err := openDedupeStore(ctx, sqlitePath)
			if err != nil {
				return err
			}
			defer closeStore()

			key := storage.DedupeKey{
				Provider:  tito.Provider,
				EventType: args[0],
				EventID:   args[1],
			}

			record, err := store.Get(ctx, key)
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Printf("Not processed: %s %s %s\n", key.Provider, key.EventType, key.EventID)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get dedupe record: %w", err)
			}

			fmt.Printf("Processed:     %s %s %s\n", key.Provider, key.EventType, key.EventID)
			fmt.Printf("Processed At:  %s (%s)\n",
				record.ProcessedAt.Format(time.RFC3339),
				humanize.Time(record.ProcessedAt),
			)
			return nil
		},
	}
}
