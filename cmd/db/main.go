package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/titohook/internal/version"
)

const flagSQLite = "sqlite"

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "db",
		Short:   "Database management commands",
		Version: version.Get(),
	}
	rootCmd.PersistentFlags().String(flagSQLite, "", "operate on the SQLite dedupe database at this path instead of DATABASE_URL")
	rootCmd.AddCommand(newMigrationCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(dedupeCmd())

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}
