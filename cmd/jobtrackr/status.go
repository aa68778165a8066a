package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daniel/jobtrackr/internal/analytics"
	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/mailer"
	"github.com/daniel/jobtrackr/internal/observability"
	"github.com/daniel/jobtrackr/internal/reminder"
)

var statusUserID string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the reminder queue derived from upcoming interviews",
	Long: `Connects to the database, rebuilds the reminder queue the way the server
does at startup, and prints a summary. With --user it also prints that
user's job search statistics.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusUserID, "user", "", "User ID to summarize (optional)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	// The queue here is a read-only reconstruction; nothing is dispatched.
	svc := reminder.NewService(database, mailer.LogMailer{}, reminder.DefaultConfig(), nil)
	if err := svc.Rebuild(ctx); err != nil {
		return fmt.Errorf("failed to rebuild reminder queue: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintQueueStatus(svc.Status())

	if statusUserID != "" {
		userID, err := uuid.Parse(statusUserID)
		if err != nil {
			return fmt.Errorf("invalid user ID: %v", err)
		}

		stats, err := analytics.NewService(database, nil).UserStats(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to compute statistics: %w", err)
		}
		printer.PrintStats(stats)
	}

	return nil
}
