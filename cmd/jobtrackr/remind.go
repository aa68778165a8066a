package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/daniel/jobtrackr/internal/config"
	"github.com/daniel/jobtrackr/internal/db"
	"github.com/daniel/jobtrackr/internal/mailer"
	"github.com/daniel/jobtrackr/internal/reminder"
)

var (
	remindInterviewID string
	remindKind        string
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send a single reminder email immediately",
	Long: `Sends one reminder for an interview without touching the schedule or the
sent flags. Useful for verifying the mail transport.`,
	RunE: runRemind,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the thank-you and decision follow-up sweeps once",
	RunE:  runSweep,
}

func init() {
	remindCmd.Flags().StringVar(&remindInterviewID, "interview", "", "Interview ID (required)")
	remindCmd.Flags().StringVar(&remindKind, "kind", db.ReminderKind1Hour, "Reminder kind")
	_ = remindCmd.MarkFlagRequired("interview")
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(sweepCmd)
}

// newReminderService builds a scheduler wired to the real mail transport when
// SMTP is configured, falling back to log-only sends.
func newReminderService(ctx context.Context) (*reminder.Service, *db.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTP.Enabled() {
		m = mailer.NewSMTPMailer(cfg.SMTP)
	}
	return reminder.NewService(database, m, reminder.DefaultConfig(), nil), database, nil
}

func runRemind(_ *cobra.Command, _ []string) error {
	interviewID, err := uuid.Parse(remindInterviewID)
	if err != nil {
		return fmt.Errorf("invalid interview ID: %v", err)
	}
	if !db.IsValidReminderKind(remindKind) {
		return fmt.Errorf("unknown reminder kind: %s", remindKind)
	}

	ctx := context.Background()
	svc, database, err := newReminderService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := svc.SendTest(ctx, interviewID, remindKind); err != nil {
		return fmt.Errorf("failed to send: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Sent %s reminder for interview %s\n", remindKind, interviewID)
	return nil
}

func runSweep(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	svc, database, err := newReminderService(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	svc.SweepThankYou(ctx)
	svc.SweepDecisions(ctx)

	fmt.Println("Sweeps completed")
	return nil
}
