package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daniel/jobtrackr/internal/db"
)

var migrateSource string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database schema migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrateSource, "source", "file://migrations", "Migration source URL")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if err := db.RunMigrations(databaseURL, migrateSource); err != nil {
		return err
	}

	fmt.Println("Migrations applied")
	return nil
}
