// Package main provides the entry point for the JobTrackr HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobtrackr",
	Short: "JobTrackr HTTP API Server",
	Long:  "JobTrackr tracks job applications and interviews, sends interview reminder emails on a schedule, and exposes a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
