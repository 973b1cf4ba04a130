package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillscope/internal/store"
)

var runsCommand = &cobra.Command{
	Use:   "runs",
	Short: "List persisted analysis runs",
	RunE:  runRunsCmd,
}

var (
	runsDatabaseURL string
	runsLimit       int
)

func init() {
	runsCommand.Flags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to SKILLSCOPE_DB_URL env var)")
	runsCommand.Flags().IntVar(&runsLimit, "limit", 20, "Maximum runs to list")
	rootCmd.AddCommand(runsCommand)
}

func runRunsCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := runsDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("SKILLSCOPE_DB_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (--db-url or SKILLSCOPE_DB_URL)")
	}

	db, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	for _, run := range runs {
		completed := "-"
		if run.CompletedAt != nil {
			completed = run.CompletedAt.Format("2006-01-02 15:04")
		}
		fmt.Printf("%s  %-20s %-10s started %s  completed %s\n",
			run.ID, run.Username, run.Status,
			run.CreatedAt.Format("2006-01-02 15:04"), completed)
	}
	return nil
}
