package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillscope/internal/config"
	"github.com/jonathan/skillscope/internal/pipeline"
	"github.com/jonathan/skillscope/internal/report"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze <username>",
	Short: "Analyze a developer's GitHub activity and rank their likely skills",
	Long: `Fetches the developer's repositories, commits, pull requests, and starred
projects, extracts weighted technology signals, matches them against the
configured skill catalog, and prints a ranked skill report.

A configuration file is required; the pipeline refuses to run with partial
or defaulted scoring weights.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyzeCmd,
}

var (
	analyzeConfigPath  string
	analyzeToken       string
	analyzeResume      bool
	analyzeJSON        bool
	analyzeVerbose     bool
	analyzeDatabaseURL string
)

func init() {
	analyzeCommand.Flags().StringVarP(&analyzeConfigPath, "config", "c", "", "Path to config.json (required)")
	analyzeCommand.Flags().StringVar(&analyzeToken, "token", "", "GitHub token (optional, defaults to GITHUB_TOKEN, then the token saved by login)")
	analyzeCommand.Flags().BoolVar(&analyzeResume, "resume", false, "Resume an interrupted scan from its checkpoint")
	analyzeCommand.Flags().BoolVar(&analyzeJSON, "json", false, "Emit the report as JSON instead of text")
	analyzeCommand.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed progress information")
	analyzeCommand.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to SKILLSCOPE_DB_URL env var)")

	_ = analyzeCommand.MarkFlagRequired("config")

	rootCmd.AddCommand(analyzeCommand)
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	username := args[0]

	cfg, err := config.Load(analyzeConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	token := resolveToken(analyzeToken)
	databaseURL := analyzeDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("SKILLSCOPE_DB_URL")
	}

	opts := pipeline.Options{
		Username:    username,
		Config:      cfg,
		Token:       token,
		Resume:      analyzeResume,
		DatabaseURL: databaseURL,
		Verbose:     analyzeVerbose,
	}
	if analyzeVerbose {
		opts.OnProgress = func(event pipeline.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", event.Step, event.Message)
		}
	}

	scored, err := pipeline.Run(ctx, opts)
	if err != nil {
		return err
	}

	if analyzeJSON {
		return report.WriteJSON(os.Stdout, username, scored)
	}
	if analyzeVerbose {
		printer := report.NewPrinter(os.Stdout)
		printer.PrintScoredSkills(scored)
		return nil
	}
	return report.WriteText(os.Stdout, username, scored)
}

// resolveToken picks the GitHub token: the --token flag, then the
// GITHUB_TOKEN env var, then the file saved by the login command.
func resolveToken(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("GITHUB_TOKEN"); env != "" {
		return env
	}
	return savedToken()
}

// savedToken reads the token written by login. A missing or unreadable file
// means no token; analyze then proceeds unauthenticated.
func savedToken() string {
	path, err := tokenPath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
