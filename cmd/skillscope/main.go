// Package main provides the entry point for the SkillScope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "skillscope",
	Short: "Infer a developer's skills from their GitHub activity",
	Long:  "SkillScope scans a developer's repositories, commits, pull requests, and stars, matches the extracted technology signals against a skill catalog, and produces a ranked, explainable confidence score per skill.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
