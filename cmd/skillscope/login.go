package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillscope/internal/github"
)

// defaultOAuthClientID identifies the SkillScope OAuth app; it can be
// overridden for GitHub Enterprise deployments.
const defaultOAuthClientID = "Iv1.skillscope"

var loginCommand = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with GitHub using the OAuth device flow",
	Long: `Requests a device code, prints the verification URL and user code, then
polls until you approve the request in your browser. The resulting token is
saved to ~/.skillscope/token and picked up automatically by analyze.`,
	RunE: runLoginCmd,
}

var loginClientID string

func init() {
	loginCommand.Flags().StringVar(&loginClientID, "client-id", defaultOAuthClientID, "OAuth app client ID")
	rootCmd.AddCommand(loginCommand)
}

func runLoginCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	flow := github.NewDeviceFlow(github.DefaultAuthBaseURL, loginClientID)
	code, err := flow.RequestCode(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Open %s and enter the code: %s\n", code.VerificationURI, code.UserCode)
	fmt.Println("Waiting for authorization...")

	token, err := flow.PollForToken(ctx, code)
	if err != nil {
		return err
	}

	path, err := tokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Printf("Token saved to %s\n", path)
	return nil
}

func tokenPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".skillscope", "token"), nil
}
