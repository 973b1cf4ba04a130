package github

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skillscope/internal/types"
)

// Scan phases recorded in a checkpoint, in fetch order.
const (
	PhaseRepositories = "repositories"
	PhaseCommits      = "commits"
	PhasePullRequests = "pull_requests"
	PhaseStarred      = "starred"
)

// Checkpoint is the on-disk state of a long-running scan. Each completed
// phase carries its partial corpus data, so an interrupted scan resumes at
// the first unfinished phase instead of refetching everything.
type Checkpoint struct {
	RunID     uuid.UUID            `json:"run_id"`
	Username  string               `json:"username"`
	Completed map[string]bool      `json:"completed"`
	Corpus    types.ActivityCorpus `json:"corpus"`
	SavedAt   time.Time            `json:"saved_at"`
}

// CheckpointStore persists scan checkpoints as JSON files, one per user.
type CheckpointStore struct {
	dir string
}

// NewCheckpointStore creates a store rooted at dir, creating it if needed.
func NewCheckpointStore(dir string) (*CheckpointStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return &CheckpointStore{dir: dir}, nil
}

// DefaultCheckpointDir returns ~/.skillscope/checkpoints.
func DefaultCheckpointDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".skillscope", "checkpoints"), nil
}

func (s *CheckpointStore) path(username string) string {
	return filepath.Join(s.dir, username+".json")
}

// Load reads the checkpoint for a user. A missing file returns nil without
// error: there is simply nothing to resume.
func (s *CheckpointStore) Load(username string) (*Checkpoint, error) {
	data, err := os.ReadFile(s.path(username))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var checkpoint Checkpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("failed to parse checkpoint: %w", err)
	}
	return &checkpoint, nil
}

// Save writes the checkpoint atomically: write to a temp file, then rename,
// so a crash mid-write never leaves a truncated checkpoint behind.
func (s *CheckpointStore) Save(checkpoint *Checkpoint) error {
	checkpoint.SavedAt = time.Now()

	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	tmpPath := s.path(checkpoint.Username) + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(checkpoint.Username)); err != nil {
		return fmt.Errorf("failed to finalize checkpoint: %w", err)
	}
	return nil
}

// Clear removes the checkpoint after a completed scan.
func (s *CheckpointStore) Clear(username string) error {
	err := os.Remove(s.path(username))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove checkpoint: %w", err)
	}
	return nil
}

// NewCheckpoint starts a fresh checkpoint for a user.
func NewCheckpoint(username string) *Checkpoint {
	return &Checkpoint{
		RunID:     uuid.New(),
		Username:  username,
		Completed: make(map[string]bool),
		Corpus:    types.ActivityCorpus{Username: username},
	}
}
