package github

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/skillscope/internal/types"
)

// FetchActivityCorpusWithCheckpoint runs the scan phase by phase, saving a
// checkpoint after each completed phase. If a phase fails, everything
// fetched so far stays on disk and a later run resumes from the first
// unfinished phase.
func (c *Client) FetchActivityCorpusWithCheckpoint(ctx context.Context, username string, store *CheckpointStore) (*types.ActivityCorpus, error) {
	checkpoint, err := store.Load(username)
	if err != nil {
		return nil, err
	}
	if checkpoint == nil {
		checkpoint = NewCheckpoint(username)
	}

	if !checkpoint.Completed[PhaseRepositories] {
		repos, err := c.fetchRepositories(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch repositories: %w", err)
		}
		checkpoint.Corpus.Repositories = repos
		checkpoint.Completed[PhaseRepositories] = true
		if err := store.Save(checkpoint); err != nil {
			return nil, err
		}
	}

	if !checkpoint.Completed[PhaseCommits] {
		commits, err := c.fetchCommits(ctx, username, checkpoint.Corpus.Repositories)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch commits: %w", err)
		}
		checkpoint.Corpus.Commits = commits
		checkpoint.Completed[PhaseCommits] = true
		if err := store.Save(checkpoint); err != nil {
			return nil, err
		}
	}

	if !checkpoint.Completed[PhasePullRequests] {
		prs, err := c.FetchPullRequests(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
		}
		checkpoint.Corpus.PullRequests = prs
		checkpoint.Completed[PhasePullRequests] = true
		if err := store.Save(checkpoint); err != nil {
			return nil, err
		}
	}

	if !checkpoint.Completed[PhaseStarred] {
		starred, err := c.FetchStarred(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch starred repositories: %w", err)
		}
		checkpoint.Corpus.Starred = starred
		checkpoint.Completed[PhaseStarred] = true
		if err := store.Save(checkpoint); err != nil {
			return nil, err
		}
	}

	checkpoint.Corpus.FetchedAt = time.Now()
	corpus := checkpoint.Corpus

	if err := store.Clear(username); err != nil {
		return nil, err
	}
	return &corpus, nil
}
