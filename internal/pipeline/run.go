// Package pipeline orchestrates the full skill-inference run.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/skillscope/internal/catalog"
	"github.com/jonathan/skillscope/internal/config"
	"github.com/jonathan/skillscope/internal/github"
	"github.com/jonathan/skillscope/internal/matching"
	"github.com/jonathan/skillscope/internal/report"
	"github.com/jonathan/skillscope/internal/scoring"
	"github.com/jonathan/skillscope/internal/signals"
	"github.com/jonathan/skillscope/internal/store"
	"github.com/jonathan/skillscope/internal/types"
)

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
}

// ProgressCallback is called as pipeline steps complete.
type ProgressCallback func(event ProgressEvent)

// Options holds everything needed for one analysis run.
type Options struct {
	Username string
	Config   *config.Config

	// Corpus, when set, skips fetching entirely (tests, cached snapshots).
	Corpus *types.ActivityCorpus

	// Token authenticates GitHub requests; empty means anonymous access.
	Token string

	// Resume continues an interrupted scan from its checkpoint.
	Resume bool

	// DatabaseURL enables persistence of the run when non-empty.
	DatabaseURL string

	Verbose    bool
	OnProgress ProgressCallback
}

func emitProgress(opts *Options, step, message string) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message})
	}
}

// Run executes fetch -> extract -> match -> score and returns the ranked
// skill list. The catalog searcher is wrapped in a per-run memoization
// cache; a catalog that becomes unreachable mid-run degrades per term
// rather than aborting skills already resolved.
func Run(ctx context.Context, opts Options) ([]types.ScoredSkill, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	printer := report.NewPrinter(os.Stdout)

	corpus := opts.Corpus
	if corpus == nil {
		fetched, err := fetchCorpus(ctx, &opts)
		if err != nil {
			return nil, err
		}
		corpus = fetched
	}
	emitProgress(&opts, "fetch", fmt.Sprintf("Collected %d repos, %d commits, %d PRs, %d stars",
		len(corpus.Repositories), len(corpus.Commits), len(corpus.PullRequests), len(corpus.Starred)))

	// An empty corpus is valid input; it just produces an empty skill list.
	if corpus.IsEmpty() {
		return nil, nil
	}

	searcher := catalog.NewCachedSearcher(
		catalog.NewClient(opts.Config.Catalog.BaseURL, opts.Config.Catalog.APIKey))
	resolver := matching.NewResolver(opts.Config)

	// The catalog name list feeds README/PR scanning; without it those
	// sources simply contribute no signals.
	skillNames, err := searcher.AllSkillNames(ctx)
	if err != nil {
		skillNames = nil
	}

	extractor := signals.NewExtractor(resolver, skillNames)
	table := extractor.Extract(corpus)
	emitProgress(&opts, "extract", fmt.Sprintf("Accumulated %d distinct technology terms", len(table)))
	if opts.Verbose {
		printer.PrintTermTable(table, 15)
	}

	matcher := matching.NewMatcher(opts.Config, resolver, searcher)
	matches := matcher.Match(ctx, table)
	emitProgress(&opts, "match", fmt.Sprintf("Matched %d catalog skills", len(matches)))

	engine := scoring.NewEngine(opts.Config, resolver)
	scored := engine.ScoreAll(ctx, matches, corpus)
	emitProgress(&opts, "score", fmt.Sprintf("Scored %d skills above threshold", len(scored)))

	if opts.DatabaseURL != "" {
		if err := persistRun(ctx, &opts, scored); err != nil {
			// Persistence is best-effort; the analysis itself succeeded.
			fmt.Printf("Warning: failed to persist run: %v\n", err)
		}
	}

	return scored, nil
}

// fetchCorpus builds the GitHub client and runs the (optionally resumable)
// activity scan.
func fetchCorpus(ctx context.Context, opts *Options) (*types.ActivityCorpus, error) {
	client := github.NewClient(github.DefaultBaseURL, opts.Token)

	if opts.Resume {
		dir, err := github.DefaultCheckpointDir()
		if err != nil {
			return nil, err
		}
		checkpoints, err := github.NewCheckpointStore(dir)
		if err != nil {
			return nil, err
		}
		return client.FetchActivityCorpusWithCheckpoint(ctx, opts.Username, checkpoints)
	}

	return client.FetchActivityCorpus(ctx, opts.Username)
}

// persistRun writes the run and its scored skills to Postgres.
func persistRun(ctx context.Context, opts *Options, scored []types.ScoredSkill) error {
	db, err := store.Connect(ctx, opts.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	runID, err := db.CreateRun(ctx, opts.Username)
	if err != nil {
		return err
	}
	if err := db.SaveScoredSkills(ctx, runID, scored); err != nil {
		_ = db.CompleteRun(ctx, runID, "failed")
		return err
	}
	return db.CompleteRun(ctx, runID, "completed")
}
