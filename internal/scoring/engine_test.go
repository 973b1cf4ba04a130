package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillscope/internal/config"
	"github.com/jonathan/skillscope/internal/matching"
	"github.com/jonathan/skillscope/internal/types"
)

func testConfig() *config.Config {
	return &config.Config{
		ShortForms: map[string]string{"ts": "TypeScript"},
		Aliases:    map[string]string{"golang": "Go"},
		Extensions: map[string]string{
			".ts": "TypeScript",
			".go": "Go",
		},
		SpecialFiles: map[string]string{"go.mod": "Go"},
		Scoring: config.ScoringConfig{
			Weights: config.ComponentWeights{
				Language:       0.35,
				Commit:         0.25,
				PR:             0.15,
				ProjectQuality: 0.15,
				Recency:        0.1,
			},
			BaseScore:  15,
			MaxScore:   100,
			MinScore:   0,
			MaxResults: 0,
		},
		Explanation: config.ExplanationConfig{
			StrongUsage:   70,
			ModerateUsage: 40,
			ActiveCommits: 50,
			SignificantPR: 60,
			QualityRepos:  50,
			RecentWork:    50,
			OngoingWork:   20,
		},
		Evidence: config.EvidenceConfig{
			MaxRepos:       3,
			MaxPRs:         2,
			MaxCommitRepos: 2,
			MaxStars:       1,
			MaxTotal:       6,
		},
	}
}

func newTestEngine(cfg *config.Config) *Engine {
	engine := NewEngine(cfg, matching.NewResolver(cfg))
	engine.now = func() time.Time {
		return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	}
	return engine
}

func tsMatch(raw float64) types.MatchedSkill {
	return types.MatchedSkill{
		Skill:        types.SkillEntity{ID: "s-ts", Name: "TypeScript"},
		MatchedTerms: map[string]bool{"typescript": true},
		RawScore:     raw,
	}
}

func TestScoreAll_EmptyMatches(t *testing.T) {
	engine := newTestEngine(testConfig())

	results := engine.ScoreAll(context.Background(), nil, &types.ActivityCorpus{})

	assert.Nil(t, results)
}

func TestScoreAll_ScoresWithinBounds(t *testing.T) {
	engine := newTestEngine(testConfig())

	corpus := &types.ActivityCorpus{
		Repositories: []types.Repository{{
			FullName:      "dev/app",
			Language:      "TypeScript",
			LanguageBytes: map[string]int64{"TypeScript": 150000},
			Stars:         245,
			IsOwner:       true,
			UpdatedAt:     time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
		}},
		Commits: []types.Commit{{
			RepoFullName: "dev/app",
			Message:      "fix: resolve typescript errors",
			Files:        []string{"src/app.ts"},
			AuthoredAt:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		}},
		PullRequests: []types.PullRequest{{
			RepoFullName: "dev/app",
			Title:        "Tighten typescript config",
			Merged:       true,
			CreatedAt:    time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		}},
	}

	results := engine.ScoreAll(context.Background(), []types.MatchedSkill{tsMatch(20)}, corpus)

	require.Len(t, results, 1)
	skill := results[0]
	assert.GreaterOrEqual(t, skill.Score, 15)
	assert.LessOrEqual(t, skill.Score, 100)
	assert.Greater(t, skill.Components.Language, 0.0)
	assert.Greater(t, skill.Components.Commit, 0.0)
	assert.Greater(t, skill.Components.Recency, 0.0)
	assert.NotEmpty(t, skill.Explanation)
	assert.NotEmpty(t, skill.Evidence)
}

func TestScoreAll_FiltersBelowMinScore(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.MinScore = 90
	engine := newTestEngine(cfg)

	// A match with no corroborating activity scores well below 90.
	corpus := &types.ActivityCorpus{
		Repositories: []types.Repository{{FullName: "dev/app", Language: "Haskell"}},
	}

	results := engine.ScoreAll(context.Background(), []types.MatchedSkill{tsMatch(1)}, corpus)

	assert.Empty(t, results)
}

func TestScoreAll_SortedByScoreThenID(t *testing.T) {
	engine := newTestEngine(testConfig())

	corpus := &types.ActivityCorpus{
		Repositories: []types.Repository{{
			FullName:  "dev/app",
			Language:  "TypeScript",
			UpdatedAt: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		}},
	}

	weak := types.MatchedSkill{
		Skill:        types.SkillEntity{ID: "s-rb", Name: "Ruby"},
		MatchedTerms: map[string]bool{"ruby": true},
		RawScore:     2,
	}

	results := engine.ScoreAll(context.Background(), []types.MatchedSkill{weak, tsMatch(20)}, corpus)

	require.Len(t, results, 2)
	assert.Equal(t, "s-ts", results[0].Skill.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestScoreAll_MaxResultsCapsOutput(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.MaxResults = 1
	engine := newTestEngine(cfg)

	matches := []types.MatchedSkill{
		tsMatch(20),
		{
			Skill:        types.SkillEntity{ID: "s-go", Name: "Go"},
			MatchedTerms: map[string]bool{"golang": true},
			RawScore:     5,
		},
	}

	results := engine.ScoreAll(context.Background(), matches, &types.ActivityCorpus{})

	assert.Len(t, results, 1)
}

func TestScoreAll_InferredFromSorted(t *testing.T) {
	engine := newTestEngine(testConfig())

	match := tsMatch(10)
	match.InferredFrom = map[string]bool{"Vue.js": true, "React.js": true}

	results := engine.ScoreAll(context.Background(), []types.MatchedSkill{match}, &types.ActivityCorpus{})

	require.Len(t, results, 1)
	assert.Equal(t, []string{"React.js", "Vue.js"}, results[0].InferredFrom)
}

func TestPRScore_NoHistoryBaseline(t *testing.T) {
	engine := newTestEngine(testConfig())

	score := engine.prScore([]string{"typescript"}, &types.ActivityCorpus{})

	assert.InDelta(t, 50.0, score, 1e-9)
}

func TestPRScore_MatchMergeRateAndVolume(t *testing.T) {
	engine := newTestEngine(testConfig())

	corpus := &types.ActivityCorpus{
		PullRequests: []types.PullRequest{
			{Title: "Add typescript build", Merged: true},
			{Title: "Unrelated docs change", Merged: true},
		},
	}

	// match fraction 1/2 * 50 + merge rate 1/1 * 35 + volume 1*3.
	score := engine.prScore([]string{"typescript"}, corpus)

	assert.InDelta(t, 63.0, score, 1e-9)
}

func TestCommitScore_NoCommits(t *testing.T) {
	engine := newTestEngine(testConfig())

	score := engine.commitScore([]string{"typescript"}, &types.ActivityCorpus{})

	assert.InDelta(t, 0.0, score, 1e-9)
}

func TestCommitScore_FilesWeighMoreThanMessages(t *testing.T) {
	engine := newTestEngine(testConfig())

	corpus := &types.ActivityCorpus{
		Commits: []types.Commit{
			{Message: "fix typescript errors", Files: []string{"src/app.ts"}},
			{Message: "update readme", Files: []string{"README.md"}},
		},
	}

	// file fraction 1/2 * 50 + message fraction 1/2 * 25 + volume 1*2.
	score := engine.commitScore([]string{"typescript"}, corpus)

	assert.InDelta(t, 39.5, score, 1e-9)
}

func TestProjectQualityScore_LogScaledPopularity(t *testing.T) {
	engine := newTestEngine(testConfig())

	repos := []*types.Repository{
		{FullName: "dev/a", IsOwner: true, Stars: 90, Forks: 4},
		{FullName: "dev/b", Stars: 9, Forks: 5},
	}

	// 2 repos * 10 + 1 owned * 5 + log10(100)*10 + log10(10)*10.
	score := engine.projectQualityScore(repos)

	assert.InDelta(t, 55.0, score, 1e-9)
}

func TestProjectQualityScore_NoMatchingRepos(t *testing.T) {
	engine := newTestEngine(testConfig())

	assert.InDelta(t, 0.0, engine.projectQualityScore(nil), 1e-9)
}

func TestRecencyScore_TieredRepoUpdates(t *testing.T) {
	engine := newTestEngine(testConfig())
	now := engine.now()

	repos := []*types.Repository{
		{UpdatedAt: now.AddDate(0, -1, 0)},  // within 6 months: 20
		{UpdatedAt: now.AddDate(0, -8, 0)},  // within a year: 12
		{UpdatedAt: now.AddDate(-1, -6, 0)}, // within two years: 6
		{UpdatedAt: now.AddDate(-3, 0, 0)},  // too old: 0
	}

	score := engine.recencyScore([]string{"typescript"}, repos, &types.ActivityCorpus{})

	assert.InDelta(t, 38.0, score, 1e-9)
}

func TestRecencyScore_RecentCommitBonus(t *testing.T) {
	engine := newTestEngine(testConfig())
	now := engine.now()

	corpus := &types.ActivityCorpus{
		Commits: []types.Commit{
			{Files: []string{"a.ts"}, AuthoredAt: now.AddDate(0, -2, 0)},
			{Files: []string{"b.ts"}, AuthoredAt: now.AddDate(-2, 0, 0)},
		},
	}

	// Only the commit within the last year counts.
	score := engine.recencyScore([]string{"typescript"}, nil, corpus)

	assert.InDelta(t, 2.0, score, 1e-9)
}
