package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skillscope/internal/config"
	"github.com/jonathan/skillscope/internal/types"
)

// newCatalogServer serves a small fixed skill catalog.
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	byQuery := map[string]string{
		"typescript": `[{"id":"s-ts","name":"TypeScript"}]`,
		"javascript": `[{"id":"s-js","name":"JavaScript"}]`,
		"react.js":   `[{"id":"s-react","name":"React.js"}]`,
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/skills":
			_, _ = w.Write([]byte(`[{"id":"s-ts","name":"TypeScript"},{"id":"s-js","name":"JavaScript"},{"id":"s-react","name":"React.js"}]`))
		case "/skills/autocomplete", "/skills/search":
			query := strings.ToLower(r.URL.Query().Get("q"))
			if body, ok := byQuery[query]; ok {
				_, _ = w.Write([]byte(body))
				return
			}
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func pipelineConfig(catalogURL string) *config.Config {
	return &config.Config{
		Catalog:    config.CatalogConfig{BaseURL: catalogURL},
		ShortForms: map[string]string{"ts": "TypeScript", "js": "JavaScript"},
		Aliases: map[string]string{
			"react":   "React.js",
			"reactjs": "React.js",
		},
		Extensions: map[string]string{
			".ts":  "TypeScript",
			".tsx": "React.js",
			".js":  "JavaScript",
		},
		SpecialFiles: map[string]string{
			"package-lock.json": "Node.js",
			"tsconfig.json":     "TypeScript",
		},
		Hierarchy: map[string]map[string]float64{
			"TypeScript": {"JavaScript": 0.7},
			"React.js":   {"JavaScript": 0.7},
		},
		Scoring: config.ScoringConfig{
			Weights: config.ComponentWeights{
				Language:       0.35,
				Commit:         0.25,
				PR:             0.15,
				ProjectQuality: 0.15,
				Recency:        0.1,
			},
			BaseScore: 15,
			MaxScore:  100,
			MinScore:  0,
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

// webAppCorpus models a developer with one active TypeScript/React repo.
func webAppCorpus() *types.ActivityCorpus {
	now := time.Now()
	return &types.ActivityCorpus{
		Username: "dev",
		Repositories: []types.Repository{{
			Name:     "web-app",
			FullName: "dev/web-app",
			URL:      "https://github.com/dev/web-app",
			Language: "TypeScript",
			LanguageBytes: map[string]int64{
				"TypeScript": 150000,
				"JavaScript": 20000,
			},
			Topics:    []string{"react"},
			Stars:     245,
			IsOwner:   true,
			UpdatedAt: now.AddDate(0, -1, 0),
		}},
		Commits: []types.Commit{{
			RepoFullName: "dev/web-app",
			SHA:          "abc123",
			Message:      "fix: resolve TypeScript errors",
			Files:        []string{"src/app.ts"},
			AuthoredAt:   now.AddDate(0, -2, 0),
			URL:          "https://github.com/dev/web-app/commit/abc123",
		}},
		PullRequests: []types.PullRequest{{
			RepoFullName: "dev/web-app",
			Number:       42,
			Title:        "Add React hooks",
			State:        "closed",
			Merged:       true,
			CreatedAt:    now.AddDate(0, -3, 0),
			URL:          "https://github.com/dev/web-app/pull/42",
		}},
		FetchedAt: now,
	}
}

func findSkill(skills []types.ScoredSkill, name string) *types.ScoredSkill {
	for i := range skills {
		if skills[i].Skill.Name == name {
			return &skills[i]
		}
	}
	return nil
}

func TestRun_EndToEnd(t *testing.T) {
	server := newCatalogServer(t)
	defer server.Close()

	var steps []string
	skills, err := Run(context.Background(), Options{
		Username: "dev",
		Config:   pipelineConfig(server.URL),
		Corpus:   webAppCorpus(),
		OnProgress: func(event ProgressEvent) {
			steps = append(steps, event.Step)
		},
	})

	require.NoError(t, err)
	require.NotEmpty(t, skills)

	typescript := findSkill(skills, "TypeScript")
	require.NotNil(t, typescript)
	assert.Greater(t, typescript.Score, 15)
	assert.Greater(t, typescript.Components.Language, 0.0)
	assert.Greater(t, typescript.Components.Recency, 0.0)
	assert.NotEmpty(t, typescript.Explanation)

	urls := make(map[string]bool)
	for _, item := range typescript.Evidence {
		urls[item.URL] = true
	}
	assert.True(t, urls["https://github.com/dev/web-app"])

	react := findSkill(skills, "React.js")
	require.NotNil(t, react)
	urls = make(map[string]bool)
	for _, item := range react.Evidence {
		urls[item.URL] = true
	}
	assert.True(t, urls["https://github.com/dev/web-app"])
	assert.True(t, urls["https://github.com/dev/web-app/pull/42"])

	// TypeScript dominates the corpus, so it ranks first.
	assert.Equal(t, "TypeScript", skills[0].Skill.Name)

	assert.Equal(t, []string{"fetch", "extract", "match", "score"}, steps)
}

func TestRun_HierarchyImpliesJavaScript(t *testing.T) {
	server := newCatalogServer(t)
	defer server.Close()

	skills, err := Run(context.Background(), Options{
		Username: "dev",
		Config:   pipelineConfig(server.URL),
		Corpus:   webAppCorpus(),
	})

	require.NoError(t, err)

	javascript := findSkill(skills, "JavaScript")
	require.NotNil(t, javascript)
	assert.Contains(t, javascript.InferredFrom, "TypeScript")
}

func TestRun_EmptyCorpus(t *testing.T) {
	server := newCatalogServer(t)
	defer server.Close()

	skills, err := Run(context.Background(), Options{
		Username: "dev",
		Config:   pipelineConfig(server.URL),
		Corpus:   &types.ActivityCorpus{Username: "dev"},
	})

	require.NoError(t, err)
	assert.Nil(t, skills)
}

func TestRun_MissingConfig(t *testing.T) {
	_, err := Run(context.Background(), Options{Username: "dev"})

	require.Error(t, err)
}

func TestRun_CatalogUnreachableDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	skills, err := Run(context.Background(), Options{
		Username: "dev",
		Config:   pipelineConfig(server.URL),
		Corpus:   webAppCorpus(),
	})

	// Every term fails resolution, so the run completes with no skills.
	require.NoError(t, err)
	assert.Empty(t, skills)
}
