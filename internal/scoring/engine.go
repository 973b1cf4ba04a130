// Package scoring turns matched skills into 0-100 confidence scores with
// component breakdowns, evidence, and generated explanations.
package scoring

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillscope/internal/config"
	"github.com/jonathan/skillscope/internal/evidence"
	"github.com/jonathan/skillscope/internal/matching"
	"github.com/jonathan/skillscope/internal/types"
)

// Sub-term caps inside each component. Every factor is capped before summing
// so no single factor can saturate a component alone.
const (
	languageRankCap     = 40.0
	languageCoverageCap = 25.0
	languageVolumeCap   = 20.0
	languageRelativeCap = 15.0

	commitFileCap      = 50.0
	commitMessageCap   = 25.0
	commitVolumeCap    = 25.0
	commitVolumePoints = 2.0

	// prNoHistoryBaseline applies when the developer has no pull requests at
	// all: absence of PRs is not evidence of absence of skill.
	prNoHistoryBaseline = 50.0
	prMatchCap          = 50.0
	prMergeRateCap      = 35.0
	prVolumeCap         = 15.0
	prVolumePoints      = 3.0

	qualityRepoCountCap = 30.0
	qualityRepoPoints   = 10.0
	qualityOwnedCap     = 20.0
	qualityOwnedPoints  = 5.0
	qualityStarsCap     = 30.0
	qualityForksCap     = 20.0
	qualityLogScale     = 10.0

	recencyRepoCap      = 60.0
	recencyTierHalfYear = 20.0
	recencyTierYear     = 12.0
	recencyTierTwoYears = 6.0
	recencyCommitCap    = 40.0
	recencyCommitPoints = 2.0

	maxConcurrentScoring = 8
)

// Engine computes final scored skills from matched skills and the corpus.
type Engine struct {
	scoring     config.ScoringConfig
	explanation config.ExplanationConfig
	collector   *evidence.Collector
	resolver    *matching.Resolver

	// now is injected for deterministic recency tests.
	now func() time.Time
}

// NewEngine creates a scoring engine from the loaded configuration.
func NewEngine(cfg *config.Config, resolver *matching.Resolver) *Engine {
	return &Engine{
		scoring:     cfg.Scoring,
		explanation: cfg.Explanation,
		collector:   evidence.NewCollector(resolver, cfg.Evidence),
		resolver:    resolver,
		now:         time.Now,
	}
}

// ScoreAll scores every matched skill against the corpus, drops skills below
// the configured minimum, and returns the rest sorted by score descending
// (ties broken by skill ID ascending), optionally capped to the configured
// maximum result count.
//
// Each skill reads the same immutable corpus and writes a private result, so
// skills are scored concurrently.
func (e *Engine) ScoreAll(ctx context.Context, matches []types.MatchedSkill, corpus *types.ActivityCorpus) []types.ScoredSkill {
	if len(matches) == 0 {
		return nil
	}

	maxRaw, totalRaw := 0.0, 0.0
	for i := range matches {
		totalRaw += matches[i].RawScore
		if matches[i].RawScore > maxRaw {
			maxRaw = matches[i].RawScore
		}
	}

	scored := make([]types.ScoredSkill, len(matches))
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentScoring)
	for i := range matches {
		i := i
		group.Go(func() error {
			scored[i] = e.scoreOne(&matches[i], corpus, maxRaw, totalRaw)
			return nil
		})
	}
	_ = group.Wait()

	results := make([]types.ScoredSkill, 0, len(scored))
	for _, skill := range scored {
		if skill.Score >= e.scoring.MinScore {
			results = append(results, skill)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Skill.ID < results[j].Skill.ID
	})

	if e.scoring.MaxResults > 0 && len(results) > e.scoring.MaxResults {
		results = results[:e.scoring.MaxResults]
	}

	return results
}

func (e *Engine) scoreOne(match *types.MatchedSkill, corpus *types.ActivityCorpus, maxRaw, totalRaw float64) types.ScoredSkill {
	terms := match.Terms()
	sort.Strings(terms)

	matchingRepos := e.matchingRepos(terms, corpus)

	components := types.ScoreComponents{
		Language:       e.languageScore(match.RawScore, terms, matchingRepos, corpus, maxRaw, totalRaw),
		Commit:         e.commitScore(terms, corpus),
		PR:             e.prScore(terms, corpus),
		ProjectQuality: e.projectQualityScore(matchingRepos),
		Recency:        e.recencyScore(terms, matchingRepos, corpus),
	}

	weights := e.scoring.Weights
	weightedSum := components.Language*weights.Language +
		components.Commit*weights.Commit +
		components.PR*weights.PR +
		components.ProjectQuality*weights.ProjectQuality +
		components.Recency*weights.Recency

	base := e.scoring.BaseScore
	score := math.Round(base + weightedSum*(100-base)/100)
	score = clamp(score, 0, e.scoring.MaxScore)

	inferredFrom := make([]string, 0, len(match.InferredFrom))
	for name := range match.InferredFrom {
		inferredFrom = append(inferredFrom, name)
	}
	sort.Strings(inferredFrom)

	return types.ScoredSkill{
		Skill:        match.Skill,
		Score:        int(score),
		Components:   components,
		Evidence:     e.collector.Collect(terms, corpus),
		Explanation:  buildExplanation(match.Skill.Name, components, int(score), e.explanation),
		InferredFrom: inferredFrom,
	}
}

func (e *Engine) matchingRepos(terms []string, corpus *types.ActivityCorpus) []*types.Repository {
	var matched []*types.Repository
	for i := range corpus.Repositories {
		repo := &corpus.Repositories[i]
		if evidence.RepoMatches(e.resolver, repo, terms) {
			matched = append(matched, repo)
		}
	}
	return matched
}

// languageScore blends rank against the best-matched skill, repository
// coverage, language byte volume, and relative share of all raw scores.
func (e *Engine) languageScore(rawScore float64, terms []string, matchingRepos []*types.Repository, corpus *types.ActivityCorpus, maxRaw, totalRaw float64) float64 {
	score := 0.0

	if maxRaw > 0 {
		score += math.Min(rawScore/maxRaw*languageRankCap, languageRankCap)
	}

	if len(corpus.Repositories) > 0 {
		coverage := float64(len(matchingRepos)) / float64(len(corpus.Repositories))
		score += math.Min(coverage*languageCoverageCap, languageCoverageCap)
	}

	totalBytes, matchedBytes := int64(0), int64(0)
	for i := range corpus.Repositories {
		for _, bytes := range corpus.Repositories[i].LanguageBytes {
			totalBytes += bytes
		}
	}
	for _, repo := range matchingRepos {
		for language, bytes := range repo.LanguageBytes {
			if e.termMatchesLanguage(terms, language) {
				matchedBytes += bytes
			}
		}
	}
	if totalBytes > 0 {
		volume := float64(matchedBytes) / float64(totalBytes)
		score += math.Min(volume*languageVolumeCap, languageVolumeCap)
	}

	if totalRaw > 0 {
		score += math.Min(rawScore/totalRaw*languageRelativeCap, languageRelativeCap)
	}

	return clamp(score, 0, 100)
}

func (e *Engine) termMatchesLanguage(terms []string, language string) bool {
	for _, term := range terms {
		if e.resolver.IsAliasOf(term, language) {
			return true
		}
	}
	return false
}

// commitScore weights file-extension matches over message mentions: changed
// files are a strong signal, commit prose is noisy.
func (e *Engine) commitScore(terms []string, corpus *types.ActivityCorpus) float64 {
	total := len(corpus.Commits)
	if total == 0 {
		return 0
	}

	fileMatches, messageMatches, anyMatches := 0, 0, 0
	for i := range corpus.Commits {
		commit := &corpus.Commits[i]
		fileMatch := e.commitFilesMatch(commit, terms)
		messageMatch := commitMessageMatches(commit, terms)
		if fileMatch {
			fileMatches++
		}
		if messageMatch {
			messageMatches++
		}
		if fileMatch || messageMatch {
			anyMatches++
		}
	}

	score := float64(fileMatches) / float64(total) * commitFileCap
	score += float64(messageMatches) / float64(total) * commitMessageCap
	score += math.Min(float64(anyMatches)*commitVolumePoints, commitVolumeCap)

	return clamp(score, 0, 100)
}

func (e *Engine) commitFilesMatch(commit *types.Commit, terms []string) bool {
	for _, file := range commit.Files {
		if tech, ok := e.resolver.TechnologyForExtension(file); ok {
			if e.termMatchesLanguage(terms, tech) {
				return true
			}
		}
		if tech, ok := e.resolver.TechnologyForSpecialFile(file); ok {
			if e.termMatchesLanguage(terms, tech) {
				return true
			}
		}
	}
	return false
}

func commitMessageMatches(commit *types.Commit, terms []string) bool {
	message := strings.ToLower(commit.Message)
	for _, term := range terms {
		if matching.IsWholeWord(message, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// prScore combines match fraction, merge rate among matching PRs, and a
// small volume bonus. With no PR history at all it returns a fixed moderate
// baseline.
func (e *Engine) prScore(terms []string, corpus *types.ActivityCorpus) float64 {
	total := len(corpus.PullRequests)
	if total == 0 {
		return prNoHistoryBaseline
	}

	matches, merged := 0, 0
	for i := range corpus.PullRequests {
		pr := &corpus.PullRequests[i]
		if !evidence.PRMatches(pr, terms) {
			continue
		}
		matches++
		if pr.Merged {
			merged++
		}
	}

	score := float64(matches) / float64(total) * prMatchCap
	if matches > 0 {
		score += float64(merged) / float64(matches) * prMergeRateCap
	}
	score += math.Min(float64(matches)*prVolumePoints, prVolumeCap)

	return clamp(score, 0, 100)
}

// projectQualityScore rewards breadth, ownership, and popularity of the
// matching repositories. Star and fork counts are heavy-tailed, so they
// enter log-scaled: one popular repository must not dominate.
func (e *Engine) projectQualityScore(matchingRepos []*types.Repository) float64 {
	if len(matchingRepos) == 0 {
		return 0
	}

	owned := 0
	totalStars, totalForks := 0, 0
	for _, repo := range matchingRepos {
		if repo.IsOwner {
			owned++
		}
		totalStars += repo.Stars
		totalForks += repo.Forks
	}

	score := math.Min(float64(len(matchingRepos))*qualityRepoPoints, qualityRepoCountCap)
	score += math.Min(float64(owned)*qualityOwnedPoints, qualityOwnedCap)
	score += math.Min(math.Log10(float64(totalStars)+1)*qualityLogScale, qualityStarsCap)
	score += math.Min(math.Log10(float64(totalForks)+1)*qualityLogScale, qualityForksCap)

	return clamp(score, 0, 100)
}

// recencyScore buckets matching repositories' last-update times into tiers
// with decreasing weight, plus a bonus for matching commits within the last
// year.
func (e *Engine) recencyScore(terms []string, matchingRepos []*types.Repository, corpus *types.ActivityCorpus) float64 {
	now := e.now()
	halfYearAgo := now.AddDate(0, -6, 0)
	yearAgo := now.AddDate(-1, 0, 0)
	twoYearsAgo := now.AddDate(-2, 0, 0)

	repoPoints := 0.0
	for _, repo := range matchingRepos {
		switch {
		case repo.UpdatedAt.After(halfYearAgo):
			repoPoints += recencyTierHalfYear
		case repo.UpdatedAt.After(yearAgo):
			repoPoints += recencyTierYear
		case repo.UpdatedAt.After(twoYearsAgo):
			repoPoints += recencyTierTwoYears
		}
	}
	score := math.Min(repoPoints, recencyRepoCap)

	recentCommits := 0
	for i := range corpus.Commits {
		commit := &corpus.Commits[i]
		if commit.AuthoredAt.After(yearAgo) && e.commitFilesMatch(commit, terms) {
			recentCommits++
		}
	}
	score += math.Min(float64(recentCommits)*recencyCommitPoints, recencyCommitCap)

	return clamp(score, 0, 100)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
