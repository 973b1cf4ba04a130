package evidence

import (
	"fmt"
	"sort"

	"github.com/jonathan/skillscope/internal/config"
	"github.com/jonathan/skillscope/internal/matching"
	"github.com/jonathan/skillscope/internal/types"
)

// Collector gathers a bounded, priority-ordered evidence list for a skill's
// term set. Four independently capped sub-lists are concatenated in fixed
// priority order: repositories, merged pull requests, repositories grouped
// by matching commit activity, then starred repositories. With identical
// corpus and terms the output is byte-for-byte stable; every ranking has an
// explicit tie-break.
type Collector struct {
	resolver *matching.Resolver
	limits   config.EvidenceConfig
}

// NewCollector creates a Collector with the configured per-source caps.
func NewCollector(resolver *matching.Resolver, limits config.EvidenceConfig) *Collector {
	return &Collector{resolver: resolver, limits: limits}
}

// Collect returns up to limits.MaxTotal evidence items for the terms.
func (c *Collector) Collect(terms []string, corpus *types.ActivityCorpus) []types.Evidence {
	var evidence []types.Evidence
	evidence = append(evidence, c.repoEvidence(terms, corpus)...)
	evidence = append(evidence, c.prEvidence(terms, corpus)...)
	evidence = append(evidence, c.commitEvidence(terms, corpus)...)
	evidence = append(evidence, c.starEvidence(terms, corpus)...)

	if len(evidence) > c.limits.MaxTotal {
		evidence = evidence[:c.limits.MaxTotal]
	}
	return evidence
}

// repoEvidence lists matching repositories, most-starred first.
func (c *Collector) repoEvidence(terms []string, corpus *types.ActivityCorpus) []types.Evidence {
	var matched []*types.Repository
	for i := range corpus.Repositories {
		repo := &corpus.Repositories[i]
		if RepoMatches(c.resolver, repo, terms) {
			matched = append(matched, repo)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Stars != matched[j].Stars {
			return matched[i].Stars > matched[j].Stars
		}
		return matched[i].FullName < matched[j].FullName
	})

	if len(matched) > c.limits.MaxRepos {
		matched = matched[:c.limits.MaxRepos]
	}

	evidence := make([]types.Evidence, 0, len(matched))
	for _, repo := range matched {
		detail := fmt.Sprintf("%d stars", repo.Stars)
		if repo.Language != "" {
			detail += " · " + repo.Language
		}
		evidence = append(evidence, types.Evidence{
			Kind:   types.EvidenceRepo,
			Title:  repo.FullName,
			URL:    repo.URL,
			Detail: detail,
		})
	}
	return evidence
}

// prEvidence lists matching merged pull requests, newest first.
func (c *Collector) prEvidence(terms []string, corpus *types.ActivityCorpus) []types.Evidence {
	var matched []*types.PullRequest
	for i := range corpus.PullRequests {
		pr := &corpus.PullRequests[i]
		if pr.Merged && PRMatches(pr, terms) {
			matched = append(matched, pr)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Title < matched[j].Title
	})

	if len(matched) > c.limits.MaxPRs {
		matched = matched[:c.limits.MaxPRs]
	}

	evidence := make([]types.Evidence, 0, len(matched))
	for _, pr := range matched {
		evidence = append(evidence, types.Evidence{
			Kind:   types.EvidencePR,
			Title:  pr.Title,
			URL:    pr.URL,
			Detail: fmt.Sprintf("merged in %s", pr.RepoFullName),
		})
	}
	return evidence
}

// commitEvidence groups matching commits by repository and lists the most
// active repositories first.
func (c *Collector) commitEvidence(terms []string, corpus *types.ActivityCorpus) []types.Evidence {
	counts := make(map[string]int)
	urls := make(map[string]string)
	for i := range corpus.Commits {
		commit := &corpus.Commits[i]
		if !CommitMatches(c.resolver, commit, terms) {
			continue
		}
		counts[commit.RepoFullName]++
		if _, ok := urls[commit.RepoFullName]; !ok {
			urls[commit.RepoFullName] = commit.URL
		}
	}

	// Prefer the repository's own URL when the repo is in the corpus.
	for i := range corpus.Repositories {
		repo := &corpus.Repositories[i]
		if _, ok := counts[repo.FullName]; ok {
			urls[repo.FullName] = repo.URL
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > c.limits.MaxCommitRepos {
		names = names[:c.limits.MaxCommitRepos]
	}

	evidence := make([]types.Evidence, 0, len(names))
	for _, name := range names {
		evidence = append(evidence, types.Evidence{
			Kind:   types.EvidenceCommit,
			Title:  name,
			URL:    urls[name],
			Detail: fmt.Sprintf("%d matching commits", counts[name]),
		})
	}
	return evidence
}

// starEvidence lists matching starred repositories in name order.
func (c *Collector) starEvidence(terms []string, corpus *types.ActivityCorpus) []types.Evidence {
	var matched []*types.StarredRepo
	for i := range corpus.Starred {
		star := &corpus.Starred[i]
		if StarMatches(c.resolver, star, terms) {
			matched = append(matched, star)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].FullName < matched[j].FullName
	})

	if len(matched) > c.limits.MaxStars {
		matched = matched[:c.limits.MaxStars]
	}

	evidence := make([]types.Evidence, 0, len(matched))
	for _, star := range matched {
		evidence = append(evidence, types.Evidence{
			Kind:   types.EvidenceStarred,
			Title:  star.FullName,
			URL:    star.URL,
			Detail: "starred repository",
		})
	}
	return evidence
}
