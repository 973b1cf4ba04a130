package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/jonathan/skillscope/internal/types"
)

// CachedSearcher memoizes catalog lookups for the duration of one run, keyed
// by the normalized search term. The same term (for example an implied skill
// reached from several source skills) is searched at most once. It is an
// explicit per-run object rather than package state, so runs never share
// results and tests can wrap a fake Searcher directly.
type CachedSearcher struct {
	inner Searcher

	mu      sync.Mutex
	entries map[string]cacheEntry

	namesOnce sync.Once
	names     []string
	namesErr  error
}

type cacheEntry struct {
	skills []types.SkillEntity
	err    error
}

// NewCachedSearcher wraps a Searcher with per-run memoization.
func NewCachedSearcher(inner Searcher) *CachedSearcher {
	return &CachedSearcher{
		inner:   inner,
		entries: make(map[string]cacheEntry),
	}
}

// Search returns the memoized result for the term, performing the underlying
// lookup on first use. Failed lookups are cached too: a term that errored is
// not retried within the run.
func (c *CachedSearcher) Search(ctx context.Context, term string) ([]types.SkillEntity, error) {
	key := strings.ToLower(strings.TrimSpace(term))

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return entry.skills, entry.err
	}
	c.mu.Unlock()

	skills, err := c.inner.Search(ctx, term)

	c.mu.Lock()
	// A concurrent lookup for the same key may have landed first; keep the
	// stored entry so every caller sees one consistent result.
	if entry, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return entry.skills, entry.err
	}
	c.entries[key] = cacheEntry{skills: skills, err: err}
	c.mu.Unlock()

	return skills, err
}

// AllSkillNames fetches the full skill-name list once per run.
func (c *CachedSearcher) AllSkillNames(ctx context.Context) ([]string, error) {
	c.namesOnce.Do(func() {
		c.names, c.namesErr = c.inner.AllSkillNames(ctx)
	})
	return c.names, c.namesErr
}
