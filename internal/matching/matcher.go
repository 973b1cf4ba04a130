package matching

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skillscope/internal/catalog"
	"github.com/jonathan/skillscope/internal/config"
	"github.com/jonathan/skillscope/internal/types"
)

const (
	// minTermLength skips terms too short to resolve unambiguously.
	minTermLength = 2

	// defaultImpliedWeight applies when a hierarchy entry omits its weight.
	defaultImpliedWeight = 0.7

	// maxConcurrentLookups bounds parallel catalog searches.
	maxConcurrentLookups = 8
)

// Matcher resolves weighted technology terms to canonical catalog skills,
// then expands matches through the configured implication hierarchy and the
// optional category generalization.
type Matcher struct {
	resolver        *Resolver
	searcher        catalog.Searcher
	hierarchy       map[string]map[string]float64
	categoryEnabled bool
	categoryWeight  float64
}

// NewMatcher creates a Matcher. The searcher should be a per-run cached
// searcher so repeated terms are looked up once.
func NewMatcher(cfg *config.Config, resolver *Resolver, searcher catalog.Searcher) *Matcher {
	hierarchy := make(map[string]map[string]float64, len(cfg.Hierarchy))
	for skill, implied := range cfg.Hierarchy {
		hierarchy[strings.ToLower(skill)] = implied
	}

	return &Matcher{
		resolver:        resolver,
		searcher:        searcher,
		hierarchy:       hierarchy,
		categoryEnabled: cfg.CategoryInference.Enabled,
		categoryWeight:  cfg.CategoryInference.Weight,
	}
}

// resolution is the outcome of resolving one weighted term.
type resolution struct {
	term   string
	weight float64
	skill  types.SkillEntity
	ok     bool
}

// Match runs the three matching phases over the accumulated term table and
// returns one MatchedSkill per distinct catalog skill ID, sorted by raw
// score descending with ties broken by skill ID ascending.
//
// A term whose catalog lookup fails contributes nothing; matching degrades
// per term and never aborts the batch.
func (m *Matcher) Match(ctx context.Context, table types.TermTable) []types.MatchedSkill {
	matched := make(map[string]*types.MatchedSkill)

	// Phase 1: direct resolution. Lookups are independent, so they run
	// concurrently; results are folded in sorted term order afterwards so
	// the accumulated scores are deterministic.
	terms := make([]string, 0, len(table))
	for term := range table {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	resolutions := make([]resolution, len(terms))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentLookups)
	for i, term := range terms {
		i, term := i, term
		group.Go(func() error {
			skill, ok := m.resolveTerm(groupCtx, term)
			resolutions[i] = resolution{term: term, weight: table[term], skill: skill, ok: ok}
			return nil
		})
	}
	_ = group.Wait()

	for _, res := range resolutions {
		if !res.ok {
			continue
		}
		addMatch(matched, res.skill, res.weight, res.term, "")
	}

	// Phases 2 and 3 expand from the direct matches only. Raw scores are
	// snapshotted here so an implied skill never re-implies further and a
	// contribution arriving during phase 2 never leaks into a later
	// inference; every inferred amount is directRaw*weight.
	type directMatch struct {
		skill types.SkillEntity
		raw   float64
	}
	direct := make([]directMatch, 0, len(matched))
	for _, entry := range matched {
		direct = append(direct, directMatch{skill: entry.Skill, raw: entry.RawScore})
	}
	sort.Slice(direct, func(i, j int) bool {
		return direct[i].skill.ID < direct[j].skill.ID
	})

	// Phase 2: hierarchical inference. Implied skills pass through the same
	// catalog resolution and plausibility check as direct matches; inference
	// must not bypass validation.
	for _, source := range direct {
		implied, ok := m.hierarchy[strings.ToLower(source.skill.Name)]
		if !ok {
			continue
		}

		names := make([]string, 0, len(implied))
		for name := range implied {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			weight := implied[name]
			if weight <= 0 {
				weight = defaultImpliedWeight
			}
			skill, resolved := m.resolveTerm(ctx, name)
			if !resolved {
				continue
			}
			addMatch(matched, skill, source.raw*weight, "", source.skill.Name)
		}
	}

	// Phase 3: category inference (config-gated).
	if m.categoryEnabled {
		for _, source := range direct {
			if source.skill.Category == "" {
				continue
			}
			skill, resolved := m.resolveTerm(ctx, source.skill.Category)
			if !resolved {
				continue
			}
			addMatch(matched, skill, source.raw*m.categoryWeight, "",
				source.skill.Name+" (category)")
		}
	}

	results := make([]types.MatchedSkill, 0, len(matched))
	for _, skill := range matched {
		results = append(results, *skill)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].RawScore != results[j].RawScore {
			return results[i].RawScore > results[j].RawScore
		}
		return results[i].Skill.ID < results[j].Skill.ID
	})

	return results
}

// resolveTerm maps one term to a catalog skill: short-form expansion, alias
// canonicalization, then catalog search, keeping the first candidate only if
// it is a plausible match for the query.
func (m *Matcher) resolveTerm(ctx context.Context, term string) (types.SkillEntity, bool) {
	query := m.resolver.Resolve(term)
	if len(strings.TrimSpace(query)) < minTermLength {
		return types.SkillEntity{}, false
	}

	candidates, err := m.searcher.Search(ctx, query)
	if err != nil || len(candidates) == 0 {
		// Catalog unreachable or no hit: this term contributes nothing.
		return types.SkillEntity{}, false
	}

	candidate := candidates[0]
	if !IsReasonableMatch(query, candidate.Name) {
		return types.SkillEntity{}, false
	}

	return candidate, true
}

// addMatch folds a score contribution into the per-skill-ID match map.
// Scores from multiple contributing terms are summed, never overwritten.
func addMatch(matched map[string]*types.MatchedSkill, skill types.SkillEntity, score float64, term, inferredFrom string) {
	entry, ok := matched[skill.ID]
	if !ok {
		entry = &types.MatchedSkill{
			Skill:        skill,
			MatchedTerms: make(map[string]bool),
		}
		matched[skill.ID] = entry
	}

	entry.RawScore += score
	if term != "" {
		entry.MatchedTerms[term] = true
	}
	if inferredFrom != "" {
		if entry.InferredFrom == nil {
			entry.InferredFrom = make(map[string]bool)
		}
		entry.InferredFrom[inferredFrom] = true
	}
}
