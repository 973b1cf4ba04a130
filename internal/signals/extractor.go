// Package signals extracts weighted technology signals from a developer's activity.
package signals

import (
	"strings"

	"github.com/jonathan/skillscope/internal/matching"
	"github.com/jonathan/skillscope/internal/types"
)

// Weight constants per signal source. Primary language is the strongest
// single signal; starred-repo signals stay fractional because starring is
// interest, not contribution.
const (
	weightPrimaryLanguage = 10.0
	weightTopic           = 2.0
	weightRootFile        = 5.0
	weightReadmeMention   = 1.0
	weightCommitMention   = 1.0
	weightCommitFile      = 2.0
	weightPRMention       = 3.0
	weightStarLanguage    = 0.5
	weightStarTopic       = 0.3

	// Byte-map weights grow with byte count but cap out, so one giant
	// vendored file cannot dominate the table.
	bytesPerLanguagePoint = 10000
	maxLanguageBytePoints = 10.0
)

// Extractor walks an activity corpus and emits a weighted multiset of
// technology terms.
type Extractor struct {
	resolver *matching.Resolver

	// skillNames is the full catalog skill-name list, scanned whole-word
	// against README and pull-request text.
	skillNames []string
}

// NewExtractor creates an Extractor. skillNames may be empty, in which case
// README and PR text contribute no signals.
func NewExtractor(resolver *matching.Resolver, skillNames []string) *Extractor {
	return &Extractor{
		resolver:   resolver,
		skillNames: skillNames,
	}
}

// Extract accumulates every signal in the corpus into a term table. The
// accumulation is plain addition per term, so the result is independent of
// the order in which repositories, commits, PRs, and stars are processed.
func (e *Extractor) Extract(corpus *types.ActivityCorpus) types.TermTable {
	table := make(types.TermTable)

	for i := range corpus.Repositories {
		for _, signal := range e.RepositorySignals(&corpus.Repositories[i]) {
			table.Add(signal.Term, signal.Weight)
		}
	}
	for i := range corpus.Commits {
		for _, signal := range e.CommitSignals(&corpus.Commits[i]) {
			table.Add(signal.Term, signal.Weight)
		}
	}
	for i := range corpus.PullRequests {
		for _, signal := range e.PullRequestSignals(&corpus.PullRequests[i]) {
			table.Add(signal.Term, signal.Weight)
		}
	}
	for i := range corpus.Starred {
		for _, signal := range e.StarSignals(&corpus.Starred[i]) {
			table.Add(signal.Term, signal.Weight)
		}
	}

	return table
}

// RepositorySignals emits signals for one repository: its primary language,
// its language byte map (capped), its topics, technologies implied by
// special root files, and whole-word README mentions of catalog skills.
func (e *Extractor) RepositorySignals(repo *types.Repository) []types.TechnologySignal {
	var signals []types.TechnologySignal

	if repo.Language != "" {
		signals = append(signals, types.TechnologySignal{
			Term:   repo.Language,
			Weight: weightPrimaryLanguage,
			Source: types.SourceLanguage,
		})
	}

	for language, bytes := range repo.LanguageBytes {
		weight := languageByteWeight(bytes)
		if weight <= 0 {
			continue
		}
		signals = append(signals, types.TechnologySignal{
			Term:   language,
			Weight: weight,
			Source: types.SourceLanguage,
		})
	}

	for _, topic := range repo.Topics {
		signals = append(signals, types.TechnologySignal{
			Term:   topic,
			Weight: weightTopic,
			Source: types.SourceTopic,
		})
	}

	// Config-file detection is treated as reliable: a lockfile or build
	// manifest in the repo root implies its ecosystem.
	for _, filename := range repo.RootFiles {
		if tech, ok := e.resolver.TechnologyForSpecialFile(filename); ok {
			signals = append(signals, types.TechnologySignal{
				Term:   tech,
				Weight: weightRootFile,
				Source: types.SourceRootFile,
			})
		}
	}

	if repo.Readme != "" {
		readme := strings.ToLower(repo.Readme)
		for _, name := range e.skillNames {
			if matching.IsWholeWord(readme, strings.ToLower(name)) {
				signals = append(signals, types.TechnologySignal{
					Term:   name,
					Weight: weightReadmeMention,
					Source: types.SourceReadmeMention,
				})
			}
		}
	}

	return signals
}

// CommitSignals emits signals for one commit: whole-word catalog-skill
// mentions in the message, and technologies derived from changed file
// extensions or special filenames.
func (e *Extractor) CommitSignals(commit *types.Commit) []types.TechnologySignal {
	var signals []types.TechnologySignal

	message := strings.ToLower(commit.Message)
	for _, name := range e.skillNames {
		if matching.IsWholeWord(message, strings.ToLower(name)) {
			signals = append(signals, types.TechnologySignal{
				Term:   name,
				Weight: weightCommitMention,
				Source: types.SourceCommitMessage,
			})
		}
	}

	for _, file := range commit.Files {
		if tech, ok := e.resolver.TechnologyForExtension(file); ok {
			signals = append(signals, types.TechnologySignal{
				Term:   tech,
				Weight: weightCommitFile,
				Source: types.SourceCommitFile,
			})
			continue
		}
		if tech, ok := e.resolver.TechnologyForSpecialFile(file); ok {
			signals = append(signals, types.TechnologySignal{
				Term:   tech,
				Weight: weightCommitFile,
				Source: types.SourceCommitFile,
			})
		}
	}

	return signals
}

// PullRequestSignals emits whole-word catalog-skill mentions from the PR
// title and body. PR text is curated, so these weigh more than commit
// message mentions.
func (e *Extractor) PullRequestSignals(pr *types.PullRequest) []types.TechnologySignal {
	var signals []types.TechnologySignal

	text := strings.ToLower(pr.Title + " " + pr.Body)
	for _, name := range e.skillNames {
		if matching.IsWholeWord(text, strings.ToLower(name)) {
			signals = append(signals, types.TechnologySignal{
				Term:   name,
				Weight: weightPRMention,
				Source: types.SourcePRText,
			})
		}
	}

	return signals
}

// StarSignals emits fractional signals for one starred repository.
func (e *Extractor) StarSignals(star *types.StarredRepo) []types.TechnologySignal {
	var signals []types.TechnologySignal

	if star.Language != "" {
		signals = append(signals, types.TechnologySignal{
			Term:   star.Language,
			Weight: weightStarLanguage,
			Source: types.SourceStarLanguage,
		})
	}

	for _, topic := range star.Topics {
		signals = append(signals, types.TechnologySignal{
			Term:   topic,
			Weight: weightStarTopic,
			Source: types.SourceStarTopic,
		})
	}

	return signals
}

// languageByteWeight converts a language byte count to a capped weight:
// one point per 10k bytes, at most 10 points.
func languageByteWeight(bytes int64) float64 {
	points := float64(bytes / bytesPerLanguagePoint)
	if points > maxLanguageBytePoints {
		return maxLanguageBytePoints
	}
	return points
}
