// Package evidence gathers supporting activity items for matched skills.
package evidence

import (
	"strings"

	"github.com/jonathan/skillscope/internal/matching"
	"github.com/jonathan/skillscope/internal/types"
)

// RepoMatches reports whether a repository shows any of the skill's terms:
// via alias equivalence against its language or topics, via a technology
// implied by a special root file, or via a whole-word README mention.
func RepoMatches(resolver *matching.Resolver, repo *types.Repository, terms []string) bool {
	readme := strings.ToLower(repo.Readme)

	for _, term := range terms {
		if resolver.IsAliasOf(term, repo.Language) {
			return true
		}

		for language := range repo.LanguageBytes {
			if resolver.IsAliasOf(term, language) {
				return true
			}
		}

		for _, topic := range repo.Topics {
			if resolver.IsAliasOf(term, topic) {
				return true
			}
		}

		for _, filename := range repo.RootFiles {
			if tech, ok := resolver.TechnologyForSpecialFile(filename); ok {
				if resolver.IsAliasOf(term, tech) {
					return true
				}
			}
		}

		if readme != "" && matching.IsWholeWord(readme, strings.ToLower(term)) {
			return true
		}
	}

	return false
}

// CommitMatches reports whether a commit touches the skill: a whole-word
// mention in the message, or a changed file whose extension or special
// filename implies one of the terms.
func CommitMatches(resolver *matching.Resolver, commit *types.Commit, terms []string) bool {
	message := strings.ToLower(commit.Message)

	for _, term := range terms {
		if matching.IsWholeWord(message, strings.ToLower(term)) {
			return true
		}

		for _, file := range commit.Files {
			if tech, ok := resolver.TechnologyForExtension(file); ok {
				if resolver.IsAliasOf(term, tech) {
					return true
				}
			}
			if tech, ok := resolver.TechnologyForSpecialFile(file); ok {
				if resolver.IsAliasOf(term, tech) {
					return true
				}
			}
		}
	}

	return false
}

// PRMatches reports whether a pull request's title or body mentions any of
// the skill's terms as a whole word.
func PRMatches(pr *types.PullRequest, terms []string) bool {
	text := strings.ToLower(pr.Title + " " + pr.Body)
	for _, term := range terms {
		if matching.IsWholeWord(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// StarMatches reports whether a starred repository's language or topics are
// alias-equivalent to any of the skill's terms.
func StarMatches(resolver *matching.Resolver, star *types.StarredRepo, terms []string) bool {
	for _, term := range terms {
		if resolver.IsAliasOf(term, star.Language) {
			return true
		}
		for _, topic := range star.Topics {
			if resolver.IsAliasOf(term, topic) {
				return true
			}
		}
	}
	return false
}
