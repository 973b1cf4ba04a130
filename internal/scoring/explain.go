package scoring

import (
	"fmt"
	"strings"

	"github.com/jonathan/skillscope/internal/config"
	"github.com/jonathan/skillscope/internal/types"
)

// Score bands for the generic fallback sentence when no clause qualifies.
const (
	bandStrong   = 70
	bandModerate = 40
)

// buildExplanation derives a short human-readable justification from the
// component breakdown and final score alone. Clauses are appended in a fixed
// component order so identical inputs always produce identical text.
func buildExplanation(skillName string, components types.ScoreComponents, score int, cfg config.ExplanationConfig) string {
	var clauses []string

	switch {
	case components.Language >= cfg.StrongUsage:
		clauses = append(clauses, fmt.Sprintf("strong %s usage across repositories", skillName))
	case components.Language >= cfg.ModerateUsage:
		clauses = append(clauses, fmt.Sprintf("moderate %s usage across repositories", skillName))
	case components.Language > 0:
		clauses = append(clauses, fmt.Sprintf("some %s usage", skillName))
	}

	if components.Commit >= cfg.ActiveCommits {
		clauses = append(clauses, "active commit history")
	}
	if components.PR >= cfg.SignificantPR {
		clauses = append(clauses, "significant pull request contributions")
	}
	if components.ProjectQuality >= cfg.QualityRepos {
		clauses = append(clauses, "quality projects")
	}

	switch {
	case components.Recency >= cfg.RecentWork:
		clauses = append(clauses, "recent activity")
	case components.Recency >= cfg.OngoingWork:
		clauses = append(clauses, "ongoing usage")
	}

	if len(clauses) == 0 {
		switch {
		case score >= bandStrong:
			clauses = append(clauses, "strong overall evidence")
		case score >= bandModerate:
			clauses = append(clauses, "moderate evidence across activity")
		default:
			clauses = append(clauses, "limited supporting evidence")
		}
	}

	return capitalize(strings.Join(clauses, ", "))
}

// capitalize upper-cases the first letter of a sentence fragment.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
