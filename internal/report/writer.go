package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/skillscope/internal/types"
)

// jsonReport is the top-level JSON output document.
type jsonReport struct {
	Username string              `json:"username"`
	Skills   []types.ScoredSkill `json:"skills"`
}

// WriteJSON writes the full ranked skill list as indented JSON.
func WriteJSON(out io.Writer, username string, skills []types.ScoredSkill) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(jsonReport{Username: username, Skills: skills}); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteText writes a plain-text ranked listing, one skill per block.
func WriteText(out io.Writer, username string, skills []types.ScoredSkill) error {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skill report for %s\n", username))
	sb.WriteString(strings.Repeat("=", 40) + "\n\n")

	if len(skills) == 0 {
		sb.WriteString("No skills inferred. Try analyzing more repositories.\n")
	}

	for i, skill := range skills {
		sb.WriteString(fmt.Sprintf("%2d. %-28s %3d/100\n", i+1, skill.Skill.Name, skill.Score))
		sb.WriteString(fmt.Sprintf("    %s\n", skill.Explanation))
		for _, item := range skill.Evidence {
			sb.WriteString(fmt.Sprintf("    - [%s] %s (%s)\n", item.Kind, item.Title, item.URL))
		}
		if i < len(skills)-1 {
			sb.WriteString("\n")
		}
	}

	if _, err := io.WriteString(out, sb.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
