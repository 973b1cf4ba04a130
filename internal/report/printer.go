// Package report renders scored skills for terminal and JSON consumers.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/skillscope/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 64
	// maxEvidenceToShow is the number of evidence links displayed per skill
	maxEvidenceToShow = 3
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTermTable outputs the heaviest accumulated technology terms.
func (p *Printer) PrintTermTable(table types.TermTable, topN int) {
	if len(table) == 0 {
		return
	}

	type entry struct {
		term   string
		weight float64
	}
	entries := make([]entry, 0, len(table))
	for term, weight := range table {
		entries = append(entries, entry{term, weight})
	}
	// Weight descending, term ascending for stable display.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].term < entries[j].term
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Distinct terms: %d\n\n", len(entries)))
	count := min(len(entries), topN)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("%-24s %6.1f\n", entries[i].term, entries[i].weight))
	}
	if len(entries) > topN {
		sb.WriteString(fmt.Sprintf("\n... and %d more terms", len(entries)-topN))
	}

	p.printBox("TECHNOLOGY SIGNALS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintScoredSkills outputs the ranked skill list with scores, explanations,
// and a few evidence links each.
func (p *Printer) PrintScoredSkills(skills []types.ScoredSkill) {
	if len(skills) == 0 {
		p.printBox("INFERRED SKILLS", "No skills inferred. Try analyzing more repositories.")
		return
	}

	var sb strings.Builder
	for i, skill := range skills {
		sb.WriteString(fmt.Sprintf("#%d  %s — %d/100\n", i+1, skill.Skill.Name, skill.Score))
		sb.WriteString(fmt.Sprintf("    %s\n", skill.Explanation))
		if len(skill.InferredFrom) > 0 {
			sb.WriteString(fmt.Sprintf("    Inferred from: %s\n", strings.Join(skill.InferredFrom, ", ")))
		}

		count := min(len(skill.Evidence), maxEvidenceToShow)
		for j := 0; j < count; j++ {
			sb.WriteString(fmt.Sprintf("    [%s] %s\n", skill.Evidence[j].Kind, skill.Evidence[j].URL))
		}
		if i < len(skills)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("INFERRED SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComponents outputs the component breakdown for one skill.
func (p *Printer) PrintComponents(skill *types.ScoredSkill) {
	if skill == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Language:        %5.1f\n", skill.Components.Language))
	sb.WriteString(fmt.Sprintf("Commits:         %5.1f\n", skill.Components.Commit))
	sb.WriteString(fmt.Sprintf("Pull requests:   %5.1f\n", skill.Components.PR))
	sb.WriteString(fmt.Sprintf("Project quality: %5.1f\n", skill.Components.ProjectQuality))
	sb.WriteString(fmt.Sprintf("Recency:         %5.1f", skill.Components.Recency))

	p.printBox(fmt.Sprintf("SCORE BREAKDOWN: %s", skill.Skill.Name), sb.String())
}
