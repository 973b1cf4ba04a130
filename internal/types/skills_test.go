package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermTable_AddNormalizesAndAccumulates(t *testing.T) {
	table := make(TermTable)

	table.Add("TypeScript", 10)
	table.Add("typescript", 2)
	table.Add("  TypeScript ", 1)

	assert.InDelta(t, 13.0, table["typescript"], 1e-9)
	assert.Len(t, table, 1)
}

func TestTermTable_AddIgnoresEmptyAndNonPositive(t *testing.T) {
	table := make(TermTable)

	table.Add("", 5)
	table.Add("go", 0)
	table.Add("go", -1)

	assert.Empty(t, table)
}

func TestTermTable_Merge(t *testing.T) {
	table := TermTable{"go": 5, "python": 2}
	table.Merge(TermTable{"go": 3, "rust": 1})

	assert.InDelta(t, 8.0, table["go"], 1e-9)
	assert.InDelta(t, 2.0, table["python"], 1e-9)
	assert.InDelta(t, 1.0, table["rust"], 1e-9)
}

func TestMatchedSkill_Terms(t *testing.T) {
	match := MatchedSkill{
		Skill:        SkillEntity{ID: "s-go", Name: "Go"},
		MatchedTerms: map[string]bool{"go": true, "golang": true},
	}

	assert.ElementsMatch(t, []string{"go", "golang"}, match.Terms())
}

func TestActivityCorpus_IsEmpty(t *testing.T) {
	corpus := &ActivityCorpus{Username: "dev"}
	assert.True(t, corpus.IsEmpty())

	corpus.Starred = []StarredRepo{{FullName: "other/lib"}}
	assert.False(t, corpus.IsEmpty())
}
