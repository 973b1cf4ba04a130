package types

import "strings"

// SignalSource identifies where a technology signal was observed.
type SignalSource string

// Signal sources, in rough order of trust.
const (
	SourceLanguage      SignalSource = "language"
	SourceTopic         SignalSource = "topic"
	SourceRootFile      SignalSource = "root_file"
	SourceReadmeMention SignalSource = "readme_mention"
	SourceCommitMessage SignalSource = "commit_message"
	SourceCommitFile    SignalSource = "commit_file"
	SourcePRText        SignalSource = "pr_text"
	SourceStarLanguage  SignalSource = "star_language"
	SourceStarTopic     SignalSource = "star_topic"
)

// TechnologySignal is a single weighted observation linking a technology
// term to one activity item. Signals are ephemeral: they exist only long
// enough to be folded into a TermTable.
type TechnologySignal struct {
	Term   string       `json:"term"`
	Weight float64      `json:"weight"`
	Source SignalSource `json:"source"`
}

// TermTable accumulates signal weights per lowercase technology term.
// Accumulation is plain addition, so the final table is independent of the
// order in which signals are added.
type TermTable map[string]float64

// Add folds a signal's weight into the table under the lowercased term.
func (t TermTable) Add(term string, weight float64) {
	if term == "" || weight <= 0 {
		return
	}
	t[normalizeKey(term)] += weight
}

// Merge folds every entry of other into the table.
func (t TermTable) Merge(other TermTable) {
	for term, weight := range other {
		t[term] += weight
	}
}

func normalizeKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// SkillEntity is an identity-stable record from the external skill catalog.
// Two entities are the same skill iff ID matches; Name must never be used
// as identity because the catalog can return distinct entities with
// similar names.
type SkillEntity struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// MatchedSkill is a catalog skill with its accumulated raw match weight.
// Exactly one MatchedSkill exists per distinct skill ID in a run; weights
// from multiple contributing terms are summed.
type MatchedSkill struct {
	Skill        SkillEntity     `json:"skill"`
	MatchedTerms map[string]bool `json:"matched_terms"`
	RawScore     float64         `json:"raw_score"`
	InferredFrom map[string]bool `json:"inferred_from,omitempty"`
}

// Terms returns the matched terms as a slice (unordered).
func (m *MatchedSkill) Terms() []string {
	terms := make([]string, 0, len(m.MatchedTerms))
	for term := range m.MatchedTerms {
		terms = append(terms, term)
	}
	return terms
}

// EvidenceKind identifies the activity type backing a piece of evidence.
type EvidenceKind string

// Evidence kinds, in collection priority order.
const (
	EvidenceRepo    EvidenceKind = "repo"
	EvidenceCommit  EvidenceKind = "commit"
	EvidencePR      EvidenceKind = "pr"
	EvidenceStarred EvidenceKind = "starred"
)

// Evidence is one concrete activity item substantiating a skill's score.
type Evidence struct {
	Kind   EvidenceKind `json:"kind"`
	Title  string       `json:"title"`
	URL    string       `json:"url"`
	Detail string       `json:"detail,omitempty"`
}

// ScoreComponents holds the five independent sub-scores, each in [0,100].
type ScoreComponents struct {
	Language       float64 `json:"language"`
	Commit         float64 `json:"commit"`
	PR             float64 `json:"pr"`
	ProjectQuality float64 `json:"project_quality"`
	Recency        float64 `json:"recency"`
}

// ScoredSkill is the final, immutable output record for one skill.
type ScoredSkill struct {
	Skill        SkillEntity     `json:"skill"`
	Score        int             `json:"score"`
	Components   ScoreComponents `json:"components"`
	Evidence     []Evidence      `json:"evidence,omitempty"`
	Explanation  string          `json:"explanation"`
	InferredFrom []string        `json:"inferred_from,omitempty"`
}
