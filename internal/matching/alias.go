package matching

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/skillscope/internal/config"
)

// Resolver maps raw technology terms to canonical forms using the configured
// alias tables. It holds loaded data only; resolution is a pure function of
// (term, tables).
type Resolver struct {
	shortForms   map[string]string
	aliases      map[string]string
	extensions   map[string]string
	specialFiles map[string]string

	// specialKeys is kept sorted so substring scans are deterministic.
	specialKeys []string

	// groups maps a normalized term to its alias-group canonical form, used
	// by IsAliasOf for cross-referencing skill names against repo metadata.
	groups map[string]string
}

// NewResolver builds a Resolver from the configured tables. Table keys are
// lowercased once here so lookups are case-insensitive.
func NewResolver(cfg *config.Config) *Resolver {
	r := &Resolver{
		shortForms:   lowerKeys(cfg.ShortForms),
		aliases:      lowerKeys(cfg.Aliases),
		extensions:   lowerKeys(cfg.Extensions),
		specialFiles: lowerKeys(cfg.SpecialFiles),
		groups:       make(map[string]string),
	}

	r.specialKeys = make([]string, 0, len(r.specialFiles))
	for key := range r.specialFiles {
		r.specialKeys = append(r.specialKeys, key)
	}
	sort.Strings(r.specialKeys)

	// Every alias and its canonical form belong to one group keyed by the
	// canonical form's normalization.
	for alias, canonical := range r.aliases {
		group := NormalizeTerm(canonical)
		r.groups[NormalizeTerm(alias)] = group
		r.groups[group] = group
	}
	for short, expanded := range r.shortForms {
		group := NormalizeTerm(expanded)
		r.groups[NormalizeTerm(short)] = group
		r.groups[group] = group
	}

	return r
}

func lowerKeys(table map[string]string) map[string]string {
	lowered := make(map[string]string, len(table))
	for key, value := range table {
		lowered[strings.ToLower(key)] = value
	}
	return lowered
}

// NormalizeTerm lowercases a term and strips dots, spaces, and hyphens, so
// e.g. "React.js", "react js", and "reactjs" share one normal form.
func NormalizeTerm(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	replacer := strings.NewReplacer(".", "", " ", "", "-", "")
	return replacer.Replace(term)
}

// ExpandShortForm expands a configured abbreviation ("js" -> "JavaScript").
// Unknown terms pass through unchanged.
func (r *Resolver) ExpandShortForm(term string) string {
	if expanded, ok := r.shortForms[strings.ToLower(strings.TrimSpace(term))]; ok {
		return expanded
	}
	return term
}

// CanonicalSkillName returns the configured canonical skill name for a term,
// if any ("reactjs" -> "React.js").
func (r *Resolver) CanonicalSkillName(term string) (string, bool) {
	canonical, ok := r.aliases[strings.ToLower(strings.TrimSpace(term))]
	return canonical, ok
}

// TechnologyForExtension maps a file path to a technology via its extension
// (".ts" -> "TypeScript").
func (r *Resolver) TechnologyForExtension(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	tech, ok := r.extensions[ext]
	return tech, ok
}

// TechnologyForSpecialFile maps a filename to a technology when the filename
// contains a configured special substring ("package-lock" -> "Node.js").
func (r *Resolver) TechnologyForSpecialFile(filename string) (string, bool) {
	name := strings.ToLower(filename)
	for _, key := range r.specialKeys {
		if strings.Contains(name, key) {
			return r.specialFiles[key], true
		}
	}
	return "", false
}

// Resolve maps a raw term to its canonical form, consulting the short-form
// table, then the alias table. A term with no entry passes through unchanged.
func (r *Resolver) Resolve(term string) string {
	expanded := r.ExpandShortForm(term)
	if canonical, ok := r.CanonicalSkillName(expanded); ok {
		return canonical
	}
	return expanded
}

// IsAliasOf reports whether two terms refer to the same technology: either
// their normal forms are equal, or both belong to the same alias group.
func (r *Resolver) IsAliasOf(a, b string) bool {
	if a == "" || b == "" {
		return false
	}

	na, nb := NormalizeTerm(a), NormalizeTerm(b)
	if na == nb {
		return true
	}

	groupA, okA := r.groups[na]
	groupB, okB := r.groups[nb]
	return okA && okB && groupA == groupB
}
