package matching

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

const (
	// prefixLengthRatio bounds how much longer the longer string may be when
	// accepting a mutual-prefix match. 1.5 lets "react" absorb "react.js"
	// while keeping "java" from absorbing "javascript" (ratio 2.5).
	prefixLengthRatio = 1.5

	// substringLengthRatio is the minimum term/name length ratio for a bare
	// substring match.
	substringLengthRatio = 0.25

	// editSimilarityFloor is the minimum normalized Levenshtein similarity
	// for the edit-ratio fallback.
	editSimilarityFloor = 0.85
)

// IsReasonableMatch reports whether a catalog candidate name is a plausible
// resolution of the queried term. Accepting the catalog's top hit for every
// query produces false positives (e.g. mapping "go" to an unrelated
// multi-word skill), so candidates must pass one of these checks:
//
//   - exact normalized equality,
//   - mutual prefix within a small length-ratio tolerance,
//   - the term appearing as a whole word inside the candidate name,
//   - the term as a substring of the candidate with length ratio >= 1/4,
//   - high normalized Levenshtein similarity (typo-distance fallback).
func IsReasonableMatch(term, candidateName string) bool {
	t := NormalizeTerm(term)
	n := NormalizeTerm(candidateName)
	if t == "" || n == "" {
		return false
	}

	if t == n {
		return true
	}

	if strings.HasPrefix(n, t) || strings.HasPrefix(t, n) {
		longer, shorter := len(n), len(t)
		if shorter > longer {
			longer, shorter = shorter, longer
		}
		if float64(longer) <= float64(shorter)*prefixLengthRatio {
			return true
		}
	}

	if IsWholeWord(strings.ToLower(candidateName), strings.ToLower(strings.TrimSpace(term))) {
		return true
	}

	if strings.Contains(n, t) && float64(len(t)) >= float64(len(n))*substringLengthRatio {
		return true
	}

	if similarity, err := edlib.StringsSimilarity(t, n, edlib.Levenshtein); err == nil {
		if float64(similarity) >= editSimilarityFloor {
			return true
		}
	}

	return false
}
