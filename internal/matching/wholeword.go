// Package matching resolves free-form technology terms to canonical catalog skills.
package matching

import "strings"

// IsWholeWord reports whether word occurs in text bounded by non-alphanumeric
// characters (or the string edges). Both arguments must already be lowercased
// by the caller.
//
// The check is built from fixed character-class tests rather than a pattern
// compiled from the input, so matching stays linear in the text length no
// matter what the word contains. All occurrences are scanned: an early hit
// can fail the boundary test while a later one succeeds.
func IsWholeWord(text, word string) bool {
	if word == "" || len(word) > len(text) {
		return false
	}

	for start := 0; start <= len(text)-len(word); {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}

		pos := start + idx
		end := pos + len(word)

		beforeOK := pos == 0 || !isAlphanumeric(text[pos-1])
		afterOK := end == len(text) || !isAlphanumeric(text[end])
		if beforeOK && afterOK {
			return true
		}

		start = pos + 1
	}

	return false
}

// isAlphanumeric reports whether b is an ASCII letter or digit.
func isAlphanumeric(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
