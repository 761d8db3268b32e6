package lookup

// fuzzy.go - similarity-based address matching

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// defaultCutoff is the minimum similarity ratio for a fuzzy match.
const defaultCutoff = 0.6

// similarity returns the character-level sequence similarity of two
// strings in [0, 1], case-insensitively.
func similarity(a, b string) float64 {
	sa := strings.Split(strings.ToUpper(a), "")
	sb := strings.Split(strings.ToUpper(b), "")
	return difflib.NewMatcher(sa, sb).Ratio()
}

// closestMatch returns the candidate most similar to target, provided
// its similarity reaches cutoff. The second return is false when no
// candidate qualifies.
func closestMatch(target string, candidates []string, cutoff float64) (string, bool) {
	var best string
	var bestRatio float64
	found := false
	for _, c := range candidates {
		// Strict improvement keeps the earliest candidate on ties.
		if r := similarity(target, c); r >= cutoff && r > bestRatio {
			best = c
			bestRatio = r
			found = true
		}
	}
	return best, found
}
