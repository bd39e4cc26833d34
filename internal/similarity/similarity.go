// Package similarity provides the string comparison metrics used by the
// address scorer. Two deliberately distinct metrics are kept: a character
// overlap ratio for street and locality tiers, and a Levenshtein ratio for
// the house identifier tier. They are not numerically interchangeable at the
// same threshold, so callers must not swap one for the other.
package similarity

import (
	"github.com/agnivade/levenshtein"
)

// Text returns a normalized character-overlap ratio in [0, 1] based on
// recursively locating the longest common substring and crediting matched
// characters on both sides of it.
func Text(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	common := commonChars(a, b)
	return float64(2*common) / float64(len(a)+len(b))
}

// commonChars counts characters shared via longest-common-substring
// decomposition: find the LCS, then recurse into the unmatched prefixes
// and suffixes.
func commonChars(a, b string) int {
	posA, posB, length := longestCommonSubstring(a, b)
	if length == 0 {
		return 0
	}

	sum := length
	if posA > 0 && posB > 0 {
		sum += commonChars(a[:posA], b[:posB])
	}
	if posA+length < len(a) && posB+length < len(b) {
		sum += commonChars(a[posA+length:], b[posB+length:])
	}
	return sum
}

func longestCommonSubstring(a, b string) (posA, posB, length int) {
	// prev[j] holds the run length ending at a[i-1], b[j-1]
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > length {
					length = curr[j]
					posA = i - length
					posB = j - length
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return posA, posB, length
}

// LevenshteinRatio returns 1 - editDistance/maxLength in [0, 1].
func LevenshteinRatio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	ratio := 1 - float64(dist)/float64(maxLen)
	if ratio < 0 {
		return 0
	}
	return ratio
}
