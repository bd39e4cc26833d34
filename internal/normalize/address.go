package normalize

import (
	"regexp"
	"strings"
)

// Street suffix abbreviations applied long->short, whole word only.
// EPC register addresses overwhelmingly use the short forms.
var suffixRules = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`\bROAD\b`), "RD"},
	{regexp.MustCompile(`\bSTREET\b`), "ST"},
	{regexp.MustCompile(`\bAVENUE\b`), "AVE"},
	{regexp.MustCompile(`\bLANE\b`), "LN"},
	{regexp.MustCompile(`\bDRIVE\b`), "DR"},
	{regexp.MustCompile(`\bCOURT\b`), "CT"},
	{regexp.MustCompile(`\bPLACE\b`), "PL"},
	{regexp.MustCompile(`\bSQUARE\b`), "SQ"},
	{regexp.MustCompile(`\bCRESCENT\b`), "CRES"},
}

// Sub-unit keywords that introduce a SAON (flat/unit identifier).
var subUnitKeywords = map[string]bool{
	"FLAT":       true,
	"APARTMENT":  true,
	"APT":        true,
	"UNIT":       true,
	"STUDIO":     true,
	"ROOM":       true,
	"MAISONETTE": true,
}

// House number pattern: digits with optional alpha suffix (16, 16A).
var reUnitToken = regexp.MustCompile(`^[0-9]+[A-Z]?$`)

// Address canonicalizes a free-text address line for comparison:
// uppercase, abbreviate street suffixes, strip punctuation, collapse spaces.
// The result contains only [A-Z0-9 ] and is stable across calls.
func Address(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToUpper(strings.TrimSpace(raw))

	for _, rule := range suffixRules {
		s = rule.pattern.ReplaceAllString(s, rule.replacement)
	}

	// Replace everything outside A-Z and 0-9 with a space. This must stay
	// in lockstep with the regexp_replace in the set-based SQL query, so
	// accented letters are stripped rather than kept.
	b := strings.Builder{}
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Street reduces a canonical address to its street name by dropping
// sub-unit keywords and standalone house-number tokens.
func Street(raw string) string {
	canonical := Address(raw)
	if canonical == "" {
		return ""
	}

	var kept []string
	for _, token := range strings.Fields(canonical) {
		if subUnitKeywords[token] {
			continue
		}
		if reUnitToken.MatchString(token) {
			continue
		}
		kept = append(kept, token)
	}

	return strings.Join(kept, " ")
}

// UnitID extracts a canonical unit identifier from a canonical address.
// The token following a sub-unit keyword wins ("FLAT 12" -> "12"); otherwise
// the first house-number-shaped token ("16A"); otherwise "".
func UnitID(canonical string) string {
	tokens := strings.Fields(canonical)

	for i, token := range tokens {
		if subUnitKeywords[token] && i+1 < len(tokens) {
			return tokens[i+1]
		}
	}

	for _, token := range tokens {
		if reUnitToken.MatchString(token) {
			return token
		}
	}

	return ""
}

// Postcode strips spacing and uppercases so postcodes compare exactly.
func Postcode(raw string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
}

// ContainsToken reports whether needle occurs in haystack on whole-token
// boundaries. Both strings must already be canonical. A multi-word needle
// matches as a contiguous phrase.
func ContainsToken(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	if haystack == needle {
		return true
	}
	if strings.HasPrefix(haystack, needle+" ") || strings.HasSuffix(haystack, " "+needle) {
		return true
	}
	return strings.Contains(haystack, " "+needle+" ")
}
