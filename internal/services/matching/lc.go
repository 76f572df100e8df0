package matching

import (
	"regexp"
	"strings"
)

// LC numbers appear as L/C-123/456, LC-123/456 and close variants.
var lcPattern = regexp.MustCompile(`\b(?:L/C|LC)[-\s]?\d+[/\s]?\d*\b`)

// ExtractLC returns the first letter-of-credit token found in the
// narration, uppercased, or "" when none is present.
func ExtractLC(particulars string) string {
	if particulars == "" {
		return ""
	}
	return lcPattern.FindString(strings.ToUpper(particulars))
}

// NormalizeLC reduces both L/C-... and LC-... spellings to the LC-...
// form used for equality comparison.
func NormalizeLC(lc string) string {
	if lc == "" {
		return ""
	}
	normalized := strings.TrimSpace(strings.ToUpper(lc))
	return strings.ReplaceAll(normalized, "L/C", "LC")
}
