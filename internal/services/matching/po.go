package matching

import (
	"regexp"
	"strings"
)

// PO numbers look like ABC/PO/123/456 or ABC/PO/2024/10/29964: a 2-4 letter
// prefix, the /PO/ marker, then two or more numeric segments.
var poPattern = regexp.MustCompile(`\b[A-Z]{2,4}/PO(?:/\d+){2,}\b`)

// ExtractPO returns the first purchase order token found in the narration,
// uppercased, or "" when none is present. Extraction never fails.
func ExtractPO(particulars string) string {
	if particulars == "" {
		return ""
	}
	return poPattern.FindString(strings.ToUpper(particulars))
}
