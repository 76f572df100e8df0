package matching

import (
	"regexp"
	"strings"
)

// AccountReference is a short account pointer pulled out of a narration,
// e.g. MDBL#11026 or "Midland Bank#11026" or a bare #8826.
type AccountReference struct {
	AccountNumber  string
	BankCode       string
	NormalizedBank string
	FullReference  string
}

// Ordered: full bank name first so "MIDLAND BANK#11026" does not resolve
// its trailing letters as a short code, then short code, then bare hash.
var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z][A-Z.& ]*?BANK(?:\s+[A-Z]{2,10})*)\s*#\s*(\d{4,5})\b`),
	regexp.MustCompile(`\b([A-Z]{2,4})\s*#\s*(\d{4,5})\b`),
	regexp.MustCompile(`#\s*(\d{4,5})\b`),
}

// ExtractAccountNumber finds a 4-5 digit account reference following a #,
// optionally preceded by a bank code or full bank name, and resolves the
// bank through the registry. Returns nil when no reference is present.
func (e *Engine) ExtractAccountNumber(particulars string) *AccountReference {
	if particulars == "" {
		return nil
	}
	upper := strings.ToUpper(particulars)
	for _, pattern := range accountPatterns {
		m := pattern.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		ref := &AccountReference{FullReference: m[0]}
		if len(m) == 2 {
			ref.AccountNumber = m[1]
		} else {
			ref.BankCode = strings.TrimSpace(m[1])
			ref.AccountNumber = m[2]
			ref.NormalizedBank = e.registry.BankName(ref.BankCode)
		}
		return ref
	}
	return nil
}
