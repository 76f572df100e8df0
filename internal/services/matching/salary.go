package matching

import (
	"regexp"
	"strings"
)

// SalaryDetails is the structured result of salary extraction from one
// narration. MatchedKeywords is kept as the audit trail.
type SalaryDetails struct {
	PersonName      string
	PersonID        string
	PersonCombined  string
	Period          string
	Forced          bool
	MatchedKeywords []string
}

var (
	primarySalaryKeywords = []string{
		"salary", "sal", "wage", "payroll", "remuneration", "compensation",
	}

	secondarySalaryKeywords = []string{
		"monthly", "month", "january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
	}

	nonSalaryIndicators = []string{
		"payment for", "purchase of", "rent", "electricity", "transportation", "marketing",
		"maintenance", "equipment", "insurance", "legal", "consulting", "training",
		"travel", "software", "security", "cleaning", "bank charges", "interest",
		"loan repayment", "tax payment", "bill payment", "expenses for", "fees for",
		"vendor payment", "po no", "work order", "invoice", "challan", "tds deduction",
		"vds deduction", "duty", "taxes", "port", "shipping", "carrying charges",
		"l/c", "letter of credit", "margin", "collateral", "acceptance commission",
		"retirement value", "principal", "time loan", "usance loan",
	}

	// Lender-side employee reference: "... Amount paid as Inter Unit Loan ... (Name-ID: n)".
	lenderPersonPattern = regexp.MustCompile(`(?i)\(\s*([^()]+?)\s*-\s*ID\s*[:：]\s*(\d+)\s*\)`)

	// Borrower-side employee reference: "Payable to Name-ID: n ... final settlement".
	borrowerPersonPattern = regexp.MustCompile(`(?is)payable\s+to\s+([^\r\n\-]+?)\s*-\s*ID\s*[:：]\s*(\d+)`)

	// Ordered name-capture heuristics, applied to the lowercased narration.
	personPatterns = []*regexp.Regexp{
		regexp.MustCompile(`salary\s+of\s+([a-z\s]+?)(?:\s+for|\s+month|\s+period|$)`),
		regexp.MustCompile(`([a-z\s]+?)\s+salary`),
		regexp.MustCompile(`payroll\s+for\s+([a-z\s]+?)(?:\s+for|\s+month|\s+period|$)`),
		regexp.MustCompile(`([a-z\s]+?)\s+payroll`),
		regexp.MustCompile(`\(([a-z]+\.\s+[a-z\s]+?)-id\s*:\s*\d+\)`),
		regexp.MustCompile(`([a-z]+\.\s+[a-z\s]+?)-id\s*:\s*\d+`),
		regexp.MustCompile(`payable\s+to\s+([a-z]+\.\s+[a-z\s]+?)-id\s*:\s*\d+`),
		regexp.MustCompile(`amount\s+paid\s+to\s+([a-z]+\.\s+[a-z\s]+?)(?:\s*,|\s+for|\s+employee|\s+office|\s+human|\s+resources|\s+administration|\s+final|\s+settlement|\s+employee\s+id|\s*$)`),
		regexp.MustCompile(`([a-z]+\.\s+[a-z\s]+?)(?:\s+for|\s+month|\s+period|\s+employee|\s+id|\s*,|\s*$)`),
		regexp.MustCompile(`\(([a-z]+\.\s+[a-z\s]+?)\)`),
	}

	// Month-year in the three formats seen in ledgers.
	periodPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\w+\s+\d{4}`),
		regexp.MustCompile(`\d{1,2}/\d{4}`),
		regexp.MustCompile(`\d{4}-\d{2}`),
	}
)

// ExtractSalaryDetails pulls salary evidence out of one narration. It
// returns nil when the text is not salary-like: no primary keyword (or
// forced final-settlement override), or a non-salary indicator phrase is
// present without the override.
func ExtractSalaryDetails(particulars string) *SalaryDetails {
	if particulars == "" {
		return nil
	}
	lower := strings.ToLower(particulars)

	var lenderPerson, borrowerPerson []string
	if strings.Contains(lower, "amount paid as inter unit loan") {
		lenderPerson = lenderPersonPattern.FindStringSubmatch(particulars)
	}
	if strings.Contains(lower, "payable to") && strings.Contains(lower, "final settlement") {
		borrowerPerson = borrowerPersonPattern.FindStringSubmatch(particulars)
	}
	forced := lenderPerson != nil || borrowerPerson != nil

	hasPrimary := strings.Contains(lower, "final settlement")
	for _, kw := range primarySalaryKeywords {
		if strings.Contains(lower, kw) {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary {
		return nil
	}

	if !forced {
		for _, indicator := range nonSalaryIndicators {
			if strings.Contains(lower, indicator) {
				return nil
			}
		}
	}

	details := &SalaryDetails{Forced: forced}

	// The explicit employee-reference forms win over the heuristics.
	switch {
	case lenderPerson != nil:
		details.PersonName = strings.TrimSpace(lenderPerson[1])
		details.PersonID = strings.TrimSpace(lenderPerson[2])
	case borrowerPerson != nil:
		details.PersonName = strings.TrimSpace(borrowerPerson[1])
		details.PersonID = strings.TrimSpace(borrowerPerson[2])
	default:
		for _, pattern := range personPatterns {
			if m := pattern.FindStringSubmatch(lower); m != nil {
				details.PersonName = strings.TrimSpace(m[1])
				break
			}
		}
		if details.PersonName == "" {
			details.PersonName = nameFromParenthesizedID(lower)
		}
	}
	if details.PersonID != "" {
		details.PersonCombined = details.PersonName + "-ID : " + details.PersonID
	}

	for _, pattern := range periodPatterns {
		if period := pattern.FindString(particulars); period != "" {
			details.Period = period
			break
		}
	}

	for _, kw := range append(append([]string{}, primarySalaryKeywords...), secondarySalaryKeywords...) {
		if strings.Contains(lower, kw) {
			details.MatchedKeywords = append(details.MatchedKeywords, kw)
		}
	}

	return details
}

// nameFromParenthesizedID handles "(Md. Name-ID : 1234)" forms the regex
// heuristics miss: a titled name between "(" and "-id :".
func nameFromParenthesizedID(lower string) string {
	start := strings.Index(lower, "(")
	if start == -1 {
		return ""
	}
	end := strings.Index(lower[start:], "-id :")
	if end == -1 {
		return ""
	}
	name := strings.TrimSpace(lower[start+1 : start+end])
	if strings.Contains(name, ".") && len(strings.Fields(name)) >= 2 {
		return name
	}
	return ""
}

// PersonLabel is the person identity used for display and audit: the
// combined name-id form when an employee id was captured, the bare name
// otherwise.
func (d *SalaryDetails) PersonLabel() string {
	if d == nil {
		return ""
	}
	if d.PersonCombined != "" {
		return d.PersonCombined
	}
	return d.PersonName
}
