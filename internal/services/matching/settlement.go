package matching

import "strings"

// SettlementDetails identifies the employee behind a final settlement leg.
type SettlementDetails struct {
	PersonName     string
	PersonID       string
	PersonCombined string
}

// ExtractFinalSettlementDetails recognises the two final-settlement
// narration shapes: the lender-side "Amount paid as Inter Unit Loan ...
// (Name-ID: n)" and the borrower-side "Payable to Name-ID: n ... final
// settlement". Returns nil when neither resolves to a person.
func ExtractFinalSettlementDetails(particulars string) *SettlementDetails {
	if particulars == "" {
		return nil
	}
	lower := strings.ToLower(particulars)

	var m []string
	if strings.Contains(lower, "amount paid as inter unit loan") {
		m = lenderPersonPattern.FindStringSubmatch(particulars)
	}
	if m == nil && strings.Contains(lower, "payable to") && strings.Contains(lower, "final settlement") {
		m = borrowerPersonPattern.FindStringSubmatch(particulars)
	}
	if m == nil {
		return nil
	}

	name := strings.TrimSpace(m[1])
	id := strings.TrimSpace(m[2])
	return &SettlementDetails{
		PersonName:     name,
		PersonID:       id,
		PersonCombined: name + "-ID : " + id,
	}
}
