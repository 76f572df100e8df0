package matching

import "strings"

// InterunitMatch is the evidence behind a successful interunit loan
// pairing: the full account detected on each side and the short reference
// each side quotes for the other.
type InterunitMatch struct {
	LenderAccount    string
	BorrowerAccount  string
	LenderShortRef   string
	BorrowerShortRef string
}

// MatchInterunitLoans detects a transfer between internal business units
// routed through the configured accounts. Both narrations must contain a
// registry account, and both cross-reference checks must hold: the
// lender's short reference appears verbatim in the borrower's narration
// and vice versa. A unidirectional hit is rejected; coincidental substring
// overlap on one side is not enough evidence.
func (e *Engine) MatchInterunitLoans(lenderParticulars, borrowerParticulars string) *InterunitMatch {
	lenderAccount, lenderShortRef, ok := e.registry.ShortRef(lenderParticulars)
	if !ok {
		return nil
	}
	borrowerAccount, borrowerShortRef, ok := e.registry.ShortRef(borrowerParticulars)
	if !ok {
		return nil
	}

	if !strings.Contains(borrowerParticulars, lenderShortRef) {
		return nil
	}
	if !strings.Contains(lenderParticulars, borrowerShortRef) {
		return nil
	}

	return &InterunitMatch{
		LenderAccount:    lenderAccount,
		BorrowerAccount:  borrowerAccount,
		LenderShortRef:   lenderShortRef,
		BorrowerShortRef: borrowerShortRef,
	}
}
