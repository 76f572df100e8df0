package matching

import (
	"math"
	"strings"
)

// salaryJaccardThreshold is the narration similarity at which a salary
// pair is accepted without an exact person+period match.
const salaryJaccardThreshold = 0.3

// Engine evaluates the matcher cascade over a pool of unreconciled
// records. It holds no per-pass state; FindMatches is reentrant and safe
// to call from tests with any registry.
type Engine struct {
	registry *BankRegistry
}

// NewEngine builds an engine around the given registry. A nil registry
// selects the compiled-in default table.
func NewEngine(registry *BankRegistry) *Engine {
	if registry == nil {
		registry = DefaultBankRegistry()
	}
	return &Engine{registry: registry}
}

// lenderEvidence caches the per-lender extractions so the inner borrower
// loop does not re-run them.
type lenderEvidence struct {
	po         string
	lc         string
	loanID     string
	salary     *SalaryDetails
	settlement *SettlementDetails
}

// FindMatches partitions records into lender (debit) and borrower (credit)
// pools and, for every amount-equal unconsumed pair, evaluates the
// matchers in fixed priority order: PO, FINAL_SETTLEMENT, SALARY, LC,
// INTERUNIT_LOAN, phrase-anchored LOAN_ID, generic LOAN_ID, the
// FINAL_SETTLEMENT safety net, MANUAL_VERIFICATION, COMMON_TEXT. The first
// success consumes both legs; within one lender's loop the first
// compatible borrower in input order wins. Consumption state is local to
// the call.
func (e *Engine) FindMatches(records []Record) []Match {
	if len(records) == 0 {
		return nil
	}

	var lenders, borrowers []Record
	for _, r := range records {
		switch {
		case r.Debit > 0:
			lenders = append(lenders, r)
		case r.Credit > 0:
			borrowers = append(borrowers, r)
		}
	}

	var matches []Match
	matchedLenders := make(map[string]bool)
	matchedBorrowers := make(map[string]bool)

	for _, lender := range lenders {
		if matchedLenders[lender.UID] {
			continue
		}
		evidence := lenderEvidence{
			po:         ExtractPO(lender.Particulars),
			lc:         ExtractLC(lender.Particulars),
			loanID:     ExtractLoanID(lender.Particulars),
			salary:     ExtractSalaryDetails(lender.Particulars),
			settlement: ExtractFinalSettlementDetails(lender.Particulars),
		}
		for _, borrower := range borrowers {
			if matchedBorrowers[borrower.UID] {
				continue
			}
			if lender.Debit != borrower.Credit {
				continue
			}
			match, ok := e.matchPair(lender, borrower, evidence)
			if !ok {
				continue
			}
			matches = append(matches, match)
			matchedLenders[lender.UID] = true
			matchedBorrowers[borrower.UID] = true
			break
		}
	}

	return matches
}

func (e *Engine) matchPair(lender, borrower Record, evidence lenderEvidence) (Match, bool) {
	result := func(t MatchType, audit Audit) (Match, bool) {
		return Match{
			LenderUID:   lender.UID,
			BorrowerUID: borrower.UID,
			Amount:      lender.Debit,
			Type:        t,
			Method:      t.Method(),
			Audit:       audit,
		}, true
	}

	// PO reference.
	if evidence.po != "" {
		if borrowerPO := ExtractPO(borrower.Particulars); borrowerPO != "" && borrowerPO == evidence.po {
			return result(MatchTypePO, POAudit{PO: evidence.po})
		}
	}

	// Final settlement: both sides resolve to the same person.
	borrowerSettlement := ExtractFinalSettlementDetails(borrower.Particulars)
	if evidence.settlement != nil && borrowerSettlement != nil &&
		evidence.settlement.PersonName == borrowerSettlement.PersonName {
		return result(MatchTypeFinalSettlement, SettlementAudit{
			PersonName:     evidence.settlement.PersonName,
			PersonID:       evidence.settlement.PersonID,
			LenderPerson:   evidence.settlement.PersonCombined,
			BorrowerPerson: borrowerSettlement.PersonCombined,
		})
	}

	// Salary: exact person+period, or narration similarity at threshold.
	borrowerSalary := ExtractSalaryDetails(borrower.Particulars)
	if evidence.salary != nil && borrowerSalary != nil {
		jaccard := JaccardSimilarity(lender.Particulars, borrower.Particulars)
		exact := evidence.salary.PersonName == borrowerSalary.PersonName &&
			evidence.salary.Period == borrowerSalary.Period
		if exact || jaccard >= salaryJaccardThreshold {
			method := "jaccard"
			if exact {
				method = "exact"
			}
			return result(MatchTypeSalary, SalaryAudit{
				Person:           evidence.salary.PersonLabel(),
				Period:           evidence.salary.Period,
				LenderKeywords:   evidence.salary.MatchedKeywords,
				BorrowerKeywords: borrowerSalary.MatchedKeywords,
				JaccardScore:     round3(jaccard),
				Method:           method,
			})
		}
	}

	// LC reference, compared after L/C -> LC normalization.
	if evidence.lc != "" {
		if borrowerLC := ExtractLC(borrower.Particulars); borrowerLC != "" &&
			NormalizeLC(evidence.lc) == NormalizeLC(borrowerLC) {
			return result(MatchTypeLC, LCAudit{
				LC:         evidence.lc,
				Normalized: NormalizeLC(evidence.lc),
			})
		}
	}

	// Interunit loan: bidirectional short-reference validation. Matches
	// here are auto-accepted downstream on the strength of the two-way
	// evidence.
	if interunit := e.MatchInterunitLoans(lender.Particulars, borrower.Particulars); interunit != nil {
		return result(MatchTypeInterunitLoan, InterunitAudit{
			LenderAccount:            interunit.LenderAccount,
			BorrowerAccount:          interunit.BorrowerAccount,
			LenderShortRef:           interunit.LenderShortRef,
			BorrowerShortRef:         interunit.BorrowerShortRef,
			CrossRefLenderInBorrower: true,
			CrossRefBorrowerInLender: true,
		})
	}

	// Loan id anchored after the Time Loan phrase on both sides. Takes
	// priority over the generic token rule to avoid digit collisions.
	if HasTimeLoanPhrase(lender.Particulars) && HasTimeLoanPhrase(borrower.Particulars) {
		lenderID := ExtractLoanIDAfterTimeLoanPhrase(lender.Particulars)
		borrowerID := ExtractLoanIDAfterTimeLoanPhrase(borrower.Particulars)
		if lenderID != "" && lenderID == borrowerID {
			return result(MatchTypeLoanID, LoanAudit{LoanID: lenderID, PhraseAnchored: true})
		}
	}

	// Generic loan id token equality.
	if evidence.loanID != "" {
		if borrowerLoanID := ExtractLoanID(borrower.Particulars); borrowerLoanID != "" &&
			borrowerLoanID == evidence.loanID {
			return result(MatchTypeLoanID, LoanAudit{LoanID: evidence.loanID})
		}
	}

	// Final settlement safety net: lender side alone resolves a person.
	if evidence.settlement != nil {
		return result(MatchTypeFinalSettlement, SettlementAudit{
			PersonName:   evidence.settlement.PersonName,
			PersonID:     evidence.settlement.PersonID,
			LenderPerson: evidence.settlement.PersonCombined,
		})
	}

	// Manual verification: the same operator keyed both legs. Never
	// auto-confirmed downstream.
	if lender.EnteredBy != "" && lender.EnteredBy == borrower.EnteredBy {
		return result(MatchTypeManualVerification, ManualAudit{
			EnteredBy:            lender.EnteredBy,
			RequiresVerification: true,
		})
	}

	// Common text fallback: long structured boilerplate shared verbatim.
	if phrases := ExtractCommonText(lender.Particulars, borrower.Particulars); len(phrases) > 0 {
		return result(MatchTypeCommonText, CommonTextAudit{
			CommonText:   strings.Join(phrases, " | "),
			Phrases:      phrases,
			JaccardScore: round3(JaccardSimilarity(lender.Particulars, borrower.Particulars)),
		})
	}

	return Match{}, false
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
