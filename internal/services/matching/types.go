// Package matching implements the ledger reconciliation engine: reference
// extractors, similarity utilities, domain matchers and the orchestrator
// that pairs lender (debit) legs with borrower (credit) legs.
package matching

import "encoding/json"

// Record is one unreconciled ledger row as fed into the engine.
// A record is a lender leg iff Debit > 0 and a borrower leg iff Credit > 0;
// never both.
type Record struct {
	UID         string
	Particulars string
	Debit       float64
	Credit      float64
	EnteredBy   string
	Company     string
}

// MatchType is the closed set of match classifications.
type MatchType string

const (
	MatchTypePO                 MatchType = "PO"
	MatchTypeLC                 MatchType = "LC"
	MatchTypeLoanID             MatchType = "LOAN_ID"
	MatchTypeSalary             MatchType = "SALARY"
	MatchTypeFinalSettlement    MatchType = "FINAL_SETTLEMENT"
	MatchTypeInterunitLoan      MatchType = "INTERUNIT_LOAN"
	MatchTypeCommonText         MatchType = "COMMON_TEXT"
	MatchTypeManualVerification MatchType = "MANUAL_VERIFICATION"
)

// MatchMethod classifies how a pair was matched, independent of the
// specific match type. Downstream filtering switches on this value.
type MatchMethod string

const (
	MethodReference      MatchMethod = "reference_match"
	MethodCrossReference MatchMethod = "cross_reference"
	MethodSimilarity     MatchMethod = "similarity_match"
	MethodFallback       MatchMethod = "fallback_match"
)

// Method returns the match method implied by a match type.
func (t MatchType) Method() MatchMethod {
	switch t {
	case MatchTypePO, MatchTypeLC, MatchTypeLoanID, MatchTypeFinalSettlement:
		return MethodReference
	case MatchTypeInterunitLoan:
		return MethodCrossReference
	case MatchTypeSalary, MatchTypeCommonText:
		return MethodSimilarity
	case MatchTypeManualVerification:
		return MethodFallback
	}
	return ""
}

// Audit is the variant-specific evidence payload attached to a match.
// Every implementation is re-derivable from the two narrations alone.
type Audit interface {
	// Keywords returns the legacy display string stored alongside the
	// structured audit document.
	Keywords() string
}

// POAudit records the shared purchase order token.
type POAudit struct {
	PO string `json:"po"`
}

func (a POAudit) Keywords() string { return a.PO }

// LCAudit records the letter of credit token as found on the lender side
// plus the normalized form both sides reduce to.
type LCAudit struct {
	LC         string `json:"lc"`
	Normalized string `json:"lc_normalized"`
}

func (a LCAudit) Keywords() string { return a.LC }

// LoanAudit records the matched loan identifier. PhraseAnchored reports
// whether the id was taken after the Time Loan repayment phrase on both
// sides, which is the higher-precision rule.
type LoanAudit struct {
	LoanID         string `json:"loan_id"`
	PhraseAnchored bool   `json:"phrase_anchored"`
}

func (a LoanAudit) Keywords() string { return a.LoanID }

// SalaryAudit captures the evidence for a salary pairing. Method is
// "exact" when person and period matched literally, "jaccard" when the
// similarity threshold carried the decision.
type SalaryAudit struct {
	Person           string   `json:"person"`
	Period           string   `json:"period"`
	LenderKeywords   []string `json:"lender_keywords"`
	BorrowerKeywords []string `json:"borrower_keywords"`
	JaccardScore     float64  `json:"jaccard_score"`
	Method           string   `json:"method"`
}

func (a SalaryAudit) Keywords() string {
	return "person:" + a.Person + ",period:" + a.Period
}

// SettlementAudit records the person resolved on each side of a final
// settlement pairing.
type SettlementAudit struct {
	PersonName     string `json:"person_name"`
	PersonID       string `json:"person_id"`
	LenderPerson   string `json:"lender_person"`
	BorrowerPerson string `json:"borrower_person"`
}

func (a SettlementAudit) Keywords() string { return a.LenderPerson }

// InterunitAudit records the dictionary hits and both cross-reference
// checks for an interunit loan match. Both booleans are true by
// construction; they are persisted so the audit trail is self-contained.
type InterunitAudit struct {
	LenderAccount            string `json:"lender_account"`
	BorrowerAccount          string `json:"borrower_account"`
	LenderShortRef           string `json:"lender_short_ref"`
	BorrowerShortRef         string `json:"borrower_short_ref"`
	CrossRefLenderInBorrower bool   `json:"cross_ref_lender_in_borrower"`
	CrossRefBorrowerInLender bool   `json:"cross_ref_borrower_in_lender"`
}

func (a InterunitAudit) Keywords() string {
	return a.LenderShortRef + " <-> " + a.BorrowerShortRef
}

// CommonTextAudit records the shared long phrases behind a fallback text
// match along with the overall narration similarity.
type CommonTextAudit struct {
	CommonText   string   `json:"common_text"`
	Phrases      []string `json:"phrases"`
	JaccardScore float64  `json:"jaccard_score"`
}

func (a CommonTextAudit) Keywords() string { return a.CommonText }

// ManualAudit marks a same-operator fallback match that must be reviewed
// by a human before it is treated as reconciled.
type ManualAudit struct {
	EnteredBy            string `json:"entered_by"`
	RequiresVerification bool   `json:"requires_verification"`
}

func (a ManualAudit) Keywords() string { return "entered_by:" + a.EnteredBy }

// Match is the output of one successful pairing. Each UID appears in at
// most one Match per orchestration pass.
type Match struct {
	LenderUID   string
	BorrowerUID string
	Amount      float64
	Type        MatchType
	Method      MatchMethod
	Audit       Audit
}

// RequiresVerification reports whether the match must not be
// auto-confirmed downstream.
func (m Match) RequiresVerification() bool {
	return m.Type == MatchTypeManualVerification
}

// AuditDocument serializes the audit payload into the persisted JSON
// shape: the variant fields plus the match_type/match_method envelope.
func (m Match) AuditDocument() ([]byte, error) {
	doc := map[string]any{
		"match_type":   m.Type,
		"match_method": m.Method,
	}
	if m.Audit != nil {
		raw, err := json.Marshal(m.Audit)
		if err != nil {
			return nil, err
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		for k, v := range fields {
			doc[k] = v
		}
		doc["keywords"] = m.Audit.Keywords()
	}
	return json.Marshal(doc)
}
