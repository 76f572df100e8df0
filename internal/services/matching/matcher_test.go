package matching

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lender(uid, particulars string, amount float64) Record {
	return Record{UID: uid, Particulars: particulars, Debit: amount, EnteredBy: "ops-l"}
}

func borrower(uid, particulars string, amount float64) Record {
	return Record{UID: uid, Particulars: particulars, Credit: amount, EnteredBy: "ops-b"}
}

func requireSingleMatch(t *testing.T, matches []Match, matchType MatchType) Match {
	t.Helper()
	require.Len(t, matches, 1)
	assert.Equal(t, matchType, matches[0].Type)
	assert.Equal(t, matchType.Method(), matches[0].Method)
	return matches[0]
}

func TestFindMatchesPOReference(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", "Vendor payment against GTEX/PO/2024/10/29964", 50000),
		borrower("B1", "Bill received ref GTEX/PO/2024/10/29964", 50000),
	})

	m := requireSingleMatch(t, matches, MatchTypePO)
	assert.Equal(t, "L1", m.LenderUID)
	assert.Equal(t, "B1", m.BorrowerUID)
	assert.Equal(t, 50000.0, m.Amount)
	assert.Equal(t, POAudit{PO: "GTEX/PO/2024/10/29964"}, m.Audit)
	assert.False(t, m.RequiresVerification())
}

func TestFindMatchesAmountMustBeEqual(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", "Vendor payment against GTEX/PO/2024/10/29964", 50000),
		borrower("B1", "Bill received ref GTEX/PO/2024/10/29964", 49999.99),
	})
	assert.Empty(t, matches)
}

func TestFindMatchesPOWinsOverLC(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", "Paid ABC/PO/12/34 margin under L/C-55/66", 1000),
		borrower("B1", "Receipt ABC/PO/12/34 against LC-55/66", 1000),
	})

	requireSingleMatch(t, matches, MatchTypePO)
}

func TestFindMatchesLCNormalized(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", "Margin retained against L/C-123/456", 7500),
		borrower("B1", "Acceptance due against LC-123/456", 7500),
	})

	m := requireSingleMatch(t, matches, MatchTypeLC)
	audit, ok := m.Audit.(LCAudit)
	require.True(t, ok)
	assert.Equal(t, "L/C-123/456", audit.LC)
	assert.Equal(t, "LC-123/456", audit.Normalized)
}

func TestFindMatchesSalaryExact(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", "Salary of John Doe for January 2024", 85000),
		borrower("B1", "John Doe Salary for January 2024", 85000),
	})

	m := requireSingleMatch(t, matches, MatchTypeSalary)
	audit, ok := m.Audit.(SalaryAudit)
	require.True(t, ok)
	assert.Equal(t, "exact", audit.Method)
	assert.Equal(t, "john doe", audit.Person)
	assert.Equal(t, "January 2024", audit.Period)
}

func TestFindMatchesSalaryJaccardThreshold(t *testing.T) {
	engine := NewEngine(nil)

	// 3 shared tokens over a union of 10: similarity exactly 0.3.
	matches := engine.FindMatches([]Record{
		lender("L1", "Salary of Alice for January 2024 alphaone alphatwo alphathree", 60000),
		borrower("B1", "Salary of Bob for January 2024 betaone betatwo", 60000),
	})
	m := requireSingleMatch(t, matches, MatchTypeSalary)
	audit, ok := m.Audit.(SalaryAudit)
	require.True(t, ok)
	assert.Equal(t, "jaccard", audit.Method)
	assert.InDelta(t, 0.3, audit.JaccardScore, 1e-9)

	// One extra lender token drops the similarity below the threshold.
	matches = engine.FindMatches([]Record{
		lender("L1", "Salary of Alice for January 2024 alphaone alphatwo alphathree alphafour", 60000),
		borrower("B1", "Salary of Bob for January 2024 betaone betatwo", 60000),
	})
	assert.Empty(t, matches)
}

func TestFindMatchesInterunitLoan(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", interunitLenderNarration, 100000),
		borrower("B1", interunitBorrowerNarration, 100000),
	})

	m := requireSingleMatch(t, matches, MatchTypeInterunitLoan)
	audit, ok := m.Audit.(InterunitAudit)
	require.True(t, ok)
	assert.Equal(t, "MTBL#3858", audit.LenderShortRef)
	assert.Equal(t, "MTBL#4355", audit.BorrowerShortRef)
	assert.True(t, audit.CrossRefLenderInBorrower)
	assert.True(t, audit.CrossRefBorrowerInLender)
}

func TestFindMatchesPhraseAnchoredLoanID(t *testing.T) {
	engine := NewEngine(nil)

	// The generic loan tokens disagree (ID-999 vs ID-888); only the ids
	// anchored after the Time Loan phrase line up.
	matches := engine.FindMatches([]Record{
		lender("L1", "ID-999 adj, Amount being paid as Principal & Interest repayment of Time Loan LD-2435445106", 250000),
		borrower("B1", "ID-888 ref, Amount being paid as Principal & Interest of Time Loan against LD 2435445106", 250000),
	})

	m := requireSingleMatch(t, matches, MatchTypeLoanID)
	audit, ok := m.Audit.(LoanAudit)
	require.True(t, ok)
	assert.Equal(t, "LD-2435445106", audit.LoanID)
	assert.True(t, audit.PhraseAnchored)
}

func TestFindMatchesGenericLoanID(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", "Disbursed against LD-778899", 30000),
		borrower("B1", "Receipt noted ref LD-778899", 30000),
	})

	m := requireSingleMatch(t, matches, MatchTypeLoanID)
	audit, ok := m.Audit.(LoanAudit)
	require.True(t, ok)
	assert.Equal(t, "LD-778899", audit.LoanID)
	assert.False(t, audit.PhraseAnchored)
}

func TestFindMatchesFinalSettlement(t *testing.T) {
	engine := NewEngine(nil)

	t.Run("both sides resolve the person", func(t *testing.T) {
		matches := engine.FindMatches([]Record{
			lender("L1", "Amount paid as Inter Unit Loan final settlement (Md. Karim-ID: 1234)", 42000),
			borrower("B1", "Payable to Md. Karim-ID: 1234 against final settlement of dues", 42000),
		})

		m := requireSingleMatch(t, matches, MatchTypeFinalSettlement)
		audit, ok := m.Audit.(SettlementAudit)
		require.True(t, ok)
		assert.Equal(t, "Md. Karim", audit.PersonName)
		assert.Equal(t, "1234", audit.PersonID)
		assert.Equal(t, "Md. Karim-ID : 1234", audit.LenderPerson)
		assert.Equal(t, "Md. Karim-ID : 1234", audit.BorrowerPerson)
	})

	t.Run("lender side safety net", func(t *testing.T) {
		matches := engine.FindMatches([]Record{
			lender("L1", "Amount paid as Inter Unit Loan to close dues (Md. Karim-ID: 1234)", 42000),
			borrower("B1", "Misc journal entry ref 7Q", 42000),
		})

		m := requireSingleMatch(t, matches, MatchTypeFinalSettlement)
		audit, ok := m.Audit.(SettlementAudit)
		require.True(t, ok)
		assert.Equal(t, "Md. Karim", audit.PersonName)
		assert.Empty(t, audit.BorrowerPerson)
	})
}

func TestFindMatchesManualVerification(t *testing.T) {
	engine := NewEngine(nil)
	records := []Record{
		{UID: "L1", Particulars: "Payment for office supplies", Debit: 1200, EnteredBy: "ops1"},
		{UID: "B1", Particulars: "Equipment purchase", Credit: 1200, EnteredBy: "ops1"},
	}

	matches := engine.FindMatches(records)
	m := requireSingleMatch(t, matches, MatchTypeManualVerification)
	assert.True(t, m.RequiresVerification())
	assert.Equal(t, ManualAudit{EnteredBy: "ops1", RequiresVerification: true}, m.Audit)
}

func TestFindMatchesNoEvidenceNoMatch(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		{UID: "L1", Particulars: "Payment for office supplies", Debit: 1200, EnteredBy: "ops1"},
		{UID: "B1", Particulars: "Equipment purchase", Credit: 1200, EnteredBy: "ops2"},
	})
	assert.Empty(t, matches)
}

func TestFindMatchesCommonTextFallback(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", "Paid against "+insuranceBoilerplate+" debit advice attached", 900000),
		borrower("B1", "Received against "+insuranceBoilerplate+" credit advice enclosed", 900000),
	})

	m := requireSingleMatch(t, matches, MatchTypeCommonText)
	audit, ok := m.Audit.(CommonTextAudit)
	require.True(t, ok)
	assert.NotEmpty(t, audit.Phrases)
	assert.Contains(t, audit.CommonText, "marine insurance certificate")
	assert.Greater(t, audit.JaccardScore, 0.0)
}

func TestFindMatchesGreedyConsumption(t *testing.T) {
	engine := NewEngine(nil)

	// Two lenders compete for one borrower; input order decides and the
	// consumed borrower is never reused.
	matches := engine.FindMatches([]Record{
		lender("L1", "Vendor payment against ABC/PO/12/34", 5000),
		lender("L2", "Duplicate payment against ABC/PO/12/34", 5000),
		borrower("B1", "Bill settled ref ABC/PO/12/34", 5000),
	})

	m := requireSingleMatch(t, matches, MatchTypePO)
	assert.Equal(t, "L1", m.LenderUID)
	assert.Equal(t, "B1", m.BorrowerUID)
}

func TestFindMatchesEachUIDAtMostOnce(t *testing.T) {
	engine := NewEngine(nil)
	matches := engine.FindMatches([]Record{
		lender("L1", "Payment against ABC/PO/12/34", 5000),
		lender("L2", "Payment against ABC/PO/12/34", 5000),
		borrower("B1", "Receipt ref ABC/PO/12/34", 5000),
		borrower("B2", "Receipt ref ABC/PO/12/34", 5000),
	})

	require.Len(t, matches, 2)
	seen := map[string]bool{}
	for _, m := range matches {
		assert.False(t, seen[m.LenderUID])
		assert.False(t, seen[m.BorrowerUID])
		seen[m.LenderUID] = true
		seen[m.BorrowerUID] = true
	}
	assert.Equal(t, "L1", matches[0].LenderUID)
	assert.Equal(t, "B1", matches[0].BorrowerUID)
	assert.Equal(t, "L2", matches[1].LenderUID)
	assert.Equal(t, "B2", matches[1].BorrowerUID)
}

func TestFindMatchesEmptyInput(t *testing.T) {
	engine := NewEngine(nil)
	assert.Nil(t, engine.FindMatches(nil))
	assert.Nil(t, engine.FindMatches([]Record{}))
}

func TestMatchAuditDocument(t *testing.T) {
	m := Match{
		LenderUID:   "L1",
		BorrowerUID: "B1",
		Amount:      5000,
		Type:        MatchTypePO,
		Method:      MatchTypePO.Method(),
		Audit:       POAudit{PO: "ABC/PO/12/34"},
	}

	raw, err := m.AuditDocument()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "PO", doc["match_type"])
	assert.Equal(t, "reference_match", doc["match_method"])
	assert.Equal(t, "ABC/PO/12/34", doc["po"])
	assert.Equal(t, "ABC/PO/12/34", doc["keywords"])
}
