package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSalaryDetails(t *testing.T) {
	t.Run("person and period from salary of form", func(t *testing.T) {
		details := ExtractSalaryDetails("Salary of John Doe for January 2024")
		require.NotNil(t, details)
		assert.Equal(t, "john doe", details.PersonName)
		assert.Equal(t, "January 2024", details.Period)
		assert.Contains(t, details.MatchedKeywords, "salary")
		assert.Contains(t, details.MatchedKeywords, "january")
	})

	t.Run("person before salary keyword", func(t *testing.T) {
		details := ExtractSalaryDetails("John Doe Salary for January 2024")
		require.NotNil(t, details)
		assert.Equal(t, "john doe", details.PersonName)
		assert.Equal(t, "January 2024", details.Period)
	})

	t.Run("numeric period formats", func(t *testing.T) {
		details := ExtractSalaryDetails("Payroll disbursement 01/2024")
		require.NotNil(t, details)
		assert.Equal(t, "01/2024", details.Period)

		details = ExtractSalaryDetails("Wage,2024-01")
		require.NotNil(t, details)
		assert.Equal(t, "2024-01", details.Period)
	})

	t.Run("no primary keyword", func(t *testing.T) {
		assert.Nil(t, ExtractSalaryDetails("Office rent paid"))
		assert.Nil(t, ExtractSalaryDetails(""))
	})

	t.Run("non salary indicator rejects", func(t *testing.T) {
		assert.Nil(t, ExtractSalaryDetails("Vendor payment against salary head adjustment"))
		assert.Nil(t, ExtractSalaryDetails("Salary adjustment for time loan interest"))
	})

	t.Run("final settlement override survives indicators", func(t *testing.T) {
		details := ExtractSalaryDetails(
			"Payable to Md. Karim-ID: 1234 against final settlement incl loan repayment dues")
		require.NotNil(t, details)
		assert.True(t, details.Forced)
		assert.Equal(t, "Md. Karim", details.PersonName)
		assert.Equal(t, "1234", details.PersonID)
		assert.Equal(t, "Md. Karim-ID : 1234", details.PersonCombined)
	})

	t.Run("lender side employee reference", func(t *testing.T) {
		details := ExtractSalaryDetails(
			"Amount paid as Inter Unit Loan final settlement (Md. Karim-ID: 1234)")
		require.NotNil(t, details)
		assert.True(t, details.Forced)
		assert.Equal(t, "Md. Karim", details.PersonName)
		assert.Equal(t, "1234", details.PersonID)
	})
}

func TestSalaryPersonLabel(t *testing.T) {
	var nilDetails *SalaryDetails
	assert.Equal(t, "", nilDetails.PersonLabel())

	assert.Equal(t, "john doe", (&SalaryDetails{PersonName: "john doe"}).PersonLabel())
	assert.Equal(t, "Md. Karim-ID : 1234", (&SalaryDetails{
		PersonName:     "Md. Karim",
		PersonID:       "1234",
		PersonCombined: "Md. Karim-ID : 1234",
	}).PersonLabel())
}

func TestExtractFinalSettlementDetails(t *testing.T) {
	t.Run("lender shape", func(t *testing.T) {
		details := ExtractFinalSettlementDetails(
			"Amount paid as Inter Unit Loan to close dues (Md. Karim-ID: 1234)")
		require.NotNil(t, details)
		assert.Equal(t, "Md. Karim", details.PersonName)
		assert.Equal(t, "1234", details.PersonID)
		assert.Equal(t, "Md. Karim-ID : 1234", details.PersonCombined)
	})

	t.Run("borrower shape", func(t *testing.T) {
		details := ExtractFinalSettlementDetails(
			"Payable to Md. Karim-ID: 1234 towards final settlement of dues")
		require.NotNil(t, details)
		assert.Equal(t, "Md. Karim", details.PersonName)
		assert.Equal(t, "1234", details.PersonID)
	})

	t.Run("anchor phrases required", func(t *testing.T) {
		assert.Nil(t, ExtractFinalSettlementDetails("(Md. Karim-ID: 1234) salary advance"))
		assert.Nil(t, ExtractFinalSettlementDetails("Payable to Md. Karim-ID: 1234 for rent"))
		assert.Nil(t, ExtractFinalSettlementDetails(""))
	})
}
