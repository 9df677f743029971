package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisContextValidate(t *testing.T) {
	valid := AnalysisContext{
		BankingSystem: BankingIslamic,
		LoanType:      LoanTypeBusiness,
		CustomerType:  CustomerSmallBusiness,
	}
	assert.NoError(t, valid.Validate())

	badBanking := valid
	badBanking.BankingSystem = "offshore"
	err := badBanking.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid banking_system")

	badLoan := valid
	badLoan.LoanType = "yacht"
	err = badLoan.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid loan_type")

	badCustomer := valid
	badCustomer.CustomerType = "retired"
	err = badCustomer.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid customer_type")
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Islamic Banking (Shariah-compliant)", BankingIslamic.Label())
	assert.Equal(t, "Home Loan/Financing", LoanTypeHome.Label())
	assert.Equal(t, "Salaried Employee", CustomerSalaried.Label())

	// Unknown values pass through rather than panicking.
	assert.Equal(t, "yacht", LoanType("yacht").Label())
}

func TestDataQuality(t *testing.T) {
	assert.Equal(t, DataQualityInsufficient, FinancialProfile{}.DataQuality())
	assert.Equal(t, DataQualityInsufficient, FinancialProfile{MonthlyIncome: 5000}.DataQuality())
	assert.Equal(t, DataQualityInsufficient, FinancialProfile{LoanAmount: 100000}.DataQuality())
	assert.Equal(t, DataQualitySufficient, FinancialProfile{MonthlyIncome: 5000, LoanAmount: 100000}.DataQuality())
}

func TestAnnualIncome(t *testing.T) {
	assert.Equal(t, 102000.0, FinancialProfile{MonthlyIncome: 8500}.AnnualIncome())
}
