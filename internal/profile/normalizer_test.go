package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baddebtguard/risk-engine/internal/model"
)

const sampleStatement = `LOAN APPLICATION SUMMARY
Monthly salary RM 8,500 credited to Maybank account
Employment with Petronas for 6 years
Loan amount RM 450,000 requested
Property value RM 600,000 per valuation report
Savings RM 30,000 held across accounts
Car loan RM 1,200 per month
Monthly instalment RM 800 on credit card balance`

func TestExtractFinancials(t *testing.T) {
	p := ExtractFinancials(sampleStatement)

	assert.Equal(t, 8500.0, p.MonthlyIncome)
	assert.Equal(t, 450000.0, p.LoanAmount)
	assert.Equal(t, 600000.0, p.PropertyValue)
	assert.Equal(t, 30000.0, p.Savings)
	assert.Equal(t, 6.0, p.EmploymentYears)
	assert.Equal(t, 2000.0, p.MonthlyDebt, "monthly commitments are summed")
}

func TestExtractFinancials_EmptyText(t *testing.T) {
	p := ExtractFinancials("")
	assert.Equal(t, model.FinancialProfile{}, p)
}

func TestExtractFinancials_PatternPriority(t *testing.T) {
	// The specific "monthly salary" form wins over the generic income
	// pattern even when the generic one appears first in the text.
	text := `Other income RM 1,000 from rental
Monthly salary RM 7,200 from employer`

	p := ExtractFinancials(text)
	assert.Equal(t, 7200.0, p.MonthlyIncome)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 8500.0, parseAmount("8,500"))
	assert.Equal(t, 1250000.0, parseAmount("1,250,000"))
	assert.Equal(t, 0.0, parseAmount("not a number"))
	assert.Equal(t, 0.0, parseAmount(""))
}

func TestNormalize_ExplicitFieldsWin(t *testing.T) {
	fields := map[string]float64{
		FieldMonthlyIncome: 9000,
		FieldLoanAmount:    500000,
	}

	p := Normalize(fields, sampleStatement)

	assert.Equal(t, 9000.0, p.MonthlyIncome)
	assert.Equal(t, 500000.0, p.LoanAmount)
	// Fields the extractor did not supply are backfilled from text.
	assert.Equal(t, 600000.0, p.PropertyValue)
	assert.Equal(t, 2000.0, p.MonthlyDebt)
}

func TestNormalize_ZeroAndNegativeFieldsFallBack(t *testing.T) {
	fields := map[string]float64{
		FieldMonthlyIncome: 0,
		FieldSavings:       -5,
	}

	p := Normalize(fields, sampleStatement)

	assert.Equal(t, 8500.0, p.MonthlyIncome)
	assert.Equal(t, 30000.0, p.Savings)
}

func TestNormalize_NothingExtractable(t *testing.T) {
	p := Normalize(nil, "no figures here")

	assert.Equal(t, model.FinancialProfile{}, p)
	assert.Equal(t, model.DataQualityInsufficient, p.DataQuality())
}
