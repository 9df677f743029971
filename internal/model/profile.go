package model

// DataQuality flags whether the critical profile fields were extractable.
type DataQuality string

const (
	DataQualitySufficient   DataQuality = "SUFFICIENT"
	DataQualityInsufficient DataQuality = "INSUFFICIENT"
)

// FinancialProfile is the canonical numeric profile built from extracted
// document fields. All amounts are in RM. Fields default to 0 when the
// extractor could not produce them; the profile is immutable once built.
type FinancialProfile struct {
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyDebt     float64 `json:"monthly_debt"`
	LoanAmount      float64 `json:"loan_amount"`
	EmploymentYears float64 `json:"employment_years"`
	PropertyValue   float64 `json:"property_value,omitempty"`
	Savings         float64 `json:"savings,omitempty"`
}

// DataQuality reports INSUFFICIENT when income or loan amount is missing.
// A model conditioned on zeroed critical features produces spuriously
// confident output, so downstream consumers short-circuit on this flag.
func (p FinancialProfile) DataQuality() DataQuality {
	if p.MonthlyIncome == 0 || p.LoanAmount == 0 {
		return DataQualityInsufficient
	}
	return DataQualitySufficient
}

// AnnualIncome returns the annualized income the statistical model was
// trained on.
func (p FinancialProfile) AnnualIncome() float64 {
	return p.MonthlyIncome * 12
}
