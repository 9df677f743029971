// Package profile builds the canonical FinancialProfile for an analysis
// request from extractor output, falling back to pattern extraction from
// the raw document text for fields the extractor missed.
package profile

import (
	"go.uber.org/zap"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// Well-known extractor field keys. The document extractor is a best-effort
// collaborator; any of these may be absent.
const (
	FieldMonthlyIncome   = "monthly_income"
	FieldMonthlyDebt     = "monthly_debt"
	FieldLoanAmount      = "loan_amount"
	FieldEmploymentYears = "employment_years"
	FieldPropertyValue   = "property_value"
	FieldSavings         = "savings"
)

// Normalize builds a FinancialProfile from extractor key/value pairs plus
// raw text. Explicit fields win; zero or missing fields are backfilled from
// text patterns. Negative values are treated as unextractable.
func Normalize(fields map[string]float64, rawText string) model.FinancialProfile {
	extracted := ExtractFinancials(rawText)

	p := model.FinancialProfile{
		MonthlyIncome:   pick(fields, FieldMonthlyIncome, extracted.MonthlyIncome),
		MonthlyDebt:     pick(fields, FieldMonthlyDebt, extracted.MonthlyDebt),
		LoanAmount:      pick(fields, FieldLoanAmount, extracted.LoanAmount),
		EmploymentYears: pick(fields, FieldEmploymentYears, extracted.EmploymentYears),
		PropertyValue:   pick(fields, FieldPropertyValue, extracted.PropertyValue),
		Savings:         pick(fields, FieldSavings, extracted.Savings),
	}

	if p.DataQuality() == model.DataQualityInsufficient {
		zap.L().Warn("profile: critical fields unextractable",
			zap.Float64("monthly_income", p.MonthlyIncome),
			zap.Float64("loan_amount", p.LoanAmount),
		)
	}

	return p
}

func pick(fields map[string]float64, key string, fallback float64) float64 {
	if v, ok := fields[key]; ok && v > 0 {
		return v
	}
	if fallback > 0 {
		return fallback
	}
	return 0
}
