package fusion

import (
	"github.com/shopspring/decimal"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// Premium pricing tables. All values are annual percentage points. The
// breakdown is a pricing artifact derived from the deterministic ratio
// assessment, not from the fused probability, so identical inputs always
// price identically.
var baseRates = map[model.LoanType]decimal.Decimal{
	model.LoanTypeHome:     decimal.NewFromFloat(1.95),
	model.LoanTypeCar:      decimal.NewFromFloat(2.40),
	model.LoanTypePersonal: decimal.NewFromFloat(3.50),
	model.LoanTypeBusiness: decimal.NewFromFloat(2.85),
}

var creditRiskPremiums = map[model.CreditTier]decimal.Decimal{
	model.TierExcellent:    decimal.NewFromFloat(0.15),
	model.TierGood:         decimal.NewFromFloat(0.45),
	model.TierFair:         decimal.NewFromFloat(0.85),
	model.TierBelowAverage: decimal.NewFromFloat(1.40),
	model.TierPoor:         decimal.NewFromFloat(2.10),
}

var (
	ltvAdjustmentPerPoint = decimal.NewFromFloat(0.01)
	ltvAdjustmentFloor    = decimal.NewFromInt(80)

	employmentDiscount    = decimal.NewFromFloat(-0.15)
	incomeDiscount        = decimal.NewFromFloat(-0.10)
	creditHistoryDiscount = decimal.NewFromFloat(-0.20)

	minEmploymentYears = 5.0
)

// computePremium builds the six-component premium breakdown. Components are
// rounded to 2dp individually and the total is their exact sum, so the
// breakdown always reconciles.
func computePremium(profile model.FinancialProfile, ratios model.CreditRatios, rctx model.AnalysisContext) model.PremiumBreakdown {
	base, ok := baseRates[rctx.LoanType]
	if !ok {
		base = baseRates[model.LoanTypePersonal]
	}

	riskPremium, ok := creditRiskPremiums[ratios.EstimatedTier]
	if !ok {
		riskPremium = creditRiskPremiums[model.TierFair]
	}

	ltvAdj := decimal.Zero
	if ratios.LTVPercent != nil {
		if over := decimal.NewFromFloat(*ratios.LTVPercent).Sub(ltvAdjustmentFloor); over.IsPositive() {
			ltvAdj = over.Mul(ltvAdjustmentPerPoint)
		}
	}

	empDisc := decimal.Zero
	if profile.EmploymentYears >= minEmploymentYears {
		empDisc = employmentDiscount
	}

	incDisc := decimal.Zero
	if profile.Savings > 0 {
		incDisc = incomeDiscount
	}

	histDisc := decimal.Zero
	if ratios.EstimatedTier == model.TierExcellent || ratios.EstimatedTier == model.TierGood {
		histDisc = creditHistoryDiscount
	}

	base = base.Round(2)
	riskPremium = riskPremium.Round(2)
	ltvAdj = ltvAdj.Round(2)
	empDisc = empDisc.Round(2)
	incDisc = incDisc.Round(2)
	histDisc = histDisc.Round(2)

	total := base.Add(riskPremium).Add(ltvAdj).Add(empDisc).Add(incDisc).Add(histDisc)

	return model.PremiumBreakdown{
		BaseRate:              base.InexactFloat64(),
		CreditRiskPremium:     riskPremium.InexactFloat64(),
		LTVAdjustment:         ltvAdj.InexactFloat64(),
		EmploymentDiscount:    empDisc.InexactFloat64(),
		IncomeDiscount:        incDisc.InexactFloat64(),
		CreditHistoryDiscount: histDisc.InexactFloat64(),
		Total:                 total.InexactFloat64(),
	}
}
