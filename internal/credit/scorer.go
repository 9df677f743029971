// Package credit computes the deterministic affordability assessment:
// debt-service ratio, loan-to-value, the estimated credit tier, and a
// synthetic 300-850 credit score with a transparent breakdown.
//
// Applicant credit history is not observable from uploaded documents, so
// the tier is proxied from affordability ratios instead of left undefined.
package credit

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// Bank Negara Malaysia affordability bounds.
const (
	MaxDSR     = 70.0
	OptimalDSR = 40.0

	minCreditScore = 300
	maxCreditScore = 850
)

// tierThresholds maps DSR ceilings to estimated credit tiers, in order.
var tierThresholds = []struct {
	maxDSR float64
	tier   model.CreditTier
}{
	{20, model.TierExcellent},
	{35, model.TierGood},
	{50, model.TierFair},
	{70, model.TierBelowAverage},
}

// DSR returns the debt-service ratio as a percentage, 0 when income is
// unknown.
func DSR(monthlyIncome, monthlyDebt float64) float64 {
	if monthlyIncome == 0 {
		return 0
	}
	return monthlyDebt / monthlyIncome * 100
}

// LTV returns the loan-to-value percentage, or nil when no property value
// is available.
func LTV(loanAmount, propertyValue float64) *float64 {
	if propertyValue <= 0 {
		return nil
	}
	v := loanAmount / propertyValue * 100
	return &v
}

// TierFromDSR maps a DSR to the estimated credit tier using the fixed
// threshold table. lowConfidence is true when DSR could not be computed
// and the tier defaulted to FAIR.
func TierFromDSR(dsr float64, incomeKnown bool) (tier model.CreditTier, lowConfidence bool) {
	if !incomeKnown {
		return model.TierFair, true
	}
	for _, t := range tierThresholds {
		if dsr <= t.maxDSR {
			return t.tier, false
		}
	}
	return model.TierPoor, false
}

// Score computes the full CreditRatios assessment for a profile.
func Score(p model.FinancialProfile) model.CreditRatios {
	dsr := DSR(p.MonthlyIncome, p.MonthlyDebt)
	ltv := LTV(p.LoanAmount, p.PropertyValue)
	tier, lowConfidence := TierFromDSR(dsr, p.MonthlyIncome > 0)

	if lowConfidence {
		zap.L().Debug("credit: income unknown, tier defaulted",
			zap.String("tier", string(tier)),
		)
	}

	score, breakdown := syntheticScore(p, dsr, ltv)

	return model.CreditRatios{
		DSRPercent:      dsr,
		LTVPercent:      ltv,
		EstimatedTier:   tier,
		LowConfidence:   lowConfidence,
		CreditScore:     score,
		ScoreBreakdown:  breakdown,
		Recommendations: recommendations(p, dsr, ltv, score),
	}
}

// syntheticScore builds a 300-850 score from five weighted components.
func syntheticScore(p model.FinancialProfile, dsr float64, ltv *float64) (int, map[string]model.ScoreComponent) {
	score := 500
	breakdown := make(map[string]model.ScoreComponent, 5)

	// Affordability carries the largest weight.
	var dsrPts int
	var dsrImpact, dsrValue string
	switch {
	case dsr == 0:
		dsrPts, dsrImpact, dsrValue = 0, "Neutral", "Unknown"
	case dsr <= OptimalDSR:
		dsrPts, dsrImpact, dsrValue = 120, "Excellent", fmt.Sprintf("%.1f%%", dsr)
	case dsr <= 50:
		dsrPts, dsrImpact, dsrValue = 80, "Good", fmt.Sprintf("%.1f%%", dsr)
	case dsr <= MaxDSR:
		dsrPts, dsrImpact, dsrValue = 40, "Fair", fmt.Sprintf("%.1f%%", dsr)
	default:
		dsrPts, dsrImpact, dsrValue = -50, "Poor", fmt.Sprintf("%.1f%%", dsr)
	}
	score += dsrPts
	breakdown["dsr"] = model.ScoreComponent{Value: dsrValue, Points: dsrPts, Impact: dsrImpact}

	var empPts int
	var empImpact string
	years := p.EmploymentYears
	switch {
	case years >= 5:
		empPts, empImpact = 90, "Excellent"
	case years >= 3:
		empPts, empImpact = 60, "Good"
	case years >= 1:
		empPts, empImpact = 30, "Fair"
	default:
		empPts, empImpact = 0, "Limited"
	}
	score += empPts
	breakdown["employment"] = model.ScoreComponent{Value: fmt.Sprintf("%.0f years", years), Points: empPts, Impact: empImpact}

	var incPts int
	var incImpact string
	switch income := p.MonthlyIncome; {
	case income >= 10000:
		incPts, incImpact = 55, "High"
	case income >= 5000:
		incPts, incImpact = 35, "Good"
	case income >= 3000:
		incPts, incImpact = 20, "Moderate"
	default:
		incPts, incImpact = 0, "Low"
	}
	score += incPts
	breakdown["income"] = model.ScoreComponent{Value: fmt.Sprintf("RM %.0f", p.MonthlyIncome), Points: incPts, Impact: incImpact}

	var ltvPts int
	var ltvImpact, ltvValue string
	switch {
	case ltv == nil:
		ltvPts, ltvImpact, ltvValue = 0, "Neutral", "Unknown"
	case *ltv <= 70:
		ltvPts, ltvImpact, ltvValue = 55, "Excellent", fmt.Sprintf("%.1f%%", *ltv)
	case *ltv <= 80:
		ltvPts, ltvImpact, ltvValue = 35, "Good", fmt.Sprintf("%.1f%%", *ltv)
	case *ltv <= 90:
		ltvPts, ltvImpact, ltvValue = 15, "Fair", fmt.Sprintf("%.1f%%", *ltv)
	default:
		ltvPts, ltvImpact, ltvValue = -20, "High Risk", fmt.Sprintf("%.1f%%", *ltv)
	}
	score += ltvPts
	breakdown["ltv"] = model.ScoreComponent{Value: ltvValue, Points: ltvPts, Impact: ltvImpact}

	var savPts int
	var savImpact, savValue string
	if p.MonthlyIncome > 0 {
		months := p.Savings / p.MonthlyIncome
		savValue = fmt.Sprintf("%.1f months", months)
		switch {
		case months >= 6:
			savPts, savImpact = 35, "Strong"
		case months >= 3:
			savPts, savImpact = 20, "Good"
		case months >= 1:
			savPts, savImpact = 10, "Fair"
		default:
			savPts, savImpact = 0, "Limited"
		}
	} else {
		savPts, savImpact, savValue = 0, "Unknown", "Unknown"
	}
	score += savPts
	breakdown["savings"] = model.ScoreComponent{Value: savValue, Points: savPts, Impact: savImpact}

	if score < minCreditScore {
		score = minCreditScore
	}
	if score > maxCreditScore {
		score = maxCreditScore
	}
	return score, breakdown
}

func recommendations(p model.FinancialProfile, dsr float64, ltv *float64, score int) []string {
	var recs []string

	if dsr > MaxDSR {
		recs = append(recs, "DSR exceeds Bank Negara guidelines. Consider debt consolidation or higher income verification.")
	}
	if ltv != nil && *ltv > 90 {
		recs = append(recs, "High LTV ratio. Recommend larger down payment to reduce loan amount.")
	}
	if p.EmploymentYears < 2 {
		recs = append(recs, "Limited employment history. May require co-borrower or guarantor.")
	}
	if p.Savings < p.MonthlyIncome*3 {
		recs = append(recs, "Limited savings buffer. Recommend building emergency fund before approval.")
	}
	if score < 550 {
		recs = append(recs, "Below optimal credit score. Consider credit improvement measures before reapplication.")
	}

	if len(recs) == 0 {
		recs = append(recs, "All metrics within acceptable ranges. Applicant qualifies for standard terms.")
	}
	return recs
}
