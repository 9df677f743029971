package fusion

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/baddebtguard/risk-engine/internal/credit"
	"github.com/baddebtguard/risk-engine/internal/model"
)

// maxTenures are indicative maximum tenures per product, in years. Vehicle
// financing follows the 9-year BNM hire-purchase guideline.
var maxTenures = map[model.LoanType]int{
	model.LoanTypeHome:     35,
	model.LoanTypeCar:      9,
	model.LoanTypePersonal: 10,
	model.LoanTypeBusiness: 20,
}

var rmPrinter = message.NewPrinter(language.English)

// formatRM renders an amount as a grouped ringgit figure, e.g. "RM 500,000".
func formatRM(amount float64) string {
	return rmPrinter.Sprintf("RM %v", number.Decimal(amount, number.MaxFractionDigits(0)))
}

// affordabilityCap is the largest principal the applicant's DSR headroom
// supports over the product's maximum tenure, using straight-line repayment.
func affordabilityCap(profile model.FinancialProfile, tenureYears int) float64 {
	headroom := profile.MonthlyIncome*credit.MaxDSR/100 - profile.MonthlyDebt
	if headroom <= 0 {
		return 0
	}
	return headroom * 12 * float64(tenureYears)
}

// buildRecommendationDetails derives the indicative offer terms. The
// approved amount never exceeds the requested principal.
func buildRecommendationDetails(profile model.FinancialProfile, premium model.PremiumBreakdown, rctx model.AnalysisContext) model.RecommendationDetails {
	tenure, ok := maxTenures[rctx.LoanType]
	if !ok {
		tenure = 10
	}

	approved := profile.LoanAmount
	if cap := affordabilityCap(profile, tenure); cap < approved {
		approved = cap
	}

	return model.RecommendationDetails{
		ApprovedAmount: formatRM(approved),
		MaxTenure:      fmt.Sprintf("%d years", tenure),
		IndicativeRate: fmt.Sprintf("%.2f%%", premium.Total),
	}
}

// buildExecutiveSummary composes the decision-level summary from the fused
// result and the qualitative narrative.
func buildExecutiveSummary(d *model.FusedDecision, rctx model.AnalysisContext) string {
	var b strings.Builder
	if s := strings.TrimSpace(d.Qualitative.ExecutiveSummary); s != "" {
		b.WriteString(s)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "Fused assessment places the applicant at %.1f%% approval probability (%s risk) for %s.",
		d.FinalProbability, strings.ToLower(string(d.FinalRiskTier)), rctx.LoanType.Label())
	if !d.ModelAgreement {
		b.WriteString(" The statistical and qualitative assessments disagree on the risk tier; manual review is advised.")
	}
	if d.Quantitative.DataQuality == model.DataQualityInsufficient {
		b.WriteString(" Statistical confidence is reduced because critical financial fields could not be extracted.")
	}
	return b.String()
}

// buildRecommendation produces the narrative recommendation for the
// decision, reflecting the fraud veto when it applies.
func buildRecommendation(d *model.FusedDecision, rctx model.AnalysisContext) string {
	if d.Fraud.Veto {
		return fmt.Sprintf(
			"The application is not recommended for approval. Fraud screening scored %d/100, which mandates a HIGH risk classification pending manual document verification for %s %s financing.",
			d.Fraud.Score, rctx.BankingSystem, rctx.LoanType,
		)
	}
	switch d.FinalRiskTier {
	case model.RiskLow:
		return fmt.Sprintf(
			"The application is recommended for approval. The applicant presents a low risk profile and qualifies for %s %s financing at the indicative rate of %s.",
			rctx.BankingSystem, rctx.LoanType, d.RecommendationDetails.IndicativeRate,
		)
	case model.RiskMedium:
		return fmt.Sprintf(
			"The application is recommended for consideration with standard conditions. The applicant presents a medium risk profile for %s %s financing; verify income documentation before disbursement.",
			rctx.BankingSystem, rctx.LoanType,
		)
	default:
		return fmt.Sprintf(
			"The application requires enhanced review. The applicant presents a high risk profile for %s %s financing; recommend additional collateral or a reduced principal.",
			rctx.BankingSystem, rctx.LoanType,
		)
	}
}
