package model

// CreditTier is the synthetic credit tier proxied from affordability
// ratios. Applicant credit history is not observable from uploaded
// documents, so the tier is estimated rather than reported.
type CreditTier string

const (
	TierExcellent    CreditTier = "EXCELLENT"
	TierGood         CreditTier = "GOOD"
	TierFair         CreditTier = "FAIR"
	TierBelowAverage CreditTier = "BELOW_AVERAGE"
	TierPoor         CreditTier = "POOR"
)

// AllCreditTiers returns all defined credit tiers, best first.
func AllCreditTiers() []CreditTier {
	return []CreditTier{TierExcellent, TierGood, TierFair, TierBelowAverage, TierPoor}
}

// CreditRatios holds the deterministic affordability assessment.
type CreditRatios struct {
	DSRPercent float64  `json:"dsr_percent"`
	LTVPercent *float64 `json:"ltv_percent,omitempty"` // nil when no property value

	EstimatedTier CreditTier `json:"estimated_credit_tier"`

	// LowConfidence marks a tier that defaulted to FAIR because DSR could
	// not be computed (income missing).
	LowConfidence bool `json:"low_confidence,omitempty"`

	// Synthetic 300-850 score with per-component contributions.
	CreditScore    int                       `json:"credit_score"`
	ScoreBreakdown map[string]ScoreComponent `json:"score_breakdown,omitempty"`

	Recommendations []string `json:"recommendations,omitempty"`
}

// ScoreComponent records one weighted contribution to the synthetic score.
type ScoreComponent struct {
	Value  string `json:"value"`
	Points int    `json:"points"`
	Impact string `json:"impact"`
}
