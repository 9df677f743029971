package model

// RiskTier is the three-level risk classification shared by both
// predictors and the fused decision.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

// AllRiskTiers returns all defined risk tiers.
func AllRiskTiers() []RiskTier {
	return []RiskTier{RiskLow, RiskMedium, RiskHigh}
}

// QuantitativePrediction is the statistical model's verdict. Produced once
// per request and never mutated. When DataQuality is INSUFFICIENT the
// values are the neutral fallback, not model output.
type QuantitativePrediction struct {
	ApprovalProbability float64     `json:"approval_probability"` // 0-100
	RiskTier            RiskTier    `json:"risk_tier"`
	ModelConfidence     float64     `json:"model_confidence"` // 0-100
	DataQuality         DataQuality `json:"data_quality"`
}
