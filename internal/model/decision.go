package model

// PremiumBreakdown is the transparent rate/premium calculation. It is a
// pricing artifact computed deterministically from ratios and context,
// independent of the fused probability. Total is always the exact sum of
// the six components.
type PremiumBreakdown struct {
	BaseRate              float64 `json:"base_rate"`
	CreditRiskPremium     float64 `json:"credit_risk_premium"`
	LTVAdjustment         float64 `json:"ltv_adjustment"`
	EmploymentDiscount    float64 `json:"employment_discount"`
	IncomeDiscount        float64 `json:"income_discount"`
	CreditHistoryDiscount float64 `json:"credit_history_discount"`
	Total                 float64 `json:"total"`
}

// RecommendationDetails are the indicative offer terms attached to the
// decision.
type RecommendationDetails struct {
	ApprovedAmount string `json:"approved_amount"`
	MaxTenure      string `json:"max_tenure"`
	IndicativeRate string `json:"indicative_rate"`
}

// FraudSummary echoes the fraud assessment on the decision for audit.
type FraudSummary struct {
	Score   int      `json:"score"`
	Signals []string `json:"signals"`
	Veto    bool     `json:"veto"`
}

// FusedDecision is the terminal artifact of an analysis request: the
// fusion of the quantitative and qualitative assessments plus the pricing
// breakdown. Constructed once, immutable.
type FusedDecision struct {
	FinalProbability float64  `json:"final_probability"` // 0-100
	FinalRiskTier    RiskTier `json:"final_risk_tier"`
	ModelAgreement   bool     `json:"model_agreement"`

	Quantitative QuantitativePrediction `json:"quantitative"`
	Qualitative  QualitativeAssessment  `json:"qualitative"`
	Fraud        FraudSummary           `json:"fraud"`
	Ratios       CreditRatios           `json:"credit_ratios"`

	PremiumBreakdown PremiumBreakdown `json:"premium_breakdown"`

	Findings              []Finding             `json:"findings"`
	ExecutiveSummary      string                `json:"executive_summary"`
	Recommendation        string                `json:"recommendation"`
	RecommendationDetails RecommendationDetails `json:"recommendation_details"`
}
