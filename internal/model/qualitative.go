package model

// FindingPolarity marks a finding as favorable or a warning.
type FindingPolarity string

const (
	FindingPositive FindingPolarity = "positive"
	FindingWarning  FindingPolarity = "warning"
)

// Finding is a single narrative observation with evidence keywords.
type Finding struct {
	Category    string          `json:"category"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Keywords    []string        `json:"keywords"`
	Status      FindingPolarity `json:"status"`
}

// ConfidenceMetrics are the analyzer's self-reported confidence
// sub-metrics, each 0-100.
type ConfidenceMetrics struct {
	DocumentAuthenticity  float64 `json:"document_authenticity"`
	IncomeStability       float64 `json:"income_stability"`
	DefaultRisk           float64 `json:"default_risk"`
	OverallRecommendation float64 `json:"overall_recommendation"`
}

// QualitativeAssessment is the structured output of the external reasoning
// call, validated and coerced at the adapter boundary. Fallback reports
// whether this is the substituted neutral assessment rather than a real
// model response.
type QualitativeAssessment struct {
	ApprovalProbability float64           `json:"approval_probability"` // 0-100
	RiskTier            RiskTier          `json:"risk_tier"`
	ExecutiveSummary    string            `json:"executive_summary"`
	Findings            []Finding         `json:"findings"`
	ConfidenceMetrics   ConfidenceMetrics `json:"confidence_metrics"`
	Fallback            bool              `json:"fallback,omitempty"`
}
