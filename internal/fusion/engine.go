// Package fusion combines the quantitative and qualitative assessments into
// the final decision. Fusion is pure and total: given its four inputs it
// always produces a decision, it never calls external services, and it
// never returns an error.
package fusion

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// Config controls the fusion weights and thresholds.
type Config struct {
	// QuantWeight and QualWeight blend the two approval probabilities.
	// They must sum to 1.
	QuantWeight float64
	QualWeight  float64

	// FraudVetoThreshold is the fraud score at or above which the final
	// tier is forced to HIGH.
	FraudVetoThreshold int

	// LowTierMin and MediumTierMin are the inclusive probability bounds
	// for the LOW and MEDIUM tiers.
	LowTierMin    float64
	MediumTierMin float64
}

// DefaultConfig returns the standard fusion parameters.
func DefaultConfig() Config {
	return Config{
		QuantWeight:        0.70,
		QualWeight:         0.30,
		FraudVetoThreshold: 60,
		LowTierMin:         80,
		MediumTierMin:      55,
	}
}

// Engine fuses the pipeline's intermediate artifacts into a FusedDecision.
type Engine struct {
	cfg Config
}

// New creates an Engine. A zero-valued config is replaced with defaults.
func New(cfg Config) *Engine {
	if cfg.QuantWeight <= 0 && cfg.QualWeight <= 0 {
		cfg = DefaultConfig()
	}
	if cfg.FraudVetoThreshold <= 0 {
		cfg.FraudVetoThreshold = 60
	}
	if cfg.LowTierMin <= 0 {
		cfg.LowTierMin = 80
	}
	if cfg.MediumTierMin <= 0 {
		cfg.MediumTierMin = 55
	}
	return &Engine{cfg: cfg}
}

// tierFromProbability maps the fused probability to the final tier.
func (e *Engine) tierFromProbability(p float64) model.RiskTier {
	switch {
	case p >= e.cfg.LowTierMin:
		return model.RiskLow
	case p >= e.cfg.MediumTierMin:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}

// Fuse combines the fraud, ratio, quantitative, and qualitative artifacts
// into the final decision. The same weighted blend applies when the
// quantitative prediction is the insufficient-data neutral: the neutral 50
// is blended, never dropped, and the insufficiency is surfaced in the
// findings instead.
func (e *Engine) Fuse(
	profile model.FinancialProfile,
	fraud model.FraudAssessment,
	ratios model.CreditRatios,
	quant model.QuantitativePrediction,
	qual model.QualitativeAssessment,
	rctx model.AnalysisContext,
) *model.FusedDecision {
	final := e.cfg.QuantWeight*quant.ApprovalProbability + e.cfg.QualWeight*qual.ApprovalProbability
	veto := fraud.Veto(e.cfg.FraudVetoThreshold)

	tier := e.tierFromProbability(final)
	if veto {
		tier = model.RiskHigh
	}

	signals := make([]string, 0, len(fraud.TriggeredSignals))
	for _, s := range fraud.TriggeredSignals {
		signals = append(signals, s.Name)
	}

	d := &model.FusedDecision{
		FinalProbability: final,
		FinalRiskTier:    tier,
		ModelAgreement:   quant.RiskTier == qual.RiskTier,
		Quantitative:     quant,
		Qualitative:      qual,
		Fraud: model.FraudSummary{
			Score:   fraud.Score,
			Signals: signals,
			Veto:    veto,
		},
		Ratios:           ratios,
		PremiumBreakdown: computePremium(profile, ratios, rctx),
	}

	d.Findings = e.mergeFindings(fraud, quant, qual, veto)
	d.RecommendationDetails = buildRecommendationDetails(profile, d.PremiumBreakdown, rctx)
	d.ExecutiveSummary = buildExecutiveSummary(d, rctx)
	d.Recommendation = buildRecommendation(d, rctx)

	zap.L().Info("fusion: decision complete",
		zap.Float64("final_probability", final),
		zap.String("final_risk_tier", string(tier)),
		zap.Bool("model_agreement", d.ModelAgreement),
		zap.Bool("fraud_veto", veto),
		zap.Float64("premium_total", d.PremiumBreakdown.Total),
	)
	return d
}

// mergeFindings orders the decision findings: fraud findings first, then
// qualitative findings in retrieval order, then the quantitative summary.
func (e *Engine) mergeFindings(fraud model.FraudAssessment, quant model.QuantitativePrediction, qual model.QualitativeAssessment, veto bool) []model.Finding {
	findings := make([]model.Finding, 0, len(fraud.TriggeredSignals)+len(qual.Findings)+2)

	if veto {
		findings = append(findings, model.Finding{
			Category: "FRAUD SCREENING",
			Title:    "High Fraud Signal Score",
			Description: fmt.Sprintf(
				"Document fraud screening scored %d/100, at or above the veto threshold of %d. The final risk tier is forced to HIGH regardless of model outputs. Manual document verification is mandatory before any approval.",
				fraud.Score, e.cfg.FraudVetoThreshold,
			),
			Keywords: []string{"Fraud screening", "Mandatory review", "Risk veto"},
			Status:   model.FindingWarning,
		})
	}

	for _, s := range fraud.TriggeredSignals {
		findings = append(findings, model.Finding{
			Category:    "FRAUD SCREENING",
			Title:       s.Name,
			Description: s.Evidence,
			Keywords:    []string{"Fraud signal", string(s.Severity) + " severity"},
			Status:      model.FindingWarning,
		})
	}

	findings = append(findings, qual.Findings...)

	quantStatus := model.FindingPositive
	if quant.RiskTier == model.RiskHigh || quant.DataQuality == model.DataQualityInsufficient {
		quantStatus = model.FindingWarning
	}
	desc := fmt.Sprintf(
		"Statistical model predicts %.1f%% approval probability (%s risk) at %.0f%% confidence.",
		quant.ApprovalProbability, strings.ToLower(string(quant.RiskTier)), quant.ModelConfidence,
	)
	if quant.DataQuality == model.DataQualityInsufficient {
		desc += " Critical financial fields were missing, so this is the neutral low-confidence prediction rather than a model score."
	}
	findings = append(findings, model.Finding{
		Category:    "QUANTITATIVE MODEL",
		Title:       "Statistical Risk Prediction",
		Description: desc,
		Keywords:    []string{"Approval probability", "Model confidence", string(quant.DataQuality)},
		Status:      quantStatus,
	})

	return findings
}
