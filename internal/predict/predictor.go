// Package predict adapts the pretrained statistical approval model into
// the pipeline. The adapter validates data sufficiency before the model is
// consulted and converts model failures into the neutral fallback instead
// of surfacing them.
package predict

import (
	"context"

	"go.uber.org/zap"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// Features are the engineered inputs the approval model consumes.
type Features struct {
	AnnualIncome     float64
	CreditScoreProxy int
	LoanAmount       float64
	DSRPercent       float64
	Employed         bool

	BankingSystem model.BankingSystem
	LoanType      model.LoanType
	CustomerType  model.CustomerType
}

// Model scores engineered features into an approval probability in [0,1].
type Model interface {
	PredictApproval(ctx context.Context, f Features) (float64, error)
}

// Predictor wraps a Model with sufficiency checks and fallback semantics.
type Predictor struct {
	model Model
}

// New creates a Predictor over the given model.
func New(m Model) *Predictor {
	return &Predictor{model: m}
}

// neutralPrediction is the deliberate fallback for insufficient or
// unavailable model input: a 50% probability at low confidence, not a
// guess dressed up as one.
func neutralPrediction() model.QuantitativePrediction {
	return model.QuantitativePrediction{
		ApprovalProbability: 50.0,
		RiskTier:            model.RiskMedium,
		ModelConfidence:     30.0,
		DataQuality:         model.DataQualityInsufficient,
	}
}

// creditScoreProxy maps the estimated tier to the 300-850 score range the
// model was trained on. DSR-unknown profiles get the neutral midpoint.
func creditScoreProxy(tier model.CreditTier, dsrKnown bool) int {
	if !dsrKnown {
		return 650
	}
	switch tier {
	case model.TierExcellent:
		return 750
	case model.TierGood:
		return 700
	case model.TierFair:
		return 650
	case model.TierBelowAverage:
		return 600
	default:
		return 550
	}
}

// Predict produces the quantitative approval prediction for a profile.
// Profiles missing income or loan amount short-circuit to the neutral
// prediction without touching the model.
func (p *Predictor) Predict(ctx context.Context, profile model.FinancialProfile, ratios model.CreditRatios, rctx model.AnalysisContext) model.QuantitativePrediction {
	if profile.DataQuality() == model.DataQualityInsufficient {
		zap.L().Info("predict: insufficient data, returning neutral prediction",
			zap.Float64("monthly_income", profile.MonthlyIncome),
			zap.Float64("loan_amount", profile.LoanAmount),
		)
		return neutralPrediction()
	}

	features := Features{
		AnnualIncome:     profile.AnnualIncome(),
		CreditScoreProxy: creditScoreProxy(ratios.EstimatedTier, ratios.DSRPercent > 0),
		LoanAmount:       profile.LoanAmount,
		DSRPercent:       ratios.DSRPercent,
		Employed:         profile.EmploymentYears > 0,
		BankingSystem:    rctx.BankingSystem,
		LoanType:         rctx.LoanType,
		CustomerType:     rctx.CustomerType,
	}

	prob, err := p.model.PredictApproval(ctx, features)
	if err != nil {
		// Model unavailability degrades to the same neutral fallback as
		// missing data; it never fails the request.
		zap.L().Warn("predict: model call failed, returning neutral prediction", zap.Error(err))
		return neutralPrediction()
	}

	approval := prob * 100
	confidence := prob
	if 1-prob > confidence {
		confidence = 1 - prob
	}

	return model.QuantitativePrediction{
		ApprovalProbability: approval,
		RiskTier:            tierFromProbability(approval),
		ModelConfidence:     confidence * 100,
		DataQuality:         model.DataQualitySufficient,
	}
}

// tierFromProbability maps approval probability to the model's risk tier.
func tierFromProbability(approval float64) model.RiskTier {
	switch {
	case approval >= 70:
		return model.RiskLow
	case approval >= 50:
		return model.RiskMedium
	default:
		return model.RiskHigh
	}
}
