package predict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baddebtguard/risk-engine/internal/model"
)

type countingModel struct {
	prob  float64
	err   error
	calls int
}

func (m *countingModel) PredictApproval(_ context.Context, _ Features) (float64, error) {
	m.calls++
	return m.prob, m.err
}

func homeLoanContext() model.AnalysisContext {
	return model.AnalysisContext{
		BankingSystem: model.BankingConventional,
		LoanType:      model.LoanTypeHome,
		CustomerType:  model.CustomerSalaried,
	}
}

func TestPredict_InsufficientData_SkipsModel(t *testing.T) {
	m := &countingModel{prob: 0.9}
	p := New(m)

	profile := model.FinancialProfile{MonthlyIncome: 8000} // no loan amount
	got := p.Predict(context.Background(), profile, model.CreditRatios{}, homeLoanContext())

	assert.Equal(t, 0, m.calls)
	assert.Equal(t, 50.0, got.ApprovalProbability)
	assert.Equal(t, model.RiskMedium, got.RiskTier)
	assert.Equal(t, 30.0, got.ModelConfidence)
	assert.Equal(t, model.DataQualityInsufficient, got.DataQuality)
}

func TestPredict_ModelError_FallsBackNeutral(t *testing.T) {
	m := &countingModel{err: assert.AnError}
	p := New(m)

	profile := model.FinancialProfile{MonthlyIncome: 8000, LoanAmount: 400000}
	got := p.Predict(context.Background(), profile, model.CreditRatios{DSRPercent: 30}, homeLoanContext())

	assert.Equal(t, 1, m.calls)
	assert.Equal(t, 50.0, got.ApprovalProbability)
	assert.Equal(t, model.DataQualityInsufficient, got.DataQuality)
}

func TestPredict_TierAndConfidenceFromProbability(t *testing.T) {
	cases := []struct {
		prob       float64
		tier       model.RiskTier
		confidence float64
	}{
		{0.85, model.RiskLow, 85.0},
		{0.70, model.RiskLow, 70.0},
		{0.60, model.RiskMedium, 60.0},
		{0.50, model.RiskMedium, 50.0},
		{0.20, model.RiskHigh, 80.0},
	}
	profile := model.FinancialProfile{MonthlyIncome: 8000, LoanAmount: 400000}

	for _, tc := range cases {
		p := New(&countingModel{prob: tc.prob})
		got := p.Predict(context.Background(), profile, model.CreditRatios{DSRPercent: 30}, homeLoanContext())

		assert.InDelta(t, tc.prob*100, got.ApprovalProbability, 0.001)
		assert.Equal(t, tc.tier, got.RiskTier, "prob %.2f", tc.prob)
		assert.InDelta(t, tc.confidence, got.ModelConfidence, 0.001)
		assert.Equal(t, model.DataQualitySufficient, got.DataQuality)
	}
}

func TestCreditScoreProxy(t *testing.T) {
	assert.Equal(t, 750, creditScoreProxy(model.TierExcellent, true))
	assert.Equal(t, 700, creditScoreProxy(model.TierGood, true))
	assert.Equal(t, 650, creditScoreProxy(model.TierFair, true))
	assert.Equal(t, 600, creditScoreProxy(model.TierBelowAverage, true))
	assert.Equal(t, 550, creditScoreProxy(model.TierPoor, true))
	assert.Equal(t, 650, creditScoreProxy(model.TierExcellent, false), "unknown DSR pins the neutral midpoint")
}

func TestTierFromProbability(t *testing.T) {
	assert.Equal(t, model.RiskLow, tierFromProbability(70))
	assert.Equal(t, model.RiskMedium, tierFromProbability(69.9))
	assert.Equal(t, model.RiskMedium, tierFromProbability(50))
	assert.Equal(t, model.RiskHigh, tierFromProbability(49.9))
}

func TestLogisticModel_StrongApplicant(t *testing.T) {
	m := NewLogisticModel()
	f := Features{
		AnnualIncome:     120000,
		CreditScoreProxy: 700,
		LoanAmount:       500000,
		DSRPercent:       30,
		Employed:         true,
	}

	prob, err := m.PredictApproval(context.Background(), f)
	require.NoError(t, err)
	assert.InDelta(t, 0.7445, prob, 0.001)
}

func TestLogisticModel_WeakApplicant(t *testing.T) {
	m := NewLogisticModel()
	f := Features{
		AnnualIncome:     24000,
		CreditScoreProxy: 550,
		LoanAmount:       300000,
		DSRPercent:       80,
		Employed:         false,
	}

	prob, err := m.PredictApproval(context.Background(), f)
	require.NoError(t, err)
	assert.InDelta(t, 0.0565, prob, 0.001)
}

func TestLogisticModel_RejectsNonPositiveInputs(t *testing.T) {
	m := NewLogisticModel()

	_, err := m.PredictApproval(context.Background(), Features{AnnualIncome: 0, LoanAmount: 100000})
	require.Error(t, err)

	_, err = m.PredictApproval(context.Background(), Features{AnnualIncome: 60000, LoanAmount: 0})
	require.Error(t, err)
}

func TestLogisticModel_Monotonicity(t *testing.T) {
	m := NewLogisticModel()
	base := Features{
		AnnualIncome:     96000,
		CreditScoreProxy: 650,
		LoanAmount:       400000,
		DSRPercent:       45,
		Employed:         true,
	}

	baseline, err := m.PredictApproval(context.Background(), base)
	require.NoError(t, err)

	higherDSR := base
	higherDSR.DSRPercent = 65
	worse, err := m.PredictApproval(context.Background(), higherDSR)
	require.NoError(t, err)
	assert.Less(t, worse, baseline, "higher DSR lowers approval")

	betterScore := base
	betterScore.CreditScoreProxy = 750
	better, err := m.PredictApproval(context.Background(), betterScore)
	require.NoError(t, err)
	assert.Greater(t, better, baseline, "stronger credit raises approval")

	biggerLoan := base
	biggerLoan.LoanAmount = 900000
	strained, err := m.PredictApproval(context.Background(), biggerLoan)
	require.NoError(t, err)
	assert.Less(t, strained, baseline, "heavier loan burden lowers approval")
}

func TestLogisticModel_LoanBurdenClamped(t *testing.T) {
	m := NewLogisticModel()
	f := Features{
		AnnualIncome:     30000,
		CreditScoreProxy: 650,
		LoanAmount:       300000, // exactly 10x income
		DSRPercent:       40,
		Employed:         true,
	}

	atClamp, err := m.PredictApproval(context.Background(), f)
	require.NoError(t, err)

	f.LoanAmount = 3000000 // far past the clamp; burden term saturates
	pastClamp, err := m.PredictApproval(context.Background(), f)
	require.NoError(t, err)

	assert.InDelta(t, atClamp, pastClamp, 1e-9)
}
