package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baddebtguard/risk-engine/internal/model"
)

func TestDSR(t *testing.T) {
	assert.Equal(t, 30.0, DSR(10000, 3000))
	assert.Equal(t, 150.0, DSR(3000, 4500))
	assert.Equal(t, 0.0, DSR(0, 3000), "unknown income yields zero, not a division error")

	// RM 8,500 income with RM 1,200 commitments sits well inside the
	// excellent band.
	dsr := DSR(8500, 1200)
	assert.InDelta(t, 14.1, dsr, 0.05)
	tier, _ := TierFromDSR(dsr, true)
	assert.Equal(t, model.TierExcellent, tier)
}

func TestDSR_MonotonicInDebt(t *testing.T) {
	const income = 8500.0
	prev := DSR(income, 0)
	for debt := 250.0; debt <= 12000; debt += 250 {
		cur := DSR(income, debt)
		assert.GreaterOrEqual(t, cur, prev, "debt %.0f", debt)
		prev = cur
	}
}

func TestLTV(t *testing.T) {
	ltv := LTV(500000, 800000)
	require.NotNil(t, ltv)
	assert.InDelta(t, 62.5, *ltv, 0.001)

	assert.Nil(t, LTV(500000, 0))
	assert.Nil(t, LTV(500000, -1))

	financed := LTV(500000, 680000)
	require.NotNil(t, financed)
	assert.InDelta(t, 73.5, *financed, 0.05)
}

func TestTierFromDSR(t *testing.T) {
	cases := []struct {
		dsr  float64
		tier model.CreditTier
	}{
		{0, model.TierExcellent},
		{20, model.TierExcellent},
		{20.1, model.TierGood},
		{35, model.TierGood},
		{45, model.TierFair},
		{50, model.TierFair},
		{70, model.TierBelowAverage},
		{70.1, model.TierPoor},
	}
	for _, tc := range cases {
		tier, lowConfidence := TierFromDSR(tc.dsr, true)
		assert.Equal(t, tc.tier, tier, "dsr %.1f", tc.dsr)
		assert.False(t, lowConfidence)
	}
}

func TestTierFromDSR_UnknownIncome(t *testing.T) {
	tier, lowConfidence := TierFromDSR(0, false)
	assert.Equal(t, model.TierFair, tier)
	assert.True(t, lowConfidence)
}

func TestScore_StrongProfile(t *testing.T) {
	p := model.FinancialProfile{
		MonthlyIncome:   10000,
		MonthlyDebt:     3000,
		LoanAmount:      500000,
		PropertyValue:   800000,
		Savings:         60000,
		EmploymentYears: 6,
	}

	r := Score(p)

	assert.Equal(t, 30.0, r.DSRPercent)
	require.NotNil(t, r.LTVPercent)
	assert.InDelta(t, 62.5, *r.LTVPercent, 0.001)
	assert.Equal(t, model.TierGood, r.EstimatedTier)
	assert.False(t, r.LowConfidence)

	// 500 + 120 dsr + 90 employment + 55 income + 55 ltv + 35 savings
	// overshoots the scale and clamps at the ceiling.
	assert.Equal(t, 850, r.CreditScore)

	assert.Equal(t, 120, r.ScoreBreakdown["dsr"].Points)
	assert.Equal(t, "Excellent", r.ScoreBreakdown["dsr"].Impact)
	assert.Equal(t, 90, r.ScoreBreakdown["employment"].Points)
	assert.Equal(t, 35, r.ScoreBreakdown["savings"].Points)
	assert.Equal(t, "Strong", r.ScoreBreakdown["savings"].Impact)

	require.Len(t, r.Recommendations, 1)
	assert.Contains(t, r.Recommendations[0], "standard terms")
}

func TestScore_MidProfile(t *testing.T) {
	p := model.FinancialProfile{
		MonthlyIncome:   5000,
		MonthlyDebt:     2250,
		Savings:         5000,
		EmploymentYears: 3,
	}

	r := Score(p)

	assert.Equal(t, 45.0, r.DSRPercent)
	assert.Nil(t, r.LTVPercent)
	assert.Equal(t, model.TierFair, r.EstimatedTier)

	// 500 + 80 + 60 + 35 + 0 + 10
	assert.Equal(t, 685, r.CreditScore)
	assert.Equal(t, "Unknown", r.ScoreBreakdown["ltv"].Value)
	assert.Equal(t, 0, r.ScoreBreakdown["ltv"].Points)
}

func TestScore_PoorProfile(t *testing.T) {
	p := model.FinancialProfile{
		MonthlyIncome:   3000,
		MonthlyDebt:     2400,
		LoanAmount:      300000,
		PropertyValue:   310000,
		EmploymentYears: 0.5,
	}

	r := Score(p)

	assert.Equal(t, 80.0, r.DSRPercent)
	assert.Equal(t, model.TierPoor, r.EstimatedTier)

	// 500 - 50 dsr + 0 employment + 20 income - 20 ltv + 0 savings
	assert.Equal(t, 450, r.CreditScore)
	assert.Equal(t, "Poor", r.ScoreBreakdown["dsr"].Impact)
	assert.Equal(t, "High Risk", r.ScoreBreakdown["ltv"].Impact)

	recs := r.Recommendations
	assert.Len(t, recs, 5)
	assert.Contains(t, recs[0], "Bank Negara")
	assert.Contains(t, recs[1], "down payment")
	assert.Contains(t, recs[2], "co-borrower")
	assert.Contains(t, recs[3], "emergency fund")
	assert.Contains(t, recs[4], "credit improvement")
}

func TestScore_UnknownIncome(t *testing.T) {
	r := Score(model.FinancialProfile{MonthlyDebt: 2000})

	assert.Equal(t, 0.0, r.DSRPercent)
	assert.Equal(t, model.TierFair, r.EstimatedTier)
	assert.True(t, r.LowConfidence)
	assert.Equal(t, "Unknown", r.ScoreBreakdown["dsr"].Value)
	assert.Equal(t, "Unknown", r.ScoreBreakdown["savings"].Value)
}

func TestScore_FloorClamp(t *testing.T) {
	// Nothing positive to offset the DSR and LTV penalties, but the
	// baseline keeps the result above the scale floor.
	p := model.FinancialProfile{
		MonthlyIncome: 1000,
		MonthlyDebt:   2000,
		LoanAmount:    200000,
		PropertyValue: 100000,
	}

	r := Score(p)

	assert.GreaterOrEqual(t, r.CreditScore, 300)
	assert.LessOrEqual(t, r.CreditScore, 850)
	assert.Equal(t, -50, r.ScoreBreakdown["dsr"].Points)
	assert.Equal(t, -20, r.ScoreBreakdown["ltv"].Points)
}
