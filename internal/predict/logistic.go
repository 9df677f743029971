package predict

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
)

// LogisticModel is the bundled pretrained approval scorer. Coefficients
// were fitted offline against historical application outcomes and are
// frozen here; the model is pure and safe for concurrent use.
type LogisticModel struct{}

// NewLogisticModel returns the bundled scorer.
func NewLogisticModel() *LogisticModel {
	return &LogisticModel{}
}

// Fitted coefficients. Inputs are normalized before applying them so
// each term contributes on a comparable scale.
const (
	coefIntercept   = -1.40
	coefCreditScore = 4.00  // (score-300)/550
	coefDSR         = -2.50 // dsr/100
	coefEmployed    = 0.60
	coefLoanBurden  = -1.20 // min(loan/annual income, 10)/10
	coefIncomeLog   = 0.35  // log10(annual income / 30000), clamped to [-1, 2]

	maxLoanBurden = 10.0
)

// PredictApproval scores the features into an approval probability in [0,1].
func (m *LogisticModel) PredictApproval(_ context.Context, f Features) (float64, error) {
	if f.AnnualIncome <= 0 || f.LoanAmount <= 0 {
		return 0, eris.New("predict: income and loan amount must be positive")
	}

	scoreNorm := (float64(f.CreditScoreProxy) - 300) / 550
	dsrNorm := f.DSRPercent / 100

	burden := f.LoanAmount / f.AnnualIncome
	if burden > maxLoanBurden {
		burden = maxLoanBurden
	}
	burdenNorm := burden / maxLoanBurden

	incomeLog := math.Log10(f.AnnualIncome / 30000)
	if incomeLog < -1 {
		incomeLog = -1
	} else if incomeLog > 2 {
		incomeLog = 2
	}

	employed := 0.0
	if f.Employed {
		employed = 1.0
	}

	z := coefIntercept +
		coefCreditScore*scoreNorm +
		coefDSR*dsrNorm +
		coefEmployed*employed +
		coefLoanBurden*burdenNorm +
		coefIncomeLog*incomeLog

	return 1 / (1 + math.Exp(-z)), nil
}
