package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baddebtguard/risk-engine/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testContext() model.AnalysisContext {
	return model.AnalysisContext{
		BankingSystem: model.BankingConventional,
		LoanType:      model.LoanTypeHome,
		CustomerType:  model.CustomerSalaried,
	}
}

// --- Runs ---

func TestSQLite_CreateRun_And_GetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.Equal(t, model.LoanTypeHome, run.Context.LoanType)

	fetched, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, fetched.ID)
	assert.Equal(t, model.BankingConventional, fetched.Context.BankingSystem)
	assert.Nil(t, fetched.Decision)
}

func TestSQLite_GetRun_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)

	err = st.UpdateRunStatus(ctx, run.ID, model.RunStatusAnalyzing)
	require.NoError(t, err)

	fetched, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusAnalyzing, fetched.Status)
}

func TestSQLite_UpdateRunStatus_Missing(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "nonexistent", model.RunStatusFailed)
	require.Error(t, err)
}

func TestSQLite_UpdateRunDecision(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)

	decision := &model.FusedDecision{
		FinalProbability: 95.36,
		FinalRiskTier:    model.RiskLow,
		ModelAgreement:   true,
	}
	err = st.UpdateRunDecision(ctx, run.ID, decision)
	require.NoError(t, err)

	fetched, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, fetched.Status)
	require.NotNil(t, fetched.Decision)
	assert.InDelta(t, 95.36, fetched.Decision.FinalProbability, 0.001)
	assert.Equal(t, model.RiskLow, fetched.Decision.FinalRiskTier)
	assert.True(t, fetched.Decision.ModelAgreement)
}

func TestSQLite_ListRuns(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, model.AnalysisContext{
		BankingSystem: model.BankingIslamic,
		LoanType:      model.LoanTypeCar,
		CustomerType:  model.CustomerRental,
	})
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestSQLite_ListRuns_FilterByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)

	err = st.UpdateRunStatus(ctx, run.ID, model.RunStatusComplete)
	require.NoError(t, err)

	// Create another run that stays queued.
	_, err = st.CreateRun(ctx, testContext())
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete, Limit: 10})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestSQLite_ListRuns_FilterByLoanType(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateRun(ctx, testContext()) // home
	require.NoError(t, err)
	carRun, err := st.CreateRun(ctx, model.AnalysisContext{
		BankingSystem: model.BankingConventional,
		LoanType:      model.LoanTypeCar,
		CustomerType:  model.CustomerSalaried,
	})
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{LoanType: model.LoanTypeCar, Limit: 10})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, carRun.ID, runs[0].ID)
}

// --- Stages ---

func TestSQLite_CreateStage_And_CompleteStage(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)

	stage, err := st.CreateStage(ctx, run.ID, "fraud_screening")
	require.NoError(t, err)
	assert.NotEmpty(t, stage.ID)
	assert.Equal(t, "fraud_screening", stage.Name)
	assert.Equal(t, model.StageStatusRunning, stage.Status)

	err = st.CompleteStage(ctx, stage.ID, &model.StageResult{
		Name:     "fraud_screening",
		Status:   model.StageStatusComplete,
		Duration: 4,
		Metadata: map[string]any{
			"fraud_score": 20,
		},
	})
	require.NoError(t, err)

	stages, err := st.ListStages(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, model.StageStatusComplete, stages[0].Status)
	require.NotNil(t, stages[0].Result)
	assert.Equal(t, "fraud_screening", stages[0].Result.Name)
}

func TestSQLite_CompleteStage_Fallback(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)

	stage, err := st.CreateStage(ctx, run.ID, "qualitative_assessment")
	require.NoError(t, err)

	err = st.CompleteStage(ctx, stage.ID, &model.StageResult{
		Name:   "qualitative_assessment",
		Status: model.StageStatusFallback,
		Error:  "anthropic: request timed out",
	})
	require.NoError(t, err)

	stages, err := st.ListStages(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, model.StageStatusFallback, stages[0].Status)
	assert.Equal(t, "anthropic: request timed out", stages[0].Result.Error)
}

func TestSQLite_ListStages_OrderedByStart(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)

	names := []string{"fraud_screening", "credit_ratios", "quantitative_prediction", "fusion"}
	for _, name := range names {
		_, err := st.CreateStage(ctx, run.ID, name)
		require.NoError(t, err)
	}

	stages, err := st.ListStages(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stages, len(names))
}

func TestSQLite_ListStages_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, testContext())
	require.NoError(t, err)

	stages, err := st.ListStages(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, stages)
}

// --- Migrate ---

func TestSQLite_Migrate_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)

	// Migrate was already called in newTestSQLiteStore; calling again should not error.
	err := st.Migrate(context.Background())
	require.NoError(t, err)
}
