package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baddebtguard/risk-engine/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), model.AnalysisContext{
		BankingSystem: model.BankingConventional,
		LoanType:      model.LoanTypeHome,
		CustomerType:  model.CustomerSalaried,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.Equal(t, model.LoanTypeHome, run.Context.LoanType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRunStatus(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("analyzing", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateRunStatus(context.Background(), "run-1", model.RunStatusAnalyzing)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRunStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("complete", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateRunStatus(context.Background(), "missing", model.RunStatusComplete)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRunDecision(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET decision`).
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "run-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	decision := &model.FusedDecision{
		FinalProbability: 82.5,
		FinalRiskTier:    model.RiskLow,
	}
	err := s.UpdateRunDecision(context.Background(), "run-2", decision)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, context, status, decision, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	contextJSON := []byte(`{"banking_system":"islamic","loan_type":"car","customer_type":"salaried"}`)
	decisionJSON := []byte(`{"final_probability":61.2,"final_risk_tier":"MEDIUM"}`)

	mock.ExpectQuery(`SELECT id, context, status, decision, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("run-3").
		WillReturnRows(pgxmock.NewRows([]string{"id", "context", "status", "decision", "created_at", "updated_at"}).
			AddRow("run-3", contextJSON, "complete", &decisionJSON, now, now))

	run, err := s.GetRun(context.Background(), "run-3")
	require.NoError(t, err)
	assert.Equal(t, "run-3", run.ID)
	assert.Equal(t, model.BankingIslamic, run.Context.BankingSystem)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Decision)
	assert.InDelta(t, 61.2, run.Decision.FinalProbability, 0.001)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns_StatusFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	contextJSON := []byte(`{"banking_system":"conventional","loan_type":"home","customer_type":"salaried"}`)

	mock.ExpectQuery(`SELECT id, context, status, decision, created_at, updated_at FROM runs`).
		WithArgs("complete", 100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "context", "status", "decision", "created_at", "updated_at"}).
			AddRow("run-a", contextJSON, "complete", (*[]byte)(nil), now, now))

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-a", runs[0].ID)
	assert.Nil(t, runs[0].Decision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CreateStage(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO run_stages`).
		WithArgs(pgxmock.AnyArg(), "run-1", "fraud_screening", "running", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	stage, err := s.CreateStage(context.Background(), "run-1", "fraud_screening")
	require.NoError(t, err)
	assert.Equal(t, "run-1", stage.RunID)
	assert.Equal(t, model.StageStatusRunning, stage.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteStage(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE run_stages SET status`).
		WithArgs("complete", pgxmock.AnyArg(), "stage-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteStage(context.Background(), "stage-1", &model.StageResult{
		Name:     "fraud_screening",
		Status:   model.StageStatusComplete,
		Duration: 12,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRunDecision_NoDecisionYet(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT decision FROM runs WHERE id = \$1`).
		WithArgs("run-pending").
		WillReturnRows(pgxmock.NewRows([]string{"decision"}).AddRow((*[]byte)(nil)))

	d, err := s.GetRunDecision(context.Background(), "run-pending")
	require.NoError(t, err)
	assert.Nil(t, d)
	assert.NoError(t, mock.ExpectationsWereMet())
}
