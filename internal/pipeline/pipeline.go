// Package pipeline orchestrates a full risk analysis run: profile
// normalization, fraud screening, credit ratios, quantitative prediction,
// guideline retrieval, qualitative assessment, and decision fusion.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/baddebtguard/risk-engine/internal/credit"
	"github.com/baddebtguard/risk-engine/internal/fraud"
	"github.com/baddebtguard/risk-engine/internal/fusion"
	"github.com/baddebtguard/risk-engine/internal/guideline"
	"github.com/baddebtguard/risk-engine/internal/model"
	"github.com/baddebtguard/risk-engine/internal/predict"
	"github.com/baddebtguard/risk-engine/internal/profile"
	"github.com/baddebtguard/risk-engine/internal/qualitative"
	"github.com/baddebtguard/risk-engine/internal/store"
)

// Stage names as persisted in run_stages.
const (
	StageNormalize   = "profile_normalization"
	StageFraud       = "fraud_screening"
	StageCredit      = "credit_ratios"
	StagePredict     = "quantitative_prediction"
	StageRetrieval   = "guideline_retrieval"
	StageQualitative = "qualitative_assessment"
	StageFusion      = "fusion"
)

// Result is the full outcome of one analysis run.
type Result struct {
	RunID    string               `json:"run_id"`
	Decision *model.FusedDecision `json:"decision"`
	Stages   []model.StageResult  `json:"stages"`
}

// Pipeline wires the analysis stages together.
type Pipeline struct {
	store     store.Store
	detector  *fraud.Detector
	predictor *predict.Predictor
	retriever guideline.Retriever
	analyzer  *qualitative.Analyzer
	engine    *fusion.Engine
}

// New creates a Pipeline with all dependencies.
func New(
	st store.Store,
	detector *fraud.Detector,
	predictor *predict.Predictor,
	retriever guideline.Retriever,
	analyzer *qualitative.Analyzer,
	engine *fusion.Engine,
) *Pipeline {
	return &Pipeline{
		store:     st,
		detector:  detector,
		predictor: predictor,
		retriever: retriever,
		analyzer:  analyzer,
		engine:    engine,
	}
}

// Run executes the full analysis for a single request. Selector validation
// is the only fatal precondition; downstream stage failures degrade to
// neutral artifacts rather than aborting the run.
func (p *Pipeline) Run(ctx context.Context, req model.AnalysisRequest) (*Result, error) {
	if err := req.Context.Validate(); err != nil {
		return nil, eris.Wrap(err, "pipeline: validate context")
	}

	log := zap.L().With(
		zap.String("banking_system", string(req.Context.BankingSystem)),
		zap.String("loan_type", string(req.Context.LoanType)),
		zap.String("customer_type", string(req.Context.CustomerType)),
	)
	log.Info("pipeline: starting analysis")

	run, err := p.store.CreateRun(ctx, req.Context)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	result := &Result{RunID: run.ID}

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	// Stage tracking helper with mutex for concurrent access.
	var stagesMu sync.Mutex
	trackStage := func(name string, fn func() (*model.StageResult, error)) {
		stage, stageErr := p.store.CreateStage(ctx, run.ID, name)
		if stageErr != nil {
			log.Warn("pipeline: failed to create stage", zap.String("stage", name), zap.Error(stageErr))
		}

		start := time.Now()
		stageResult, fnErr := fn()
		duration := time.Since(start).Milliseconds()

		if stageResult == nil {
			stageResult = &model.StageResult{}
		}
		stageResult.Name = name
		stageResult.Duration = duration

		switch {
		case fnErr != nil:
			stageResult.Status = model.StageStatusFailed
			stageResult.Error = fnErr.Error()
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", duration),
				zap.Error(fnErr),
			)
		case stageResult.Status == "":
			stageResult.Status = model.StageStatusComplete
			fallthrough
		default:
			log.Info("pipeline: stage complete",
				zap.String("stage", name),
				zap.String("status", string(stageResult.Status)),
				zap.Int64("duration_ms", duration),
			)
		}

		if stage != nil {
			if completeErr := p.store.CompleteStage(ctx, stage.ID, stageResult); completeErr != nil {
				log.Warn("pipeline: failed to complete stage", zap.String("stage", name), zap.Error(completeErr))
			}
		}
		stagesMu.Lock()
		result.Stages = append(result.Stages, *stageResult)
		stagesMu.Unlock()
	}

	setStatus(model.RunStatusAnalyzing)

	// Profile normalization feeds every downstream stage.
	var prof model.FinancialProfile
	trackStage(StageNormalize, func() (*model.StageResult, error) {
		prof = profile.Normalize(req.Fields, req.ExtractedText)
		return &model.StageResult{
			Metadata: map[string]any{
				"monthly_income": prof.MonthlyIncome,
				"loan_amount":    prof.LoanAmount,
			},
		}, nil
	})

	// Independent stages run concurrently. The quantitative prediction
	// depends on the credit ratios, so those two share a goroutine.
	var (
		fraudResult model.FraudAssessment
		ratios      model.CreditRatios
		quant       model.QuantitativePrediction
		guidelines  []model.GuidelineSnippet
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		trackStage(StageFraud, func() (*model.StageResult, error) {
			fraudResult = p.detector.Detect(prof, req.ExtractedText)
			return &model.StageResult{
				Metadata: map[string]any{
					"fraud_score":       fraudResult.Score,
					"triggered_signals": len(fraudResult.TriggeredSignals),
				},
			}, nil
		})
		return nil
	})

	g.Go(func() error {
		trackStage(StageCredit, func() (*model.StageResult, error) {
			ratios = credit.Score(prof)
			return &model.StageResult{
				Metadata: map[string]any{
					"dsr_percent":    ratios.DSRPercent,
					"estimated_tier": string(ratios.EstimatedTier),
					"credit_score":   ratios.CreditScore,
				},
			}, nil
		})
		trackStage(StagePredict, func() (*model.StageResult, error) {
			quant = p.predictor.Predict(gCtx, prof, ratios, req.Context)
			return &model.StageResult{
				Metadata: map[string]any{
					"approval_probability": quant.ApprovalProbability,
					"risk_tier":            string(quant.RiskTier),
					"data_quality":         string(quant.DataQuality),
				},
			}, nil
		})
		return nil
	})

	g.Go(func() error {
		trackStage(StageRetrieval, func() (*model.StageResult, error) {
			guidelines = p.retriever.ContextForLoan(gCtx, req.Context)
			return &model.StageResult{
				Metadata: map[string]any{
					"snippets": len(guidelines),
				},
			}, nil
		})
		return nil
	})

	// Stage closures never return errors; Wait only propagates ctx cancellation.
	if err := g.Wait(); err != nil {
		setStatus(model.RunStatusFailed)
		return nil, eris.Wrap(err, "pipeline: analysis stages")
	}

	// Qualitative assessment needs the retrieved guidelines.
	var qual *model.QualitativeAssessment
	trackStage(StageQualitative, func() (*model.StageResult, error) {
		qual = p.analyzer.Analyze(ctx, req.ExtractedText, guidelines, req.Context)
		sr := &model.StageResult{
			Metadata: map[string]any{
				"approval_probability": qual.ApprovalProbability,
				"risk_tier":            string(qual.RiskTier),
			},
		}
		if qual.Fallback {
			sr.Status = model.StageStatusFallback
		}
		return sr, nil
	})

	setStatus(model.RunStatusFusing)

	trackStage(StageFusion, func() (*model.StageResult, error) {
		result.Decision = p.engine.Fuse(prof, fraudResult, ratios, quant, *qual, req.Context)
		return &model.StageResult{
			Metadata: map[string]any{
				"final_probability": result.Decision.FinalProbability,
				"final_risk_tier":   string(result.Decision.FinalRiskTier),
				"model_agreement":   result.Decision.ModelAgreement,
			},
		}, nil
	})

	if err := p.store.UpdateRunDecision(ctx, run.ID, result.Decision); err != nil {
		return nil, eris.Wrap(err, "pipeline: persist decision")
	}

	log.Info("pipeline: analysis complete",
		zap.String("run_id", run.ID),
		zap.Float64("final_probability", result.Decision.FinalProbability),
		zap.String("final_risk_tier", string(result.Decision.FinalRiskTier)),
	)
	return result, nil
}
