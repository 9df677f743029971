// Package qualitative adapts the Anthropic reasoning call into the pipeline.
// The adapter owns prompt construction, response validation, and the neutral
// fallback substituted when the external model cannot be used.
package qualitative

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/baddebtguard/risk-engine/internal/model"
	"github.com/baddebtguard/risk-engine/internal/resilience"
	"github.com/baddebtguard/risk-engine/pkg/anthropic"
)

// Config controls the analyzer's model selection and call behavior.
type Config struct {
	Model             string
	MaxTokens         int64
	Temperature       float64
	Timeout           time.Duration
	RequestsPerSecond float64
	Retry             resilience.RetryConfig
	Breaker           resilience.CircuitBreakerConfig
}

// DefaultConfig returns the analyzer defaults.
func DefaultConfig() Config {
	return Config{
		Model:             "claude-sonnet-4-5-20250929",
		MaxTokens:         4000,
		Temperature:       0.25,
		Timeout:           90 * time.Second,
		RequestsPerSecond: 1,
		Retry:             resilience.DefaultRetryConfig(),
		Breaker:           resilience.DefaultCircuitBreakerConfig(),
	}
}

// Analyzer performs the qualitative assessment through the Anthropic API.
type Analyzer struct {
	client  anthropic.Client
	limiter *rate.Limiter
	breaker *resilience.CircuitBreaker
	cfg     Config
}

// New creates an Analyzer over the given client.
func New(client anthropic.Client, cfg Config) *Analyzer {
	if cfg.Model == "" {
		cfg = DefaultConfig()
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Analyzer{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		breaker: resilience.NewCircuitBreaker(cfg.Breaker),
		cfg:     cfg,
	}
}

// Analyze produces the qualitative assessment for the document text. It
// never returns an error: transport failures, circuit-open rejections, and
// unusable responses all degrade to the marked fallback assessment.
func (a *Analyzer) Analyze(ctx context.Context, rawText string, guidelines []model.GuidelineSnippet, rctx model.AnalysisContext) *model.QualitativeAssessment {
	if a.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.Timeout)
		defer cancel()
	}

	if err := a.limiter.Wait(ctx); err != nil {
		zap.L().Warn("qualitative: rate limit wait aborted, using fallback", zap.Error(err))
		return fallbackAssessment(rctx)
	}

	temp := a.cfg.Temperature
	req := anthropic.MessageRequest{
		Model:       a.cfg.Model,
		MaxTokens:   a.cfg.MaxTokens,
		System:      anthropic.BuildCachedSystemBlocks(systemPrompt),
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(rawText, guidelines, rctx)},
		},
	}

	retryCfg := a.cfg.Retry
	retryCfg.OnRetry = resilience.RetryLogger("anthropic", "qualitative_assessment")

	resp, err := resilience.ExecuteVal(ctx, a.breaker, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return a.client.CreateMessage(ctx, req)
		})
	})
	if err != nil {
		zap.L().Warn("qualitative: reasoning call failed, using fallback",
			zap.String("error_type", resilience.ClassifyError(err)),
			zap.Error(err),
		)
		return fallbackAssessment(rctx)
	}

	resp.Usage.LogCost(a.cfg.Model, "qualitative")

	assessment, err := parseAssessment(resp.Text(), rctx)
	if err != nil {
		zap.L().Warn("qualitative: unusable response, using fallback", zap.Error(err))
		return fallbackAssessment(rctx)
	}

	zap.L().Info("qualitative: assessment complete",
		zap.Float64("approval_probability", assessment.ApprovalProbability),
		zap.String("risk_tier", string(assessment.RiskTier)),
		zap.Int("findings", len(assessment.Findings)),
	)
	return assessment
}
