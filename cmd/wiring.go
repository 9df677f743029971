package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/baddebtguard/risk-engine/internal/fraud"
	"github.com/baddebtguard/risk-engine/internal/fusion"
	"github.com/baddebtguard/risk-engine/internal/guideline"
	"github.com/baddebtguard/risk-engine/internal/pipeline"
	"github.com/baddebtguard/risk-engine/internal/predict"
	"github.com/baddebtguard/risk-engine/internal/qualitative"
	"github.com/baddebtguard/risk-engine/internal/resilience"
	"github.com/baddebtguard/risk-engine/internal/store"
	"github.com/baddebtguard/risk-engine/pkg/anthropic"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = "risk-engine.db"
		}
		return store.NewSQLite(path)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// env bundles the pipeline and its closeable dependencies.
type env struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

func (e *env) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initPipeline(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}

	qualCfg := qualitative.DefaultConfig()
	if cfg.Anthropic.Model != "" {
		qualCfg.Model = cfg.Anthropic.Model
	}
	if cfg.Anthropic.MaxTokens > 0 {
		qualCfg.MaxTokens = int64(cfg.Anthropic.MaxTokens)
	}
	if cfg.Anthropic.Temperature > 0 {
		qualCfg.Temperature = cfg.Anthropic.Temperature
	}
	if cfg.Anthropic.TimeoutSecs > 0 {
		qualCfg.Timeout = time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second
	}
	if cfg.Anthropic.RequestsPerSecond > 0 {
		qualCfg.RequestsPerSecond = cfg.Anthropic.RequestsPerSecond
	}
	qualCfg.Retry = resilience.FromRetryConfig(
		cfg.Retry.MaxAttempts,
		cfg.Retry.InitialBackoffMs,
		cfg.Retry.MaxBackoffMs,
		cfg.Retry.Multiplier,
		cfg.Retry.JitterFraction,
	)
	qualCfg.Breaker = resilience.FromCircuitConfig(
		cfg.Circuit.FailureThreshold,
		cfg.Circuit.ResetTimeoutSecs,
	)

	analyzer := qualitative.New(anthropic.NewClient(cfg.Anthropic.Key), qualCfg)

	engine := fusion.New(fusion.Config{
		QuantWeight:        cfg.Fusion.QuantWeight,
		QualWeight:         cfg.Fusion.QualWeight,
		FraudVetoThreshold: cfg.Fusion.FraudVetoThreshold,
		LowTierMin:         cfg.Fusion.LowTierMin,
		MediumTierMin:      cfg.Fusion.MediumTierMin,
	})

	p := pipeline.New(
		st,
		fraud.New(),
		predict.New(predict.NewLogisticModel()),
		guideline.NewDefaultIndex(),
		analyzer,
		engine,
	)

	return &env{Store: st, Pipeline: p}, nil
}
