package anthropic

import "go.uber.org/zap"

// TokenUsage records the token counts of one API call.
type TokenUsage struct {
	InputTokens              int64
	OutputTokens             int64
	CacheCreationInputTokens int64
	CacheReadInputTokens     int64
}

// Per-million-token prices, {input, output} in USD. Cache writes bill at
// 1.25x input, cache reads at 0.1x.
var modelPricing = map[string][2]float64{
	"claude-haiku-4-5-20251001":  {0.80, 4.00},
	"claude-sonnet-4-5-20250929": {3.00, 15.00},
	"claude-opus-4-6":            {15.00, 75.00},
}

// EstimateCost returns the estimated USD cost of this usage under the
// given model, or 0 for a model not in the pricing table.
func (u TokenUsage) EstimateCost(model string) float64 {
	pricing, ok := modelPricing[model]
	if !ok {
		return 0
	}
	perTok := func(n int64, rate float64) float64 {
		return float64(n) / 1e6 * rate
	}
	return perTok(u.InputTokens, pricing[0]) +
		perTok(u.OutputTokens, pricing[1]) +
		perTok(u.CacheCreationInputTokens, pricing[0]*1.25) +
		perTok(u.CacheReadInputTokens, pricing[0]*0.1)
}

// LogCost emits a structured cost-attribution record for this usage.
func (u TokenUsage) LogCost(model, phase string) {
	zap.L().Info("cost attribution",
		zap.String("model", model),
		zap.String("phase", phase),
		zap.Int64("input_tokens", u.InputTokens),
		zap.Int64("output_tokens", u.OutputTokens),
		zap.Int64("cache_write_tokens", u.CacheCreationInputTokens),
		zap.Int64("cache_read_tokens", u.CacheReadInputTokens),
		zap.Float64("estimated_cost_usd", u.EstimateCost(model)),
	)
}
