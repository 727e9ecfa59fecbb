package costcontrol

import "github.com/shopspring/decimal"

// CostPrecision is the number of decimal places kept in reported costs.
const CostPrecision = 6

var oneMillion = decimal.NewFromInt(1_000_000)

// CalculateCost computes the unrounded cost in USD from token counts.
// Each category is billed at its own rate; cache tokens are never folded into input.
func CalculateCost(usage TokenUsage, pricing ModelPricing) decimal.Decimal {
	total := decimal.NewFromInt(usage.InputTokens).Mul(decimal.NewFromFloat(pricing.InputPerMTok)).
		Add(decimal.NewFromInt(usage.OutputTokens).Mul(decimal.NewFromFloat(pricing.OutputPerMTok))).
		Add(decimal.NewFromInt(usage.CacheReadTokens).Mul(decimal.NewFromFloat(pricing.CacheReadPerMTok))).
		Add(decimal.NewFromInt(usage.CacheCreateTokens).Mul(decimal.NewFromFloat(pricing.CacheWritePerMTok)))
	return total.Div(oneMillion)
}

// RoundCost rounds to CostPrecision places, half away from zero.
func RoundCost(cost decimal.Decimal) float64 {
	return cost.Round(CostPrecision).InexactFloat64()
}

// RoundCostFloat rounds a float cost the same way as RoundCost.
// The float is read through its shortest decimal representation, so
// 0.1234565 rounds up to 0.123457.
func RoundCostFloat(cost float64) float64 {
	return RoundCost(decimal.NewFromFloat(cost))
}

// SessionCost prices usage for model and rounds the result.
func SessionCost(model string, usage TokenUsage) float64 {
	return RoundCost(CalculateCost(usage, GetModelPricing(model)))
}
