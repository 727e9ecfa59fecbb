package costcontrol

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateCost_SonnetMillionInput(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000}
	cost := RoundCost(CalculateCost(usage, GetModelPricing("claude-sonnet-4-6")))
	assert.Equal(t, 3.0, cost)
}

func TestCalculateCost_AllCategories(t *testing.T) {
	pricing := ModelPricing{InputPerMTok: 3, OutputPerMTok: 15, CacheReadPerMTok: 0.30, CacheWritePerMTok: 3.75}
	usage := TokenUsage{
		InputTokens:       2000,
		OutputTokens:      500,
		CacheReadTokens:   5000,
		CacheCreateTokens: 2000,
	}

	// 2000*3 + 500*15 + 5000*0.30 + 2000*3.75 = 6000 + 7500 + 1500 + 7500
	want := decimal.RequireFromString("0.0225")
	got := CalculateCost(usage, pricing)
	assert.True(t, want.Equal(got), "got %s", got)
	assert.Equal(t, 0.0225, RoundCost(got))
}

func TestCalculateCost_Zero(t *testing.T) {
	cost := CalculateCost(TokenUsage{}, opus46)
	assert.True(t, cost.IsZero())
	assert.Equal(t, 0.0, RoundCost(cost))
}

func TestCalculateCost_CacheNotBilledAsInput(t *testing.T) {
	// Cache reads are a tenth of the input rate; billing them as input would overcount
	read := RoundCost(CalculateCost(TokenUsage{CacheReadTokens: 1_000_000}, opus46))
	input := RoundCost(CalculateCost(TokenUsage{InputTokens: 1_000_000}, opus46))
	assert.Equal(t, 0.5, read)
	assert.Equal(t, 5.0, input)
}

func TestRoundCost(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"half rounds away from zero", "0.1234565", 0.123457},
		{"below half rounds down", "0.12345649", 0.123456},
		{"above half rounds up", "0.12345651", 0.123457},
		{"exact six places unchanged", "1.000001", 1.000001},
		{"tiny cost rounds to zero", "0.0000004", 0},
		{"tiny cost half rounds up", "0.0000005", 0.000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundCost(decimal.RequireFromString(tt.raw)))
		})
	}
}

func TestRoundCostFloat(t *testing.T) {
	assert.Equal(t, 0.123457, RoundCostFloat(0.1234565))
	assert.Equal(t, 0.123456, RoundCostFloat(0.1234564))
	assert.Equal(t, 3.0, RoundCostFloat(3))
}

func TestSessionCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 10, OutputTokens: 3}
	// (10*15 + 3*75) / 1e6 = 0.000375
	assert.Equal(t, 0.000375, SessionCost("claude-3-opus-20240229", usage))
}
