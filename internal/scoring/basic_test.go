package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBasicScore(t *testing.T) {
	tests := []struct {
		name     string
		metrics  StockMetrics
		expected BasicScore
	}{
		{
			name:     "all missing is neutral",
			expected: BasicScore{Valuation: 5, Growth: 5, Profitability: 5, FinancialHealth: 5, Total: 5},
		},
		{
			name: "strong garp profile",
			metrics: StockMetrics{
				PEG: ptrFloat64(0.6), PE: ptrFloat64(15),
				EPSGrowth5Y: ptrFloat64(0.22), RevenueGrowth5Y: ptrFloat64(0.12),
				ROE: ptrFloat64(0.21), NetMargin: ptrFloat64(0.16), ROA: ptrFloat64(0.12),
				CurrentRatio: ptrFloat64(2.1), QuickRatio: ptrFloat64(1.2), DebtToEquity: ptrFloat64(0.25),
			},
			// 9, 9, 9, 9 (5+1.5+1+1.5)
			expected: BasicScore{Valuation: 9, Growth: 9, Profitability: 9, FinancialHealth: 9, Total: 9},
		},
		{
			name: "expensive and leveraged",
			metrics: StockMetrics{
				PEG: ptrFloat64(2.0), PE: ptrFloat64(60),
				CurrentRatio: ptrFloat64(0.8), QuickRatio: ptrFloat64(0.3), DebtToEquity: ptrFloat64(1.5),
			},
			expected: BasicScore{Valuation: 1, Growth: 5, Profitability: 5, FinancialHealth: 0, Total: 2.75},
		},
		{
			name:     "negative peg takes the lowest bucket",
			metrics:  StockMetrics{PEG: ptrFloat64(-0.2)},
			expected: BasicScore{Valuation: 8, Growth: 5, Profitability: 5, FinancialHealth: 5, Total: 5.75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBasicScore(tt.metrics)
			assert.InDelta(t, tt.expected.Valuation, got.Valuation, 1e-9)
			assert.InDelta(t, tt.expected.Growth, got.Growth, 1e-9)
			assert.InDelta(t, tt.expected.Profitability, got.Profitability, 1e-9)
			assert.InDelta(t, tt.expected.FinancialHealth, got.FinancialHealth, 1e-9)
			assert.InDelta(t, tt.expected.Total, got.Total, 1e-9)
		})
	}
}

func TestComputeBasicScore_ValuationMonotonicInPEG(t *testing.T) {
	prev := -1.0
	for i := 300; i >= -100; i-- {
		peg := float64(i) / 100
		got := ComputeBasicScore(StockMetrics{PEG: ptrFloat64(peg), PE: ptrFloat64(18)})
		assert.GreaterOrEqual(t, got.Valuation, prev, "peg %.2f", peg)
		prev = got.Valuation
	}
}
