package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterEngine_RejectsBadConfig(t *testing.T) {
	_, err := NewFilterEngine(FilterSet{Metrics: map[string]Range{"not_a_metric": {}}})
	assert.Error(t, err)

	_, err = NewFilterEngine(FilterSet{Metrics: map[string]Range{"pe": {Min: ptrFloat64(30), Max: ptrFloat64(10)}}})
	assert.Error(t, err)
}

func TestFilterEngine_Evaluate(t *testing.T) {
	engine, err := NewFilterEngine(FilterSet{
		Metrics: map[string]Range{
			"PE":            {Min: ptrFloat64(0), Max: ptrFloat64(30)},
			"roe":           {Min: ptrFloat64(0.15), Required: true},
			"eps_growth_5y": {Min: ptrFloat64(0.10)},
		},
		Operability: Operability{
			MinMarketCap:   1e9,
			ExcludeSectors: []string{"Utilities"},
		},
	})
	require.NoError(t, err)

	profile := StockProfile{Symbol: "AAA", Sector: "Technology"}

	tests := []struct {
		name     string
		profile  StockProfile
		metrics  StockMetrics
		failing  []string
		expected bool
	}{
		{
			name:     "passes everything",
			profile:  profile,
			metrics:  StockMetrics{PE: ptrFloat64(20), ROE: ptrFloat64(0.2), EPSGrowth5Y: ptrFloat64(0.12), MarketCap: ptrFloat64(5e9)},
			expected: true,
		},
		{
			name:     "missing optional metric passes",
			profile:  profile,
			metrics:  StockMetrics{ROE: ptrFloat64(0.2)},
			expected: true,
		},
		{
			name:     "missing required metric fails",
			profile:  profile,
			metrics:  StockMetrics{PE: ptrFloat64(20)},
			failing:  []string{"roe"},
			expected: false,
		},
		{
			name:     "out of range and too small",
			profile:  profile,
			metrics:  StockMetrics{PE: ptrFloat64(45), ROE: ptrFloat64(0.2), MarketCap: ptrFloat64(1e8)},
			failing:  []string{FilterMinMarketCap, "pe"},
			expected: false,
		},
		{
			name:     "excluded sector is case-insensitive",
			profile:  StockProfile{Symbol: "UTL", Sector: "utilities"},
			metrics:  StockMetrics{ROE: ptrFloat64(0.2)},
			failing:  []string{FilterExcludedSector},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, engine.Passes(tt.profile, tt.metrics))
			failing := engine.Failing(tt.profile, tt.metrics)
			if len(tt.failing) == 0 {
				assert.Empty(t, failing)
			} else {
				assert.Equal(t, tt.failing, failing)
			}
		})
	}
}
