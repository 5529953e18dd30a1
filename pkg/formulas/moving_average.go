package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateSMA returns the latest simple moving average over length closes,
// or nil if there is not enough data.
func CalculateSMA(closes []float64, length int) *float64 {
	if length <= 0 || len(closes) < length {
		return nil
	}

	sma := talib.Sma(closes, length)
	if len(sma) > 0 && !isNaN(sma[len(sma)-1]) {
		result := sma[len(sma)-1]
		return &result
	}

	// talib leaves the warm-up window at zero; fall back to a plain mean
	result := Mean(closes[len(closes)-length:])
	return &result
}
