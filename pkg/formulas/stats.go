package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of data, 0 when empty.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// Extremes returns the minimum and maximum of data. ok is false when data is empty.
func Extremes(data []float64) (lo, hi float64, ok bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	lo, hi = data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// PercentChange returns (current-base)/base, or nil when base is not positive.
func PercentChange(base, current float64) *float64 {
	if base <= 0 {
		return nil
	}
	change := (current - base) / base
	return &change
}
