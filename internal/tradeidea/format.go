package tradeidea

import (
	"fmt"
	"math"
)

const notAvailable = "N/A"

// FormatCurrency renders v in dollars, abbreviating trillions, billions and millions.
func FormatCurrency(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return notAvailable
	}
	sign := ""
	abs := *v
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%s$%.2fT", sign, abs/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, abs/1e6)
	default:
		return fmt.Sprintf("%s$%.2f", sign, abs)
	}
}

// FormatPercent renders a fraction as a percentage with one decimal.
func FormatPercent(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

// FormatChange renders a fractional return as a signed percentage.
func FormatChange(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%+.2f%%", *v*100)
}

// FormatRatio renders a plain ratio with two decimals.
func FormatRatio(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f/10", v)
}
