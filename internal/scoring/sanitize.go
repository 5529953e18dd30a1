package scoring

import "math"

const (
	minScore     = 0.0
	maxScore     = 10.0
	neutralScore = 5.0
)

func clamp(v float64) float64 {
	return math.Max(minScore, math.Min(maxScore, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// value returns the dereferenced metric when it is present and finite.
func value(p *float64) (float64, bool) {
	if p == nil || !finite(*p) {
		return 0, false
	}
	return *p, true
}

// positive returns the metric only when it is present and strictly positive.
func positive(p *float64) (float64, bool) {
	v, ok := value(p)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

func keepIf(p *float64, ok func(float64) bool) *float64 {
	v, present := value(p)
	if !present || !ok(v) {
		return nil
	}
	return &v
}

func nonNegative(v float64) bool { return v >= 0 }
func anyFinite(float64) bool     { return true }

// within returns a predicate accepting values in [lo, hi].
func within(lo, hi float64) func(float64) bool {
	return func(v float64) bool { return v >= lo && v <= hi }
}

// Sanitize drops NaN, infinite and physically implausible values so that
// malformed inputs behave exactly like missing ones.
func Sanitize(m StockMetrics) StockMetrics {
	return StockMetrics{
		Price:     keepIf(m.Price, func(v float64) bool { return v > 0 }),
		MarketCap: keepIf(m.MarketCap, nonNegative),
		AvgVolume: keepIf(m.AvgVolume, nonNegative),

		PE:        keepIf(m.PE, anyFinite),
		PEG:       keepIf(m.PEG, anyFinite),
		PEGAlt:    keepIf(m.PEGAlt, anyFinite),
		ForwardPE: keepIf(m.ForwardPE, anyFinite),
		PB:        keepIf(m.PB, anyFinite),
		PS:        keepIf(m.PS, nonNegative),

		EPSGrowthTrailing: keepIf(m.EPSGrowthTrailing, within(-100, 100)),
		EPSGrowthForward:  keepIf(m.EPSGrowthForward, within(-100, 100)),
		EPSGrowth5Y:       keepIf(m.EPSGrowth5Y, within(-100, 100)),
		RevenueGrowth5Y:   keepIf(m.RevenueGrowth5Y, within(-1, 100)),

		ROE:             keepIf(m.ROE, within(-100, 100)),
		ROA:             keepIf(m.ROA, within(-10, 10)),
		GrossMargin:     keepIf(m.GrossMargin, within(-100, 1)),
		OperatingMargin: keepIf(m.OperatingMargin, within(-100, 1)),
		NetMargin:       keepIf(m.NetMargin, within(-100, 1)),

		CurrentRatio:     keepIf(m.CurrentRatio, nonNegative),
		QuickRatio:       keepIf(m.QuickRatio, nonNegative),
		DebtToEquity:     keepIf(m.DebtToEquity, anyFinite),
		InterestCoverage: keepIf(m.InterestCoverage, anyFinite),

		Revenue:      keepIf(m.Revenue, nonNegative),
		NetIncome:    keepIf(m.NetIncome, anyFinite),
		FreeCashFlow: keepIf(m.FreeCashFlow, anyFinite),
		Cash:         keepIf(m.Cash, nonNegative),
		Debt:         keepIf(m.Debt, nonNegative),
	}
}

// PreferredPEG returns the PEG used for scoring: the alternate source first,
// then the primary one. Zero and negative values count and land in the
// lowest bucket, so the valuation score never rises with PEG.
func PreferredPEG(m StockMetrics) (float64, bool) {
	if v, ok := value(m.PEGAlt); ok {
		return v, true
	}
	return value(m.PEG)
}
