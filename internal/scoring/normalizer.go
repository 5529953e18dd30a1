package scoring

// Normalizer turns raw fundamentals into the fundamental, valuation, growth
// and quality sub-scores. Every rule starts from the neutral midpoint and adds
// or subtracts points per threshold bucket; a missing input contributes nothing.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() Normalizer {
	return Normalizer{}
}

// Fundamental scores profitability and balance-sheet strength.
func (Normalizer) Fundamental(m StockMetrics) float64 {
	score := neutralScore

	if roe, ok := value(m.ROE); ok {
		switch {
		case roe >= 0.25:
			score += 2
		case roe >= 0.20:
			score += 1.5
		case roe >= 0.15:
			score += 1
		case roe < 0.10:
			score -= 1
		}
	}

	if nm, ok := value(m.NetMargin); ok {
		switch {
		case nm > 0.20:
			score += 1.5
		case nm > 0.15:
			score += 1
		case nm > 0.10:
			score += 0.5
		case nm < 0.05:
			score -= 1
		}
	}

	if cr, ok := positive(m.CurrentRatio); ok {
		switch {
		case cr >= 2:
			score += 1
		case cr < 1:
			score -= 1.5
		}
	}

	if de, ok := value(m.DebtToEquity); ok && de >= 0 {
		switch {
		case de <= 0.3:
			score += 1
		case de > 1:
			score -= 1
		}
	}

	return clamp(score)
}

// Valuation scores price relative to growth, earnings and the sector, and
// returns the valuation-vs-sector label. sectorPE may be nil.
func (Normalizer) Valuation(m StockMetrics, sectorPE *float64) (float64, ValuationLabel) {
	score := neutralScore

	peg, hasPEG := PreferredPEG(m)
	if hasPEG {
		switch {
		case peg <= 0.5:
			score += 3
		case peg <= 0.75:
			score += 2
		case peg <= 1.0:
			score += 1
		}
	}

	pe, hasPE := positive(m.PE)
	if hasPE {
		switch {
		case pe >= 10 && pe <= 20:
			score += 2
		case pe >= 5 && pe <= 30:
			score += 1
		}
	}

	label := ValuationFair
	avg, hasSector := positive(sectorPE)
	if hasPE && hasSector {
		ratio := pe / avg
		switch {
		case ratio < 0.7:
			score += 2
		case ratio < 0.9:
			score += 1
		}
		switch {
		case ratio < 0.9:
			label = ValuationCheap
		case ratio > 1.1:
			label = ValuationExpensive
		}
	} else if hasPEG {
		switch {
		case peg <= 0.75:
			label = ValuationCheap
		case peg > 1.5:
			label = ValuationExpensive
		}
	}

	if fpe, ok := positive(m.ForwardPE); ok {
		switch {
		case fpe < 15:
			score += 1
		case fpe > 30:
			score -= 1
		}
	}

	return clamp(score), label
}

// growthShiftMargin is how far trailing growth must sit from the long-run
// average before the outlook changes.
const growthShiftMargin = 0.05

// Growth scores earnings and revenue growth and returns the growth outlook.
func (Normalizer) Growth(m StockMetrics) (float64, GrowthOutlook) {
	score := neutralScore

	long, hasLong := value(m.EPSGrowth5Y)
	if hasLong {
		switch {
		case long >= 0.20:
			score += 2
		case long >= 0.15:
			score += 1.5
		case long >= 0.10:
			score += 1
		case long < 0.05:
			score -= 1
		}
	}

	trailing, hasTrailing := value(m.EPSGrowthTrailing)
	if hasTrailing {
		switch {
		case trailing >= 0.20:
			score += 1.5
		case trailing >= 0.15:
			score += 1
		case trailing >= 0.10:
			score += 0.5
		}
	}

	outlook := GrowthStable
	switch {
	case hasTrailing && hasLong && trailing < long-growthShiftMargin:
		outlook = GrowthDecelerating
	case hasTrailing && hasLong && trailing > long+growthShiftMargin:
		outlook = GrowthAccelerating
	}
	if forward, ok := value(m.EPSGrowthForward); ok && hasTrailing && outlook == GrowthStable {
		switch {
		case forward > trailing+growthShiftMargin:
			outlook = GrowthAccelerating
		case forward < trailing-growthShiftMargin:
			outlook = GrowthDecelerating
		}
	}
	switch outlook {
	case GrowthAccelerating:
		score += 1
	case GrowthDecelerating:
		score -= 1
	}

	if rev, ok := value(m.RevenueGrowth5Y); ok {
		switch {
		case rev > 0.15:
			score += 1
		case rev < 0:
			score -= 1
		}
	}

	return clamp(score), outlook
}

// Quality scores asset efficiency, cash generation and balance-sheet cash.
func (Normalizer) Quality(m StockMetrics) float64 {
	score := neutralScore

	if roa, ok := value(m.ROA); ok {
		switch {
		case roa > 0.15:
			score += 2
		case roa > 0.10:
			score += 1
		case roa < 0.05:
			score -= 1
		}
	}

	if fcf, ok := value(m.FreeCashFlow); ok && fcf > 0 {
		score++
		if ni, ok := positive(m.NetIncome); ok && fcf > ni {
			score++
		}
	}

	if cash, ok := value(m.Cash); ok {
		if debt, ok := positive(m.Debt); ok && cash/debt >= 1 {
			score++
		}
	}

	if gm, ok := value(m.GrossMargin); ok {
		switch {
		case gm > 0.40:
			score++
		case gm < 0.20:
			score--
		}
	}

	return clamp(score)
}
