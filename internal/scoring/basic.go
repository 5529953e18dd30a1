package scoring

// BasicScore is the simpler four-category rule-based score. It is computed
// for every stock and is what ranking falls back to when no AI breakdown exists.
type BasicScore struct {
	Valuation       float64 `json:"valuation"`
	Growth          float64 `json:"growth"`
	Profitability   float64 `json:"profitability"`
	FinancialHealth float64 `json:"financial_health"`
	Total           float64 `json:"total"`
}

// ComputeBasicScore scores m on valuation, growth, profitability and
// financial health, each weighted equally.
func ComputeBasicScore(m StockMetrics) BasicScore {
	m = Sanitize(m)
	s := BasicScore{
		Valuation:       basicValuation(m),
		Growth:          basicGrowth(m),
		Profitability:   basicProfitability(m),
		FinancialHealth: basicFinancialHealth(m),
	}
	s.Total = clamp(round2(0.25*s.Valuation + 0.25*s.Growth + 0.25*s.Profitability + 0.25*s.FinancialHealth))
	return s
}

func basicValuation(m StockMetrics) float64 {
	score := neutralScore
	if peg, ok := PreferredPEG(m); ok {
		switch {
		case peg <= 0.5:
			score += 3
		case peg <= 0.75:
			score += 2
		case peg <= 1.0:
			score += 1
		case peg > 1.5:
			score -= 2
		}
	}
	if pe, ok := positive(m.PE); ok {
		switch {
		case pe >= 10 && pe <= 20:
			score += 2
		case pe >= 5 && pe <= 30:
			score += 1
		case pe > 50:
			score -= 2
		}
	}
	return clamp(score)
}

func basicGrowth(m StockMetrics) float64 {
	score := neutralScore
	if g, ok := value(m.EPSGrowth5Y); ok {
		switch {
		case g >= 0.20:
			score += 3
		case g >= 0.15:
			score += 2
		case g >= 0.10:
			score += 1
		case g < 0.05:
			score -= 1
		}
	}
	if rev, ok := value(m.RevenueGrowth5Y); ok && rev > 0.10 {
		score++
	}
	return clamp(score)
}

func basicProfitability(m StockMetrics) float64 {
	score := neutralScore
	if roe, ok := value(m.ROE); ok {
		switch {
		case roe >= 0.25:
			score += 3
		case roe >= 0.20:
			score += 2
		case roe >= 0.15:
			score += 1
		case roe < 0.10:
			score -= 1
		}
	}
	if nm, ok := value(m.NetMargin); ok {
		switch {
		case nm > 0.15:
			score += 1
		case nm > 0.10:
			score += 0.5
		}
	}
	if roa, ok := value(m.ROA); ok && roa > 0.10 {
		score++
	}
	return clamp(score)
}

func basicFinancialHealth(m StockMetrics) float64 {
	score := neutralScore
	if cr, ok := value(m.CurrentRatio); ok {
		switch {
		case cr >= 2.5:
			score += 2
		case cr >= 2:
			score += 1.5
		case cr >= 1.5:
			score += 1
		case cr < 1:
			score -= 2
		}
	}
	if qr, ok := value(m.QuickRatio); ok {
		switch {
		case qr >= 1.5:
			score += 1.5
		case qr >= 1:
			score += 1
		case qr < 0.5:
			score -= 1
		}
	}
	if de, ok := value(m.DebtToEquity); ok && de >= 0 {
		switch {
		case de <= 0.2:
			score += 2
		case de <= 0.3:
			score += 1.5
		case de <= 0.5:
			score += 1
		case de > 1:
			score -= 2
		}
	}
	return clamp(score)
}
