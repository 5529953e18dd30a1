package scoring

import (
	"golang-garp-screener/pkg/formulas"
)

// MomentumEvaluator derives the momentum sub-score and trend label from a
// daily close series.
type MomentumEvaluator struct {
	params MomentumParams
}

// NewMomentumEvaluator creates a MomentumEvaluator.
func NewMomentumEvaluator(params MomentumParams) MomentumEvaluator {
	return MomentumEvaluator{params: params}
}

// Evaluate scores history. An empty or unusable history yields the neutral
// score and label.
func (e MomentumEvaluator) Evaluate(history PriceHistory) (float64, Trend, MomentumReading) {
	reading := MomentumReading{MASignal: TrendNeutral, Oscillator: OscillatorNeutral}

	closes := usableCloses(history.Closes)
	if len(closes) == 0 {
		return neutralScore, TrendNeutral, reading
	}

	price := closes[len(closes)-1]
	reading.Price = &price
	reading.ShortMA = formulas.CalculateSMA(closes, e.params.ShortPeriod)
	reading.LongMA = formulas.CalculateSMA(closes, e.params.LongPeriod)
	reading.RSI = formulas.CalculateRSI(closes, e.params.RSIPeriod)
	reading.RangePosition = rangePosition(closes, e.params.RangeWindowDays)

	score := neutralScore

	if reading.ShortMA != nil && reading.LongMA != nil && *reading.LongMA > 0 {
		short, long := *reading.ShortMA, *reading.LongMA
		spread := (short - long) / long
		switch {
		case spread > e.params.TrendMargin:
			reading.MASignal = TrendBullish
			score += 2
			if price > short {
				score += 0.5
			}
		case spread < -e.params.TrendMargin:
			reading.MASignal = TrendBearish
			score -= 2
			if price < short {
				score -= 0.5
			}
		}
	}

	if reading.RSI != nil {
		switch {
		case *reading.RSI < e.params.Oversold:
			reading.Oscillator = OscillatorOversold
			score += 1.5
		case *reading.RSI > e.params.Overbought:
			reading.Oscillator = OscillatorOverbought
			score -= 0.5
		}
	}

	if reading.RangePosition != nil {
		switch {
		case *reading.RangePosition < 0.3:
			score += 1
		case *reading.RangePosition > 0.9:
			score -= 0.5
		}
	}

	return clamp(score), e.trend(reading), reading
}

// trend follows the moving-average signal, falling back to a vote between the
// oscillator and the range position when the averages are inconclusive.
func (e MomentumEvaluator) trend(r MomentumReading) Trend {
	if r.MASignal != TrendNeutral {
		return r.MASignal
	}

	votes := 0
	if r.RSI != nil {
		switch {
		case *r.RSI >= 60:
			votes++
		case *r.RSI <= 40:
			votes--
		}
	}
	if r.RangePosition != nil {
		switch {
		case *r.RangePosition >= 0.7:
			votes++
		case *r.RangePosition <= 0.3:
			votes--
		}
	}

	switch {
	case votes > 0:
		return TrendBullish
	case votes < 0:
		return TrendBearish
	default:
		return TrendNeutral
	}
}

// usableCloses drops the series entirely if it contains a non-positive or
// non-finite close, since every indicator would be meaningless.
func usableCloses(closes []float64) []float64 {
	for _, c := range closes {
		if !finite(c) || c <= 0 {
			return nil
		}
	}
	return closes
}

// rangePosition is where the last close sits between the low and high of the
// trailing window, 0 at the low and 1 at the high.
func rangePosition(closes []float64, window int) *float64 {
	if window > 0 && len(closes) > window {
		closes = closes[len(closes)-window:]
	}
	lo, hi, ok := formulas.Extremes(closes)
	if !ok || hi <= lo {
		return nil
	}
	pos := (closes[len(closes)-1] - lo) / (hi - lo)
	return &pos
}
