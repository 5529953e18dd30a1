package scoring

import (
	"golang-garp-screener/pkg/formulas"
)

const (
	sessionsPerWeek  = 5
	sessionsPerMonth = 21
	sessionsPerYear  = 252
	minYearSessions  = 100
)

// ComputePerformance derives 1D/1W/1M/YTD/52W returns from history. year is
// the calendar year the YTD window starts in. Windows without enough data,
// or whose base close is not positive, are left nil.
func ComputePerformance(history PriceHistory, year int) PricePerformance {
	closes := history.Closes
	n := len(closes)
	if n < 2 {
		return PricePerformance{}
	}
	last := closes[n-1]

	back := func(sessions int) *float64 {
		if n <= sessions {
			return nil
		}
		return formulas.PercentChange(closes[n-1-sessions], last)
	}

	perf := PricePerformance{
		OneDay:   back(1),
		OneWeek:  back(sessionsPerWeek),
		OneMonth: back(sessionsPerMonth),
	}

	if len(history.Dates) == n {
		for i, d := range history.Dates {
			if d.Year() == year {
				if i < n-1 {
					perf.YTD = formulas.PercentChange(closes[i], last)
				}
				break
			}
		}
	}

	switch {
	case n > sessionsPerYear:
		perf.OneYear = formulas.PercentChange(closes[n-1-sessionsPerYear], last)
	case n >= minYearSessions:
		perf.OneYear = formulas.PercentChange(closes[0], last)
	}

	return perf
}
