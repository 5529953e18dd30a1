package dto

import "time"

// FinvizSnapshot holds the quote page values used to enrich Yahoo fundamentals.
// Percentages are fractions.
type FinvizSnapshot struct {
	Symbol          string
	PEG             *float64
	ForwardPE       *float64
	EPSThisYear     *float64
	EPSNextYear     *float64
	EPSNext5Y       *float64
	EPSPast5Y       *float64
	SalesPast5Y     *float64
	InterestCovered *float64
	EarningsDate    *time.Time
}
