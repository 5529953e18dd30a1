package scoring

import (
	"strings"
	"time"
)

// Flag names. Opportunities are listed before risks and are emitted in this order.
const (
	FlagUndervalued         = "Undervalued"
	FlagVeryLowPEG          = "Very Low PEG"
	FlagStrongGrowth        = "Strong Growth"
	FlagAcceleratingGrowth  = "Accelerating Growth"
	FlagStrongMomentum      = "Strong Momentum"
	FlagTechnicallyOversold = "Technically Oversold"
	FlagPositiveSentiment   = "Positive Sentiment"
	FlagHighQuality         = "High Quality"

	FlagExpensiveVsSector  = "Expensive vs Sector"
	FlagDeceleratingGrowth = "Decelerating Growth"
	FlagBearishTrend       = "Bearish Trend"
	FlagNegativeSentiment  = "Negative Sentiment"
	FlagHighDebt           = "High Debt"
	FlagNegativeFreeCash   = "Negative Free Cash Flow"
)

var riskFlags = map[string]struct{}{
	FlagExpensiveVsSector:  {},
	FlagDeceleratingGrowth: {},
	FlagBearishTrend:       {},
	FlagNegativeSentiment:  {},
	FlagHighDebt:           {},
	FlagNegativeFreeCash:   {},
}

// flagEventPrefix marks informational flags about scheduled events. They are
// emitted after all opportunity and risk flags.
const flagEventPrefix = "EVENT: "

// EarningsEventFlag is the event flag for an upcoming earnings report.
func EarningsEventFlag(date time.Time) string {
	return flagEventPrefix + "Earnings on " + date.Format("2006-01-02")
}

// IsEventFlag reports whether flag announces a scheduled event.
func IsEventFlag(flag string) bool {
	return strings.HasPrefix(flag, flagEventPrefix)
}

// IsRiskFlag reports whether flag describes a risk rather than an opportunity.
func IsRiskFlag(flag string) bool {
	_, ok := riskFlags[flag]
	return ok
}

// Input is everything needed to score one stock. All I/O happens before it is built.
type Input struct {
	Metrics  StockMetrics
	SectorPE *float64
	News     []NewsItem
	History  PriceHistory

	// NextEarnings is the next scheduled earnings report, if known.
	NextEarnings *time.Time
}

// Scorer combines the evaluators into an AIScoreBreakdown. It holds no mutable
// state and is safe for concurrent use.
type Scorer struct {
	tables     Tables
	normalizer Normalizer
	momentum   MomentumEvaluator
	sentiment  SentimentEvaluator
}

// NewScorer creates a Scorer from tables.
func NewScorer(tables Tables) *Scorer {
	return &Scorer{
		tables:     tables,
		normalizer: NewNormalizer(),
		momentum:   NewMomentumEvaluator(tables.Momentum),
		sentiment:  NewSentimentEvaluator(tables.Lexicon),
	}
}

// Tables returns the tables the scorer was built with.
func (s *Scorer) Tables() Tables {
	return s.tables
}

// Score computes the full breakdown for in.
func (s *Scorer) Score(in Input) AIScoreBreakdown {
	m := Sanitize(in.Metrics)

	var b AIScoreBreakdown
	b.FundamentalScore = s.normalizer.Fundamental(m)
	b.ValuationScore, b.ValuationVsSector = s.normalizer.Valuation(m, in.SectorPE)
	b.GrowthScore, b.GrowthOutlook = s.normalizer.Growth(m)
	b.QualityScore = s.normalizer.Quality(m)
	b.MomentumScore, b.MomentumTrend, b.Momentum = s.momentum.Evaluate(in.History)

	sentiment := s.sentiment.Evaluate(in.News)
	b.SentimentScore = sentiment.Score
	b.SentimentSummary = sentiment.Summary
	b.PositiveNews = sentiment.Positive
	b.NegativeNews = sentiment.Negative

	if in.NextEarnings != nil {
		d := *in.NextEarnings
		b.NextEarningsDate = &d
	}

	b.TotalScore = s.Total(b)
	b.Flags = s.flags(b, m)
	return b
}

// Total is the weighted sum of the six sub-scores, rounded to two decimals
// and clamped to [0,10]. Weights are never renormalised.
func (s *Scorer) Total(b AIScoreBreakdown) float64 {
	w := s.tables.Weights
	total := w.Fundamental*b.FundamentalScore +
		w.Valuation*b.ValuationScore +
		w.Growth*b.GrowthScore +
		w.Momentum*b.MomentumScore +
		w.Sentiment*b.SentimentScore +
		w.Quality*b.QualityScore
	return clamp(round2(total))
}

func (s *Scorer) flags(b AIScoreBreakdown, m StockMetrics) []string {
	th := s.tables.Thresholds
	flags := make([]string, 0, 4)
	add := func(cond bool, flag string) {
		if cond {
			flags = append(flags, flag)
		}
	}

	peg, hasPEG := PreferredPEG(m)

	add(b.ValuationScore >= 8 && b.ValuationVsSector == ValuationCheap, FlagUndervalued)
	add(hasPEG && peg <= 0.5, FlagVeryLowPEG)
	add(b.GrowthScore >= 8, FlagStrongGrowth)
	add(b.GrowthOutlook == GrowthAccelerating, FlagAcceleratingGrowth)
	add(b.MomentumTrend == TrendBullish && b.MomentumScore >= th.StrongSubScore, FlagStrongMomentum)
	add(b.Momentum.Oscillator == OscillatorOversold, FlagTechnicallyOversold)
	add(b.SentimentScore >= th.StrongSubScore, FlagPositiveSentiment)
	add(b.QualityScore >= 8, FlagHighQuality)

	add(b.ValuationVsSector == ValuationExpensive, FlagExpensiveVsSector)
	add(b.GrowthOutlook == GrowthDecelerating, FlagDeceleratingGrowth)
	add(b.MomentumTrend == TrendBearish, FlagBearishTrend)
	add(b.SentimentScore <= 10-th.StrongSubScore, FlagNegativeSentiment)
	de, hasDE := value(m.DebtToEquity)
	add(hasDE && de > th.HighDebt, FlagHighDebt)
	fcf, hasFCF := value(m.FreeCashFlow)
	add(hasFCF && fcf < 0, FlagNegativeFreeCash)

	if b.NextEarningsDate != nil {
		flags = append(flags, EarningsEventFlag(*b.NextEarningsDate))
	}
	return flags
}
