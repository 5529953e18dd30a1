package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Weights are the composite weights for the six sub-scores. They must sum to 1.
type Weights struct {
	Fundamental float64 `mapstructure:"fundamental"`
	Valuation   float64 `mapstructure:"valuation"`
	Growth      float64 `mapstructure:"growth"`
	Momentum    float64 `mapstructure:"momentum"`
	Sentiment   float64 `mapstructure:"sentiment"`
	Quality     float64 `mapstructure:"quality"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Fundamental + w.Valuation + w.Growth + w.Momentum + w.Sentiment + w.Quality
}

// Lexicon is the keyword table used for headline classification.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

// NewLexicon builds a lexicon. Words are matched case-insensitively as whole tokens.
func NewLexicon(positive, negative []string) Lexicon {
	l := Lexicon{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		l.positive[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	for _, w := range negative {
		l.negative[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return l
}

// IsPositive reports whether token is a positive keyword.
func (l Lexicon) IsPositive(token string) bool {
	_, ok := l.positive[token]
	return ok
}

// IsNegative reports whether token is a negative keyword.
func (l Lexicon) IsNegative(token string) bool {
	_, ok := l.negative[token]
	return ok
}

// MomentumParams configures the momentum evaluator.
type MomentumParams struct {
	ShortPeriod     int     `mapstructure:"short_period"`
	LongPeriod      int     `mapstructure:"long_period"`
	TrendMargin     float64 `mapstructure:"trend_margin"`
	RSIPeriod       int     `mapstructure:"rsi_period"`
	Oversold        float64 `mapstructure:"oversold"`
	Overbought      float64 `mapstructure:"overbought"`
	RangeWindowDays int     `mapstructure:"range_window_days"`
}

// Thresholds configures flags and the recommendation tiers.
type Thresholds struct {
	StrongBuy      float64 `mapstructure:"strong_buy"`
	Buy            float64 `mapstructure:"buy"`
	Hold           float64 `mapstructure:"hold"`
	StrongSubScore float64 `mapstructure:"strong_sub_score"`
	WeakSubScore   float64 `mapstructure:"weak_sub_score"`
	HighDebt       float64 `mapstructure:"high_debt"`
}

// Tables is the immutable configuration handed to every evaluator.
type Tables struct {
	Weights    Weights
	Lexicon    Lexicon
	Momentum   MomentumParams
	Thresholds Thresholds
}

var defaultPositiveKeywords = []string{
	"beat", "beats", "exceeds", "surpass", "upgrade", "upgrades", "buy", "outperform",
	"strong", "growth", "record", "profit", "gains", "surge", "jumps", "soars",
	"rally", "bullish", "positive", "success", "boost", "innovation", "breakthrough",
	"expansion", "dividend", "buyback", "acquisition", "partnership", "deal", "win",
	"award", "launch",
}

var defaultNegativeKeywords = []string{
	"miss", "misses", "below", "downgrade", "downgrades", "sell", "cut", "underperform",
	"weak", "decline", "loss", "losses", "drop", "plunge", "falls", "crash", "bearish",
	"negative", "warning", "concern", "risk", "lawsuit", "investigation", "recall",
	"delay", "layoff", "layoffs", "debt", "default", "bankruptcy", "fraud", "scandal",
	"fine", "penalty",
}

// DefaultWeights returns the standard composite weights.
func DefaultWeights() Weights {
	return Weights{
		Fundamental: 0.20,
		Valuation:   0.25,
		Growth:      0.20,
		Momentum:    0.15,
		Sentiment:   0.10,
		Quality:     0.10,
	}
}

// DefaultKeywords returns copies of the standard positive and negative keyword lists.
func DefaultKeywords() (positive, negative []string) {
	positive = append([]string(nil), defaultPositiveKeywords...)
	negative = append([]string(nil), defaultNegativeKeywords...)
	return positive, negative
}

// DefaultTables returns a fresh copy of the standard tables.
func DefaultTables() Tables {
	return Tables{
		Weights: DefaultWeights(),
		Lexicon: NewLexicon(defaultPositiveKeywords, defaultNegativeKeywords),
		Momentum: MomentumParams{
			ShortPeriod:     20,
			LongPeriod:      50,
			TrendMargin:     0.01,
			RSIPeriod:       14,
			Oversold:        30,
			Overbought:      70,
			RangeWindowDays: 252,
		},
		Thresholds: Thresholds{
			StrongBuy:      7.5,
			Buy:            6.5,
			Hold:           5.5,
			StrongSubScore: 7,
			WeakSubScore:   4,
			HighDebt:       1.0,
		},
	}
}

// Validate checks that the tables are usable.
func (t Tables) Validate() error {
	if math.Abs(t.Weights.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", t.Weights.Sum())
	}
	if t.Momentum.ShortPeriod <= 0 || t.Momentum.LongPeriod <= t.Momentum.ShortPeriod {
		return fmt.Errorf("invalid moving average periods %d/%d", t.Momentum.ShortPeriod, t.Momentum.LongPeriod)
	}
	if t.Momentum.RSIPeriod <= 0 {
		return fmt.Errorf("invalid rsi period %d", t.Momentum.RSIPeriod)
	}
	if t.Momentum.Oversold >= t.Momentum.Overbought {
		return fmt.Errorf("oversold (%.1f) must be below overbought (%.1f)", t.Momentum.Oversold, t.Momentum.Overbought)
	}
	th := t.Thresholds
	if !(th.StrongBuy > th.Buy && th.Buy > th.Hold) {
		return fmt.Errorf("recommendation thresholds must be strictly decreasing")
	}
	return nil
}
