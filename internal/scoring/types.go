package scoring

import "time"

// StockProfile identifies a stock.
type StockProfile struct {
	Symbol   string `json:"symbol" csv:"symbol"`
	Name     string `json:"name" csv:"name"`
	Exchange string `json:"exchange" csv:"exchange"`
	Sector   string `json:"sector" csv:"sector"`
	Industry string `json:"industry" csv:"industry"`
}

// StockMetrics is a point-in-time snapshot of fundamentals and market data.
// Every field is optional. Growth rates, returns and margins are fractions
// (0.15 means 15%); debt/equity is a plain ratio.
type StockMetrics struct {
	Price     *float64 `json:"price,omitempty"`
	MarketCap *float64 `json:"market_cap,omitempty"`
	AvgVolume *float64 `json:"avg_volume,omitempty"`

	PE        *float64 `json:"pe,omitempty"`
	PEG       *float64 `json:"peg,omitempty"`
	PEGAlt    *float64 `json:"peg_alt,omitempty"`
	ForwardPE *float64 `json:"forward_pe,omitempty"`
	PB        *float64 `json:"pb,omitempty"`
	PS        *float64 `json:"ps,omitempty"`

	EPSGrowthTrailing *float64 `json:"eps_growth_trailing,omitempty"`
	EPSGrowthForward  *float64 `json:"eps_growth_forward,omitempty"`
	EPSGrowth5Y       *float64 `json:"eps_growth_5y,omitempty"`
	RevenueGrowth5Y   *float64 `json:"revenue_growth_5y,omitempty"`

	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`

	CurrentRatio     *float64 `json:"current_ratio,omitempty"`
	QuickRatio       *float64 `json:"quick_ratio,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	InterestCoverage *float64 `json:"interest_coverage,omitempty"`

	Revenue      *float64 `json:"revenue,omitempty"`
	NetIncome    *float64 `json:"net_income,omitempty"`
	FreeCashFlow *float64 `json:"free_cash_flow,omitempty"`
	Cash         *float64 `json:"cash,omitempty"`
	Debt         *float64 `json:"debt,omitempty"`
}

// NewsItem is a headline fed to the sentiment evaluator.
type NewsItem struct {
	Title       string     `json:"title"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Source      string     `json:"source,omitempty"`
	Link        string     `json:"link,omitempty"`
}

// AssetType classifies a related asset.
type AssetType string

const (
	AssetTypeCommodity AssetType = "commodity"
	AssetTypeETF       AssetType = "etf"
	AssetTypeIndex     AssetType = "index"
)

// RelatedAsset is passive market context shown next to a stock.
type RelatedAsset struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         *float64  `json:"price,omitempty"`
	PercentChange *float64  `json:"percent_change,omitempty"`
	Type          AssetType `json:"type"`
}

// PriceHistory is a daily close series, oldest first.
type PriceHistory struct {
	Dates  []time.Time `json:"dates"`
	Closes []float64   `json:"closes"`
}

// Len returns the number of closes.
func (h PriceHistory) Len() int {
	return len(h.Closes)
}

// Trend is the momentum label.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendNeutral Trend = "neutral"
	TrendBearish Trend = "bearish"
)

// GrowthOutlook is the growth label.
type GrowthOutlook string

const (
	GrowthAccelerating GrowthOutlook = "accelerating"
	GrowthStable       GrowthOutlook = "stable"
	GrowthDecelerating GrowthOutlook = "decelerating"
)

// ValuationLabel is the valuation-vs-sector label.
type ValuationLabel string

const (
	ValuationCheap     ValuationLabel = "cheap"
	ValuationFair      ValuationLabel = "fair"
	ValuationExpensive ValuationLabel = "expensive"
)

// OscillatorTier buckets the RSI reading.
type OscillatorTier string

const (
	OscillatorOversold   OscillatorTier = "oversold"
	OscillatorNeutral    OscillatorTier = "neutral"
	OscillatorOverbought OscillatorTier = "overbought"
)

// MomentumReading holds the raw technical signals behind the momentum sub-score.
type MomentumReading struct {
	Price         *float64       `json:"price,omitempty"`
	ShortMA       *float64       `json:"short_ma,omitempty"`
	LongMA        *float64       `json:"long_ma,omitempty"`
	RSI           *float64       `json:"rsi,omitempty"`
	RangePosition *float64       `json:"range_position,omitempty"`
	MASignal      Trend          `json:"ma_signal"`
	Oscillator    OscillatorTier `json:"oscillator"`
}

// AIScoreBreakdown is the result of scoring one stock. It is never mutated
// after Scorer.Score returns it.
type AIScoreBreakdown struct {
	FundamentalScore float64 `json:"fundamental_score"`
	ValuationScore   float64 `json:"valuation_score"`
	GrowthScore      float64 `json:"growth_score"`
	MomentumScore    float64 `json:"momentum_score"`
	SentimentScore   float64 `json:"sentiment_score"`
	QualityScore     float64 `json:"quality_score"`
	TotalScore       float64 `json:"total_score"`

	MomentumTrend     Trend          `json:"momentum_trend"`
	GrowthOutlook     GrowthOutlook  `json:"growth_outlook"`
	ValuationVsSector ValuationLabel `json:"valuation_vs_sector"`
	SentimentSummary  string         `json:"sentiment_summary"`

	PositiveNews int `json:"positive_news"`
	NegativeNews int `json:"negative_news"`

	Momentum         MomentumReading `json:"momentum"`
	NextEarningsDate *time.Time      `json:"next_earnings_date,omitempty"`
	Flags            []string        `json:"flags"`
}

// SubScores returns the six sub-scores keyed by factor, in weight order.
func (b AIScoreBreakdown) SubScores() []FactorScore {
	return []FactorScore{
		{Factor: FactorFundamental, Score: b.FundamentalScore},
		{Factor: FactorValuation, Score: b.ValuationScore},
		{Factor: FactorGrowth, Score: b.GrowthScore},
		{Factor: FactorMomentum, Score: b.MomentumScore},
		{Factor: FactorSentiment, Score: b.SentimentScore},
		{Factor: FactorQuality, Score: b.QualityScore},
	}
}

// Factor names one of the six sub-scores.
type Factor string

const (
	FactorFundamental Factor = "fundamental"
	FactorValuation   Factor = "valuation"
	FactorGrowth      Factor = "growth"
	FactorMomentum    Factor = "momentum"
	FactorSentiment   Factor = "sentiment"
	FactorQuality     Factor = "quality"
)

// FactorScore pairs a factor with its sub-score.
type FactorScore struct {
	Factor Factor
	Score  float64
}

// PricePerformance holds signed fractional returns over standard windows.
type PricePerformance struct {
	OneDay   *float64 `json:"perf_1d,omitempty" csv:"perf_1d,omitempty"`
	OneWeek  *float64 `json:"perf_1w,omitempty" csv:"perf_1w,omitempty"`
	OneMonth *float64 `json:"perf_1m,omitempty" csv:"perf_1m,omitempty"`
	YTD      *float64 `json:"perf_ytd,omitempty" csv:"perf_ytd,omitempty"`
	OneYear  *float64 `json:"perf_52w,omitempty" csv:"perf_52w,omitempty"`
}
