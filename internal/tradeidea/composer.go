package tradeidea

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang-garp-screener/internal/scoring"
)

const maxCatalysts = 5

// Horizon is the suggested holding period.
type Horizon string

const (
	HorizonShort  Horizon = "Short-term (1-3 months)"
	HorizonMedium Horizon = "Medium-term (6-12 months)"
	HorizonLong   Horizon = "Long-term (1-3 years)"
)

// Input is a fully scored stock. Breakdown is a value, so an idea can only be
// composed once AI scoring has completed.
type Input struct {
	Profile        scoring.StockProfile
	Metrics        scoring.StockMetrics
	Breakdown      scoring.AIScoreBreakdown
	Recommendation scoring.Recommendation
	Performance    scoring.PricePerformance
	News           []scoring.NewsItem
	RelatedAssets  []scoring.RelatedAsset
	GeneratedAt    time.Time
}

// MetricRow is one line of the key metrics table.
type MetricRow struct {
	Name  string
	Value string
}

// Idea is a composed trade idea, rendered by Markdown or PlainText.
type Idea struct {
	Title          string
	Thesis         string
	Reasons        []string
	Metrics        []MetricRow
	Catalysts      []string
	Risks          []string
	RelatedAssets  []string
	Recommendation scoring.Recommendation
	TotalScore     float64
	Horizon        Horizon
	Driver         scoring.Factor
	Conclusion     string
	GeneratedAt    time.Time
}

// Composer builds trade ideas. It is pure and safe for concurrent use.
type Composer struct {
	strong float64
	weak   float64
	high   float64
}

// NewComposer creates a Composer. Sub-scores at or above th.StrongSubScore
// become reasons to buy, at or below th.WeakSubScore become risks.
func NewComposer(th scoring.Thresholds) *Composer {
	return &Composer{strong: th.StrongSubScore, weak: th.WeakSubScore, high: 8}
}

// Compose builds the idea for in.
func (c *Composer) Compose(in Input) Idea {
	b := in.Breakdown
	m := scoring.Sanitize(in.Metrics)
	ranked := rankFactors(b)

	idea := Idea{
		Title:          fmt.Sprintf("%s: %s", in.Profile.Symbol, in.Recommendation),
		Recommendation: in.Recommendation,
		TotalScore:     b.TotalScore,
		Driver:         ranked[0].Factor,
		Horizon:        horizonFor(ranked[0].Factor),
		GeneratedAt:    in.GeneratedAt,
	}

	idea.Thesis = c.thesis(in, ranked)
	idea.Reasons = c.reasons(b, m, ranked)
	idea.Metrics = metricRows(m, in.Performance)
	idea.Catalysts = catalysts(b.NextEarningsDate, in.News)
	idea.Risks = c.risks(b, m, ranked)
	idea.RelatedAssets = relatedAssets(in.RelatedAssets)
	idea.Conclusion = fmt.Sprintf(
		"%s is rated %s with a composite score of %s. Suggested horizon: %s, as the case rests mainly on %s.",
		in.Profile.Symbol, in.Recommendation, formatScore(b.TotalScore), idea.Horizon, factorNoun(idea.Driver),
	)
	return idea
}

// rankFactors orders sub-scores from strongest to weakest. Ties keep weight order.
func rankFactors(b scoring.AIScoreBreakdown) []scoring.FactorScore {
	ranked := b.SubScores()
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

func horizonFor(f scoring.Factor) Horizon {
	switch f {
	case scoring.FactorMomentum, scoring.FactorSentiment:
		return HorizonShort
	case scoring.FactorValuation, scoring.FactorGrowth:
		return HorizonMedium
	default:
		return HorizonLong
	}
}

func (c *Composer) thesis(in Input, ranked []scoring.FactorScore) string {
	b := in.Breakdown
	subject := in.Profile.Symbol
	if in.Profile.Name != "" {
		subject = fmt.Sprintf("%s (%s)", in.Profile.Name, in.Profile.Symbol)
	}

	var drivers []string
	for _, fs := range ranked[:2] {
		if fs.Score > 5 {
			drivers = append(drivers, fmt.Sprintf("%s (%s)", factorNoun(fs.Factor), formatScore(fs.Score)))
		}
	}

	var first string
	if len(drivers) == 0 {
		first = fmt.Sprintf("%s screens as %s with a composite score of %s and no single dominant strength.",
			subject, in.Recommendation, formatScore(b.TotalScore))
	} else {
		first = fmt.Sprintf("%s screens as %s with a composite score of %s, driven by %s.",
			subject, in.Recommendation, formatScore(b.TotalScore), strings.Join(drivers, " and "))
	}

	second := fmt.Sprintf("Valuation looks %s versus its sector, the growth outlook is %s and the price trend is %s.",
		b.ValuationVsSector, b.GrowthOutlook, b.MomentumTrend)
	return first + " " + second
}

func (c *Composer) reasons(b scoring.AIScoreBreakdown, m scoring.StockMetrics, ranked []scoring.FactorScore) []string {
	var out []string
	for _, fs := range b.SubScores() {
		if fs.Score >= c.strong {
			out = append(out, strengthPhrase(fs, b, m))
		}
	}
	if len(out) == 0 {
		out = append(out, "Relative strength: "+strengthPhrase(ranked[0], b, m))
	}
	return out
}

func (c *Composer) risks(b scoring.AIScoreBreakdown, m scoring.StockMetrics, ranked []scoring.FactorScore) []string {
	var out []string
	for _, flag := range b.Flags {
		if scoring.IsRiskFlag(flag) {
			out = append(out, flagPhrase(flag, b, m))
		}
	}
	for _, fs := range b.SubScores() {
		if fs.Score <= c.weak {
			out = append(out, weaknessPhrase(fs, b))
		}
	}
	if len(out) == 0 && b.TotalScore < c.high {
		out = append(out, "Relative weakness: "+weaknessPhrase(ranked[len(ranked)-1], b))
	}
	return out
}

func strengthPhrase(fs scoring.FactorScore, b scoring.AIScoreBreakdown, m scoring.StockMetrics) string {
	score := formatScore(fs.Score)
	switch fs.Factor {
	case scoring.FactorFundamental:
		return fmt.Sprintf("Solid fundamentals (%s): ROE %s, net margin %s", score, FormatPercent(m.ROE), FormatPercent(m.NetMargin))
	case scoring.FactorValuation:
		peg := notAvailable
		if v, ok := scoring.PreferredPEG(m); ok {
			peg = FormatRatio(&v)
		}
		return fmt.Sprintf("Attractive valuation (%s): %s versus sector, PEG %s", score, b.ValuationVsSector, peg)
	case scoring.FactorGrowth:
		return fmt.Sprintf("Strong growth (%s): 5Y EPS growth %s, outlook %s", score, FormatPercent(m.EPSGrowth5Y), b.GrowthOutlook)
	case scoring.FactorMomentum:
		return fmt.Sprintf("Positive momentum (%s): trend %s", score, b.MomentumTrend)
	case scoring.FactorSentiment:
		return fmt.Sprintf("Favourable news flow (%s): %s", score, b.SentimentSummary)
	default:
		return fmt.Sprintf("High business quality (%s): ROA %s, free cash flow %s", score, FormatPercent(m.ROA), FormatCurrency(m.FreeCashFlow))
	}
}

func weaknessPhrase(fs scoring.FactorScore, b scoring.AIScoreBreakdown) string {
	score := formatScore(fs.Score)
	switch fs.Factor {
	case scoring.FactorFundamental:
		return fmt.Sprintf("Weak fundamentals (%s)", score)
	case scoring.FactorValuation:
		return fmt.Sprintf("Stretched valuation (%s): %s versus sector", score, b.ValuationVsSector)
	case scoring.FactorGrowth:
		return fmt.Sprintf("Soft growth (%s): outlook %s", score, b.GrowthOutlook)
	case scoring.FactorMomentum:
		return fmt.Sprintf("Poor momentum (%s): trend %s", score, b.MomentumTrend)
	case scoring.FactorSentiment:
		return fmt.Sprintf("Negative news flow (%s): %s", score, b.SentimentSummary)
	default:
		return fmt.Sprintf("Low business quality (%s)", score)
	}
}

func flagPhrase(flag string, b scoring.AIScoreBreakdown, m scoring.StockMetrics) string {
	switch flag {
	case scoring.FlagHighDebt:
		return fmt.Sprintf("High debt: debt/equity of %s", FormatRatio(m.DebtToEquity))
	case scoring.FlagNegativeFreeCash:
		return fmt.Sprintf("Negative free cash flow of %s", FormatCurrency(m.FreeCashFlow))
	case scoring.FlagBearishTrend:
		return "Bearish trend: short-term average below the long-term average"
	case scoring.FlagNegativeSentiment:
		return fmt.Sprintf("Negative sentiment: %s", b.SentimentSummary)
	case scoring.FlagDeceleratingGrowth:
		return "Decelerating growth: recent EPS growth trails its long-run rate"
	case scoring.FlagExpensiveVsSector:
		return fmt.Sprintf("Expensive versus sector at P/E %s", FormatRatio(m.PE))
	default:
		return flag
	}
}

func factorNoun(f scoring.Factor) string {
	switch f {
	case scoring.FactorFundamental:
		return "fundamentals"
	case scoring.FactorSentiment:
		return "news sentiment"
	default:
		return string(f)
	}
}

func metricRows(m scoring.StockMetrics, perf scoring.PricePerformance) []MetricRow {
	var peg *float64
	if v, ok := scoring.PreferredPEG(m); ok {
		peg = &v
	}
	rows := []MetricRow{
		{Name: "Price", Value: FormatCurrency(m.Price)},
		{Name: "Market Cap", Value: FormatCurrency(m.MarketCap)},
		{Name: "P/E", Value: FormatRatio(m.PE)},
		{Name: "Forward P/E", Value: FormatRatio(m.ForwardPE)},
		{Name: "PEG", Value: FormatRatio(peg)},
		{Name: "P/B", Value: FormatRatio(m.PB)},
		{Name: "EPS Growth (TTM)", Value: FormatPercent(m.EPSGrowthTrailing)},
		{Name: "EPS Growth (5Y)", Value: FormatPercent(m.EPSGrowth5Y)},
		{Name: "Revenue Growth (5Y)", Value: FormatPercent(m.RevenueGrowth5Y)},
		{Name: "ROE", Value: FormatPercent(m.ROE)},
		{Name: "ROA", Value: FormatPercent(m.ROA)},
		{Name: "Gross Margin", Value: FormatPercent(m.GrossMargin)},
		{Name: "Net Margin", Value: FormatPercent(m.NetMargin)},
		{Name: "Current Ratio", Value: FormatRatio(m.CurrentRatio)},
		{Name: "Debt/Equity", Value: FormatRatio(m.DebtToEquity)},
		{Name: "Free Cash Flow", Value: FormatCurrency(m.FreeCashFlow)},
	}

	perfRows := []struct {
		name string
		v    *float64
	}{
		{"1D", perf.OneDay}, {"1W", perf.OneWeek}, {"1M", perf.OneMonth}, {"YTD", perf.YTD}, {"52W", perf.OneYear},
	}
	for _, p := range perfRows {
		if p.v != nil {
			rows = append(rows, MetricRow{Name: "Performance " + p.name, Value: FormatChange(p.v)})
		}
	}
	return rows
}

// catalysts lists the next earnings report first, then recent headlines.
func catalysts(nextEarnings *time.Time, news []scoring.NewsItem) []string {
	var out []string
	if nextEarnings != nil {
		out = append(out, "Earnings report on "+nextEarnings.Format("Jan 02, 2006"))
	}
	for _, item := range news {
		if len(out) >= maxCatalysts {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		var meta []string
		if item.Source != "" {
			meta = append(meta, item.Source)
		}
		if item.PublishedAt != nil {
			meta = append(meta, item.PublishedAt.Format("Jan 02, 2006"))
		}
		if len(meta) > 0 {
			title = fmt.Sprintf("%s (%s)", title, strings.Join(meta, ", "))
		}
		out = append(out, title)
	}
	return out
}

func relatedAssets(assets []scoring.RelatedAsset) []string {
	out := make([]string, 0, len(assets))
	for _, a := range assets {
		out = append(out, fmt.Sprintf("%s (%s, %s): %s, %s", a.Symbol, a.Name, a.Type, FormatCurrency(a.Price), FormatChange(a.PercentChange)))
	}
	return out
}

// QuickSummary is the one-line fallback used when no AI breakdown exists.
func QuickSummary(profile scoring.StockProfile, rec scoring.Recommendation, score float64, price *float64) string {
	parts := []string{
		profile.Symbol,
		string(rec),
		fmt.Sprintf("Score: %.1f/10", score),
		FormatCurrency(price),
	}
	if profile.Sector != "" {
		parts = append(parts, profile.Sector)
	}
	return strings.Join(parts, " | ")
}
