package tradeidea

import (
	"strings"
	"testing"
	"time"

	"golang-garp-screener/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrFloat64(v float64) *float64 { return &v }

func sampleInput() Input {
	published := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	return Input{
		Profile: scoring.StockProfile{Symbol: "ACME", Name: "Acme Corp", Sector: "Technology", Industry: "Software"},
		Metrics: scoring.StockMetrics{
			Price:        ptrFloat64(123.45),
			MarketCap:    ptrFloat64(2.5e12),
			PE:           ptrFloat64(18),
			PEG:          ptrFloat64(0.7),
			ROE:          ptrFloat64(0.22),
			NetMargin:    ptrFloat64(0.18),
			EPSGrowth5Y:  ptrFloat64(0.21),
			DebtToEquity: ptrFloat64(1.4),
			FreeCashFlow: ptrFloat64(3.2e9),
		},
		Breakdown: scoring.AIScoreBreakdown{
			FundamentalScore:  7.5,
			ValuationScore:    8.0,
			GrowthScore:       7.0,
			MomentumScore:     5.0,
			SentimentScore:    3.0,
			QualityScore:      6.0,
			TotalScore:        6.58,
			MomentumTrend:     scoring.TrendNeutral,
			GrowthOutlook:     scoring.GrowthStable,
			ValuationVsSector: scoring.ValuationCheap,
			SentimentSummary:  "Very negative (0+ / 2-)",
			Flags:             []string{scoring.FlagNegativeSentiment, scoring.FlagHighDebt},
		},
		Recommendation: scoring.RecommendationBuy,
		Performance:    scoring.PricePerformance{OneDay: ptrFloat64(0.012)},
		News: []scoring.NewsItem{
			{Title: "Acme launches new platform", Source: "Reuters", PublishedAt: &published},
			{Title: "Lawsuit filed against Acme"},
		},
		RelatedAssets: []scoring.RelatedAsset{
			{Symbol: "XLK", Name: "Technology Select Sector SPDR", Type: scoring.AssetTypeETF, Price: ptrFloat64(210), PercentChange: ptrFloat64(0.005)},
		},
		GeneratedAt: time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC),
	}
}

func TestComposer_Compose(t *testing.T) {
	c := NewComposer(scoring.DefaultTables().Thresholds)
	idea := c.Compose(sampleInput())

	assert.Equal(t, "ACME: BUY", idea.Title)
	assert.Equal(t, scoring.FactorValuation, idea.Driver)
	assert.Equal(t, HorizonMedium, idea.Horizon)
	assert.Contains(t, idea.Thesis, "valuation (8.0/10) and fundamentals (7.5/10)")

	require.Len(t, idea.Reasons, 3)
	assert.True(t, strings.HasPrefix(idea.Reasons[0], "Solid fundamentals"))
	assert.True(t, strings.HasPrefix(idea.Reasons[1], "Attractive valuation"))
	assert.True(t, strings.HasPrefix(idea.Reasons[2], "Strong growth"))

	require.Len(t, idea.Risks, 3)
	assert.Equal(t, "Negative sentiment: Very negative (0+ / 2-)", idea.Risks[0])
	assert.Equal(t, "High debt: debt/equity of 1.40", idea.Risks[1])
	assert.True(t, strings.HasPrefix(idea.Risks[2], "Negative news flow"))

	assert.Equal(t, []string{"Acme launches new platform (Reuters, Mar 04, 2025)", "Lawsuit filed against Acme"}, idea.Catalysts)
	assert.Contains(t, idea.Metrics, MetricRow{Name: "Market Cap", Value: "$2.50T"})
	assert.Contains(t, idea.Metrics, MetricRow{Name: "ROE", Value: "22.0%"})
	assert.Contains(t, idea.Metrics, MetricRow{Name: "PEG", Value: "0.70"})
	assert.Contains(t, idea.Metrics, MetricRow{Name: "Performance 1D", Value: "+1.20%"})
}

func TestIdea_MarkdownSectionOrder(t *testing.T) {
	c := NewComposer(scoring.DefaultTables().Thresholds)
	md := c.Compose(sampleInput()).Markdown()

	sections := []string{
		"# ACME: BUY",
		"## Investment Thesis",
		"## Reasons to Buy",
		"## Key Metrics",
		"## Catalysts",
		"## Risks",
		"## Related Assets",
		"## Conclusion",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(md, s)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}
	assert.Contains(t, md, "| Price | $123.45 |")
	assert.Contains(t, md, "Medium-term (6-12 months)")
}

func TestIdea_PlainText(t *testing.T) {
	c := NewComposer(scoring.DefaultTables().Thresholds)
	text := c.Compose(sampleInput()).PlainText()

	assert.True(t, strings.HasPrefix(text, "ACME: BUY\n========="))
	assert.Contains(t, text, "REASONS TO BUY\n* Solid fundamentals")
	assert.NotContains(t, text, "##")
}

func TestComposer_EarningsLeadsCatalysts(t *testing.T) {
	in := sampleInput()
	earnings := time.Date(2025, 4, 24, 0, 0, 0, 0, time.UTC)
	in.Breakdown.NextEarningsDate = &earnings
	in.Breakdown.Flags = append(in.Breakdown.Flags, scoring.EarningsEventFlag(earnings))

	idea := NewComposer(scoring.DefaultTables().Thresholds).Compose(in)

	require.Len(t, idea.Catalysts, 3)
	assert.Equal(t, "Earnings report on Apr 24, 2025", idea.Catalysts[0])
	assert.Equal(t, "Acme launches new platform (Reuters, Mar 04, 2025)", idea.Catalysts[1])
	assert.Len(t, idea.Risks, 3, "event flags are not risks")

	md := idea.Markdown()
	assert.Contains(t, md, "## Catalysts\n\n- Earnings report on Apr 24, 2025\n")

	in.News = nil
	md = NewComposer(scoring.DefaultTables().Thresholds).Compose(in).Markdown()
	assert.NotContains(t, md, noCatalysts)
}

func TestComposer_NoNewsOrAssets(t *testing.T) {
	in := sampleInput()
	in.News = nil
	in.RelatedAssets = nil

	md := NewComposer(scoring.DefaultTables().Thresholds).Compose(in).Markdown()
	assert.Contains(t, md, noCatalysts)
	assert.NotContains(t, md, "## Related Assets")
}

func TestComposer_HorizonFollowsDriver(t *testing.T) {
	tests := []struct {
		name     string
		scores   [6]float64
		expected Horizon
	}{
		{name: "momentum led", scores: [6]float64{5, 5, 5, 9, 5, 5}, expected: HorizonShort},
		{name: "sentiment led", scores: [6]float64{5, 5, 5, 5, 9, 5}, expected: HorizonShort},
		{name: "growth led", scores: [6]float64{5, 5, 9, 5, 5, 5}, expected: HorizonMedium},
		{name: "quality led", scores: [6]float64{5, 5, 5, 5, 5, 9}, expected: HorizonLong},
		{name: "tie keeps weight order", scores: [6]float64{7, 7, 5, 5, 5, 5}, expected: HorizonLong},
	}

	c := NewComposer(scoring.DefaultTables().Thresholds)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			in.Breakdown = breakdownFrom(tt.scores)
			assert.Equal(t, tt.expected, c.Compose(in).Horizon)
		})
	}
}

func breakdownFrom(s [6]float64) scoring.AIScoreBreakdown {
	b := scoring.AIScoreBreakdown{
		FundamentalScore:  s[0],
		ValuationScore:    s[1],
		GrowthScore:       s[2],
		MomentumScore:     s[3],
		SentimentScore:    s[4],
		QualityScore:      s[5],
		MomentumTrend:     scoring.TrendNeutral,
		GrowthOutlook:     scoring.GrowthStable,
		ValuationVsSector: scoring.ValuationFair,
	}
	b.TotalScore = scoring.NewScorer(scoring.DefaultTables()).Total(b)
	return b
}

func TestComposer_MidRangeScoresAlwaysDifferentiate(t *testing.T) {
	c := NewComposer(scoring.DefaultTables().Thresholds)
	grid := []float64{3.5, 4.5, 5, 5.5, 6, 6.5, 7.5, 8.5}

	for _, a := range grid {
		for _, b := range grid {
			for _, x := range grid {
				scores := [6]float64{a, b, x, (a + b) / 2, (b + x) / 2, (a + x) / 2}
				in := sampleInput()
				in.Breakdown = breakdownFrom(scores)
				total := in.Breakdown.TotalScore
				if total < 4 || total > 8 {
					continue
				}
				idea := c.Compose(in)
				assert.False(t, len(idea.Reasons) == 0 && len(idea.Risks) == 0, "scores %v", scores)
				assert.NotEmpty(t, idea.Reasons, "scores %v", scores)
				if total < 8 {
					assert.NotEmpty(t, idea.Risks, "scores %v", scores)
				}
			}
		}
	}
}

func TestQuickSummary(t *testing.T) {
	got := QuickSummary(scoring.StockProfile{Symbol: "ACME", Sector: "Technology"}, scoring.RecommendationHold, 5.73, ptrFloat64(42))
	assert.Equal(t, "ACME | HOLD | Score: 5.7/10 | $42.00 | Technology", got)

	got = QuickSummary(scoring.StockProfile{Symbol: "ZZZ"}, scoring.RecommendationWatch, 3, nil)
	assert.Equal(t, "ZZZ | WATCH | Score: 3.0/10 | N/A", got)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "N/A", FormatCurrency(nil))
	assert.Equal(t, "$1.50B", FormatCurrency(ptrFloat64(1.5e9)))
	assert.Equal(t, "-$2.00M", FormatCurrency(ptrFloat64(-2e6)))
	assert.Equal(t, "$999.99", FormatCurrency(ptrFloat64(999.99)))
	assert.Equal(t, "15.0%", FormatPercent(ptrFloat64(0.15)))
	assert.Equal(t, "-3.25%", FormatChange(ptrFloat64(-0.0325)))
	assert.Equal(t, "0.33", FormatRatio(ptrFloat64(1.0/3)))
}
