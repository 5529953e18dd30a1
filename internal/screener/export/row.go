package export

import (
	"strings"

	"golang-garp-screener/internal/screener/dto"
)

// stockRow is the flat tabular form of a scored stock. The order of values
// must follow the field order.
type stockRow struct {
	Rank             int      `csv:"rank"`
	Symbol           string   `csv:"symbol"`
	Name             string   `csv:"name"`
	Exchange         string   `csv:"exchange"`
	Sector           string   `csv:"sector"`
	Industry         string   `csv:"industry"`
	Recommendation   string   `csv:"recommendation"`
	TotalScore       float64  `csv:"total_score"`
	BasicScore       float64  `csv:"basic_score"`
	FundamentalScore *float64 `csv:"fundamental_score"`
	ValuationScore   *float64 `csv:"valuation_score"`
	GrowthScore      *float64 `csv:"growth_score"`
	MomentumScore    *float64 `csv:"momentum_score"`
	SentimentScore   *float64 `csv:"sentiment_score"`
	QualityScore     *float64 `csv:"quality_score"`
	Price            *float64 `csv:"price"`
	MarketCap        *float64 `csv:"market_cap"`
	PE               *float64 `csv:"pe"`
	PEG              *float64 `csv:"peg"`
	EPSGrowth5Y      *float64 `csv:"eps_growth_5y"`
	ROE              *float64 `csv:"roe"`
	DebtToEquity     *float64 `csv:"debt_to_equity"`
	Perf1D           *float64 `csv:"perf_1d"`
	Perf1M           *float64 `csv:"perf_1m"`
	PerfYTD          *float64 `csv:"perf_ytd"`
	Flags            string   `csv:"flags"`
}

func toRows(run *dto.ScreenerRun) []stockRow {
	rows := make([]stockRow, 0, len(run.Stocks))
	for _, s := range run.Stocks {
		r := stockRow{
			Rank:           s.Rank,
			Symbol:         s.Symbol,
			Name:           s.Name,
			Exchange:       s.Exchange,
			Sector:         s.Sector,
			Industry:       s.Industry,
			Recommendation: string(s.Recommendation),
			TotalScore:     s.RankScore(),
			BasicScore:     s.BasicScore.Total,
			Price:          s.Metrics.Price,
			MarketCap:      s.Metrics.MarketCap,
			PE:             s.Metrics.PE,
			PEG:            s.Metrics.PEG,
			EPSGrowth5Y:    s.Metrics.EPSGrowth5Y,
			ROE:            s.Metrics.ROE,
			DebtToEquity:   s.Metrics.DebtToEquity,
			Perf1D:         s.Performance.OneDay,
			Perf1M:         s.Performance.OneMonth,
			PerfYTD:        s.Performance.YTD,
			Flags:          strings.Join(s.Flags(), "; "),
		}
		if b := s.AIScore; b != nil {
			r.FundamentalScore = &b.FundamentalScore
			r.ValuationScore = &b.ValuationScore
			r.GrowthScore = &b.GrowthScore
			r.MomentumScore = &b.MomentumScore
			r.SentimentScore = &b.SentimentScore
			r.QualityScore = &b.QualityScore
		}
		rows = append(rows, r)
	}
	return rows
}

func (r stockRow) values() []interface{} {
	return []interface{}{
		r.Rank,
		r.Symbol,
		r.Name,
		r.Exchange,
		r.Sector,
		r.Industry,
		r.Recommendation,
		r.TotalScore,
		r.BasicScore,
		r.FundamentalScore,
		r.ValuationScore,
		r.GrowthScore,
		r.MomentumScore,
		r.SentimentScore,
		r.QualityScore,
		r.Price,
		r.MarketCap,
		r.PE,
		r.PEG,
		r.EPSGrowth5Y,
		r.ROE,
		r.DebtToEquity,
		r.Perf1D,
		r.Perf1M,
		r.PerfYTD,
		r.Flags,
	}
}
