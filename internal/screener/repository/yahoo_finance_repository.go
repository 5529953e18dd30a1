package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const quoteSummaryModules = "price,summaryProfile,summaryDetail,defaultKeyStatistics,financialData,incomeStatementHistory,earningsTrend"

// YahooFinanceRepository serves fundamentals and price history from Yahoo Finance.
type YahooFinanceRepository interface {
	FundamentalsRepository
	PriceHistoryRepository
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a rate-limited Yahoo Finance client.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

func (r *yahooFinanceRepository) GetFundamentals(ctx context.Context, symbol string) (*dto.Fundamentals, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol), url.QueryEscape(quoteSummaryModules))

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var response dto.QuoteSummaryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode quote summary for %s: %w", symbol, err)
	}
	if response.QuoteSummary.Error != nil {
		return nil, yahooError(response.QuoteSummary.Error)
	}
	if len(response.QuoteSummary.Result) == 0 {
		return nil, ErrSymbolNotFound
	}

	result := response.QuoteSummary.Result[0]
	if result.Price.RegularMarketPrice.Raw == nil && result.FinancialData.CurrentPrice.Raw == nil {
		return nil, ErrSymbolNotFound
	}

	return mapQuoteSummary(symbol, result), nil
}

func (r *yahooFinanceRepository) GetPriceHistory(ctx context.Context, symbol string, rangeData string) (scoring.PriceHistory, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol), url.QueryEscape(rangeData))

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return scoring.PriceHistory{}, err
	}

	var response dto.ChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return scoring.PriceHistory{}, fmt.Errorf("failed to decode chart for %s: %w", symbol, err)
	}
	if response.Chart.Error != nil {
		return scoring.PriceHistory{}, yahooError(response.Chart.Error)
	}
	if len(response.Chart.Result) == 0 {
		return scoring.PriceHistory{}, ErrSymbolNotFound
	}

	return mapChart(response.Chart.Result[0]), nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, endpoint string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", endpoint),
		zap.Int("max_request_per_minute", r.cfg.YahooFinance.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", fields...)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Yahoo Finance API", fields...)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrSymbolNotFound
	case resp.StatusCode != http.StatusOK:
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		r.log.WarnContext(ctx, "Received non-OK response from Yahoo Finance API", fields...)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	return body, nil
}

func yahooError(e *dto.YahooError) error {
	if strings.EqualFold(e.Code, "Not Found") {
		return ErrSymbolNotFound
	}
	return fmt.Errorf("%w: %s: %s", ErrUnavailable, e.Code, e.Description)
}

func mapQuoteSummary(symbol string, q dto.QuoteSummaryResult) *dto.Fundamentals {
	name := q.Price.LongName
	if name == "" {
		name = q.Price.ShortName
	}

	price := q.FinancialData.CurrentPrice.Raw
	if price == nil {
		price = q.Price.RegularMarketPrice.Raw
	}
	pe := q.SummaryDetail.TrailingPE.Raw
	if pe == nil {
		pe = q.SummaryDetail.ForwardPE.Raw
	}
	forwardPE := q.DefaultKeyStatistics.ForwardPE.Raw
	if forwardPE == nil {
		forwardPE = q.SummaryDetail.ForwardPE.Raw
	}

	m := scoring.StockMetrics{
		Price:             price,
		MarketCap:         q.Price.MarketCap.Raw,
		AvgVolume:         q.SummaryDetail.AverageVolume.Raw,
		PE:                pe,
		PEG:               q.DefaultKeyStatistics.PegRatio.Raw,
		ForwardPE:         forwardPE,
		PB:                q.DefaultKeyStatistics.PriceToBook.Raw,
		PS:                q.SummaryDetail.PriceToSalesTrailing12Months.Raw,
		EPSGrowthTrailing: q.FinancialData.EarningsGrowth.Raw,
		RevenueGrowth5Y:   q.FinancialData.RevenueGrowth.Raw,
		ROE:               q.FinancialData.ReturnOnEquity.Raw,
		ROA:               q.FinancialData.ReturnOnAssets.Raw,
		GrossMargin:       q.FinancialData.GrossMargins.Raw,
		OperatingMargin:   q.FinancialData.OperatingMargins.Raw,
		NetMargin:         q.FinancialData.ProfitMargins.Raw,
		CurrentRatio:      q.FinancialData.CurrentRatio.Raw,
		QuickRatio:        q.FinancialData.QuickRatio.Raw,
		Revenue:           q.FinancialData.TotalRevenue.Raw,
		FreeCashFlow:      q.FinancialData.FreeCashflow.Raw,
		Cash:              q.FinancialData.TotalCash.Raw,
		Debt:              q.FinancialData.TotalDebt.Raw,
	}

	// Yahoo reports debt/equity in percent.
	if de := q.FinancialData.DebtToEquity.Raw; de != nil {
		ratio := *de / 100
		m.DebtToEquity = &ratio
	}
	if hist := q.IncomeStatementHistory.IncomeStatementHistory; len(hist) > 0 {
		m.NetIncome = hist[0].NetIncome.Raw
	}
	for _, t := range q.EarningsTrend.Trend {
		switch t.Period {
		case "+1y":
			m.EPSGrowthForward = t.Growth.Raw
		case "-5y":
			m.EPSGrowth5Y = t.Growth.Raw
		case "+5y":
			if m.EPSGrowth5Y == nil {
				m.EPSGrowth5Y = t.Growth.Raw
			}
		}
	}

	return &dto.Fundamentals{
		Profile: scoring.StockProfile{
			Symbol:   symbol,
			Name:     name,
			Exchange: q.Price.ExchangeName,
			Sector:   q.SummaryProfile.Sector,
			Industry: q.SummaryProfile.Industry,
		},
		Metrics: m,
	}
}

func mapChart(c dto.ChartResult) scoring.PriceHistory {
	var closes []*float64
	if len(c.Indicators.Quote) > 0 {
		closes = c.Indicators.Quote[0].Close
	}

	history := scoring.PriceHistory{}
	for i, ts := range c.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		history.Dates = append(history.Dates, time.Unix(ts, 0).UTC())
		history.Closes = append(history.Closes, *closes[i])
	}
	return history
}
