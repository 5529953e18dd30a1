package service

import (
	"context"
	"errors"
	"sync"

	"golang-garp-screener/internal/entity"
	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/internal/screener/repository"
)

func ptrFloat64(v float64) *float64 { return &v }

type fakeFundamentals struct {
	data   map[string]dto.Fundamentals
	errs   map[string]error
	panics map[string]bool
}

func (f *fakeFundamentals) GetFundamentals(_ context.Context, symbol string) (*dto.Fundamentals, error) {
	if f.panics[symbol] {
		panic("unexpected quote payload for " + symbol)
	}
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	d, ok := f.data[symbol]
	if !ok {
		return nil, repository.ErrSymbolNotFound
	}
	return &d, nil
}

type fakeHistory struct {
	mu    sync.Mutex
	calls map[string]int
	errs  map[string]error
}

func (f *fakeHistory) GetPriceHistory(_ context.Context, symbol string, _ string) (scoring.PriceHistory, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[symbol]++
	f.mu.Unlock()

	if err, ok := f.errs[symbol]; ok {
		return scoring.PriceHistory{}, err
	}
	closes := make([]float64, 260)
	for i := range closes {
		closes[i] = 100 + float64(i)*0.2
	}
	return scoring.PriceHistory{Closes: closes}, nil
}

type fakeNews struct {
	mu     sync.Mutex
	calls  int
	errs   map[string]error
	panics map[string]bool
}

func (f *fakeNews) GetNews(_ context.Context, symbol string, _ int) ([]scoring.NewsItem, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.panics[symbol] {
		panic("malformed feed for " + symbol)
	}
	if err, ok := f.errs[symbol]; ok {
		return nil, err
	}
	return []scoring.NewsItem{
		{Title: symbol + " beats estimates with record growth", Source: "Reuters"},
		{Title: symbol + " announces expansion", Source: "Bloomberg"},
	}, nil
}

type fakeSnapshot struct {
	data map[string]dto.FinvizSnapshot
}

func (f *fakeSnapshot) GetSnapshot(_ context.Context, symbol string) (*dto.FinvizSnapshot, error) {
	d, ok := f.data[symbol]
	if !ok {
		return nil, repository.ErrSymbolNotFound
	}
	return &d, nil
}

type fakeStocks struct {
	stocks []entity.Stock
	err    error
}

func (f *fakeStocks) GetStocks(_ context.Context) ([]entity.Stock, error) {
	return f.stocks, f.err
}

type fakeRunRepo struct {
	saved   []*entity.ScreenerRun
	saveErr error
	keep    int
	deleted int64
}

func (f *fakeRunRepo) Save(_ context.Context, run *entity.ScreenerRun) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, run)
	return nil
}

func (f *fakeRunRepo) FindAll(_ context.Context, limit int) ([]entity.ScreenerRun, error) {
	var out []entity.ScreenerRun
	for i := len(f.saved) - 1; i >= 0; i-- {
		out = append(out, *f.saved[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRunRepo) FindByID(_ context.Context, id string) (*entity.ScreenerRun, error) {
	for _, r := range f.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, repository.ErrRunNotFound
}

func (f *fakeRunRepo) FindStock(_ context.Context, runID string, symbol string) (*entity.ScoredStock, error) {
	for _, r := range f.saved {
		if r.ID != runID {
			continue
		}
		for i := range r.Stocks {
			if r.Stocks[i].Symbol == symbol {
				return &r.Stocks[i], nil
			}
		}
	}
	return nil, repository.ErrRunNotFound
}

func (f *fakeRunRepo) Delete(_ context.Context, id string) error {
	for i, r := range f.saved {
		if r.ID == id {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return nil
		}
	}
	return repository.ErrRunNotFound
}

func (f *fakeRunRepo) DeleteOlderThanNewest(_ context.Context, keep int) (int64, error) {
	f.keep = keep
	return f.deleted, nil
}

type fakeNotifier struct {
	messages []string
	err      error
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.messages = append(f.messages, text)
	return f.err
}

var errProviderDown = errors.New("connection refused")

func garpFundamentals(symbol, sector string, pe, peg, growth, roe float64) dto.Fundamentals {
	return dto.Fundamentals{
		Profile: scoring.StockProfile{Symbol: symbol, Name: symbol + " Corp", Exchange: "NASDAQ", Sector: sector, Industry: "Software"},
		Metrics: scoring.StockMetrics{
			Price:             ptrFloat64(150),
			MarketCap:         ptrFloat64(50e9),
			AvgVolume:         ptrFloat64(2e6),
			PE:                ptrFloat64(pe),
			PEG:               ptrFloat64(peg),
			ForwardPE:         ptrFloat64(pe * 0.9),
			EPSGrowthTrailing: ptrFloat64(growth),
			EPSGrowthForward:  ptrFloat64(growth * 1.1),
			EPSGrowth5Y:       ptrFloat64(growth),
			RevenueGrowth5Y:   ptrFloat64(growth * 0.8),
			ROE:               ptrFloat64(roe),
			ROA:               ptrFloat64(roe / 2),
			OperatingMargin:   ptrFloat64(0.25),
			NetMargin:         ptrFloat64(0.18),
			CurrentRatio:      ptrFloat64(1.8),
			DebtToEquity:      ptrFloat64(0.4),
			FreeCashFlow:      ptrFloat64(2e9),
		},
	}
}

func newTestConfig() *config.Config {
	return &config.Config{
		Screener: config.Screener{
			Name:              "test",
			Symbols:           []string{"AAA", "BBB", "CCC", "DDD", "EEE"},
			MaxConcurrent:     2,
			MaxResults:        10,
			NewsLimit:         5,
			HistoryRange:      "1y",
			EnrichmentEnabled: true,
		},
	}
}

func newTestProviders() (Providers, *fakeHistory, *fakeNews) {
	history := &fakeHistory{}
	news := &fakeNews{}
	return Providers{
		Fundamentals: &fakeFundamentals{
			data: map[string]dto.Fundamentals{
				"AAA": garpFundamentals("AAA", "Technology", 18, 0.8, 0.25, 0.30),
				"BBB": garpFundamentals("BBB", "Technology", 30, 1.6, 0.10, 0.12),
				"CCC": garpFundamentals("CCC", "Healthcare", 14, 0.6, 0.30, 0.22),
				"DDD": garpFundamentals("DDD", "Healthcare", 22, 1.2, 0.15, 0.18),
			},
		},
		History: history,
		News:    news,
	}, history, news
}
