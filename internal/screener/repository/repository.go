package repository

import (
	"context"
	"errors"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/dto"
)

var (
	// ErrSymbolNotFound is returned when a provider has no data for a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrUnavailable is returned when a provider cannot be reached or answers with an error.
	ErrUnavailable = errors.New("provider unavailable")
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// FundamentalsRepository returns the fundamentals snapshot of a symbol.
type FundamentalsRepository interface {
	GetFundamentals(ctx context.Context, symbol string) (*dto.Fundamentals, error)
}

// PriceHistoryRepository returns the daily close series of a symbol, oldest first.
type PriceHistoryRepository interface {
	GetPriceHistory(ctx context.Context, symbol string, rangeData string) (scoring.PriceHistory, error)
}

// NewsRepository returns recent headlines for a symbol, most recent first.
type NewsRepository interface {
	GetNews(ctx context.Context, symbol string, limit int) ([]scoring.NewsItem, error)
}

// SnapshotRepository returns the secondary valuation snapshot of a symbol.
type SnapshotRepository interface {
	GetSnapshot(ctx context.Context, symbol string) (*dto.FinvizSnapshot, error)
}
