package repository

import (
	"context"
	"fmt"
	"time"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/dto"

	"github.com/patrickmn/go-cache"
)

type cachedYahooFinanceRepository struct {
	inner         YahooFinanceRepository
	inmemoryCache *cache.Cache
}

// NewCachedYahooFinanceRepository memoizes successful fundamentals and history lookups for ttl.
func NewCachedYahooFinanceRepository(inner YahooFinanceRepository, ttl time.Duration) YahooFinanceRepository {
	return &cachedYahooFinanceRepository{
		inner:         inner,
		inmemoryCache: cache.New(ttl, 2*ttl),
	}
}

func (r *cachedYahooFinanceRepository) GetFundamentals(ctx context.Context, symbol string) (*dto.Fundamentals, error) {
	key := "fundamentals:" + symbol
	if v, ok := r.inmemoryCache.Get(key); ok {
		f := *v.(*dto.Fundamentals)
		return &f, nil
	}
	f, err := r.inner.GetFundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}
	r.inmemoryCache.SetDefault(key, f)
	copied := *f
	return &copied, nil
}

func (r *cachedYahooFinanceRepository) GetPriceHistory(ctx context.Context, symbol string, rangeData string) (scoring.PriceHistory, error) {
	key := fmt.Sprintf("history:%s:%s", symbol, rangeData)
	if v, ok := r.inmemoryCache.Get(key); ok {
		return v.(scoring.PriceHistory), nil
	}
	h, err := r.inner.GetPriceHistory(ctx, symbol, rangeData)
	if err != nil {
		return scoring.PriceHistory{}, err
	}
	r.inmemoryCache.SetDefault(key, h)
	return h, nil
}

type cachedNewsRepository struct {
	inner         NewsRepository
	inmemoryCache *cache.Cache
}

// NewCachedNewsRepository memoizes successful news lookups for ttl.
func NewCachedNewsRepository(inner NewsRepository, ttl time.Duration) NewsRepository {
	return &cachedNewsRepository{
		inner:         inner,
		inmemoryCache: cache.New(ttl, 2*ttl),
	}
}

func (r *cachedNewsRepository) GetNews(ctx context.Context, symbol string, limit int) ([]scoring.NewsItem, error) {
	key := fmt.Sprintf("news:%s:%d", symbol, limit)
	if v, ok := r.inmemoryCache.Get(key); ok {
		return v.([]scoring.NewsItem), nil
	}
	news, err := r.inner.GetNews(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	r.inmemoryCache.SetDefault(key, news)
	return news, nil
}
