package service

import (
	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/repository"
	"golang-garp-screener/pkg/logger"

	"gorm.io/gorm"
)

// NewProviders builds the market data providers described by cfg. The
// stocks table is only wired when db is not nil.
func NewProviders(cfg *config.Config, log *logger.Logger, db *gorm.DB) Providers {
	yahoo := repository.NewYahooFinanceRepository(cfg, log)
	news := repository.NewNewsRepository(cfg, log)
	if cfg.Cache.Enabled {
		yahoo = repository.NewCachedYahooFinanceRepository(yahoo, cfg.Cache.TTL)
		news = repository.NewCachedNewsRepository(news, cfg.Cache.TTL)
	}

	providers := Providers{
		Fundamentals: yahoo,
		History:      yahoo,
		News:         news,
	}
	if cfg.Finviz.Enabled {
		providers.Snapshot = repository.NewFinvizRepository(cfg, log)
	}
	if db != nil {
		providers.Stocks = repository.NewStocksRepository(db)
	}
	return providers
}
