package config

import (
	"fmt"
	"time"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/pkg/config"
)

// Screener holds the screening run configuration.
type Screener struct {
	Name              string            `mapstructure:"name"`
	Symbols           []string          `mapstructure:"symbols"`
	UseStocksTable    bool              `mapstructure:"use_stocks_table"`
	MaxConcurrent     int               `mapstructure:"max_concurrent"`
	MaxResults        int               `mapstructure:"max_results"`
	NewsLimit         int               `mapstructure:"news_limit"`
	HistoryRange      string            `mapstructure:"history_range"`
	EnrichmentEnabled bool              `mapstructure:"enrichment_enabled"`
	RelatedAssets     bool              `mapstructure:"related_assets"`
	Schedule          string            `mapstructure:"schedule"`
	KeepRuns          int               `mapstructure:"keep_runs"`
	Filters           scoring.FilterSet `mapstructure:"filters"`
	Scoring           Scoring           `mapstructure:"scoring"`

	RedisStreamRunTimeout         time.Duration `mapstructure:"redis_stream_run_timeout"`
	RedisStreamRunRetryInterval   time.Duration `mapstructure:"redis_stream_run_retry_interval"`
	RedisStreamRunMaxIdleDuration time.Duration `mapstructure:"redis_stream_run_max_idle_duration"`
	RedisStreamRunMaxRetry        int           `mapstructure:"redis_stream_run_max_retry"`
}

// Scoring overrides the default scoring tables. Zero values keep the defaults.
type Scoring struct {
	Weights          *scoring.Weights `mapstructure:"weights"`
	PositiveKeywords []string         `mapstructure:"positive_keywords"`
	NegativeKeywords []string         `mapstructure:"negative_keywords"`
	StrongBuy        float64          `mapstructure:"strong_buy"`
	Buy              float64          `mapstructure:"buy"`
	Hold             float64          `mapstructure:"hold"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Finviz holds the configuration for the Finviz quote page scraper.
type Finviz struct {
	Enabled             bool   `mapstructure:"enabled"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// News holds the configuration for the RSS news provider.
type News struct {
	BaseURL string `mapstructure:"base_url"`
	Query   string `mapstructure:"query"`
}

// Cache holds the in-memory provider cache settings.
type Cache struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Export holds the default export settings of the CLI.
type Export struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"`
}

// Config holds the full configuration for the screener.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Screener     Screener        `mapstructure:"screener"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	Finviz       Finviz          `mapstructure:"finviz"`
	News         News            `mapstructure:"news"`
	Cache        Cache           `mapstructure:"cache"`
	Telegram     Telegram        `mapstructure:"telegram"`
	Export       Export          `mapstructure:"export"`
}

// Load loads the screener configuration from the given path and fills defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Screener.Name == "" {
		c.Screener.Name = "default"
	}
	if c.Screener.MaxConcurrent <= 0 {
		c.Screener.MaxConcurrent = 4
	}
	if c.Screener.MaxResults <= 0 {
		c.Screener.MaxResults = 100
	}
	if c.Screener.NewsLimit <= 0 {
		c.Screener.NewsLimit = 10
	}
	if c.Screener.KeepRuns <= 0 {
		c.Screener.KeepRuns = 30
	}
	if c.Screener.HistoryRange == "" {
		c.Screener.HistoryRange = "1y"
	}
	if c.Screener.RedisStreamRunTimeout <= 0 {
		c.Screener.RedisStreamRunTimeout = 30 * time.Minute
	}
	if c.Screener.RedisStreamRunRetryInterval <= 0 {
		c.Screener.RedisStreamRunRetryInterval = time.Minute
	}
	if c.Screener.RedisStreamRunMaxIdleDuration <= 0 {
		c.Screener.RedisStreamRunMaxIdleDuration = 45 * time.Minute
	}
	if c.Screener.RedisStreamRunMaxRetry <= 0 {
		c.Screener.RedisStreamRunMaxRetry = 3
	}
	if c.YahooFinance.BaseURL == "" {
		c.YahooFinance.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.YahooFinance.MaxRequestPerMinute <= 0 {
		c.YahooFinance.MaxRequestPerMinute = 60
	}
	if c.Finviz.BaseURL == "" {
		c.Finviz.BaseURL = "https://finviz.com"
	}
	if c.Finviz.MaxRequestPerMinute <= 0 {
		c.Finviz.MaxRequestPerMinute = 12
	}
	if c.News.BaseURL == "" {
		c.News.BaseURL = "https://news.google.com/rss"
	}
	if c.News.Query == "" {
		c.News.Query = "%s stock"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 15 * time.Minute
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "output"
	}
	if c.Export.Format == "" {
		c.Export.Format = "json"
	}
}

// Tables builds the scoring tables from the defaults and the configured overrides.
func (s Screener) Tables() (scoring.Tables, error) {
	tables := scoring.DefaultTables()
	if s.Scoring.Weights != nil {
		tables.Weights = *s.Scoring.Weights
	}
	if len(s.Scoring.PositiveKeywords) > 0 || len(s.Scoring.NegativeKeywords) > 0 {
		positive, negative := scoring.DefaultKeywords()
		if len(s.Scoring.PositiveKeywords) > 0 {
			positive = s.Scoring.PositiveKeywords
		}
		if len(s.Scoring.NegativeKeywords) > 0 {
			negative = s.Scoring.NegativeKeywords
		}
		tables.Lexicon = scoring.NewLexicon(positive, negative)
	}
	if s.Scoring.StrongBuy > 0 {
		tables.Thresholds.StrongBuy = s.Scoring.StrongBuy
	}
	if s.Scoring.Buy > 0 {
		tables.Thresholds.Buy = s.Scoring.Buy
	}
	if s.Scoring.Hold > 0 {
		tables.Thresholds.Hold = s.Scoring.Hold
	}
	if err := tables.Validate(); err != nil {
		return scoring.Tables{}, fmt.Errorf("invalid scoring configuration: %w", err)
	}
	return tables, nil
}
