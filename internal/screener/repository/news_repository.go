package repository

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/pkg/logger"

	"github.com/mmcdole/gofeed"
)

type newsRepository struct {
	cfg *config.Config
	log *logger.Logger
}

// NewNewsRepository creates a news provider backed by a Google News style RSS search.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	return &newsRepository{cfg: cfg, log: log}
}

func (r *newsRepository) GetNews(ctx context.Context, symbol string, limit int) ([]scoring.NewsItem, error) {
	query := fmt.Sprintf(r.cfg.News.Query, symbol)
	feedURL := fmt.Sprintf("%s/search?q=%s&hl=en-US&gl=US&ceid=US:en", r.cfg.News.BaseURL, url.QueryEscape(query))

	fp := gofeed.NewParser()
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Sort items by published date descending
	sort.SliceStable(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return feed.Items[j].PublishedParsed == nil && feed.Items[i].PublishedParsed != nil
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	news := make([]scoring.NewsItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		if limit > 0 && len(news) >= limit {
			break
		}
		title, source := splitHeadline(item.Title)
		if title == "" {
			continue
		}
		news = append(news, scoring.NewsItem{
			Title:       title,
			PublishedAt: item.PublishedParsed,
			Source:      source,
			Link:        item.Link,
		})
	}

	r.log.DebugContext(ctx, "Fetched news", logger.StringField("symbol", symbol), logger.IntField("count", len(news)))
	return news, nil
}

// splitHeadline separates the trailing " - Source" suffix that news aggregators append.
func splitHeadline(raw string) (title, source string) {
	raw = strings.TrimSpace(raw)
	idx := strings.LastIndex(raw, " - ")
	if idx <= 0 {
		return raw, ""
	}
	return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+3:])
}
