package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

type finvizRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	now            func() time.Time
}

// NewFinvizRepository creates a scraper for the Finviz quote page snapshot table.
func NewFinvizRepository(cfg *config.Config, log *logger.Logger) SnapshotRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Finviz.MaxRequestPerMinute)
	return &finvizRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		now:            time.Now,
	}
}

func (r *finvizRepository) GetSnapshot(ctx context.Context, symbol string) (*dto.FinvizSnapshot, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/quote.ashx?t=%s", r.cfg.Finviz.BaseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create finviz request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.WarnContext(ctx, "Failed to fetch Finviz quote page", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrSymbolNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: finviz status %d", ErrUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse finviz page: %w", err)
	}

	values := parseSnapshotTable(doc)
	if len(values) == 0 {
		return nil, ErrSymbolNotFound
	}

	return &dto.FinvizSnapshot{
		Symbol:          symbol,
		PEG:             parseFinvizNumber(values["PEG"]),
		ForwardPE:       parseFinvizNumber(values["Forward P/E"]),
		EPSThisYear:     parseFinvizPercent(values["EPS this Y"]),
		EPSNextYear:     parseFinvizPercent(values["EPS next Y"]),
		EPSNext5Y:       parseFinvizPercent(values["EPS next 5Y"]),
		EPSPast5Y:       parseFinvizPercent(values["EPS past 5Y"]),
		SalesPast5Y:     parseFinvizPercent(values["Sales past 5Y"]),
		InterestCovered: parseFinvizNumber(values["Int Cov"]),
		EarningsDate:    parseFinvizEarnings(values["Earnings"], r.now()),
	}, nil
}

// parseSnapshotTable reads the label/value cell pairs of the snapshot table.
func parseSnapshotTable(doc *goquery.Document) map[string]string {
	values := make(map[string]string)
	doc.Find("table.snapshot-table2 tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		for i := 0; i+1 < cells.Length(); i += 2 {
			label := strings.TrimSpace(cells.Eq(i).Text())
			if label == "" {
				continue
			}
			values[label] = strings.TrimSpace(cells.Eq(i + 1).Text())
		}
	})
	return values
}

func parseFinvizNumber(text string) *float64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" || text == "-" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseFinvizPercent(text string) *float64 {
	v := parseFinvizNumber(strings.TrimSuffix(strings.TrimSpace(text), "%"))
	if v == nil {
		return nil
	}
	frac := *v / 100
	return &frac
}

// earningsWindow bounds how far from today a year-less earnings date may fall.
const earningsWindow = 6

// parseFinvizEarnings reads cells like "Apr 24 AMC". The page omits the year,
// so the date is placed in the year that puts it within six months of ref.
func parseFinvizEarnings(text string, ref time.Time) *time.Time {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return nil
	}
	md, err := time.Parse("Jan 2", fields[0]+" "+strings.TrimSuffix(fields[1], "/a"))
	if err != nil {
		return nil
	}

	ref = ref.UTC()
	date := time.Date(ref.Year(), md.Month(), md.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case date.Before(ref.AddDate(0, -earningsWindow, 0)):
		date = date.AddDate(1, 0, 0)
	case date.After(ref.AddDate(0, earningsWindow, 0)):
		date = date.AddDate(-1, 0, 0)
	}
	return &date
}
