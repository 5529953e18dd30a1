package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"time"

	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/config"
	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/internal/screener/repository"
	"golang-garp-screener/internal/tradeidea"
	"golang-garp-screener/pkg/logger"
	"golang-garp-screener/pkg/telegram"
	"golang-garp-screener/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrEmptyUniverse is returned when a run has no symbols to scan.
	ErrEmptyUniverse = errors.New("screener universe is empty")
	// ErrPersistenceDisabled is returned by operations that need the run store when none is configured.
	ErrPersistenceDisabled = errors.New("run persistence is not configured")
)

// ScreenerService executes screening runs.
type ScreenerService interface {
	Run(ctx context.Context, opts dto.RunOptions) (*dto.ScreenerRun, error)
	Analyze(ctx context.Context, symbol string) (*dto.ScoredStock, error)
	Cleanup(ctx context.Context, keep int) (int64, error)
}

// Providers groups the market data sources of a run. Snapshot and Stocks are optional.
type Providers struct {
	Fundamentals repository.FundamentalsRepository
	History      repository.PriceHistoryRepository
	News         repository.NewsRepository
	Snapshot     repository.SnapshotRepository
	Stocks       repository.StocksRepository
}

type screenerService struct {
	cfg       *config.Config
	logger    *logger.Logger
	providers Providers
	runRepo   repository.ScreenerRunRepository
	notifier  telegram.Notifier
	related   RelatedAssetResolver
	scorer    *scoring.Scorer
	filters   *scoring.FilterEngine
	composer  *tradeidea.Composer
	now       func() time.Time
}

// NewScreenerService creates a new ScreenerService. runRepo, notifier and
// related may be nil, which disables persistence, notifications and related
// assets respectively.
func NewScreenerService(
	cfg *config.Config,
	log *logger.Logger,
	providers Providers,
	runRepo repository.ScreenerRunRepository,
	notifier telegram.Notifier,
	related RelatedAssetResolver,
) (ScreenerService, error) {
	tables, err := cfg.Screener.Tables()
	if err != nil {
		return nil, err
	}
	filters, err := scoring.NewFilterEngine(cfg.Screener.Filters)
	if err != nil {
		return nil, fmt.Errorf("invalid filter configuration: %w", err)
	}
	if providers.Fundamentals == nil || providers.History == nil || providers.News == nil {
		return nil, errors.New("fundamentals, history and news providers are required")
	}

	return &screenerService{
		cfg:       cfg,
		logger:    log,
		providers: providers,
		runRepo:   runRepo,
		notifier:  notifier,
		related:   related,
		scorer:    scoring.NewScorer(tables),
		filters:   filters,
		composer:  tradeidea.NewComposer(tables.Thresholds),
		now:       time.Now,
	}, nil
}

type fetchResult struct {
	symbol       string
	fundamentals *dto.Fundamentals
	err          error
}

type evaluation struct {
	stock  dto.ScoredStock
	errors []string
	failed bool
}

// Run scans the universe, scores the stocks that pass the filters and
// persists the ranked result. Per-symbol failures are recorded on the run;
// only universe and persistence failures are returned as errors. When
// persistence fails the run is returned together with the error.
func (s *screenerService) Run(ctx context.Context, opts dto.RunOptions) (*dto.ScreenerRun, error) {
	start := s.now()
	run := &dto.ScreenerRun{
		ID:         uuid.NewString(),
		ConfigName: s.cfg.Screener.Name,
		Errors:     []string{},
		CreatedAt:  start,
	}
	ctx = logger.WithRunID(ctx, run.ID)

	symbols, universeErrs, err := s.universe(ctx, opts)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load screener universe", logger.ErrorField(err))
		return nil, err
	}
	run.Errors = append(run.Errors, universeErrs...)
	if opts.Limit > 0 && len(symbols) > opts.Limit {
		symbols = symbols[:opts.Limit]
	}
	run.TotalScanned = len(symbols)
	s.logger.InfoContext(ctx, "Starting screener run",
		logger.StringField("config", run.ConfigName),
		logger.IntField("symbols", len(symbols)),
	)

	results, err := s.fetchAll(ctx, symbols)
	if err != nil {
		return nil, err
	}

	var fetched []*dto.Fundamentals
	unavailable := 0
	for _, r := range results {
		if r.err != nil {
			if errors.Is(r.err, repository.ErrUnavailable) {
				unavailable++
			}
			run.Errors = append(run.Errors, fmt.Sprintf("%s: %v", r.symbol, r.err))
			continue
		}
		fetched = append(fetched, r.fundamentals)
	}
	if len(symbols) > 0 && unavailable == len(symbols) {
		run.Errors = append(run.Errors, fmt.Sprintf("fundamentals provider unavailable for all %d symbols", unavailable))
	}

	sectors := BuildSectorAverages(fetched)

	var passed []*dto.Fundamentals
	for _, f := range fetched {
		if failing := s.filters.Failing(f.Profile, f.Metrics); len(failing) > 0 {
			s.logger.DebugContext(ctx, "Stock filtered out",
				logger.StringField("symbol", f.Profile.Symbol),
				logger.Field("filters", failing),
			)
			continue
		}
		passed = append(passed, f)
	}

	evaluations, err := s.evaluateAll(ctx, passed, sectors)
	if err != nil {
		return nil, err
	}

	stocks := make([]dto.ScoredStock, 0, len(evaluations))
	for _, e := range evaluations {
		run.Errors = append(run.Errors, e.errors...)
		if e.failed {
			continue
		}
		stocks = append(stocks, e.stock)
	}
	rankStocks(stocks)
	if len(stocks) > s.cfg.Screener.MaxResults {
		stocks = stocks[:s.cfg.Screener.MaxResults]
	}
	for i := range stocks {
		stocks[i].Rank = i + 1
		stocks[i].RunID = run.ID
	}

	run.Stocks = stocks
	run.TotalMatches = len(stocks)
	run.ExecutionTimeSeconds = s.now().Sub(start).Seconds()

	s.logger.InfoContext(ctx, "Screener run completed",
		logger.IntField("scanned", run.TotalScanned),
		logger.IntField("matches", run.TotalMatches),
		logger.IntField("errors", len(run.Errors)),
		logger.FloatField("execution_time_seconds", run.ExecutionTimeSeconds),
	)

	if err := s.persist(ctx, run); err != nil {
		return run, err
	}
	s.notify(ctx, run)
	return run, nil
}

// Analyze fetches and scores a single symbol without filtering or persisting it.
func (s *screenerService) Analyze(ctx context.Context, symbol string) (*dto.ScoredStock, error) {
	symbol = utils.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	f, err := s.safeFetch(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fundamentals for %s: %w", symbol, err)
	}

	e := s.safeEvaluate(ctx, f, BuildSectorAverages([]*dto.Fundamentals{f}))
	if e.failed {
		return nil, fmt.Errorf("failed to analyze %s: %s", symbol, e.errors[0])
	}
	for _, msg := range e.errors {
		s.logger.WarnContext(ctx, "Analysis degraded", logger.StringField("symbol", symbol), logger.StringField("reason", msg))
	}
	e.stock.Rank = 1
	return &e.stock, nil
}

// Cleanup deletes every run except the newest keep.
func (s *screenerService) Cleanup(ctx context.Context, keep int) (int64, error) {
	if s.runRepo == nil {
		return 0, ErrPersistenceDisabled
	}
	if keep < 0 {
		return 0, fmt.Errorf("keep must not be negative, got %d", keep)
	}
	deleted, err := s.runRepo.DeleteOlderThanNewest(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up screener runs: %w", err)
	}
	s.logger.InfoContext(ctx, "Old screener runs deleted", logger.Field("deleted", deleted), logger.IntField("kept", keep))
	return deleted, nil
}

// universe returns the normalized, de-duplicated symbols to scan. A failing
// stocks table is recorded as a run error unless it was the only source.
func (s *screenerService) universe(ctx context.Context, opts dto.RunOptions) ([]string, []string, error) {
	var raw []string
	var runErrs []string

	if len(opts.Symbols) > 0 {
		raw = opts.Symbols
	} else {
		raw = append(raw, s.cfg.Screener.Symbols...)
		if s.cfg.Screener.UseStocksTable && s.providers.Stocks != nil {
			rows, err := s.providers.Stocks.GetStocks(ctx)
			if err != nil {
				if len(raw) == 0 {
					return nil, nil, fmt.Errorf("failed to load stocks table: %w", err)
				}
				runErrs = append(runErrs, fmt.Sprintf("universe: failed to load stocks table: %v", err))
				s.logger.WarnContext(ctx, "Failed to load stocks table", logger.ErrorField(err))
			}
			for _, row := range rows {
				raw = append(raw, row.Symbol)
			}
		}
	}

	seen := make(map[string]struct{}, len(raw))
	symbols := make([]string, 0, len(raw))
	for _, sym := range raw {
		sym = utils.NormalizeSymbol(sym)
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	if len(symbols) == 0 {
		return nil, nil, ErrEmptyUniverse
	}
	return symbols, runErrs, nil
}

// fetchAll fetches fundamentals with bounded concurrency. Results keep the order of symbols.
func (s *screenerService) fetchAll(ctx context.Context, symbols []string) ([]fetchResult, error) {
	results := make([]fetchResult, len(symbols))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Screener.MaxConcurrent)

	for i, symbol := range symbols {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			f, err := s.safeFetch(gCtx, symbol)
			results[i] = fetchResult{symbol: symbol, fundamentals: f, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screener run interrupted: %w", err)
	}
	return results, nil
}

// safeFetch is fetchFundamentals with a panic turned into the symbol's error.
func (s *screenerService) safeFetch(ctx context.Context, symbol string) (f *dto.Fundamentals, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic(ctx, symbol, r)
			f, err = nil, fmt.Errorf("panic while fetching fundamentals: %v", r)
		}
	}()
	return s.fetchFundamentals(ctx, symbol)
}

// safeEvaluate is evaluate with a panic turned into a failed evaluation.
func (s *screenerService) safeEvaluate(ctx context.Context, f *dto.Fundamentals, sectors SectorAverages) (e evaluation) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic(ctx, f.Profile.Symbol, r)
			e = evaluation{
				failed: true,
				errors: []string{fmt.Sprintf("%s: panic while evaluating: %v", f.Profile.Symbol, r)},
			}
		}
	}()
	return s.evaluate(ctx, f, sectors)
}

func (s *screenerService) logPanic(ctx context.Context, symbol string, r interface{}) {
	s.logger.ErrorContext(ctx, "Recovered panic in screener pipeline",
		logger.StringField("symbol", symbol),
		logger.Field("panic", r),
		logger.StringField("stack", string(debug.Stack())),
	)
}

func (s *screenerService) fetchFundamentals(ctx context.Context, symbol string) (*dto.Fundamentals, error) {
	f, err := s.providers.Fundamentals.GetFundamentals(ctx, symbol)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to fetch fundamentals", logger.StringField("symbol", symbol), logger.ErrorField(err))
		return nil, err
	}
	if f.Profile.Symbol == "" {
		f.Profile.Symbol = symbol
	}

	if s.providers.Snapshot != nil {
		snapshot, err := s.providers.Snapshot.GetSnapshot(ctx, symbol)
		if err != nil {
			s.logger.DebugContext(ctx, "Valuation snapshot unavailable", logger.StringField("symbol", symbol), logger.ErrorField(err))
		} else {
			mergeSnapshot(&f.Metrics, snapshot)
			f.NextEarnings = upcoming(snapshot.EarningsDate, s.now())
		}
	}
	return f, nil
}

// upcoming returns date when it falls on or after the day of now.
func upcoming(date *time.Time, now time.Time) *time.Time {
	if date == nil {
		return nil
	}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil
	}
	return date
}

// mergeSnapshot fills gaps in m from the secondary snapshot. Its PEG is kept
// as the alternative PEG and its five-year sales growth replaces the
// single-year figure the primary provider reports.
func mergeSnapshot(m *scoring.StockMetrics, snap *dto.FinvizSnapshot) {
	if snap == nil {
		return
	}
	m.PEGAlt = snap.PEG
	if m.ForwardPE == nil {
		m.ForwardPE = snap.ForwardPE
	}
	if m.EPSGrowthTrailing == nil {
		m.EPSGrowthTrailing = snap.EPSThisYear
	}
	if m.EPSGrowthForward == nil {
		m.EPSGrowthForward = snap.EPSNextYear
	}
	if m.EPSGrowth5Y == nil {
		m.EPSGrowth5Y = snap.EPSNext5Y
	}
	if m.EPSGrowth5Y == nil {
		m.EPSGrowth5Y = snap.EPSPast5Y
	}
	if snap.SalesPast5Y != nil {
		m.RevenueGrowth5Y = snap.SalesPast5Y
	}
	if m.InterestCoverage == nil {
		m.InterestCoverage = snap.InterestCovered
	}
}

func (s *screenerService) evaluateAll(ctx context.Context, stocks []*dto.Fundamentals, sectors SectorAverages) ([]evaluation, error) {
	evaluations := make([]evaluation, len(stocks))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Screener.MaxConcurrent)

	for i, f := range stocks {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			evaluations[i] = s.safeEvaluate(gCtx, f, sectors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screener run interrupted: %w", err)
	}
	return evaluations, nil
}

// evaluate scores one stock. Enrichment failures degrade the affected
// sub-score to neutral; the AI breakdown is omitted when enrichment is off
// or both enrichment sources failed.
func (s *screenerService) evaluate(ctx context.Context, f *dto.Fundamentals, sectors SectorAverages) evaluation {
	symbol := f.Profile.Symbol
	e := evaluation{
		stock: dto.ScoredStock{
			StockProfile: f.Profile,
			Metrics:      f.Metrics,
			BasicScore:   scoring.ComputeBasicScore(f.Metrics),
		},
	}

	history, historyErr := s.providers.History.GetPriceHistory(ctx, symbol, s.cfg.Screener.HistoryRange)
	if historyErr != nil {
		e.errors = append(e.errors, fmt.Sprintf("%s: price history: %v", symbol, historyErr))
		history = scoring.PriceHistory{}
	} else {
		e.stock.Performance = scoring.ComputePerformance(history, utils.TimeNowMarket().Year())
	}

	if s.cfg.Screener.EnrichmentEnabled {
		news, newsErr := s.providers.News.GetNews(ctx, symbol, s.cfg.Screener.NewsLimit)
		if newsErr != nil {
			e.errors = append(e.errors, fmt.Sprintf("%s: news: %v", symbol, newsErr))
			news = nil
		}
		e.stock.News = news

		if historyErr == nil || newsErr == nil {
			breakdown := s.scorer.Score(scoring.Input{
				Metrics:      f.Metrics,
				SectorPE:     sectors.PE(f.Profile.Sector),
				News:         news,
				History:      history,
				NextEarnings: f.NextEarnings,
			})
			e.stock.AIScore = &breakdown
		}
	}

	e.stock.Recommendation = s.scorer.Recommend(e.stock.RankScore())

	if s.cfg.Screener.RelatedAssets && s.related != nil {
		e.stock.RelatedAssets = s.related.Resolve(ctx, f.Profile)
	}
	e.stock.TradeIdea = utils.ToPointer(s.tradeIdea(e.stock))
	return e
}

func (s *screenerService) tradeIdea(stock dto.ScoredStock) string {
	if stock.AIScore == nil {
		return tradeidea.QuickSummary(stock.StockProfile, stock.Recommendation, stock.RankScore(), scoring.Sanitize(stock.Metrics).Price)
	}
	idea := s.composer.Compose(tradeidea.Input{
		Profile:        stock.StockProfile,
		Metrics:        stock.Metrics,
		Breakdown:      *stock.AIScore,
		Recommendation: stock.Recommendation,
		Performance:    stock.Performance,
		News:           stock.News,
		RelatedAssets:  stock.RelatedAssets,
		GeneratedAt:    s.now().In(utils.GetMarketTimeLocation()),
	})
	return idea.Markdown()
}

// rankStocks orders by rank score descending, ties by symbol ascending.
func rankStocks(stocks []dto.ScoredStock) {
	sort.SliceStable(stocks, func(i, j int) bool {
		si, sj := stocks[i].RankScore(), stocks[j].RankScore()
		if si != sj {
			return si > sj
		}
		return stocks[i].Symbol < stocks[j].Symbol
	})
}

func (s *screenerService) persist(ctx context.Context, run *dto.ScreenerRun) error {
	if s.runRepo == nil {
		return nil
	}
	e, err := toRunEntity(run)
	if err != nil {
		return fmt.Errorf("failed to map screener run: %w", err)
	}
	if err := s.runRepo.Save(ctx, e); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save screener run", logger.ErrorField(err))
		return fmt.Errorf("failed to save screener run: %w", err)
	}
	return nil
}

func (s *screenerService) notify(ctx context.Context, run *dto.ScreenerRun) {
	if s.notifier == nil {
		return
	}
	for _, msg := range telegram.FormatScreenerRunForTelegram(run) {
		if err := s.notifier.SendMessage(msg); err != nil {
			s.logger.ErrorContext(ctx, "Failed to send telegram notification", logger.ErrorField(err))
			return
		}
	}
}
