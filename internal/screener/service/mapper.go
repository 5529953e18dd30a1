package service

import (
	"encoding/json"
	"fmt"

	"golang-garp-screener/internal/entity"
	"golang-garp-screener/internal/scoring"
	"golang-garp-screener/internal/screener/dto"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

func toRunEntity(run *dto.ScreenerRun) (*entity.ScreenerRun, error) {
	e := &entity.ScreenerRun{
		ID:                   run.ID,
		ConfigName:           run.ConfigName,
		TotalScanned:         run.TotalScanned,
		TotalMatches:         run.TotalMatches,
		ExecutionTimeSeconds: run.ExecutionTimeSeconds,
		Errors:               pq.StringArray(run.Errors),
		CreatedAt:            run.CreatedAt,
		Stocks:               make([]entity.ScoredStock, 0, len(run.Stocks)),
	}
	for _, s := range run.Stocks {
		stock, err := toStockEntity(s)
		if err != nil {
			return nil, fmt.Errorf("failed to map %s: %w", s.Symbol, err)
		}
		e.Stocks = append(e.Stocks, *stock)
	}
	return e, nil
}

func toStockEntity(s dto.ScoredStock) (*entity.ScoredStock, error) {
	metrics, err := json.Marshal(s.Metrics)
	if err != nil {
		return nil, err
	}
	basic, err := json.Marshal(s.BasicScore)
	if err != nil {
		return nil, err
	}
	var ai datatypes.JSON
	if s.AIScore != nil {
		if ai, err = json.Marshal(s.AIScore); err != nil {
			return nil, err
		}
	}

	return &entity.ScoredStock{
		RunID:          s.RunID,
		Rank:           s.Rank,
		Symbol:         s.Symbol,
		Name:           s.Name,
		Exchange:       s.Exchange,
		Sector:         s.Sector,
		Industry:       s.Industry,
		Metrics:        metrics,
		BasicScore:     basic,
		AIScore:        ai,
		TotalScore:     s.RankScore(),
		Recommendation: string(s.Recommendation),
		Flags:          pq.StringArray(s.Flags()),
		Perf1D:         s.Performance.OneDay,
		Perf1W:         s.Performance.OneWeek,
		Perf1M:         s.Performance.OneMonth,
		PerfYTD:        s.Performance.YTD,
		Perf52W:        s.Performance.OneYear,
		TradeIdea:      s.TradeIdea,
	}, nil
}

func fromRunEntity(e *entity.ScreenerRun) (*dto.ScreenerRun, error) {
	run := &dto.ScreenerRun{
		ID:                   e.ID,
		ConfigName:           e.ConfigName,
		TotalScanned:         e.TotalScanned,
		TotalMatches:         e.TotalMatches,
		ExecutionTimeSeconds: e.ExecutionTimeSeconds,
		Errors:               []string(e.Errors),
		CreatedAt:            e.CreatedAt,
	}
	for i := range e.Stocks {
		s, err := fromStockEntity(&e.Stocks[i])
		if err != nil {
			return nil, err
		}
		run.Stocks = append(run.Stocks, *s)
	}
	return run, nil
}

func fromStockEntity(e *entity.ScoredStock) (*dto.ScoredStock, error) {
	s := &dto.ScoredStock{
		StockProfile: scoring.StockProfile{
			Symbol:   e.Symbol,
			Name:     e.Name,
			Exchange: e.Exchange,
			Sector:   e.Sector,
			Industry: e.Industry,
		},
		Recommendation: scoring.Recommendation(e.Recommendation),
		Performance: scoring.PricePerformance{
			OneDay:   e.Perf1D,
			OneWeek:  e.Perf1W,
			OneMonth: e.Perf1M,
			YTD:      e.PerfYTD,
			OneYear:  e.Perf52W,
		},
		TradeIdea: e.TradeIdea,
		RunID:     e.RunID,
		Rank:      e.Rank,
	}
	if len(e.Metrics) > 0 {
		if err := json.Unmarshal(e.Metrics, &s.Metrics); err != nil {
			return nil, fmt.Errorf("failed to decode metrics of %s: %w", e.Symbol, err)
		}
	}
	if len(e.BasicScore) > 0 {
		if err := json.Unmarshal(e.BasicScore, &s.BasicScore); err != nil {
			return nil, fmt.Errorf("failed to decode basic score of %s: %w", e.Symbol, err)
		}
	}
	if len(e.AIScore) > 0 && string(e.AIScore) != "null" {
		var b scoring.AIScoreBreakdown
		if err := json.Unmarshal(e.AIScore, &b); err != nil {
			return nil, fmt.Errorf("failed to decode ai score of %s: %w", e.Symbol, err)
		}
		s.AIScore = &b
	}
	return s, nil
}

func toRunSummary(e entity.ScreenerRun) dto.RunSummary {
	return dto.RunSummary{
		ID:                   e.ID,
		ConfigName:           e.ConfigName,
		TotalScanned:         e.TotalScanned,
		TotalMatches:         e.TotalMatches,
		ExecutionTimeSeconds: e.ExecutionTimeSeconds,
		ErrorCount:           len(e.Errors),
		CreatedAt:            e.CreatedAt,
	}
}
