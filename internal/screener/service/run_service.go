package service

import (
	"context"
	"fmt"

	"golang-garp-screener/internal/screener/dto"
	"golang-garp-screener/internal/screener/repository"
	"golang-garp-screener/pkg/logger"
	"golang-garp-screener/pkg/utils"
)

const defaultRunListLimit = 20

// RunService reads and deletes persisted screener runs.
type RunService interface {
	List(ctx context.Context, limit int) ([]dto.RunSummary, error)
	Get(ctx context.Context, id string) (*dto.ScreenerRun, error)
	GetStock(ctx context.Context, runID string, symbol string) (*dto.ScoredStock, error)
	TradeIdea(ctx context.Context, runID string, symbol string) (string, error)
	Delete(ctx context.Context, id string) error
}

type runService struct {
	runRepo repository.ScreenerRunRepository
	log     *logger.Logger
}

// NewRunService creates a new RunService.
func NewRunService(runRepo repository.ScreenerRunRepository, log *logger.Logger) RunService {
	return &runService{runRepo: runRepo, log: log}
}

// List returns the newest runs first. A non-positive limit uses the default page size.
func (s *runService) List(ctx context.Context, limit int) ([]dto.RunSummary, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	runs, err := s.runRepo.FindAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list screener runs: %w", err)
	}
	summaries := make([]dto.RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, toRunSummary(r))
	}
	return summaries, nil
}

// Get returns a run with its ranked stocks.
func (s *runService) Get(ctx context.Context, id string) (*dto.ScreenerRun, error) {
	e, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	run, err := fromRunEntity(e)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to decode screener run", logger.StringField("run_id", id), logger.ErrorField(err))
		return nil, err
	}
	return run, nil
}

// GetStock returns one stock of a run.
func (s *runService) GetStock(ctx context.Context, runID string, symbol string) (*dto.ScoredStock, error) {
	e, err := s.runRepo.FindStock(ctx, runID, utils.NormalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}
	return fromStockEntity(e)
}

// TradeIdea returns the stored trade idea of a stock. Stocks without one get
// an empty string.
func (s *runService) TradeIdea(ctx context.Context, runID string, symbol string) (string, error) {
	stock, err := s.GetStock(ctx, runID, symbol)
	if err != nil {
		return "", err
	}
	if stock.TradeIdea == nil {
		return "", nil
	}
	return *stock.TradeIdea, nil
}

// Delete removes a run and its stocks.
func (s *runService) Delete(ctx context.Context, id string) error {
	if err := s.runRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Screener run deleted", logger.StringField("run_id", id))
	return nil
}
