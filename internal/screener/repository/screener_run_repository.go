package repository

import (
	"context"
	"errors"
	"fmt"

	"golang-garp-screener/internal/entity"

	"gorm.io/gorm"
)

const stockInsertBatchSize = 100

// ErrRunNotFound is returned when a run or one of its stocks does not exist.
var ErrRunNotFound = errors.New("screener run not found")

// ScreenerRunRepository persists screener runs and their scored stocks.
type ScreenerRunRepository interface {
	Save(ctx context.Context, run *entity.ScreenerRun) error
	FindAll(ctx context.Context, limit int) ([]entity.ScreenerRun, error)
	FindByID(ctx context.Context, id string) (*entity.ScreenerRun, error)
	FindStock(ctx context.Context, runID string, symbol string) (*entity.ScoredStock, error)
	Delete(ctx context.Context, id string) error
	DeleteOlderThanNewest(ctx context.Context, keep int) (int64, error)
}

type screenerRunRepository struct {
	db *gorm.DB
}

// NewScreenerRunRepository creates a gorm backed ScreenerRunRepository.
func NewScreenerRunRepository(db *gorm.DB) ScreenerRunRepository {
	return &screenerRunRepository{db: db}
}

// Save inserts the run and its stocks in one transaction.
func (r *screenerRunRepository) Save(ctx context.Context, run *entity.ScreenerRun) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stocks := run.Stocks
		run.Stocks = nil
		defer func() { run.Stocks = stocks }()

		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("failed to insert screener run: %w", err)
		}
		if len(stocks) == 0 {
			return nil
		}

		for i := range stocks {
			stocks[i].RunID = run.ID
		}
		if err := tx.CreateInBatches(&stocks, stockInsertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert scored stocks: %w", err)
		}
		return nil
	})
}

// FindAll returns the newest runs first, without their stocks.
func (r *screenerRunRepository) FindAll(ctx context.Context, limit int) ([]entity.ScreenerRun, error) {
	var runs []entity.ScreenerRun
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// FindByID returns a run with its stocks ordered by rank.
func (r *screenerRunRepository) FindByID(ctx context.Context, id string) (*entity.ScreenerRun, error) {
	var run entity.ScreenerRun
	err := r.db.WithContext(ctx).
		Preload("Stocks", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *screenerRunRepository) FindStock(ctx context.Context, runID string, symbol string) (*entity.ScoredStock, error) {
	var stock entity.ScoredStock
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND symbol = ?", runID, symbol).
		First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// Delete removes a run and its stocks.
func (r *screenerRunRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", id).Delete(&entity.ScoredStock{}).Error; err != nil {
			return fmt.Errorf("failed to delete scored stocks: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&entity.ScreenerRun{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete screener run: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrRunNotFound
		}
		return nil
	})
}

// DeleteOlderThanNewest keeps the newest keep runs and deletes the rest.
func (r *screenerRunRepository) DeleteOlderThanNewest(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}

	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&entity.ScreenerRun{}).
			Order("created_at DESC").
			Offset(keep).
			Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to list old runs: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("run_id IN ?", ids).Delete(&entity.ScoredStock{}).Error; err != nil {
			return fmt.Errorf("failed to delete scored stocks: %w", err)
		}
		result := tx.Where("id IN ?", ids).Delete(&entity.ScreenerRun{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete screener runs: %w", result.Error)
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}
