package repository

import (
	"context"

	"golang-garp-screener/internal/entity"

	"gorm.io/gorm"
)

// StocksRepository reads the screening universe from the stocks table.
type StocksRepository interface {
	GetStocks(ctx context.Context) ([]entity.Stock, error)
}

type stocksRepository struct {
	db *gorm.DB
}

func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

func (s *stocksRepository) GetStocks(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := s.db.WithContext(ctx).Where("active = ?", true).Order("symbol ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}
