package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/obra-studio/obra-api/internal/models"
)

// ExchangeRateRepository defines the interface for exchange rate data access
type ExchangeRateRepository interface {
	Create(ctx context.Context, rate *models.ExchangeRate) error
	Latest(ctx context.Context) (*models.ExchangeRate, error)
	History(ctx context.Context, limit int) ([]models.ExchangeRate, error)
}

type exchangeRateRepository struct {
	db *gorm.DB
}

// NewExchangeRateRepository creates a new exchange rate repository
func NewExchangeRateRepository(db *gorm.DB) ExchangeRateRepository {
	return &exchangeRateRepository{db: db}
}

func (r *exchangeRateRepository) Create(ctx context.Context, rate *models.ExchangeRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

func (r *exchangeRateRepository) Latest(ctx context.Context) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := r.db.WithContext(ctx).Order("fetched_at DESC").First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *exchangeRateRepository) History(ctx context.Context, limit int) ([]models.ExchangeRate, error) {
	if limit <= 0 || limit > 500 {
		limit = 30
	}
	var rates []models.ExchangeRate
	err := r.db.WithContext(ctx).
		Order("fetched_at DESC").
		Limit(limit).
		Find(&rates).Error
	return rates, err
}
