package repository

import (
	"context"

	"golang-shopify-warroom/internal/entity"

	"gorm.io/gorm"
)

type priceHistoryRepository struct {
	db *gorm.DB
}

// NewPriceHistoryRepository creates a new instance of PriceHistoryRepository.
func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepository{db: db}
}

// CreateBatch inserts one fetch batch of observations in a single
// transaction. Callers stamp every record with the same capture timestamp.
func (r *priceHistoryRepository) CreateBatch(ctx context.Context, records []entity.PriceHistory) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}

func (r *priceHistoryRepository) FindLatestByCompetitorID(ctx context.Context, competitorID uint, limit int) ([]entity.PriceHistory, error) {
	var records []entity.PriceHistory
	err := r.db.WithContext(ctx).
		Where("competitor_id = ?", competitorID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *priceHistoryRepository) FindAllByCompetitorID(ctx context.Context, competitorID uint) ([]entity.PriceHistory, error) {
	var records []entity.PriceHistory
	err := r.db.WithContext(ctx).
		Where("competitor_id = ?", competitorID).
		Order("timestamp ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *priceHistoryRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.PriceHistory{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
