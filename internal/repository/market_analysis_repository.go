package repository

import (
	"context"

	"golang-shopify-warroom/internal/entity"

	"gorm.io/gorm"
)

type marketAnalysisRepository struct {
	db *gorm.DB
}

// NewMarketAnalysisRepository creates a new instance of
// MarketAnalysisRepository.
func NewMarketAnalysisRepository(db *gorm.DB) MarketAnalysisRepository {
	return &marketAnalysisRepository{db: db}
}

func (r *marketAnalysisRepository) Create(ctx context.Context, analysis *entity.MarketAnalysis) error {
	return r.db.WithContext(ctx).Create(analysis).Error
}

func (r *marketAnalysisRepository) FindLatestByCompetitorID(ctx context.Context, competitorID uint) (*entity.MarketAnalysis, error) {
	var analysis entity.MarketAnalysis
	err := r.db.WithContext(ctx).
		Where("competitor_id = ?", competitorID).
		Order("timestamp DESC").
		First(&analysis).Error
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (r *marketAnalysisRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.MarketAnalysis{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
