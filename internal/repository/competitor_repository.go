package repository

import (
	"context"

	"golang-shopify-warroom/internal/entity"

	"gorm.io/gorm"
)

type competitorRepository struct {
	db *gorm.DB
}

// NewCompetitorRepository creates a new instance of CompetitorRepository.
func NewCompetitorRepository(db *gorm.DB) CompetitorRepository {
	return &competitorRepository{db: db}
}

func (r *competitorRepository) Create(ctx context.Context, competitor *entity.Competitor) error {
	return r.db.WithContext(ctx).Create(competitor).Error
}

func (r *competitorRepository) FindByID(ctx context.Context, id uint) (*entity.Competitor, error) {
	var competitor entity.Competitor
	if err := r.db.WithContext(ctx).First(&competitor, id).Error; err != nil {
		return nil, err
	}
	return &competitor, nil
}

func (r *competitorRepository) FindByURL(ctx context.Context, url string) (*entity.Competitor, error) {
	var competitor entity.Competitor
	if err := r.db.WithContext(ctx).Where("url = ?", url).First(&competitor).Error; err != nil {
		return nil, err
	}
	return &competitor, nil
}

func (r *competitorRepository) FindAll(ctx context.Context) ([]entity.Competitor, error) {
	var competitors []entity.Competitor
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&competitors).Error; err != nil {
		return nil, err
	}
	return competitors, nil
}

// FindActive returns active competitors in creation order, which fixes the
// order targets are processed within a cycle.
func (r *competitorRepository) FindActive(ctx context.Context) ([]entity.Competitor, error) {
	var competitors []entity.Competitor
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&competitors).Error; err != nil {
		return nil, err
	}
	return competitors, nil
}

// Delete removes a competitor; price history and analyses cascade at the
// database level.
func (r *competitorRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Competitor{}, id).Error
}
