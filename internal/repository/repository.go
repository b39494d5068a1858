package repository

import (
	"context"

	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/entity"
)

// CatalogRepository fetches normalized product listings from a storefront's
// public catalog feed.
type CatalogRepository interface {
	FetchProducts(ctx context.Context, storeURL string) ([]dto.Product, error)
}

// AIRepository produces a market thesis for a batch of product observations.
// Implementations retry transient service failures internally and normalize
// the model reply; a returned error means the reasoning service stayed
// unreachable.
type AIRepository interface {
	GenerateMarketThesis(ctx context.Context, products []dto.Product, competitorName, lang string) (*dto.MarketThesis, error)
}

// CompetitorRepository manages monitored storefronts.
type CompetitorRepository interface {
	Create(ctx context.Context, competitor *entity.Competitor) error
	FindByID(ctx context.Context, id uint) (*entity.Competitor, error)
	FindByURL(ctx context.Context, url string) (*entity.Competitor, error)
	FindAll(ctx context.Context) ([]entity.Competitor, error)
	FindActive(ctx context.Context) ([]entity.Competitor, error)
	Delete(ctx context.Context, id uint) error
}

// PriceHistoryRepository stores and queries price observations. Rows are
// insert-only.
type PriceHistoryRepository interface {
	CreateBatch(ctx context.Context, records []entity.PriceHistory) error
	FindLatestByCompetitorID(ctx context.Context, competitorID uint, limit int) ([]entity.PriceHistory, error)
	FindAllByCompetitorID(ctx context.Context, competitorID uint) ([]entity.PriceHistory, error)
	CountAll(ctx context.Context) (int64, error)
}

// MarketAnalysisRepository stores and queries market assessments. Rows are
// insert-only.
type MarketAnalysisRepository interface {
	Create(ctx context.Context, analysis *entity.MarketAnalysis) error
	FindLatestByCompetitorID(ctx context.Context, competitorID uint) (*entity.MarketAnalysis, error)
	CountAll(ctx context.Context) (int64, error)
}
