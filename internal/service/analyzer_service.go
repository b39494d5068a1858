package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/entity"
	"golang-shopify-warroom/internal/repository"
	"golang-shopify-warroom/pkg/common"
	"golang-shopify-warroom/pkg/logger"
	"golang-shopify-warroom/pkg/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// AnalyzerService runs one fetch-analyze-persist pass for a single
// competitor. It is used by both the cycle worker and the manual trigger.
type AnalyzerService interface {
	Analyze(ctx context.Context, competitor *entity.Competitor, lang string) (dto.AnalyzeStatus, error)
}

// NewAnalyzerService creates a new AnalyzerService. redisClient may be nil;
// assessment events are then not published.
func NewAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	catalogRepo repository.CatalogRepository,
	priceHistoryRepo repository.PriceHistoryRepository,
	analysisRepo repository.MarketAnalysisRepository,
	aiRepo repository.AIRepository,
	redisClient *redis.Client,
) AnalyzerService {
	return &analyzerService{
		cfg:              cfg,
		logger:           log,
		catalogRepo:      catalogRepo,
		priceHistoryRepo: priceHistoryRepo,
		analysisRepo:     analysisRepo,
		aiRepo:           aiRepo,
		redisClient:      redisClient,
	}
}

type analyzerService struct {
	cfg              *config.Config
	logger           *logger.Logger
	catalogRepo      repository.CatalogRepository
	priceHistoryRepo repository.PriceHistoryRepository
	analysisRepo     repository.MarketAnalysisRepository
	aiRepo           repository.AIRepository
	redisClient      *redis.Client
}

// Analyze fetches the competitor's catalog, persists the observation batch,
// then derives and persists a market assessment. An empty catalog short-
// circuits with AnalyzeStatusEmpty and writes nothing. If the reasoning
// service stays unreachable the observation batch is kept and the error is
// returned; observations without a matching assessment are a valid terminal
// state for a cycle.
func (s *analyzerService) Analyze(ctx context.Context, competitor *entity.Competitor, lang string) (dto.AnalyzeStatus, error) {
	products, err := s.catalogRepo.FetchProducts(ctx, competitor.URL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch catalog for %s: %w", competitor.Name, err)
	}

	if len(products) == 0 {
		s.logger.Warn("No products scraped", logger.StringField("competitor", competitor.Name))
		return dto.AnalyzeStatusEmpty, nil
	}

	// One capture timestamp for the whole batch.
	batchTime := utils.TimeNowUTC()
	records := make([]entity.PriceHistory, 0, len(products))
	for _, p := range products {
		records = append(records, entity.PriceHistory{
			CompetitorID:    competitor.ID,
			ProductName:     p.Name,
			Price:           p.Price,
			Currency:        p.Currency,
			ProductHandle:   p.Handle,
			SourceUpdatedAt: p.UpdatedAt,
			Timestamp:       batchTime,
		})
	}

	if err := s.priceHistoryRepo.CreateBatch(ctx, records); err != nil {
		return "", fmt.Errorf("failed to persist price history for %s: %w", competitor.Name, err)
	}
	s.logger.Info("Price history saved",
		logger.StringField("competitor", competitor.Name),
		logger.IntField("records", len(records)),
	)

	thesis, err := s.aiRepo.GenerateMarketThesis(ctx, products, competitor.Name, lang)
	if err != nil {
		return "", fmt.Errorf("failed to generate market thesis for %s: %w", competitor.Name, err)
	}

	betsJSON, err := json.Marshal(thesis.HighConvictionBets)
	if err != nil {
		return "", fmt.Errorf("failed to marshal conviction bets: %w", err)
	}

	analysis := &entity.MarketAnalysis{
		CompetitorID:       competitor.ID,
		SentimentScore:     thesis.SentimentScore,
		Bias:               thesis.MarketBias,
		AlphaOpportunity:   thesis.AlphaOpportunity,
		HighConvictionBets: datatypes.JSON(betsJSON),
		RawAnalysis:        thesis.RawAnalysis,
		Degraded:           thesis.Degraded,
		Timestamp:          utils.TimeNowUTC(),
	}

	if err := s.analysisRepo.Create(ctx, analysis); err != nil {
		return "", fmt.Errorf("failed to persist market analysis for %s: %w", competitor.Name, err)
	}

	s.logger.Info("Market analysis saved",
		logger.StringField("competitor", competitor.Name),
		logger.StringField("bias", analysis.Bias),
		logger.IntField("sentiment_score", analysis.SentimentScore),
	)

	s.publishEvent(ctx, competitor, analysis)

	return dto.AnalyzeStatusAnalyzed, nil
}

// publishEvent pushes the completed assessment onto the notification stream.
// Failures are logged and swallowed; notification is best effort.
func (s *analyzerService) publishEvent(ctx context.Context, competitor *entity.Competitor, analysis *entity.MarketAnalysis) {
	if s.redisClient == nil {
		return
	}

	event := dto.MarketAnalysisEvent{
		CompetitorID:     competitor.ID,
		CompetitorName:   competitor.Name,
		Bias:             analysis.Bias,
		SentimentScore:   analysis.SentimentScore,
		AlphaOpportunity: analysis.AlphaOpportunity,
		Degraded:         analysis.Degraded,
		CreatedAt:        analysis.Timestamp,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal analysis event", logger.ErrorField(err))
		return
	}

	if err := s.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamMarketAnalysis,
		Values: map[string]interface{}{"payload": payload},
		MaxLen: s.cfg.Redis.StreamMaxLen,
	}).Err(); err != nil {
		s.logger.Error("Failed to publish analysis event", logger.ErrorField(err))
	}
}
