package service

import (
	"context"
	"errors"
	"testing"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/entity"
	"golang-shopify-warroom/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

type fakeCatalogRepo struct {
	products []dto.Product
	err      error
}

func (f *fakeCatalogRepo) FetchProducts(ctx context.Context, storeURL string) ([]dto.Product, error) {
	return f.products, f.err
}

type fakeAIRepo struct {
	thesis *dto.MarketThesis
	err    error
	calls  int
}

func (f *fakeAIRepo) GenerateMarketThesis(ctx context.Context, products []dto.Product, competitorName, lang string) (*dto.MarketThesis, error) {
	f.calls++
	return f.thesis, f.err
}

type fakePriceHistoryRepo struct {
	batches [][]entity.PriceHistory
	err     error
}

func (f *fakePriceHistoryRepo) CreateBatch(ctx context.Context, records []entity.PriceHistory) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, records)
	return nil
}

func (f *fakePriceHistoryRepo) FindLatestByCompetitorID(ctx context.Context, competitorID uint, limit int) ([]entity.PriceHistory, error) {
	return nil, nil
}

func (f *fakePriceHistoryRepo) FindAllByCompetitorID(ctx context.Context, competitorID uint) ([]entity.PriceHistory, error) {
	return nil, nil
}

func (f *fakePriceHistoryRepo) CountAll(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeAnalysisRepo struct {
	created []*entity.MarketAnalysis
	err     error
}

func (f *fakeAnalysisRepo) Create(ctx context.Context, analysis *entity.MarketAnalysis) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, analysis)
	return nil
}

func (f *fakeAnalysisRepo) FindLatestByCompetitorID(ctx context.Context, competitorID uint) (*entity.MarketAnalysis, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAnalysisRepo) CountAll(ctx context.Context) (int64, error) {
	return 0, nil
}

func newAnalyzerFixture(catalog *fakeCatalogRepo, ai *fakeAIRepo) (AnalyzerService, *fakePriceHistoryRepo, *fakeAnalysisRepo) {
	priceHistoryRepo := &fakePriceHistoryRepo{}
	analysisRepo := &fakeAnalysisRepo{}
	svc := NewAnalyzerService(&config.Config{}, newTestLogger(), catalog, priceHistoryRepo, analysisRepo, ai, nil)
	return svc, priceHistoryRepo, analysisRepo
}

func TestAnalyze_PersistsObservationsAndAssessment(t *testing.T) {
	catalog := &fakeCatalogRepo{products: []dto.Product{
		{Name: "Widget", Price: 10, Currency: "USD", Handle: "widget"},
		{Name: "Gadget", Price: 0, Currency: "USD", Handle: "gadget"},
	}}
	ai := &fakeAIRepo{thesis: &dto.MarketThesis{
		MarketBias:       "AGGRESSIVE",
		SentimentScore:   80,
		AlphaOpportunity: "Widget - underpriced [undercut]",
		HighConvictionBets: []dto.ConvictionBet{
			{Bet: "drop price", Probability: "80%", Timeframe: "NOW", Reasoning: "gap"},
		},
		RawAnalysis: `{"market_bias":"AGGRESSIVE"}`,
	}}
	svc, priceHistoryRepo, analysisRepo := newAnalyzerFixture(catalog, ai)

	competitor := &entity.Competitor{ID: 7, Name: "Acme", URL: "https://acme.com"}
	status, err := svc.Analyze(context.Background(), competitor, "en")
	require.NoError(t, err)
	assert.Equal(t, dto.AnalyzeStatusAnalyzed, status)

	// One batch, one row per product, zero-price rows included.
	require.Len(t, priceHistoryRepo.batches, 1)
	batch := priceHistoryRepo.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, uint(7), batch[0].CompetitorID)
	assert.Equal(t, "Widget", batch[0].ProductName)
	assert.Equal(t, 0.0, batch[1].Price)
	// The whole batch shares one capture timestamp.
	assert.Equal(t, batch[0].Timestamp, batch[1].Timestamp)

	require.Len(t, analysisRepo.created, 1)
	analysis := analysisRepo.created[0]
	assert.Equal(t, uint(7), analysis.CompetitorID)
	assert.Equal(t, "AGGRESSIVE", analysis.Bias)
	assert.Equal(t, 80, analysis.SentimentScore)
	assert.False(t, analysis.Degraded)
	assert.JSONEq(t, `[{"bet":"drop price","probability":"80%","timeframe":"NOW","reasoning":"gap"}]`, string(analysis.HighConvictionBets))
}

func TestAnalyze_EmptyCatalogWritesNothing(t *testing.T) {
	catalog := &fakeCatalogRepo{products: []dto.Product{}}
	ai := &fakeAIRepo{}
	svc, priceHistoryRepo, analysisRepo := newAnalyzerFixture(catalog, ai)

	status, err := svc.Analyze(context.Background(), &entity.Competitor{ID: 1, Name: "Acme"}, "en")
	require.NoError(t, err)
	assert.Equal(t, dto.AnalyzeStatusEmpty, status)

	assert.Empty(t, priceHistoryRepo.batches)
	assert.Empty(t, analysisRepo.created)
	assert.Zero(t, ai.calls)
}

func TestAnalyze_ReasoningFailureKeepsObservations(t *testing.T) {
	catalog := &fakeCatalogRepo{products: []dto.Product{{Name: "Widget", Price: 10}}}
	ai := &fakeAIRepo{err: &dto.ReasoningServiceError{Attempts: 3, Err: errors.New("unreachable")}}
	svc, priceHistoryRepo, analysisRepo := newAnalyzerFixture(catalog, ai)

	_, err := svc.Analyze(context.Background(), &entity.Competitor{ID: 1, Name: "Acme"}, "en")
	require.Error(t, err)

	var svcErr *dto.ReasoningServiceError
	assert.True(t, errors.As(err, &svcErr))

	// Observations are a valid terminal state without an assessment.
	assert.Len(t, priceHistoryRepo.batches, 1)
	assert.Empty(t, analysisRepo.created)
}

func TestAnalyze_FetchFailureWritesNothing(t *testing.T) {
	catalog := &fakeCatalogRepo{err: &dto.FetchError{URL: "https://acme.com", StatusCode: 403}}
	ai := &fakeAIRepo{}
	svc, priceHistoryRepo, analysisRepo := newAnalyzerFixture(catalog, ai)

	_, err := svc.Analyze(context.Background(), &entity.Competitor{ID: 1, Name: "Acme"}, "en")
	require.Error(t, err)

	assert.Empty(t, priceHistoryRepo.batches)
	assert.Empty(t, analysisRepo.created)
	assert.Zero(t, ai.calls)
}

func TestAnalyze_DegradedThesisIsPersisted(t *testing.T) {
	catalog := &fakeCatalogRepo{products: []dto.Product{{Name: "Widget", Price: 10}}}
	ai := &fakeAIRepo{thesis: dto.ParseMarketThesis("not json at all", []dto.Product{{Name: "Widget"}})}
	svc, _, analysisRepo := newAnalyzerFixture(catalog, ai)

	status, err := svc.Analyze(context.Background(), &entity.Competitor{ID: 1, Name: "Acme"}, "en")
	require.NoError(t, err)
	assert.Equal(t, dto.AnalyzeStatusAnalyzed, status)

	require.Len(t, analysisRepo.created, 1)
	analysis := analysisRepo.created[0]
	assert.True(t, analysis.Degraded)
	assert.Equal(t, "NEUTRAL", analysis.Bias)
	assert.Equal(t, 50, analysis.SentimentScore)
	assert.Equal(t, "not json at all", analysis.RawAnalysis)
}
