package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/entity"
	"golang-shopify-warroom/internal/repository"
	"golang-shopify-warroom/pkg/logger"
	"golang-shopify-warroom/pkg/utils"

	"gorm.io/gorm"
)

const (
	dashboardProductLimit = 10
	chartProductLimit     = 5
	chartLabelMaxLen      = 40
)

var chartColors = []string{"#5c6cff", "#00d88a", "#ffc94d", "#ff3b5c", "#a78bfa"}

// DashboardService assembles read views over stored observations and
// assessments.
type DashboardService interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
	GetPriceHistoryChart(ctx context.Context, competitorID uint) (*dto.PriceHistoryChart, error)
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	log *logger.Logger,
	competitorRepo repository.CompetitorRepository,
	priceHistoryRepo repository.PriceHistoryRepository,
	analysisRepo repository.MarketAnalysisRepository,
) DashboardService {
	return &dashboardService{
		logger:           log,
		competitorRepo:   competitorRepo,
		priceHistoryRepo: priceHistoryRepo,
		analysisRepo:     analysisRepo,
	}
}

type dashboardService struct {
	logger           *logger.Logger
	competitorRepo   repository.CompetitorRepository
	priceHistoryRepo repository.PriceHistoryRepository
	analysisRepo     repository.MarketAnalysisRepository
}

// GetDashboard returns each competitor with its latest assessment and latest
// observations, plus global totals.
func (s *dashboardService) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	competitors, err := s.competitorRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.DashboardEntry, 0, len(competitors))
	for i := range competitors {
		competitor := &competitors[i]
		entry := dto.DashboardEntry{
			Competitor: *mapToCompetitorResponse(competitor),
			Products:   []dto.ObservationResponse{},
		}

		analysis, err := s.analysisRepo.FindLatestByCompetitorID(ctx, competitor.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if analysis != nil {
			entry.Analysis = mapToAnalysisResponse(analysis)
		}

		records, err := s.priceHistoryRepo.FindLatestByCompetitorID(ctx, competitor.ID, dashboardProductLimit)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			entry.Products = append(entry.Products, dto.ObservationResponse{
				ProductName: r.ProductName,
				Price:       r.Price,
				Currency:    r.Currency,
				Timestamp:   r.Timestamp,
			})
		}

		entries = append(entries, entry)
	}

	totalAnalyses, err := s.analysisRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.priceHistoryRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Entries:       entries,
		TotalAnalyses: totalAnalyses,
		TotalProducts: totalProducts,
		GeneratedAt:   utils.TimeNowUTC(),
	}, nil
}

// GetPriceHistoryChart groups a competitor's observations per product and
// returns series for the products with the most samples, shaped for
// Chart.js.
func (s *dashboardService) GetPriceHistoryChart(ctx context.Context, competitorID uint) (*dto.PriceHistoryChart, error) {
	records, err := s.priceHistoryRepo.FindAllByCompetitorID(ctx, competitorID)
	if err != nil {
		return nil, err
	}

	type series struct {
		labels []string
		prices []float64
	}
	grouped := map[string]*series{}
	order := []string{}
	for _, r := range records {
		name := r.ProductName
		if len(name) > chartLabelMaxLen {
			name = name[:chartLabelMaxLen]
		}
		if _, ok := grouped[name]; !ok {
			grouped[name] = &series{}
			order = append(order, name)
		}
		grouped[name].labels = append(grouped[name].labels, r.Timestamp.Format("02/01 15:04"))
		grouped[name].prices = append(grouped[name].prices, r.Price)
	}

	// Most-sampled products first; insertion order breaks ties so the
	// result is stable.
	sort.SliceStable(order, func(i, j int) bool {
		return len(grouped[order[i]].prices) > len(grouped[order[j]].prices)
	})
	if len(order) > chartProductLimit {
		order = order[:chartProductLimit]
	}

	chart := &dto.PriceHistoryChart{
		Labels:   []string{},
		Datasets: []dto.ChartDataset{},
	}
	for i, name := range order {
		color := chartColors[i%len(chartColors)]
		chart.Datasets = append(chart.Datasets, dto.ChartDataset{
			Label:           name,
			Data:            grouped[name].prices,
			BorderColor:     color,
			BackgroundColor: color + "20",
			Tension:         0.3,
			Fill:            false,
		})
	}
	if len(order) > 0 {
		chart.Labels = grouped[order[0]].labels
	}

	return chart, nil
}

func mapToAnalysisResponse(analysis *entity.MarketAnalysis) *dto.AnalysisResponse {
	bets := []dto.ConvictionBet{}
	if len(analysis.HighConvictionBets) > 0 {
		// Older rows may hold malformed bet payloads; show them as empty.
		_ = json.Unmarshal(analysis.HighConvictionBets, &bets)
	}
	return &dto.AnalysisResponse{
		ID:               analysis.ID,
		CompetitorID:     analysis.CompetitorID,
		SentimentScore:   analysis.SentimentScore,
		Bias:             analysis.Bias,
		AlphaOpportunity: analysis.AlphaOpportunity,
		Bets:             bets,
		Degraded:         analysis.Degraded,
		Timestamp:        analysis.Timestamp,
	}
}
