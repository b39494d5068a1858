package service

import (
	"context"
	"errors"
	"fmt"

	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/entity"
	"golang-shopify-warroom/internal/repository"
	"golang-shopify-warroom/pkg/logger"

	"gorm.io/gorm"
)

// ErrCompetitorExists is returned when the normalized URL is already
// monitored.
var ErrCompetitorExists = errors.New("competitor already exists")

// ErrMissingFields is returned when a create request lacks a URL or name.
var ErrMissingFields = errors.New("url and name are required")

// CompetitorService manages monitored storefronts and the manual analysis
// trigger.
type CompetitorService interface {
	CreateCompetitor(ctx context.Context, req *dto.CreateCompetitorRequest) (*dto.CompetitorResponse, error)
	GetAllCompetitors(ctx context.Context) ([]*dto.CompetitorResponse, error)
	DeleteCompetitor(ctx context.Context, id uint) error
	TriggerAnalysis(ctx context.Context, id uint, lang string) (*dto.AnalyzeResponse, error)
}

// NewCompetitorService creates a new competitor service.
func NewCompetitorService(
	log *logger.Logger,
	competitorRepo repository.CompetitorRepository,
	analyzer AnalyzerService,
) CompetitorService {
	return &competitorService{
		logger:         log,
		competitorRepo: competitorRepo,
		analyzer:       analyzer,
	}
}

type competitorService struct {
	logger         *logger.Logger
	competitorRepo repository.CompetitorRepository
	analyzer       AnalyzerService
}

// CreateCompetitor registers a storefront. The URL is normalized before the
// duplicate check so "store.com" and "https://store.com/" collapse to one
// row.
func (s *competitorService) CreateCompetitor(ctx context.Context, req *dto.CreateCompetitorRequest) (*dto.CompetitorResponse, error) {
	if req.URL == "" || req.Name == "" {
		return nil, ErrMissingFields
	}

	url := repository.NormalizeStoreURL(req.URL)

	if _, err := s.competitorRepo.FindByURL(ctx, url); err == nil {
		return nil, ErrCompetitorExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for existing competitor: %w", err)
	}

	competitor := &entity.Competitor{
		URL:      url,
		Name:     req.Name,
		IsActive: true,
	}
	if err := s.competitorRepo.Create(ctx, competitor); err != nil {
		return nil, fmt.Errorf("failed to create competitor: %w", err)
	}

	s.logger.Info("Competitor added",
		logger.StringField("name", competitor.Name),
		logger.StringField("url", competitor.URL),
	)

	return mapToCompetitorResponse(competitor), nil
}

func (s *competitorService) GetAllCompetitors(ctx context.Context) ([]*dto.CompetitorResponse, error) {
	competitors, err := s.competitorRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]*dto.CompetitorResponse, 0, len(competitors))
	for i := range competitors {
		responses = append(responses, mapToCompetitorResponse(&competitors[i]))
	}
	return responses, nil
}

func (s *competitorService) DeleteCompetitor(ctx context.Context, id uint) error {
	if _, err := s.competitorRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.competitorRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete competitor: %w", err)
	}
	s.logger.Info("Competitor deleted", logger.Field("competitor_id", id))
	return nil
}

// TriggerAnalysis synchronously runs one fetch-analyze-persist pass for the
// given competitor, outside the scheduled cycle.
func (s *competitorService) TriggerAnalysis(ctx context.Context, id uint, lang string) (*dto.AnalyzeResponse, error) {
	competitor, err := s.competitorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := s.analyzer.Analyze(ctx, competitor, lang)
	if err != nil {
		return nil, err
	}

	resp := &dto.AnalyzeResponse{Status: status}
	switch status {
	case dto.AnalyzeStatusEmpty:
		resp.Message = fmt.Sprintf("No products found for '%s'.", competitor.Name)
	default:
		resp.Message = fmt.Sprintf("'%s' analyzed.", competitor.Name)
	}
	return resp, nil
}

func mapToCompetitorResponse(competitor *entity.Competitor) *dto.CompetitorResponse {
	return &dto.CompetitorResponse{
		ID:        competitor.ID,
		URL:       competitor.URL,
		Name:      competitor.Name,
		IsActive:  competitor.IsActive,
		CreatedAt: competitor.CreatedAt,
	}
}
