package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/entity"
	"golang-shopify-warroom/internal/repository"
	"golang-shopify-warroom/pkg/logger"
	"golang-shopify-warroom/pkg/utils"

	"gorm.io/gorm"
)

const exportAllHistoryLimit = 20

// ExportService renders stored intelligence as downloadable CSV reports.
type ExportService interface {
	ExportCompetitorCSV(ctx context.Context, competitorID uint) (content []byte, filename string, err error)
	ExportAllCSV(ctx context.Context) (content []byte, filename string, err error)
}

// NewExportService creates a new export service.
func NewExportService(
	log *logger.Logger,
	competitorRepo repository.CompetitorRepository,
	priceHistoryRepo repository.PriceHistoryRepository,
	analysisRepo repository.MarketAnalysisRepository,
) ExportService {
	return &exportService{
		logger:           log,
		competitorRepo:   competitorRepo,
		priceHistoryRepo: priceHistoryRepo,
		analysisRepo:     analysisRepo,
	}
}

type exportService struct {
	logger           *logger.Logger
	competitorRepo   repository.CompetitorRepository
	priceHistoryRepo repository.PriceHistoryRepository
	analysisRepo     repository.MarketAnalysisRepository
}

// ExportCompetitorCSV renders one competitor's full report: latest
// assessment, conviction bets, and the complete price history.
func (s *exportService) ExportCompetitorCSV(ctx context.Context, competitorID uint) ([]byte, string, error) {
	competitor, err := s.competitorRepo.FindByID(ctx, competitorID)
	if err != nil {
		return nil, "", err
	}

	records, err := s.priceHistoryRepo.FindAllByCompetitorID(ctx, competitorID)
	if err != nil {
		return nil, "", err
	}
	analysis, err := s.analysisRepo.FindLatestByCompetitorID(ctx, competitorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	writeRows(w,
		[]string{"STOREFRONT WAR ROOM - Intelligence Report"},
		[]string{fmt.Sprintf("Competitor: %s", competitor.Name), fmt.Sprintf("URL: %s", competitor.URL)},
		[]string{fmt.Sprintf("Generated: %s UTC", utils.TimeNowUTC().Format("2006-01-02 15:04"))},
		[]string{},
	)

	if analysis != nil {
		writeRows(w,
			[]string{"=== AI ANALYSIS ==="},
			[]string{"Market Bias", analysis.Bias},
			[]string{"Sentiment Score", fmt.Sprintf("%d", analysis.SentimentScore)},
			[]string{"Alpha Opportunity", analysis.AlphaOpportunity},
			[]string{},
		)

		bets := decodeBets(analysis)
		if len(bets) > 0 {
			writeRows(w,
				[]string{"=== HIGH CONVICTION BETS ==="},
				[]string{"Bet", "Probability", "Timeframe", "Reasoning"},
			)
			for _, b := range bets {
				writeRows(w, []string{b.Bet, b.Probability, b.Timeframe, b.Reasoning})
			}
			writeRows(w, []string{})
		}
	}

	writeRows(w,
		[]string{"=== PRICE HISTORY ==="},
		[]string{"Timestamp", "Product", "Price", "Currency"},
	)
	// Newest rows first in the report.
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		writeRows(w, []string{
			r.Timestamp.Format("2006-01-02 15:04"),
			r.ProductName,
			fmt.Sprintf("%.2f", r.Price),
			r.Currency,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write csv: %w", err)
	}

	filename := fmt.Sprintf("war-room-%s-%s.csv",
		sanitizeFilename(competitor.Name), utils.TimeNowUTC().Format("20060102"))
	return buf.Bytes(), filename, nil
}

// ExportAllCSV renders a compact report over every competitor: latest
// assessment plus the most recent observations.
func (s *exportService) ExportAllCSV(ctx context.Context) ([]byte, string, error) {
	competitors, err := s.competitorRepo.FindAll(ctx)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	writeRows(w,
		[]string{"STOREFRONT WAR ROOM - Full Intelligence Report"},
		[]string{fmt.Sprintf("Generated: %s UTC", utils.TimeNowUTC().Format("2006-01-02 15:04"))},
		[]string{},
	)

	for i := range competitors {
		competitor := &competitors[i]
		writeRows(w, []string{fmt.Sprintf("=== %s ===", strings.ToUpper(competitor.Name))})

		analysis, err := s.analysisRepo.FindLatestByCompetitorID(ctx, competitor.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		if analysis != nil {
			writeRows(w,
				[]string{"Market Bias", analysis.Bias},
				[]string{"Sentiment Score", fmt.Sprintf("%d", analysis.SentimentScore)},
				[]string{"Alpha Opportunity", analysis.AlphaOpportunity},
			)
		}

		records, err := s.priceHistoryRepo.FindLatestByCompetitorID(ctx, competitor.ID, exportAllHistoryLimit)
		if err != nil {
			return nil, "", err
		}
		writeRows(w, []string{"Timestamp", "Product", "Price"})
		for _, r := range records {
			writeRows(w, []string{
				r.Timestamp.Format("2006-01-02 15:04"),
				r.ProductName,
				fmt.Sprintf("%.2f", r.Price),
			})
		}
		writeRows(w, []string{})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write csv: %w", err)
	}

	filename := fmt.Sprintf("war-room-full-report-%s.csv", utils.TimeNowUTC().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func writeRows(w *csv.Writer, rows ...[]string) {
	for _, row := range rows {
		_ = w.Write(row)
	}
}

func decodeBets(analysis *entity.MarketAnalysis) []dto.ConvictionBet {
	bets := []dto.ConvictionBet{}
	if len(analysis.HighConvictionBets) > 0 {
		_ = json.Unmarshal(analysis.HighConvictionBets, &bets)
	}
	return bets
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, name)
}
