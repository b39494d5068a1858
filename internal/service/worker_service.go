package service

import (
	"context"
	"fmt"
	"time"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/repository"
	"golang-shopify-warroom/pkg/logger"
	"golang-shopify-warroom/pkg/utils"

	"github.com/robfig/cron/v3"
)

// WorkerService drives the periodic analysis cycle over all active
// competitors.
type WorkerService interface {
	Start(ctx context.Context)
	RunCycle(ctx context.Context)
}

// NewWorkerService creates a new worker service. The cycle schedule is a
// cron expression (descriptors like "@hourly" included).
func NewWorkerService(
	cfg *config.Config,
	log *logger.Logger,
	competitorRepo repository.CompetitorRepository,
	analyzer AnalyzerService,
) (WorkerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(cfg.Worker.CycleSchedule)
	if err != nil {
		return nil, fmt.Errorf("invalid cycle schedule %q: %w", cfg.Worker.CycleSchedule, err)
	}

	return &workerService{
		cfg:            cfg,
		logger:         log,
		competitorRepo: competitorRepo,
		analyzer:       analyzer,
		schedule:       schedule,
	}, nil
}

type workerService struct {
	cfg            *config.Config
	logger         *logger.Logger
	competitorRepo repository.CompetitorRepository
	analyzer       AnalyzerService
	schedule       cron.Schedule
}

// Start runs a cycle immediately, then sleeps until the next scheduled tick,
// until the context is canceled. A shutdown mid-cycle just loses the rest of
// that cycle; all writes are append-only so there is nothing to roll back.
func (s *workerService) Start(ctx context.Context) {
	for {
		s.RunCycle(ctx)

		next := s.schedule.Next(time.Now())
		s.logger.Info("Cycle completed, waiting for next tick",
			logger.StringField("next_run", next.UTC().Format(time.RFC3339)),
		)
		if !utils.SleepWithContext(ctx, time.Until(next)) {
			s.logger.Info("Worker service stopping")
			return
		}
	}
}

// RunCycle processes every active competitor once, in creation order. A
// failure on one competitor is logged and the loop moves on: one bad target
// must not block the rest.
func (s *workerService) RunCycle(ctx context.Context) {
	competitors, err := s.competitorRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load active competitors", logger.ErrorField(err))
		return
	}

	if len(competitors) == 0 {
		s.logger.Info("No active competitors, nothing to do")
		return
	}

	s.logger.Info("Starting analysis cycle", logger.IntField("competitors", len(competitors)))

	for _, competitor := range competitors {
		if ctx.Err() != nil {
			s.logger.Info("Cycle interrupted")
			return
		}

		status, err := s.analyzer.Analyze(ctx, &competitor, s.cfg.Worker.Language)
		if err != nil {
			s.logger.Error("Competitor analysis failed",
				logger.StringField("competitor", competitor.Name),
				logger.ErrorField(err),
			)
		} else {
			s.logger.Info("Competitor processed",
				logger.StringField("competitor", competitor.Name),
				logger.StringField("status", string(status)),
			)
		}

		// Pause between stores to avoid bursting the catalogs and the
		// reasoning service.
		if !utils.SleepWithContext(ctx, s.cfg.Worker.TargetPause) {
			return
		}
	}
}
