package service

import (
	"context"
	"errors"
	"testing"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompetitorRepo struct {
	active []entity.Competitor
	err    error
}

func (f *fakeCompetitorRepo) Create(ctx context.Context, competitor *entity.Competitor) error {
	return nil
}

func (f *fakeCompetitorRepo) FindByID(ctx context.Context, id uint) (*entity.Competitor, error) {
	return nil, nil
}

func (f *fakeCompetitorRepo) FindByURL(ctx context.Context, url string) (*entity.Competitor, error) {
	return nil, nil
}

func (f *fakeCompetitorRepo) FindAll(ctx context.Context) ([]entity.Competitor, error) {
	return f.active, f.err
}

func (f *fakeCompetitorRepo) FindActive(ctx context.Context) ([]entity.Competitor, error) {
	return f.active, f.err
}

func (f *fakeCompetitorRepo) Delete(ctx context.Context, id uint) error {
	return nil
}

type recordingAnalyzer struct {
	analyzed []string
	failFor  map[string]error
}

func (r *recordingAnalyzer) Analyze(ctx context.Context, competitor *entity.Competitor, lang string) (dto.AnalyzeStatus, error) {
	r.analyzed = append(r.analyzed, competitor.Name)
	if err, ok := r.failFor[competitor.Name]; ok {
		return "", err
	}
	return dto.AnalyzeStatusAnalyzed, nil
}

func newWorkerTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Worker.CycleSchedule = "@hourly"
	cfg.Worker.Language = "en"
	return cfg
}

func TestNewWorkerService_InvalidSchedule(t *testing.T) {
	cfg := newWorkerTestConfig()
	cfg.Worker.CycleSchedule = "not a schedule"

	_, err := NewWorkerService(cfg, newTestLogger(), &fakeCompetitorRepo{}, &recordingAnalyzer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cycle schedule")
}

func TestRunCycle_ProcessesAllActiveCompetitors(t *testing.T) {
	repo := &fakeCompetitorRepo{active: []entity.Competitor{
		{ID: 1, Name: "Acme"},
		{ID: 2, Name: "Globex"},
		{ID: 3, Name: "Initech"},
	}}
	analyzer := &recordingAnalyzer{}

	svc, err := NewWorkerService(newWorkerTestConfig(), newTestLogger(), repo, analyzer)
	require.NoError(t, err)

	svc.RunCycle(context.Background())

	assert.Equal(t, []string{"Acme", "Globex", "Initech"}, analyzer.analyzed)
}

func TestRunCycle_FailureDoesNotBlockRemainingCompetitors(t *testing.T) {
	repo := &fakeCompetitorRepo{active: []entity.Competitor{
		{ID: 1, Name: "Acme"},
		{ID: 2, Name: "Globex"},
	}}
	analyzer := &recordingAnalyzer{failFor: map[string]error{
		"Acme": errors.New("catalog unreachable"),
	}}

	svc, err := NewWorkerService(newWorkerTestConfig(), newTestLogger(), repo, analyzer)
	require.NoError(t, err)

	svc.RunCycle(context.Background())

	assert.Equal(t, []string{"Acme", "Globex"}, analyzer.analyzed)
}

func TestRunCycle_NoActiveCompetitors(t *testing.T) {
	analyzer := &recordingAnalyzer{}

	svc, err := NewWorkerService(newWorkerTestConfig(), newTestLogger(), &fakeCompetitorRepo{}, analyzer)
	require.NoError(t, err)

	svc.RunCycle(context.Background())

	assert.Empty(t, analyzer.analyzed)
}

func TestRunCycle_StopsOnCanceledContext(t *testing.T) {
	repo := &fakeCompetitorRepo{active: []entity.Competitor{
		{ID: 1, Name: "Acme"},
		{ID: 2, Name: "Globex"},
	}}
	analyzer := &recordingAnalyzer{}

	svc, err := NewWorkerService(newWorkerTestConfig(), newTestLogger(), repo, analyzer)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc.RunCycle(ctx)

	assert.Empty(t, analyzer.analyzed)
}
