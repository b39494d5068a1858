package service

import (
	"context"
	"testing"

	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type storeCompetitorRepo struct {
	byURL   map[string]*entity.Competitor
	byID    map[uint]*entity.Competitor
	created []*entity.Competitor
	deleted []uint
	nextID  uint
}

func newStoreCompetitorRepo() *storeCompetitorRepo {
	return &storeCompetitorRepo{
		byURL:  map[string]*entity.Competitor{},
		byID:   map[uint]*entity.Competitor{},
		nextID: 1,
	}
}

func (f *storeCompetitorRepo) Create(ctx context.Context, competitor *entity.Competitor) error {
	competitor.ID = f.nextID
	f.nextID++
	f.byURL[competitor.URL] = competitor
	f.byID[competitor.ID] = competitor
	f.created = append(f.created, competitor)
	return nil
}

func (f *storeCompetitorRepo) FindByID(ctx context.Context, id uint) (*entity.Competitor, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *storeCompetitorRepo) FindByURL(ctx context.Context, url string) (*entity.Competitor, error) {
	if c, ok := f.byURL[url]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *storeCompetitorRepo) FindAll(ctx context.Context) ([]entity.Competitor, error) {
	out := make([]entity.Competitor, 0, len(f.byID))
	for _, c := range f.created {
		out = append(out, *c)
	}
	return out, nil
}

func (f *storeCompetitorRepo) FindActive(ctx context.Context) ([]entity.Competitor, error) {
	return f.FindAll(ctx)
}

func (f *storeCompetitorRepo) Delete(ctx context.Context, id uint) error {
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type staticAnalyzer struct {
	status dto.AnalyzeStatus
	err    error
}

func (s *staticAnalyzer) Analyze(ctx context.Context, competitor *entity.Competitor, lang string) (dto.AnalyzeStatus, error) {
	return s.status, s.err
}

func TestCreateCompetitor_NormalizesURL(t *testing.T) {
	repo := newStoreCompetitorRepo()
	svc := NewCompetitorService(newTestLogger(), repo, &staticAnalyzer{})

	resp, err := svc.CreateCompetitor(context.Background(), &dto.CreateCompetitorRequest{
		URL:  "  acme-store.com/  ",
		Name: "Acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://acme-store.com", resp.URL)
	assert.True(t, resp.IsActive)
}

func TestCreateCompetitor_DuplicateAfterNormalization(t *testing.T) {
	repo := newStoreCompetitorRepo()
	svc := NewCompetitorService(newTestLogger(), repo, &staticAnalyzer{})

	_, err := svc.CreateCompetitor(context.Background(), &dto.CreateCompetitorRequest{URL: "https://acme-store.com", Name: "Acme"})
	require.NoError(t, err)

	// Same store, different spelling.
	_, err = svc.CreateCompetitor(context.Background(), &dto.CreateCompetitorRequest{URL: "acme-store.com/", Name: "Acme again"})
	assert.ErrorIs(t, err, ErrCompetitorExists)
	assert.Len(t, repo.created, 1)
}

func TestCreateCompetitor_MissingFields(t *testing.T) {
	svc := NewCompetitorService(newTestLogger(), newStoreCompetitorRepo(), &staticAnalyzer{})

	_, err := svc.CreateCompetitor(context.Background(), &dto.CreateCompetitorRequest{URL: "", Name: "Acme"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.CreateCompetitor(context.Background(), &dto.CreateCompetitorRequest{URL: "acme.com", Name: ""})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestDeleteCompetitor_NotFound(t *testing.T) {
	svc := NewCompetitorService(newTestLogger(), newStoreCompetitorRepo(), &staticAnalyzer{})

	err := svc.DeleteCompetitor(context.Background(), 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestTriggerAnalysis_Messages(t *testing.T) {
	repo := newStoreCompetitorRepo()
	_ = repo.Create(context.Background(), &entity.Competitor{URL: "https://acme.com", Name: "Acme"})

	svc := NewCompetitorService(newTestLogger(), repo, &staticAnalyzer{status: dto.AnalyzeStatusAnalyzed})
	resp, err := svc.TriggerAnalysis(context.Background(), 1, "en")
	require.NoError(t, err)
	assert.Equal(t, dto.AnalyzeStatusAnalyzed, resp.Status)
	assert.Equal(t, "'Acme' analyzed.", resp.Message)

	svc = NewCompetitorService(newTestLogger(), repo, &staticAnalyzer{status: dto.AnalyzeStatusEmpty})
	resp, err = svc.TriggerAnalysis(context.Background(), 1, "en")
	require.NoError(t, err)
	assert.Equal(t, dto.AnalyzeStatusEmpty, resp.Status)
	assert.Equal(t, "No products found for 'Acme'.", resp.Message)
}
