package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func newShopifyTestConfig() *config.Config {
	return &config.Config{
		Shopify: config.Shopify{
			MaxProducts:    10,
			RequestTimeout: 5 * time.Second,
		},
	}
}

func TestNormalizeStoreURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://store.com", "https://store.com"},
		{"https://store.com/", "https://store.com"},
		{"  store.com  ", "https://store.com"},
		{"http://store.com", "http://store.com"},
		{"store.com///", "https://store.com"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeStoreURL(tt.in))
	}
}

func TestFetchProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products.json", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		_, _ = w.Write([]byte(`{"products":[
			{"title":"Widget","handle":"widget","updated_at":"2026-08-01T00:00:00-04:00","variants":[{"price":"19.99"},{"price":"29.99"}]},
			{"title":"Gadget","handle":"gadget","variants":[{"price":"oops"}]},
			{"title":"","handle":"mystery","variants":[]}
		]}`))
	}))
	defer srv.Close()

	repo := NewShopifyRepository(newShopifyTestConfig(), newTestLogger())

	products, err := repo.FetchProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, products, 3)

	// Only the first variant's price counts.
	assert.Equal(t, dto.Product{
		Name: "Widget", Price: 19.99, Currency: "USD",
		Handle: "widget", UpdatedAt: "2026-08-01T00:00:00-04:00",
	}, products[0])

	// Unparsable price normalizes to zero.
	assert.Equal(t, 0.0, products[1].Price)

	// Missing title and variants still yield a row.
	assert.Equal(t, "Untitled", products[2].Name)
	assert.Equal(t, 0.0, products[2].Price)
}

func TestFetchProducts_EmptyCatalogIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[]}`))
	}))
	defer srv.Close()

	repo := NewShopifyRepository(newShopifyTestConfig(), newTestLogger())

	products, err := repo.FetchProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestFetchProducts_CapsAtMaxProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products":[
			{"title":"A","variants":[{"price":"1"}]},
			{"title":"B","variants":[{"price":"2"}]},
			{"title":"C","variants":[{"price":"3"}]}
		]}`))
	}))
	defer srv.Close()

	cfg := newShopifyTestConfig()
	cfg.Shopify.MaxProducts = 2
	repo := NewShopifyRepository(cfg, newTestLogger())

	products, err := repo.FetchProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestFetchProducts_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	repo := NewShopifyRepository(newShopifyTestConfig(), newTestLogger())

	_, err := repo.FetchProducts(context.Background(), srv.URL)
	require.Error(t, err)

	var fetchErr *dto.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
}

func TestFetchProducts_CachesWithinTTL(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte(`{"products":[{"title":"Widget","variants":[{"price":"5"}]}]}`))
	}))
	defer srv.Close()

	cfg := newShopifyTestConfig()
	cfg.Shopify.CacheTTL = time.Minute
	repo := NewShopifyRepository(cfg, newTestLogger())

	_, err := repo.FetchProducts(context.Background(), srv.URL)
	require.NoError(t, err)
	_, err = repo.FetchProducts(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, hits)
}
