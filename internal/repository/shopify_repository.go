package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// Shopify exposes a public /products.json endpoint that lists the catalog
// without auth. The fetcher requests the most recently created items with a
// realistic browser user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/124.0.0.0 Safari/537.36"

type shopifyRepository struct {
	client        *http.Client
	cfg           *config.Config
	logger        *logger.Logger
	inmemoryCache *cache.Cache
}

// NewShopifyRepository creates a CatalogRepository backed by the storefront's
// products.json feed. Responses are cached briefly so a manual trigger right
// after a scheduled run does not re-hit the store.
func NewShopifyRepository(cfg *config.Config, log *logger.Logger) CatalogRepository {
	cacheTTL := cfg.Shopify.CacheTTL
	return &shopifyRepository{
		client: &http.Client{
			Timeout: cfg.Shopify.RequestTimeout,
		},
		cfg:           cfg,
		logger:        log,
		inmemoryCache: cache.New(cacheTTL, 10*time.Minute),
	}
}

// NormalizeStoreURL strips whitespace and the trailing slash and enforces an
// https scheme when none is present.
func NormalizeStoreURL(storeURL string) string {
	normalized := strings.TrimSpace(storeURL)
	normalized = strings.TrimRight(normalized, "/")
	if !strings.HasPrefix(normalized, "http") {
		normalized = "https://" + normalized
	}
	return normalized
}

// FetchProducts retrieves up to the configured number of most recently
// created products from the store's catalog feed. An empty catalog is not an
// error: callers get an empty slice and must treat it as "nothing to do".
func (r *shopifyRepository) FetchProducts(ctx context.Context, storeURL string) ([]dto.Product, error) {
	endpoint := fmt.Sprintf("%s/products.json?limit=%d&sort_by=created-descending",
		NormalizeStoreURL(storeURL), r.cfg.Shopify.MaxProducts)

	if r.cfg.Shopify.CacheTTL > 0 {
		if cached, found := r.inmemoryCache.Get(endpoint); found {
			return cached.([]dto.Product), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	r.logger.Info("Fetching catalog feed", logger.StringField("endpoint", endpoint))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &dto.FetchError{URL: endpoint, StatusCode: resp.StatusCode}
	}

	var catalog dto.CatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog feed: %w", err)
	}

	if len(catalog.Products) == 0 {
		r.logger.Warn("No products in catalog feed", logger.StringField("store_url", storeURL))
		return []dto.Product{}, nil
	}

	raw := catalog.Products
	if len(raw) > r.cfg.Shopify.MaxProducts {
		raw = raw[:r.cfg.Shopify.MaxProducts]
	}

	products := make([]dto.Product, 0, len(raw))
	for _, p := range raw {
		price := 0.0
		if len(p.Variants) > 0 {
			price = float64(p.Variants[0].Price)
		}
		name := p.Title
		if name == "" {
			name = "Untitled"
		}
		products = append(products, dto.Product{
			Name:      name,
			Price:     price,
			Currency:  "USD",
			Handle:    p.Handle,
			UpdatedAt: p.UpdatedAt,
		})
	}

	r.logger.Info("Catalog feed fetched",
		logger.StringField("store_url", storeURL),
		logger.IntField("products", len(products)),
	)

	if r.cfg.Shopify.CacheTTL > 0 {
		r.inmemoryCache.Set(endpoint, products, cache.DefaultExpiration)
	}

	return products, nil
}
