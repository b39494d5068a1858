package repository

import (
	"strings"
	"testing"

	"golang-shopify-warroom/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	products := []dto.Product{
		{Name: "Widget", Price: 10},
		{Name: "Gadget", Price: 30},
	}

	prompt := BuildAnalysisPrompt(products, "Acme Store", "en")

	assert.Contains(t, prompt, "Competitor: Acme Store")
	assert.Contains(t, prompt, "- Widget | Price: $10.00")
	assert.Contains(t, prompt, "- Gadget | Price: $30.00")
	assert.Contains(t, prompt, "Avg: $20.00 | Min: $10.00 | Max: $30.00")
	assert.Contains(t, prompt, "Write ALL text values in ENGLISH")

	// The reply contract must spell out every field the normalizer reads.
	for _, field := range []string{
		"market_bias", "sentiment_score", "sentiment_reasoning",
		"alpha_opportunity", "high_conviction_bets",
		"price_gap_analysis", "risk_assessment",
	} {
		assert.Contains(t, prompt, field)
	}
	// The %% escapes must not leak into the rendered prompt.
	assert.Contains(t, prompt, `"probability":"80%"`)
	assert.NotContains(t, prompt, "%!")
}

func TestBuildAnalysisPrompt_Deterministic(t *testing.T) {
	products := []dto.Product{{Name: "Widget", Price: 9.99}}

	first := BuildAnalysisPrompt(products, "Acme", "en")
	second := BuildAnalysisPrompt(products, "Acme", "en")

	assert.Equal(t, first, second)
}

func TestBuildAnalysisPrompt_Spanish(t *testing.T) {
	prompt := BuildAnalysisPrompt([]dto.Product{{Name: "Widget", Price: 5}}, "Acme", "es")

	assert.Contains(t, prompt, "Write ALL text values in SPANISH")
	// The instruction is repeated at the top and the bottom.
	assert.Equal(t, 2, strings.Count(prompt, "Write ALL text values in SPANISH"))
}

func TestPriceStatistics_ExcludesNonPositivePrices(t *testing.T) {
	products := []dto.Product{
		{Name: "Widget", Price: 10},
		{Name: "Freebie", Price: 0},
		{Name: "Gadget", Price: 20},
	}

	avg, min, max := priceStatistics(products)

	assert.Equal(t, 15.0, avg)
	assert.Equal(t, 10.0, min)
	assert.Equal(t, 20.0, max)

	// Zero-price products still show up in the listing.
	prompt := BuildAnalysisPrompt(products, "Acme", "en")
	assert.Contains(t, prompt, "- Freebie | Price: $0.00")
}

func TestPriceStatistics_AllUnknownPrices(t *testing.T) {
	avg, min, max := priceStatistics([]dto.Product{{Name: "Freebie", Price: 0}})

	assert.Zero(t, avg)
	assert.Zero(t, min)
	assert.Zero(t, max)
}

func TestSystemPromptForLanguage(t *testing.T) {
	assert.Equal(t, SystemPromptES, SystemPromptForLanguage("es"))
	assert.Equal(t, SystemPromptEN, SystemPromptForLanguage("en"))
	assert.Equal(t, SystemPromptEN, SystemPromptForLanguage(""))
}
