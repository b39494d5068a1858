package repository

import (
	"fmt"
	"strings"

	"golang-shopify-warroom/internal/dto"
)

// SystemPromptES is the system instruction for Spanish-language assessments.
const SystemPromptES = `Eres un Lead Estratega de E-commerce y Data Quant.
Tu trabajo: analizar productos de competidores y devolver SOLO un JSON válido.
NUNCA escribas markdown, texto explicativo, ni bloques de código.
SOLO el objeto JSON crudo, sin nada antes ni después.`

// SystemPromptEN is the system instruction for English-language assessments.
const SystemPromptEN = `You are a Lead E-commerce Strategist & Data Quant.
Your job: analyze competitor products and return ONLY valid JSON.
NEVER write markdown, explanatory text, or code blocks.
ONLY the raw JSON object, nothing before or after.`

// SystemPromptForLanguage returns the system instruction for the given
// language selector ("es" or "en").
func SystemPromptForLanguage(lang string) string {
	if lang == "es" {
		return SystemPromptES
	}
	return SystemPromptEN
}

// BuildAnalysisPrompt renders the analysis prompt for a batch of products.
// It is pure: identical inputs produce an identical prompt. Products with a
// non-positive price are listed but excluded from the summary statistics.
func BuildAnalysisPrompt(products []dto.Product, competitorName, lang string) string {
	var productsText strings.Builder
	for _, p := range products {
		productsText.WriteString(fmt.Sprintf("- %s | Price: $%.2f\n", p.Name, p.Price))
	}

	avgPrice, minPrice, maxPrice := priceStatistics(products)

	langInstruction := "IMPORTANT: Write ALL text values in ENGLISH."
	if lang == "es" {
		langInstruction = "IMPORTANT: Write ALL text values in SPANISH."
	}

	promptTemplate := `%s
Competitor: %s
Products:
%s
Avg: $%.2f | Min: $%.2f | Max: $%.2f

Return ONLY this JSON structure filled with your analysis:
{"market_bias":"AGGRESSIVE","sentiment_score":75,"sentiment_reasoning":"your text","alpha_opportunity":{"product":"product name","reason":"why","suggested_action":"action","estimated_impact":"HIGH"},"high_conviction_bets":[{"bet":"action","probability":"80%%","timeframe":"NOW","reasoning":"why"},{"bet":"action","probability":"70%%","timeframe":"THIS_WEEK","reasoning":"why"},{"bet":"action","probability":"60%%","timeframe":"THIS_MONTH","reasoning":"why"}],"price_gap_analysis":"your text","risk_assessment":"your text"}

market_bias: AGGRESSIVE=attack now | DEFENSIVE=protect margins | NEUTRAL=gather more data
%s`

	return fmt.Sprintf(promptTemplate,
		langInstruction, competitorName, productsText.String(),
		avgPrice, minPrice, maxPrice, langInstruction)
}

// priceStatistics computes mean, min and max over strictly positive prices.
// Zero-price products signal "unknown" and would skew the numbers.
func priceStatistics(products []dto.Product) (avg, min, max float64) {
	var sum float64
	var count int
	for _, p := range products {
		if p.Price <= 0 {
			continue
		}
		if count == 0 || p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
		sum += p.Price
		count++
	}
	if count == 0 {
		return 0, 0, 0
	}
	return sum / float64(count), min, max
}
