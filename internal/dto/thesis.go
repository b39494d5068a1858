package dto

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// AlphaOpportunity is the structured alpha-opportunity object the model is
// asked to produce.
type AlphaOpportunity struct {
	Product         string `json:"product"`
	Reason          string `json:"reason"`
	SuggestedAction string `json:"suggested_action"`
	EstimatedImpact string `json:"estimated_impact"`
}

// DisplayString flattens the opportunity into the single line stored and
// shown on the dashboard.
func (a AlphaOpportunity) DisplayString() string {
	return fmt.Sprintf("%s - %s [%s]", a.Product, a.Reason, a.SuggestedAction)
}

// ConvictionBet is one high-conviction bet from the model's assessment.
type ConvictionBet struct {
	Bet         string `json:"bet"`
	Probability string `json:"probability"`
	Timeframe   string `json:"timeframe"`
	Reasoning   string `json:"reasoning"`
}

// MarketThesis is the normalized market assessment. It is always produced:
// when the model reply cannot be parsed the thesis degrades to a fixed
// placeholder with Degraded set, rather than surfacing an error. Losing a
// whole cycle's analysis to one malformed reply is worse than storing a
// clearly flagged placeholder.
type MarketThesis struct {
	MarketBias         string          `json:"market_bias"`
	SentimentScore     int             `json:"sentiment_score"`
	SentimentReasoning string          `json:"sentiment_reasoning"`
	AlphaOpportunity   string          `json:"alpha_opportunity"`
	HighConvictionBets []ConvictionBet `json:"high_conviction_bets"`
	PriceGapAnalysis   string          `json:"price_gap_analysis"`
	RiskAssessment     string          `json:"risk_assessment"`
	// RawAnalysis is the full model output kept for audit: the normalized
	// JSON on a parsed run, the reply text verbatim on a degraded one.
	RawAnalysis string `json:"raw_analysis"`
	Degraded    bool   `json:"degraded"`
}

var codeFencePattern = regexp.MustCompile("```(?:json)?")

// CleanJSONResponse strips code-fence markers and any preamble or trailing
// commentary around the first top-level JSON object. Models emit these
// decorations despite instructions.
func CleanJSONResponse(raw string) string {
	cleaned := codeFencePattern.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.Trim(cleaned, "`")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start != -1 && end > start {
		return cleaned[start : end+1]
	}
	return cleaned
}

// ParseMarketThesis turns raw model output into a MarketThesis. It never
// fails: unparsable output yields a degraded placeholder naming the first
// product of the batch, with the raw text retained.
func ParseMarketThesis(raw string, products []Product) *MarketThesis {
	cleaned := CleanJSONResponse(raw)

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return degradedThesis(raw, products)
	}

	thesis := &MarketThesis{
		MarketBias:         stringField(payload, "market_bias", "NEUTRAL"),
		SentimentScore:     coerceSentimentScore(payload["sentiment_score"]),
		SentimentReasoning: stringField(payload, "sentiment_reasoning", ""),
		AlphaOpportunity:   flattenAlphaOpportunity(payload["alpha_opportunity"]),
		HighConvictionBets: decodeBets(payload["high_conviction_bets"]),
		PriceGapAnalysis:   stringField(payload, "price_gap_analysis", ""),
		RiskAssessment:     stringField(payload, "risk_assessment", ""),
	}

	normalized, err := json.Marshal(payload)
	if err != nil {
		thesis.RawAnalysis = raw
	} else {
		thesis.RawAnalysis = string(normalized)
	}

	return thesis
}

func degradedThesis(raw string, products []Product) *MarketThesis {
	firstProduct := "N/A"
	if len(products) > 0 {
		firstProduct = products[0].Name
	}
	alpha := AlphaOpportunity{
		Product:         firstProduct,
		Reason:          "Manual analysis required.",
		SuggestedAction: "Retry analysis.",
		EstimatedImpact: "MEDIUM",
	}
	return &MarketThesis{
		MarketBias:         "NEUTRAL",
		SentimentScore:     50,
		SentimentReasoning: "Failed to parse model response.",
		AlphaOpportunity:   alpha.DisplayString(),
		HighConvictionBets: []ConvictionBet{},
		PriceGapAnalysis:   "Automated analysis failed.",
		RiskAssessment:     "Retry analysis.",
		RawAnalysis:        raw,
		Degraded:           true,
	}
}

func stringField(payload map[string]interface{}, key, fallback string) string {
	value, ok := payload[key]
	if !ok || value == nil {
		return fallback
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// coerceSentimentScore accepts numbers and numeric strings; anything else,
// or a value outside 0-100, falls back to the neutral score of 50.
func coerceSentimentScore(value interface{}) int {
	score := 50
	switch v := value.(type) {
	case float64:
		score = int(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			score = int(f)
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			score = int(f)
		}
	}
	if score < 0 || score > 100 {
		return 50
	}
	return score
}

// flattenAlphaOpportunity renders the opportunity as a display string. The
// model is asked for an object but sometimes replies with a bare string.
func flattenAlphaOpportunity(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]interface{}:
		alpha := AlphaOpportunity{
			Product:         stringField(v, "product", ""),
			Reason:          stringField(v, "reason", ""),
			SuggestedAction: stringField(v, "suggested_action", ""),
			EstimatedImpact: stringField(v, "estimated_impact", ""),
		}
		return alpha.DisplayString()
	case nil:
		return AlphaOpportunity{}.DisplayString()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func decodeBets(value interface{}) []ConvictionBet {
	bets := []ConvictionBet{}
	raw, err := json.Marshal(value)
	if err != nil || value == nil {
		return bets
	}
	if err := json.Unmarshal(raw, &bets); err != nil {
		return []ConvictionBet{}
	}
	return bets
}
