package dto

import "time"

// AnalyzeStatus reports the outcome of one fetch-analyze-persist pass.
type AnalyzeStatus string

const (
	// AnalyzeStatusAnalyzed means observations and an assessment were stored.
	AnalyzeStatusAnalyzed AnalyzeStatus = "analyzed"
	// AnalyzeStatusEmpty means the catalog returned no products; nothing was
	// stored and nothing is wrong.
	AnalyzeStatusEmpty AnalyzeStatus = "empty"
)

// MarketAnalysisEvent is published to the Redis stream after an assessment is
// stored, and consumed by the Telegram notifier.
type MarketAnalysisEvent struct {
	CompetitorID     uint      `json:"competitor_id"`
	CompetitorName   string    `json:"competitor_name"`
	Bias             string    `json:"bias"`
	SentimentScore   int       `json:"sentiment_score"`
	AlphaOpportunity string    `json:"alpha_opportunity"`
	Degraded         bool      `json:"degraded"`
	CreatedAt        time.Time `json:"created_at"`
}
