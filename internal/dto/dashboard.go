package dto

import "time"

// AnalysisResponse is the DTO for a stored market assessment.
type AnalysisResponse struct {
	ID               uint            `json:"id"`
	CompetitorID     uint            `json:"competitor_id"`
	SentimentScore   int             `json:"sentiment_score"`
	Bias             string          `json:"bias"`
	AlphaOpportunity string          `json:"alpha_opportunity"`
	Bets             []ConvictionBet `json:"high_conviction_bets"`
	Degraded         bool            `json:"degraded"`
	Timestamp        time.Time       `json:"timestamp"`
}

// ObservationResponse is the DTO for one stored price observation.
type ObservationResponse struct {
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Timestamp   time.Time `json:"timestamp"`
}

// DashboardEntry aggregates the latest intel for one competitor.
type DashboardEntry struct {
	Competitor CompetitorResponse    `json:"competitor"`
	Analysis   *AnalysisResponse     `json:"analysis,omitempty"`
	Products   []ObservationResponse `json:"products"`
}

// DashboardResponse is the full dashboard payload.
type DashboardResponse struct {
	Entries       []DashboardEntry `json:"entries"`
	TotalAnalyses int64            `json:"total_analyses"`
	TotalProducts int64            `json:"total_products"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

// ChartDataset is one product's price series, shaped for Chart.js.
type ChartDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
	Tension         float64   `json:"tension"`
	Fill            bool      `json:"fill"`
}

// PriceHistoryChart is the chart payload for one competitor.
type PriceHistoryChart struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}
