package entity

import (
	"time"

	"gorm.io/datatypes"
)

// MarketAnalysis is one structured market assessment derived from a batch of
// price observations. One row per analysis run, including degraded runs where
// the model reply could not be parsed. Never updated in place.
type MarketAnalysis struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	CompetitorID   uint   `gorm:"not null;index" json:"competitor_id"`
	SentimentScore int    `gorm:"default:50" json:"sentiment_score"`
	Bias           string `gorm:"default:NEUTRAL" json:"bias"`
	// AlphaOpportunity is the synthesized display string, not the raw object.
	AlphaOpportunity   string         `gorm:"type:text;default:''" json:"alpha_opportunity"`
	HighConvictionBets datatypes.JSON `json:"high_conviction_bets"`
	// RawAnalysis keeps the full model output for audit and export. On a
	// degraded run this is the unparsed reply text.
	RawAnalysis string    `gorm:"type:text;default:''" json:"raw_analysis"`
	Degraded    bool      `gorm:"default:false" json:"degraded"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName specifies the table name for the MarketAnalysis model.
func (MarketAnalysis) TableName() string {
	return "market_analysis"
}
