package entity

import (
	"time"
)

// Competitor is a monitored storefront. Rows are created and managed from the
// dashboard; the worker only reads them.
type Competitor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	URL       string    `gorm:"uniqueIndex;not null" json:"url"`
	Name      string    `gorm:"not null" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	PriceHistory []PriceHistory   `gorm:"foreignKey:CompetitorID;constraint:OnDelete:CASCADE" json:"-"`
	Analyses     []MarketAnalysis `gorm:"foreignKey:CompetitorID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for the Competitor model.
func (Competitor) TableName() string {
	return "competitors"
}
