package entity

import (
	"time"
)

// PriceHistory is one product observation captured from a storefront catalog.
// Rows are append-only; every row of a fetch batch carries the same Timestamp.
type PriceHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompetitorID  uint      `gorm:"not null;index" json:"competitor_id"`
	ProductName   string    `gorm:"not null" json:"product_name"`
	Price         float64   `gorm:"not null" json:"price"`
	Currency      string    `gorm:"default:USD" json:"currency"`
	ProductHandle string    `gorm:"default:''" json:"product_handle"`
	// SourceUpdatedAt is the upstream updated_at value, kept verbatim and
	// never parsed.
	SourceUpdatedAt string    `gorm:"default:''" json:"source_updated_at"`
	Timestamp       time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName specifies the table name for the PriceHistory model.
func (PriceHistory) TableName() string {
	return "price_history"
}
