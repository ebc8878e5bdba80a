package models

import "time"

// Providers recorded as the source of a price observation.
const (
	PriceSourceCoinMarketCap = "CoinMarketCap"
	PriceSourceOpenSea       = "OpenSea"
)

// HistoricalPrice represents one observed price for an asset.
// This is immutable time-series data: no Base embed, no soft deletes.
// Rows are keyed softly by AssetID and deliberately survive asset deletion.
type HistoricalPrice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AssetID   uint      `gorm:"not null;index" json:"asset_id"`
	Price     float64   `gorm:"not null" json:"price"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Source    string    `gorm:"default:'API'" json:"source"`
}
