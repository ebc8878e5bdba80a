package models

import "time"

// AssetKind discriminates the two asset variants stored in the assets table.
type AssetKind string

const (
	AssetKindCrypto AssetKind = "crypto"
	AssetKindNFT    AssetKind = "nft"
)

// Period identifies one of the rolling observation windows tracked per asset.
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// Periods lists the rolling windows in evaluation order.
var Periods = []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodYearly}

// PeriodDurations maps each window to its fixed length. The month is a flat
// 30 days and the quarter three of those; there is no calendar-aware
// arithmetic anywhere in the pipeline.
var PeriodDurations = map[Period]time.Duration{
	PeriodDaily:     24 * time.Hour,
	PeriodWeekly:    7 * 24 * time.Hour,
	PeriodMonthly:   30 * 24 * time.Hour,
	PeriodQuarterly: 90 * 24 * time.Hour,
	PeriodYearly:    365 * 24 * time.Hour,
}

// ValidPeriod reports whether s names a known rolling window.
func ValidPeriod(s string) bool {
	_, ok := PeriodDurations[Period(s)]
	return ok
}

// Asset represents a portfolio holding. It is a tagged union over the crypto
// and NFT variants: Kind selects which variant-specific columns are
// meaningful, and every consumer switches on Kind exactly once through
// MarketPrice/DisplayName rather than inspecting columns directly.
type Asset struct {
	Base
	UserID uint      `gorm:"not null;index" json:"user_id"`
	Kind   AssetKind `gorm:"not null;index" json:"kind"`

	// Common holding fields, user-editable.
	Amount      float64 `json:"amount"`
	MiddlePrice float64 `json:"middle_price"`
	Multiple    float64 `json:"multiple"`

	// PreviousPrice is the market price observed by the refresh cycle
	// before the current one. The alert evaluator measures against it.
	PreviousPrice float64 `json:"previous_price"`

	// Per-window change percents, written only when a window rolls over.
	DailyChange     float64 `json:"daily_change"`
	WeeklyChange    float64 `json:"weekly_change"`
	MonthlyChange   float64 `json:"monthly_change"`
	QuarterlyChange float64 `json:"quarterly_change"`
	YearlyChange    float64 `json:"yearly_change"`

	// TotalChange is recomputed against MiddlePrice every refresh cycle.
	TotalChange float64 `json:"total_change"`

	// Window snapshots: the baseline price and the moment it was taken.
	// Nil until the first observation of that window.
	DailyPrice         *float64   `json:"daily_price,omitempty"`
	DailyTimestamp     *time.Time `json:"daily_timestamp,omitempty"`
	WeeklyPrice        *float64   `json:"weekly_price,omitempty"`
	WeeklyTimestamp    *time.Time `json:"weekly_timestamp,omitempty"`
	MonthlyPrice       *float64   `json:"monthly_price,omitempty"`
	MonthlyTimestamp   *time.Time `json:"monthly_timestamp,omitempty"`
	QuarterlyPrice     *float64   `json:"quarterly_price,omitempty"`
	QuarterlyTimestamp *time.Time `json:"quarterly_timestamp,omitempty"`
	YearlyPrice        *float64   `json:"yearly_price,omitempty"`
	YearlyTimestamp    *time.Time `json:"yearly_timestamp,omitempty"`

	// Crypto variant.
	Symbol       string  `json:"symbol,omitempty"`
	FullName     string  `json:"full_name,omitempty"`
	CurrentPrice float64 `json:"current_price,omitempty"`

	// NFT variant.
	CollectionName string  `json:"collection_name,omitempty"`
	FloorPrice     float64 `json:"floor_price,omitempty"`
	TraitPrice     float64 `json:"trait_price,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// MarketPrice returns the variant's current market price: the quote price
// for crypto, the collection floor price for NFTs.
func (a *Asset) MarketPrice() float64 {
	if a.Kind == AssetKindNFT {
		return a.FloorPrice
	}
	return a.CurrentPrice
}

// SetMarketPrice stores a freshly fetched market price into the variant's
// price column.
func (a *Asset) SetMarketPrice(price float64) {
	if a.Kind == AssetKindNFT {
		a.FloorPrice = price
		return
	}
	a.CurrentPrice = price
}

// DisplayName returns the name used in notifications: the ticker symbol for
// crypto, the collection name for NFTs.
func (a *Asset) DisplayName() string {
	if a.Kind == AssetKindNFT {
		return a.CollectionName
	}
	return a.Symbol
}

// SnapshotFor returns the stored baseline price and timestamp for the given
// window. Both are nil before the window's first observation.
func (a *Asset) SnapshotFor(p Period) (*float64, *time.Time) {
	switch p {
	case PeriodWeekly:
		return a.WeeklyPrice, a.WeeklyTimestamp
	case PeriodMonthly:
		return a.MonthlyPrice, a.MonthlyTimestamp
	case PeriodQuarterly:
		return a.QuarterlyPrice, a.QuarterlyTimestamp
	case PeriodYearly:
		return a.YearlyPrice, a.YearlyTimestamp
	default:
		return a.DailyPrice, a.DailyTimestamp
	}
}

// SetSnapshot rolls the given window's baseline forward to price/ts.
func (a *Asset) SetSnapshot(p Period, price float64, ts time.Time) {
	switch p {
	case PeriodWeekly:
		a.WeeklyPrice, a.WeeklyTimestamp = &price, &ts
	case PeriodMonthly:
		a.MonthlyPrice, a.MonthlyTimestamp = &price, &ts
	case PeriodQuarterly:
		a.QuarterlyPrice, a.QuarterlyTimestamp = &price, &ts
	case PeriodYearly:
		a.YearlyPrice, a.YearlyTimestamp = &price, &ts
	default:
		a.DailyPrice, a.DailyTimestamp = &price, &ts
	}
}

// SetChange stores the computed change percent for the given window.
func (a *Asset) SetChange(p Period, change float64) {
	switch p {
	case PeriodWeekly:
		a.WeeklyChange = change
	case PeriodMonthly:
		a.MonthlyChange = change
	case PeriodQuarterly:
		a.QuarterlyChange = change
	case PeriodYearly:
		a.YearlyChange = change
	default:
		a.DailyChange = change
	}
}

// ChangeFor returns the stored change percent for the given window.
func (a *Asset) ChangeFor(p Period) float64 {
	switch p {
	case PeriodWeekly:
		return a.WeeklyChange
	case PeriodMonthly:
		return a.MonthlyChange
	case PeriodQuarterly:
		return a.QuarterlyChange
	case PeriodYearly:
		return a.YearlyChange
	default:
		return a.DailyChange
	}
}
