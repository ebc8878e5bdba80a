package models

import "time"

// CheckIntervals lists the accepted alert check intervals in hours.
var CheckIntervals = []int{2, 4, 6, 8, 10, 12}

// ValidCheckInterval reports whether h is one of the accepted intervals.
func ValidCheckInterval(h int) bool {
	for _, v := range CheckIntervals {
		if v == h {
			return true
		}
	}
	return false
}

// NotificationSetting holds one user's alert configuration for one asset
// kind. The refresh scheduler reads UpdateIntervalHours to decide how often
// the user's assets are re-priced; the alert evaluator reads IntervalHours
// and LastNotified to decide whether an alert may fire.
type NotificationSetting struct {
	Base
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	AssetKind AssetKind `gorm:"not null" json:"asset_kind"`
	Enabled   bool      `gorm:"default:true" json:"enabled"`

	// ThresholdPercent is the minimum absolute change percent that
	// triggers an alert. 0-100.
	ThresholdPercent float64 `gorm:"default:10" json:"threshold_percent"`

	// IntervalHours gates alert emails: one of 2/4/6/8/10/12.
	IntervalHours int `gorm:"default:4" json:"interval_hours"`

	// UpdateIntervalHours gates the price refresh for this user.
	UpdateIntervalHours int `gorm:"default:4" json:"update_interval_hours"`

	// LastNotified is nil until the first alert is dispatched.
	LastNotified *time.Time `json:"last_notified,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
