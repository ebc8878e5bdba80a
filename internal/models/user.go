package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"default:'user'" json:"role"`

	// LastUpdated is the last time the price-refresh pipeline processed
	// this user's assets. Nil until the first refresh.
	LastUpdated *time.Time `json:"last_updated,omitempty"`

	Assets               []Asset               `gorm:"foreignKey:UserID" json:"assets,omitempty"`
	NotificationSettings []NotificationSetting `gorm:"foreignKey:UserID" json:"notification_settings,omitempty"`
}
