package models

import "time"

// Notification types recorded in the log.
const (
	NotificationTypeAlert  = "alert"
	NotificationTypeReport = "report"
)

// Notification delivery statuses.
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// NotificationLog is the audit trail of dispatch attempts. One row is written
// per attempt, success or failure, and rows are never mutated.
// Append-only: no Base embed, no soft deletes.
type NotificationLog struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	UserID  uint      `gorm:"not null;index" json:"user_id"`
	Type    string    `gorm:"not null" json:"type"`
	Subject string    `gorm:"not null" json:"subject"`
	Message string    `gorm:"type:text" json:"message"`
	SentAt  time.Time `gorm:"not null" json:"sent_at"`
	Status  string    `gorm:"default:'sent'" json:"status"`
}
