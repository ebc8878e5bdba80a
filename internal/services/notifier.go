package services

import (
	"time"

	"gorm.io/gorm"

	"cryptofolio/internal/logger"
	"cryptofolio/internal/mailer"
	"cryptofolio/internal/models"
)

// notificationDispatcher sends emails through a mailer.Sender and records the
// outcome of every attempt.
type notificationDispatcher struct {
	db     *gorm.DB
	sender mailer.Sender
}

// NewNotificationDispatcher creates a new NotificationDispatcher.
func NewNotificationDispatcher(db *gorm.DB, sender mailer.Sender) NotificationDispatcher {
	return &notificationDispatcher{db: db, sender: sender}
}

// Dispatch sends one email to the user and writes exactly one NotificationLog
// row for the attempt. Returns whether delivery succeeded.
func (d *notificationDispatcher) Dispatch(user *models.User, notificationType, subject, body string) bool {
	ok := d.sender.Send(user.Email, subject, body)

	status := models.NotificationStatusSent
	if !ok {
		status = models.NotificationStatusFailed
	}

	entry := &models.NotificationLog{
		UserID:  user.ID,
		Type:    notificationType,
		Subject: subject,
		Message: body,
		SentAt:  time.Now(),
		Status:  status,
	}
	if err := d.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("Failed to record notification log",
			"user_id", user.ID, "type", notificationType, "error", err)
	}

	return ok
}
