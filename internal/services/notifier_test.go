package services

import (
	"testing"

	"cryptofolio/internal/models"
	"cryptofolio/internal/testutil"
)

func TestDispatch(t *testing.T) {
	t.Run("success_logs_sent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		sender := &testutil.FakeSender{}
		dispatcher := NewNotificationDispatcher(db, sender)
		user := testutil.CreateTestUser(t, db)

		ok := dispatcher.Dispatch(user, models.NotificationTypeAlert, "subject", "body")
		if !ok {
			t.Fatal("expected dispatch to succeed")
		}

		if sender.SentCount() != 1 {
			t.Fatalf("expected 1 send, got %d", sender.SentCount())
		}
		if sender.Sent[0].To != user.Email {
			t.Errorf("sent to %s, want %s", sender.Sent[0].To, user.Email)
		}

		var logs []models.NotificationLog
		db.Find(&logs)
		if len(logs) != 1 {
			t.Fatalf("expected exactly 1 log row, got %d", len(logs))
		}
		if logs[0].Status != models.NotificationStatusSent {
			t.Errorf("log status = %s, want sent", logs[0].Status)
		}
		if logs[0].UserID != user.ID {
			t.Errorf("log user = %d, want %d", logs[0].UserID, user.ID)
		}
	})

	t.Run("failure_logs_failed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)

		sender := &testutil.FakeSender{Fail: true}
		dispatcher := NewNotificationDispatcher(db, sender)
		user := testutil.CreateTestUser(t, db)

		ok := dispatcher.Dispatch(user, models.NotificationTypeReport, "subject", "body")
		if ok {
			t.Fatal("expected dispatch to fail")
		}

		var logs []models.NotificationLog
		db.Find(&logs)
		if len(logs) != 1 {
			t.Fatalf("expected exactly 1 log row for failed attempt, got %d", len(logs))
		}
		if logs[0].Status != models.NotificationStatusFailed {
			t.Errorf("log status = %s, want failed", logs[0].Status)
		}
	})
}
