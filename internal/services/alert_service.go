package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/logger"
	"cryptofolio/internal/models"
	"cryptofolio/internal/prices"
)

// alertService evaluates notification settings against the latest observed
// prices and dispatches coalesced alert emails.
type alertService struct {
	db         *gorm.DB
	dispatcher NotificationDispatcher
}

// NewAlertService creates a new AlertServicer.
func NewAlertService(db *gorm.DB, dispatcher NotificationDispatcher) AlertServicer {
	return &alertService{db: db, dispatcher: dispatcher}
}

// triggeredAsset pairs an asset with the change percent that tripped the
// threshold.
type triggeredAsset struct {
	asset  models.Asset
	change float64
}

// CheckAlerts runs one alert evaluation pass over all enabled settings. Each
// setting is gated by its IntervalHours against LastNotified (never notified
// means due). Price movement is measured from PreviousPrice, the price
// observed the cycle before the current one. All triggered assets of one
// setting go into a single email, and LastNotified advances after the
// dispatch attempt whether or not delivery succeeded; the log row records the
// outcome.
func (s *alertService) CheckAlerts(ctx context.Context) error {
	var settings []models.NotificationSetting
	if err := s.db.Where("enabled = ?", true).Preload("User").Find(&settings).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	for i := range settings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.checkSetting(&settings[i], now); err != nil {
			logger.Get().Errorw("Alert check failed for setting",
				"setting_id", settings[i].ID, "user_id", settings[i].UserID, "error", err)
		}
	}
	return nil
}

func (s *alertService) checkSetting(setting *models.NotificationSetting, now time.Time) error {
	if setting.LastNotified != nil && now.Sub(*setting.LastNotified) < time.Duration(setting.IntervalHours)*time.Hour {
		return nil
	}

	var assets []models.Asset
	if err := s.db.Where("user_id = ? AND kind = ?", setting.UserID, setting.AssetKind).Find(&assets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var triggered []triggeredAsset
	for _, asset := range assets {
		change := prices.PercentChange(asset.PreviousPrice, asset.MarketPrice())
		if math.Abs(change) >= setting.ThresholdPercent {
			triggered = append(triggered, triggeredAsset{asset: asset, change: change})
		}
	}
	if len(triggered) == 0 {
		return nil
	}

	subject, body := buildAlertEmail(setting.AssetKind, setting.ThresholdPercent, triggered)
	s.dispatcher.Dispatch(&setting.User, models.NotificationTypeAlert, subject, body)

	// Failed deliveries still count as an attempt; without this, a broken
	// mail transport would re-dispatch every pass and flood the log.
	setting.LastNotified = &now
	if err := s.db.Save(setting).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// buildAlertEmail renders one coalesced alert for all triggered assets of a
// single asset kind.
func buildAlertEmail(kind models.AssetKind, threshold float64, triggered []triggeredAsset) (subject, body string) {
	subject = fmt.Sprintf("Price alert: %d %s asset(s) moved more than %.1f%%", len(triggered), kind, threshold)

	var b strings.Builder
	b.WriteString("The following assets moved beyond your alert threshold:\n")
	for _, t := range triggered {
		b.WriteString(fmt.Sprintf("%s: %+.2f%% (current price %.2f)\n",
			t.asset.DisplayName(), t.change, t.asset.MarketPrice()))
	}
	return subject, strings.TrimRight(b.String(), "\n")
}
