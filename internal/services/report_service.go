package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/logger"
	"cryptofolio/internal/models"
	"cryptofolio/internal/prices"
)

// reportService builds periodic portfolio summary emails. It reads window
// snapshots but never advances them; rollover belongs to the refresh service.
type reportService struct {
	db         *gorm.DB
	dispatcher NotificationDispatcher
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, dispatcher NotificationDispatcher) ReportServicer {
	return &reportService{db: db, dispatcher: dispatcher}
}

// GenerateReports sends one portfolio summary email for the given window to
// every user who owns at least one asset. Users without assets get nothing,
// and no log row is written for them.
func (s *reportService) GenerateReports(ctx context.Context, period models.Period) error {
	if !models.ValidPeriod(string(period)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown report period")
	}

	var userIDs []uint
	if err := s.db.Model(&models.Asset{}).Distinct("user_id").Pluck("user_id", &userIDs).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.reportForUser(userID, period); err != nil {
			logger.Get().Errorw("Report generation failed for user",
				"user_id", userID, "period", period, "error", err)
		}
	}
	return nil
}

func (s *reportService) reportForUser(userID uint, period models.Period) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).Find(&assets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(assets) == 0 {
		return nil
	}

	subject, body := buildReportEmail(period, assets)
	s.dispatcher.Dispatch(&user, models.NotificationTypeReport, subject, body)
	return nil
}

// buildReportEmail renders the summary: one line per asset with the change
// against the period's snapshot baseline, then the portfolio total.
func buildReportEmail(period models.Period, assets []models.Asset) (subject, body string) {
	subject = fmt.Sprintf("Your %s portfolio report", period)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Portfolio summary (%s):\n", period))

	var totalValue float64
	for _, asset := range assets {
		current := asset.MarketPrice()
		change := 0.0
		if snapPrice, _ := asset.SnapshotFor(period); snapPrice != nil {
			change = prices.PercentChange(*snapPrice, current)
		}
		value := current * asset.Amount
		totalValue += value

		b.WriteString(fmt.Sprintf("%s (%s): price %.2f, change %+.2f%%, value %.2f\n",
			asset.DisplayName(), asset.Kind, current, change, value))
	}

	b.WriteString(fmt.Sprintf("Total portfolio value: %.2f", totalValue))
	return subject, b.String()
}
