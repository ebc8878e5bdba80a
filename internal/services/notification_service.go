package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
)

// notificationService handles notification settings and the dispatch log.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

func validThreshold(t float64) bool {
	return t >= 0 && t <= 100
}

// CreateSetting creates the alert configuration for one (user, asset kind)
// pair. At most one setting may exist per pair.
func (s *notificationService) CreateSetting(userID uint, kind models.AssetKind, thresholdPercent float64, intervalHours, updateIntervalHours int) (*models.NotificationSetting, error) {
	if kind != models.AssetKindCrypto && kind != models.AssetKindNFT {
		return nil, apperrors.ErrInvalidAssetKind
	}
	if !validThreshold(thresholdPercent) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "threshold_percent must be between 0 and 100")
	}
	if !models.ValidCheckInterval(intervalHours) || !models.ValidCheckInterval(updateIntervalHours) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interval hours must be one of 2, 4, 6, 8, 10, 12")
	}

	var count int64
	s.db.Model(&models.NotificationSetting{}).
		Where("user_id = ? AND asset_kind = ?", userID, kind).
		Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateSetting
	}

	setting := &models.NotificationSetting{
		UserID:              userID,
		AssetKind:           kind,
		Enabled:             true,
		ThresholdPercent:    thresholdPercent,
		IntervalHours:       intervalHours,
		UpdateIntervalHours: updateIntervalHours,
	}
	if err := s.db.Create(setting).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return setting, nil
}

// GetUserSettings returns all of the user's notification settings.
func (s *notificationService) GetUserSettings(userID uint) ([]models.NotificationSetting, error) {
	var settings []models.NotificationSetting
	if err := s.db.Where("user_id = ?", userID).Order("asset_kind").Find(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}

func (s *notificationService) getSetting(userID, settingID uint) (*models.NotificationSetting, error) {
	var setting models.NotificationSetting
	if err := s.db.Where("id = ? AND user_id = ?", settingID, userID).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSettingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &setting, nil
}

// UpdateSetting applies the non-nil fields of the update to an existing
// setting. LastNotified is pipeline-owned and cannot be set here.
func (s *notificationService) UpdateSetting(userID, settingID uint, in SettingUpdate) (*models.NotificationSetting, error) {
	setting, err := s.getSetting(userID, settingID)
	if err != nil {
		return nil, err
	}

	if in.ThresholdPercent != nil {
		if !validThreshold(*in.ThresholdPercent) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "threshold_percent must be between 0 and 100")
		}
		setting.ThresholdPercent = *in.ThresholdPercent
	}
	if in.IntervalHours != nil {
		if !models.ValidCheckInterval(*in.IntervalHours) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interval_hours must be one of 2, 4, 6, 8, 10, 12")
		}
		setting.IntervalHours = *in.IntervalHours
	}
	if in.UpdateIntervalHours != nil {
		if !models.ValidCheckInterval(*in.UpdateIntervalHours) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "update_interval_hours must be one of 2, 4, 6, 8, 10, 12")
		}
		setting.UpdateIntervalHours = *in.UpdateIntervalHours
	}
	if in.Enabled != nil {
		setting.Enabled = *in.Enabled
	}

	if err := s.db.Save(setting).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return setting, nil
}

// DeleteSetting removes a notification setting.
func (s *notificationService) DeleteSetting(userID, settingID uint) error {
	setting, err := s.getSetting(userID, settingID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(setting).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetUserLogs returns a page of the user's notification log, newest first.
func (s *notificationService) GetUserLogs(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.NotificationLog], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.NotificationLog{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var logs []models.NotificationLog
	if err := s.db.Where("user_id = ?", userID).
		Order("sent_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(logs, page.Page, page.PageSize, total)
	return &resp, nil
}
