package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/logger"
	"cryptofolio/internal/models"
	"cryptofolio/internal/prices"
)

// assetUpdateService refreshes market prices for due users, rolls the change
// windows and appends price history. It is the sole writer of the per-window
// snapshot state.
type assetUpdateService struct {
	db     *gorm.DB
	source prices.Source
}

// NewAssetUpdateService creates a new AssetUpdateServicer.
func NewAssetUpdateService(db *gorm.DB, source prices.Source) AssetUpdateServicer {
	return &assetUpdateService{db: db, source: source}
}

// UpdateAssetsForUsers runs one refresh cycle. Users are considered in scope
// when they have at least one enabled notification setting; a user is due
// when their LastUpdated is unset or older than the longest
// UpdateIntervalHours across their enabled settings. Failures on one asset or
// one user never abort the cycle.
func (s *assetUpdateService) UpdateAssetsForUsers(ctx context.Context) error {
	var settings []models.NotificationSetting
	if err := s.db.Where("enabled = ?", true).Find(&settings).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	intervalByUser := make(map[uint]int)
	for _, setting := range settings {
		if setting.UpdateIntervalHours > intervalByUser[setting.UserID] {
			intervalByUser[setting.UserID] = setting.UpdateIntervalHours
		}
	}

	now := time.Now()
	for userID, intervalHours := range intervalByUser {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.updateUserAssets(ctx, userID, intervalHours, now); err != nil {
			logger.Get().Errorw("Asset refresh failed for user", "user_id", userID, "error", err)
		}
	}

	return nil
}

func (s *assetUpdateService) updateUserAssets(ctx context.Context, userID uint, intervalHours int, now time.Time) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if user.LastUpdated != nil && now.Sub(*user.LastUpdated) < time.Duration(intervalHours)*time.Hour {
		return nil
	}

	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).Find(&assets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range assets {
		if err := s.refreshAsset(ctx, &assets[i], now); err != nil {
			logger.Get().Warnw("Skipping asset this cycle",
				"asset_id", assets[i].ID, "name", assets[i].DisplayName(), "error", err)
		}
	}

	user.LastUpdated = &now
	if err := s.db.Save(&user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// refreshAsset fetches the current market price for one asset and applies it.
// On fetch failure the asset row is left exactly as it was.
func (s *assetUpdateService) refreshAsset(ctx context.Context, asset *models.Asset, now time.Time) error {
	var (
		current float64
		source  string
		err     error
	)
	switch asset.Kind {
	case models.AssetKindNFT:
		current, err = s.source.CollectiblePrice(ctx, asset.CollectionName)
		source = models.PriceSourceOpenSea
	default:
		current, err = s.source.CryptoPrice(ctx, asset.Symbol)
		source = models.PriceSourceCoinMarketCap
	}
	if err != nil {
		return err
	}

	// The price observed last cycle becomes the alert baseline.
	asset.PreviousPrice = asset.MarketPrice()
	asset.SetMarketPrice(current)
	prices.RollWindows(asset, current, now)

	if err := s.db.Save(asset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	observation := &models.HistoricalPrice{
		AssetID:   asset.ID,
		Price:     current,
		Timestamp: now,
		Source:    source,
	}
	if err := s.db.Create(observation).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
