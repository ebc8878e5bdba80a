package services

import (
	"context"

	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
}

// AssetInput carries the user-editable fields for creating or updating an
// asset. Kind selects which variant fields are required.
type AssetInput struct {
	Kind        models.AssetKind
	Amount      float64
	MiddlePrice float64
	Multiple    float64

	// Crypto variant.
	Symbol   string
	FullName string

	// NFT variant.
	CollectionName string
}

// AssetServicer defines the contract for asset-related business logic.
type AssetServicer interface {
	CreateAsset(userID uint, in AssetInput) (*models.Asset, error)
	GetUserAssets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetAssetByID(userID, assetID uint) (*models.Asset, error)
	UpdateAsset(userID, assetID uint, in AssetInput) (*models.Asset, error)
	DeleteAsset(userID, assetID uint) error
	GetAssetHistory(userID, assetID uint, page pagination.PageRequest) (*pagination.PageResponse[models.HistoricalPrice], error)
}

// SettingUpdate holds the optional fields of a notification-setting update.
// Nil fields are left unchanged.
type SettingUpdate struct {
	Enabled             *bool
	ThresholdPercent    *float64
	IntervalHours       *int
	UpdateIntervalHours *int
}

// NotificationServicer defines the contract for notification settings and the
// dispatch audit log.
type NotificationServicer interface {
	CreateSetting(userID uint, kind models.AssetKind, thresholdPercent float64, intervalHours, updateIntervalHours int) (*models.NotificationSetting, error)
	GetUserSettings(userID uint) ([]models.NotificationSetting, error)
	UpdateSetting(userID, settingID uint, in SettingUpdate) (*models.NotificationSetting, error)
	DeleteSetting(userID, settingID uint) error
	GetUserLogs(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.NotificationLog], error)
}

// NotificationDispatcher sends one notification email and records exactly one
// NotificationLog row per attempt, success or failure.
type NotificationDispatcher interface {
	Dispatch(user *models.User, notificationType, subject, body string) bool
}

// AssetUpdateServicer runs the price-refresh half of the pipeline.
type AssetUpdateServicer interface {
	UpdateAssetsForUsers(ctx context.Context) error
}

// AlertServicer evaluates per-user alert settings against fresh prices.
type AlertServicer interface {
	CheckAlerts(ctx context.Context) error
}

// ReportServicer generates periodic portfolio summary emails.
type ReportServicer interface {
	GenerateReports(ctx context.Context, period models.Period) error
}
