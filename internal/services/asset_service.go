package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
)

// assetService handles asset-related business logic.
type assetService struct {
	db *gorm.DB
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(db *gorm.DB) AssetServicer {
	return &assetService{db: db}
}

// validateAssetInput checks kind-specific required fields.
func validateAssetInput(in AssetInput) error {
	switch in.Kind {
	case models.AssetKindCrypto:
		if strings.TrimSpace(in.Symbol) == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required for crypto assets")
		}
	case models.AssetKindNFT:
		if strings.TrimSpace(in.CollectionName) == "" {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "collection_name is required for NFT assets")
		}
	default:
		return apperrors.ErrInvalidAssetKind
	}
	if in.Amount < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be negative")
	}
	return nil
}

// CreateAsset adds a new holding to the user's portfolio. Market price and
// window state start empty and are filled by the first refresh cycle.
func (s *assetService) CreateAsset(userID uint, in AssetInput) (*models.Asset, error) {
	if err := validateAssetInput(in); err != nil {
		return nil, err
	}

	asset := &models.Asset{
		UserID:      userID,
		Kind:        in.Kind,
		Amount:      in.Amount,
		MiddlePrice: in.MiddlePrice,
		Multiple:    in.Multiple,
	}
	switch in.Kind {
	case models.AssetKindCrypto:
		asset.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
		asset.FullName = in.FullName
	case models.AssetKindNFT:
		asset.CollectionName = strings.TrimSpace(in.CollectionName)
	}

	if err := s.db.Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// GetUserAssets returns a page of the user's assets.
func (s *assetService) GetUserAssets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.Asset{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(assets, page.Page, page.PageSize, total)
	return &resp, nil
}

// GetAssetByID returns one asset, scoped to its owner.
func (s *assetService) GetAssetByID(userID, assetID uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// UpdateAsset replaces the user-editable fields of an asset. Kind is fixed at
// creation; pipeline-owned fields (prices, windows, changes) are untouched.
func (s *assetService) UpdateAsset(userID, assetID uint, in AssetInput) (*models.Asset, error) {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	in.Kind = asset.Kind
	if err := validateAssetInput(in); err != nil {
		return nil, err
	}

	asset.Amount = in.Amount
	asset.MiddlePrice = in.MiddlePrice
	asset.Multiple = in.Multiple
	switch asset.Kind {
	case models.AssetKindCrypto:
		asset.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
		asset.FullName = in.FullName
	case models.AssetKindNFT:
		asset.CollectionName = strings.TrimSpace(in.CollectionName)
	}

	if err := s.db.Save(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// DeleteAsset soft-deletes an asset. Its historical prices are kept.
func (s *assetService) DeleteAsset(userID, assetID uint) error {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(asset).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetAssetHistory returns a page of recorded price observations for an asset,
// newest first.
func (s *assetService) GetAssetHistory(userID, assetID uint, page pagination.PageRequest) (*pagination.PageResponse[models.HistoricalPrice], error) {
	if _, err := s.GetAssetByID(userID, assetID); err != nil {
		return nil, err
	}
	page.Defaults()

	var total int64
	if err := s.db.Model(&models.HistoricalPrice{}).Where("asset_id = ?", assetID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var history []models.HistoricalPrice
	if err := s.db.Where("asset_id = ?", assetID).
		Order("timestamp DESC").
		Scopes(pagination.Paginate(page)).
		Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(history, page.Page, page.PageSize, total)
	return &resp, nil
}
