package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"cryptofolio/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Role:     "user",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCryptoAsset creates a crypto holding with the given symbol and
// current price. PreviousPrice starts equal to the current price.
func CreateTestCryptoAsset(t *testing.T, db *gorm.DB, userID uint, symbol string, currentPrice float64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:        userID,
		Kind:          models.AssetKindCrypto,
		Symbol:        symbol,
		FullName:      fmt.Sprintf("Test Coin %d", nextID()),
		Amount:        1,
		MiddlePrice:   currentPrice,
		CurrentPrice:  currentPrice,
		PreviousPrice: currentPrice,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test crypto asset: %v", err)
	}
	return asset
}

// CreateTestNFTAsset creates an NFT holding with the given collection and
// floor price. PreviousPrice starts equal to the floor price.
func CreateTestNFTAsset(t *testing.T, db *gorm.DB, userID uint, collection string, floorPrice float64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:         userID,
		Kind:           models.AssetKindNFT,
		CollectionName: collection,
		Amount:         1,
		MiddlePrice:    floorPrice,
		FloorPrice:     floorPrice,
		PreviousPrice:  floorPrice,
	}
	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create test NFT asset: %v", err)
	}
	return asset
}

// CreateTestSetting creates an enabled notification setting for the given
// asset kind with the given threshold.
func CreateTestSetting(t *testing.T, db *gorm.DB, userID uint, kind models.AssetKind, threshold float64) *models.NotificationSetting {
	t.Helper()

	setting := &models.NotificationSetting{
		UserID:              userID,
		AssetKind:           kind,
		Enabled:             true,
		ThresholdPercent:    threshold,
		IntervalHours:       4,
		UpdateIntervalHours: 4,
	}
	if err := db.Create(setting).Error; err != nil {
		t.Fatalf("failed to create test notification setting: %v", err)
	}
	return setting
}

// CreateTestHistoricalPrice records one price observation for an asset.
func CreateTestHistoricalPrice(t *testing.T, db *gorm.DB, assetID uint, price float64, ts time.Time) *models.HistoricalPrice {
	t.Helper()

	observation := &models.HistoricalPrice{
		AssetID:   assetID,
		Price:     price,
		Timestamp: ts,
	}
	if err := db.Create(observation).Error; err != nil {
		t.Fatalf("failed to create test historical price: %v", err)
	}
	return observation
}
