package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "cryptofolio/internal/errors"
	"cryptofolio/internal/models"
	"cryptofolio/internal/pagination"
	"cryptofolio/internal/services"
)

type mockAssetService struct {
	createAssetFn     func(userID uint, in services.AssetInput) (*models.Asset, error)
	getUserAssetsFn   func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	getAssetByIDFn    func(userID, assetID uint) (*models.Asset, error)
	updateAssetFn     func(userID, assetID uint, in services.AssetInput) (*models.Asset, error)
	deleteAssetFn     func(userID, assetID uint) error
	getAssetHistoryFn func(userID, assetID uint, page pagination.PageRequest) (*pagination.PageResponse[models.HistoricalPrice], error)
}

func (m *mockAssetService) CreateAsset(userID uint, in services.AssetInput) (*models.Asset, error) {
	if m.createAssetFn != nil {
		return m.createAssetFn(userID, in)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) GetUserAssets(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	if m.getUserAssetsFn != nil {
		return m.getUserAssetsFn(userID, page)
	}
	resp := pagination.NewPageResponse[models.Asset](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockAssetService) GetAssetByID(userID, assetID uint) (*models.Asset, error) {
	if m.getAssetByIDFn != nil {
		return m.getAssetByIDFn(userID, assetID)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) UpdateAsset(userID, assetID uint, in services.AssetInput) (*models.Asset, error) {
	if m.updateAssetFn != nil {
		return m.updateAssetFn(userID, assetID, in)
	}
	return &models.Asset{}, nil
}

func (m *mockAssetService) DeleteAsset(userID, assetID uint) error {
	if m.deleteAssetFn != nil {
		return m.deleteAssetFn(userID, assetID)
	}
	return nil
}

func (m *mockAssetService) GetAssetHistory(userID, assetID uint, page pagination.PageRequest) (*pagination.PageResponse[models.HistoricalPrice], error) {
	if m.getAssetHistoryFn != nil {
		return m.getAssetHistoryFn(userID, assetID, page)
	}
	resp := pagination.NewPageResponse[models.HistoricalPrice](nil, 1, 20, 0)
	return &resp, nil
}

func setupAssetRouter(handler *AssetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/assets", handler.CreateAsset)
	auth.GET("/assets", handler.ListAssets)
	auth.GET("/assets/:id", handler.GetAsset)
	auth.PUT("/assets/:id", handler.UpdateAsset)
	auth.DELETE("/assets/:id", handler.DeleteAsset)
	auth.GET("/assets/:id/history", handler.GetAssetHistory)
	return r
}

func TestAssetHandler_CreateAsset(t *testing.T) {
	t.Run("returns 201 for crypto asset", func(t *testing.T) {
		svc := &mockAssetService{
			createAssetFn: func(userID uint, in services.AssetInput) (*models.Asset, error) {
				return &models.Asset{
					Base:   models.Base{ID: 1},
					UserID: userID,
					Kind:   in.Kind,
					Symbol: in.Symbol,
				}, nil
			},
		}
		r := setupAssetRouter(NewAssetHandler(svc))

		rec := doRequest(r, "POST", "/assets",
			`{"kind":"crypto","symbol":"BTC","amount":0.5,"middle_price":40000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		asset := result["asset"].(map[string]interface{})
		if asset["kind"] != "crypto" {
			t.Errorf("expected crypto kind, got %v", asset["kind"])
		}
	})

	t.Run("returns 400 for unknown kind", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}))

		rec := doRequest(r, "POST", "/assets", `{"kind":"bond","symbol":"X"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when service rejects input", func(t *testing.T) {
		svc := &mockAssetService{
			createAssetFn: func(uint, services.AssetInput) (*models.Asset, error) {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required for crypto assets")
			},
		}
		r := setupAssetRouter(NewAssetHandler(svc))

		rec := doRequest(r, "POST", "/assets", `{"kind":"crypto"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAssetHandler_GetAsset(t *testing.T) {
	t.Run("returns 404 for missing asset", func(t *testing.T) {
		svc := &mockAssetService{
			getAssetByIDFn: func(uint, uint) (*models.Asset, error) {
				return nil, apperrors.ErrAssetNotFound
			},
		}
		r := setupAssetRouter(NewAssetHandler(svc))

		rec := doRequest(r, "GET", "/assets/42", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ASSET_NOT_FOUND")
	})

	t.Run("returns 400 for non-numeric id", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}))

		rec := doRequest(r, "GET", "/assets/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAssetHandler_DeleteAsset(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}))

		rec := doRequest(r, "DELETE", "/assets/1", "")

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}

func TestAssetHandler_GetAssetHistory(t *testing.T) {
	t.Run("returns paginated history", func(t *testing.T) {
		svc := &mockAssetService{
			getAssetHistoryFn: func(_, assetID uint, _ pagination.PageRequest) (*pagination.PageResponse[models.HistoricalPrice], error) {
				resp := pagination.NewPageResponse([]models.HistoricalPrice{
					{ID: 1, AssetID: assetID, Price: 100},
				}, 1, 20, 1)
				return &resp, nil
			},
		}
		r := setupAssetRouter(NewAssetHandler(svc))

		rec := doRequest(r, "GET", "/assets/1/history", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected 1 total item, got %v", result["total_items"])
		}
	})
}
