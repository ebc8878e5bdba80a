// Package prices contains the external price fetchers and the pure change
// arithmetic used by the asset refresh pipeline.
package prices

import (
	"context"
	"errors"
	"net/http"
)

// ErrMissingAPIKey is returned when a fetcher has no API key configured.
// Callers treat it as "price unavailable this cycle", not as a failure.
var ErrMissingAPIKey = errors.New("api key not configured")

// Source fetches current market prices for both asset variants. Each call is
// a single attempt with no retry; an error means the asset is skipped for the
// cycle.
type Source interface {
	// CryptoPrice returns the current USD price for a ticker symbol.
	CryptoPrice(ctx context.Context, symbol string) (float64, error)

	// CollectiblePrice returns the current floor price for an NFT
	// collection slug.
	CollectiblePrice(ctx context.Context, collection string) (float64, error)
}

// APISource is the production Source backed by CoinMarketCap and OpenSea.
type APISource struct {
	crypto       *CoinMarketCapClient
	collectibles *OpenSeaClient
}

// NewAPISource creates a Source from one shared HTTP client and the two API
// keys. Either key may be empty; the corresponding fetches then return
// ErrMissingAPIKey.
func NewAPISource(httpClient *http.Client, coinMarketCapKey, openSeaKey string) *APISource {
	return &APISource{
		crypto:       NewCoinMarketCapClient(httpClient, coinMarketCapKey),
		collectibles: NewOpenSeaClient(httpClient, openSeaKey),
	}
}

// CryptoPrice fetches a crypto quote from CoinMarketCap.
func (s *APISource) CryptoPrice(ctx context.Context, symbol string) (float64, error) {
	return s.crypto.Quote(ctx, symbol)
}

// CollectiblePrice fetches a collection floor price from OpenSea.
func (s *APISource) CollectiblePrice(ctx context.Context, collection string) (float64, error) {
	return s.collectibles.FloorPrice(ctx, collection)
}
