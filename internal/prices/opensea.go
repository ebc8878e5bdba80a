package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const openSeaBaseURL = "https://api.opensea.io/api/v2/collections"

// openSeaStatsResponse is the subset of the collection stats payload we read.
type openSeaStatsResponse struct {
	Stats struct {
		FloorPrice float64 `json:"floor_price"`
	} `json:"stats"`
}

// OpenSeaClient fetches floor prices for NFT collections.
type OpenSeaClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string // overridable for tests
}

// NewOpenSeaClient creates a new OpenSea collection stats client.
func NewOpenSeaClient(httpClient *http.Client, apiKey string) *OpenSeaClient {
	return &OpenSeaClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    openSeaBaseURL,
	}
}

// FloorPrice fetches the current floor price for a collection slug. A single
// attempt, no retry. Returns ErrMissingAPIKey when no key is configured.
func (c *OpenSeaClient) FloorPrice(ctx context.Context, collection string) (float64, error) {
	if c.apiKey == "" {
		return 0, ErrMissingAPIKey
	}

	reqURL := c.baseURL + "/" + url.PathEscape(collection) + "/stats"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var statsResp openSeaStatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&statsResp); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}

	return statsResp.Stats.FloorPrice, nil
}
