package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const coinMarketCapBaseURL = "https://pro-api.coinmarketcap.com/v1/cryptocurrency/quotes/latest"

// coinMarketCapResponse is the subset of the quotes/latest payload we read.
type coinMarketCapResponse struct {
	Data map[string]struct {
		Quote struct {
			USD struct {
				Price float64 `json:"price"`
			} `json:"USD"`
		} `json:"quote"`
	} `json:"data"`
}

// CoinMarketCapClient fetches USD quotes for crypto ticker symbols.
type CoinMarketCapClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string // overridable for tests
}

// NewCoinMarketCapClient creates a new CoinMarketCap quote client.
func NewCoinMarketCapClient(httpClient *http.Client, apiKey string) *CoinMarketCapClient {
	return &CoinMarketCapClient{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    coinMarketCapBaseURL,
	}
}

// Quote fetches the current USD price for a symbol. A single attempt, no
// retry. Returns ErrMissingAPIKey when no key is configured.
func (c *CoinMarketCapClient) Quote(ctx context.Context, symbol string) (float64, error) {
	if c.apiKey == "" {
		return 0, ErrMissingAPIKey
	}

	reqURL := c.baseURL + "?symbol=" + url.QueryEscape(symbol) + "&convert=USD"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var quoteResp coinMarketCapResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResp); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}

	entry, ok := quoteResp.Data[strings.ToUpper(symbol)]
	if !ok {
		return 0, fmt.Errorf("symbol %s not found in response", symbol)
	}
	return entry.Quote.USD.Price, nil
}
