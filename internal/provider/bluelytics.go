package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/academy-backend/internal/errors"
)

const bluelyticsBaseURL = "https://api.bluelytics.com.ar"

// BluelyticsClient fetches the informal USD/ARS exchange rate. The rate is
// display-only; checkout amounts come from the product catalog.
type BluelyticsClient struct {
	baseURL string
	client  *http.Client
}

// NewBluelyticsClient creates a new Bluelytics API client
func NewBluelyticsClient() *BluelyticsClient {
	return &BluelyticsClient{
		baseURL: bluelyticsBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetBaseURL overrides the API base URL (used by tests)
func (c *BluelyticsClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// ExchangeRate is the blue-dollar buy/sell quote
type ExchangeRate struct {
	ValueBuy  float64   `json:"value_buy"`
	ValueSell float64   `json:"value_sell"`
	UpdatedAt time.Time `json:"updated_at"`
}

type bluelyticsResponse struct {
	Blue struct {
		ValueBuy  float64 `json:"value_buy"`
		ValueSell float64 `json:"value_sell"`
	} `json:"blue"`
	LastUpdate time.Time `json:"last_update"`
}

// GetDolarBlue fetches the latest blue-dollar quote
func (c *BluelyticsClient) GetDolarBlue(ctx context.Context) (*ExchangeRate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/latest", nil)
	if err != nil {
		return nil, errors.NewProviderError("bluelytics", fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewProviderError("bluelytics", fmt.Errorf("request failed: %w", err))
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body) // nolint:errcheck // drain for connection reuse
		_ = resp.Body.Close()                 // nolint:errcheck // cleanup in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewProviderError("bluelytics", fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewProviderError("bluelytics", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(body), 200)))
	}

	var result bluelyticsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.NewProviderError("bluelytics", fmt.Errorf("failed to decode response: %w", err))
	}

	return &ExchangeRate{
		ValueBuy:  result.Blue.ValueBuy,
		ValueSell: result.Blue.ValueSell,
		UpdatedAt: result.LastUpdate,
	}, nil
}
