package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"currency-converter/internal/models"
)

const DefaultBaseURL = "https://api.frankfurter.app"

// Source is the remote exchange-rate API surface the services depend on.
// Declared as an interface so tests can substitute canned rates.
type Source interface {
	// Currencies returns the supported currency codes mapped to display names.
	Currencies(ctx context.Context) (map[string]string, error)
	// PairRate returns the current rate for converting from one currency to
	// another.
	PairRate(ctx context.Context, from, to string) (*models.ExchangeRate, error)
}

// Client talks to the exchange-rate HTTP API.
type Client struct {
	baseURL string
	client  http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		logger:  logger,
		client: http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Currencies fetches the full currency list. Called once at startup.
func (c *Client) Currencies(ctx context.Context) (map[string]string, error) {
	endpoint := fmt.Sprintf("%s/currencies", c.baseURL)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var currencies map[string]string
	if err := json.Unmarshal(body, &currencies); err != nil {
		return nil, fmt.Errorf("failed to parse currency list: %w", err)
	}

	return currencies, nil
}

// PairRate fetches the rate for a single currency pair.
func (c *Client) PairRate(ctx context.Context, from, to string) (*models.ExchangeRate, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	endpoint := fmt.Sprintf("%s/latest?%s", c.baseURL, query.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var apiResp struct {
		Base  string             `json:"base"`
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to parse rate response: %w", err)
	}

	rate, ok := apiResp.Rates[to]
	if !ok {
		return nil, fmt.Errorf("response has no rate for %s", to)
	}

	timestamp := time.Now()
	if parsed, err := time.Parse("2006-01-02", apiResp.Date); err == nil {
		timestamp = parsed
	}

	return &models.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         rate,
		Timestamp:    timestamp,
		Source:       "frankfurter",
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	c.logger.Debug("calling exchange rate API", zap.String("url", endpoint))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building http request: %w", err)
	}

	resp, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
