package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"coinbar/internal/domain"
	"coinbar/internal/infra"

	"github.com/shopspring/decimal"
)

// Client is the Binance Spot REST API client (Boundary Layer)
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Binance REST client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		logger: slog.Default().With("module", "binance_client"),
	}
}

// Ticker24h fetches the 24h snapshot (last price + percent change) for one
// symbol. Any unexpected shape or non-success status is a fetch failure for
// that symbol only.
func (c *Client) Ticker24h(ctx context.Context, symbol string) (domain.TickerSnapshot, error) {
	endpoint := fmt.Sprintf("%s/api/v3/ticker/24hr?symbol=%s", c.baseURL, strings.ToUpper(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		// Malformed URL construction will never succeed
		return domain.TickerSnapshot{}, domain.NewFatalNetworkError("endpoint", err)
	}
	req.Header.Set("User-Agent", infra.DefaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TickerSnapshot{}, domain.NewNetworkError("fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.TickerSnapshot{}, domain.NewNetworkError("fetch", fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.TickerSnapshot{}, domain.NewNetworkError("read", err)
	}

	var data ticker24hResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return domain.TickerSnapshot{}, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if data.LastPrice == "" || data.PriceChangePercent == "" {
		return domain.TickerSnapshot{}, fmt.Errorf("%w: missing lastPrice or priceChangePercent", domain.ErrMalformedPayload)
	}

	lastPrice, err := decimal.NewFromString(data.LastPrice)
	if err != nil {
		return domain.TickerSnapshot{}, fmt.Errorf("%w: lastPrice %q", domain.ErrMalformedPayload, data.LastPrice)
	}
	changePercent, err := decimal.NewFromString(data.PriceChangePercent)
	if err != nil {
		return domain.TickerSnapshot{}, fmt.Errorf("%w: priceChangePercent %q", domain.ErrMalformedPayload, data.PriceChangePercent)
	}

	return domain.TickerSnapshot{
		Symbol:        symbol,
		LastPrice:     lastPrice,
		ChangePercent: changePercent,
	}, nil
}
