package tradier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// timesalesTimeLayout is the start/end format the timesales endpoint accepts.
const timesalesTimeLayout = "2006-01-02 15:04"

// Client talks to the Tradier REST API. Retry and backoff are deliberately
// absent; a call either succeeds or the operation reports failure upstream.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a client for the given session config. The timeout bounds
// every request end to end.
func NewClient(cfg Config, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// GetUserProfile fetches the account profile for the configured token.
func (c *Client) GetUserProfile(ctx context.Context) (Profile, error) {
	var out profileResponse
	if err := c.get(ctx, "/v1/user/profile", nil, &out); err != nil {
		return Profile{}, fmt.Errorf("fetching user profile: %w", err)
	}
	return out.Profile, nil
}

// GetTimeSales returns OHLCV bars for symbol between start and end at the
// given interval ("tick", "1min", "5min", "15min"), oldest first. An empty
// series is not an error.
func (c *Client) GetTimeSales(ctx context.Context, symbol, interval string, start, end time.Time) ([]Bar, error) {
	query := url.Values{
		"symbol":   {symbol},
		"interval": {interval},
		"start":    {start.UTC().Format(timesalesTimeLayout)},
		"end":      {end.UTC().Format(timesalesTimeLayout)},
	}

	var out timesalesResponse
	if err := c.get(ctx, "/v1/markets/timesales", query, &out); err != nil {
		return nil, fmt.Errorf("fetching timesales for %s: %w", symbol, err)
	}
	return out.Series.Data, nil
}

// PlaceOrder submits an order to the given account and returns the broker
// order id.
func (c *Client) PlaceOrder(ctx context.Context, account string, order OrderRequest) (int64, error) {
	form := url.Values{
		"class":    {"equity"},
		"symbol":   {order.Symbol},
		"side":     {string(order.Side)},
		"quantity": {strconv.FormatUint(order.Quantity, 10)},
		"type":     {order.Type},
		"duration": {order.Duration},
	}

	path := "/v1/accounts/" + url.PathEscape(account) + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+path, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, fmt.Errorf("building order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out orderResponse
	if err := c.do(req, &out); err != nil {
		return 0, fmt.Errorf("placing %s order for %s: %w", order.Side, order.Symbol, err)
	}
	return out.Order.ID, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.cfg.Endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("tradier_request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
