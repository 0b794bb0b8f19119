// Package marketplace is the HTTP client for the remote marketplace API.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/giftdesk/giftdesk-bot/internal/domain"
)

// Config holds connection settings for the marketplace API.
type Config struct {
	BaseURL     string        `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	BearerToken string        `yaml:"bearer_token" mapstructure:"bearer_token" validate:"required"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// Client talks to the marketplace over HTTP with bearer-token auth. One
// synchronous attempt per call; retries are deliberately not implemented.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient constructs a marketplace client from cfg.
func NewClient(cfg Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		token:      cfg.BearerToken,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

const ordersPath = "/api/marketplace/resold-gift-order"

// CreateOrder submits a new resold gift order.
func (c *Client) CreateOrder(ctx context.Context, order *domain.Order) error {
	return c.send(ctx, http.MethodPost, ordersPath, order)
}

// UpdateOrder replaces the order with the given id.
func (c *Client) UpdateOrder(ctx context.Context, id int, order *domain.Order) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("%s/%d", ordersPath, id), order)
}

// DeleteOrder removes the order with the given id.
func (c *Client) DeleteOrder(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", ordersPath, id), nil)
}

// OrderByID fetches one order.
func (c *Client) OrderByID(ctx context.Context, id int) (*domain.Order, error) {
	var order domain.Order
	if err := c.get(ctx, fmt.Sprintf("%s/%d", ordersPath, id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// OrdersByOwner lists the orders belonging to one operator.
func (c *Client) OrdersByOwner(ctx context.Context, ownerID int64) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.get(ctx, fmt.Sprintf("%s/user/%d", ordersPath, ownerID), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ActiveOrdersByOwner lists one operator's active orders.
func (c *Client) ActiveOrdersByOwner(ctx context.Context, ownerID int64) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.get(ctx, fmt.Sprintf("%s/user/%d/active", ordersPath, ownerID), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ActiveOrders lists every active order across all operators.
func (c *Client) ActiveOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.get(ctx, ordersPath+"/active", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Catalog responses come wrapped; the wrapper key varies per kind.
type giftsResponse struct {
	Gifts []domain.CatalogItem `json:"gifts"`
}

type giftModelsResponse struct {
	GiftModels []domain.CatalogItem `json:"giftModels"`
}

type giftSymbolsResponse struct {
	GiftSymbols []domain.CatalogItem `json:"giftSymbols"`
}

type giftBackdropsResponse struct {
	GiftBackdrops []domain.CatalogItem `json:"giftBackdrops"`
}

// Options fetches picker candidates for a catalog kind. giftID scopes the
// model/symbol/backdrop catalogs and is ignored for gifts.
func (c *Client) Options(ctx context.Context, kind domain.CatalogKind, giftID int64) ([]domain.CatalogItem, error) {
	switch kind {
	case domain.CatalogGifts:
		var resp giftsResponse
		if err := c.get(ctx, "/api/marketplace/gifts", &resp); err != nil {
			return nil, err
		}
		return resp.Gifts, nil
	case domain.CatalogModels:
		var resp giftModelsResponse
		if err := c.get(ctx, fmt.Sprintf("/api/marketplace/gift-models/%d", giftID), &resp); err != nil {
			return nil, err
		}
		return resp.GiftModels, nil
	case domain.CatalogSymbols:
		var resp giftSymbolsResponse
		if err := c.get(ctx, fmt.Sprintf("/api/marketplace/gift-symbols/%d", giftID), &resp); err != nil {
			return nil, err
		}
		return resp.GiftSymbols, nil
	case domain.CatalogBackdrops:
		var resp giftBackdropsResponse
		if err := c.get(ctx, fmt.Sprintf("/api/marketplace/gift-backdrops/%d", giftID), &resp); err != nil {
			return nil, err
		}
		return resp.GiftBackdrops, nil
	default:
		return nil, fmt.Errorf("unknown catalog kind %q", string(kind))
	}
}

const monitoringConfigsPath = "/api/marketplace/monitoring/configs"

// CreateMonitoringConfig submits a new monitoring config.
func (c *Client) CreateMonitoringConfig(ctx context.Context, cfg *domain.MonitoringConfig) error {
	return c.send(ctx, http.MethodPost, "/api/marketplace/monitoring/config", cfg)
}

// MonitoringConfigs lists all monitoring configs.
func (c *Client) MonitoringConfigs(ctx context.Context) ([]domain.MonitoringConfig, error) {
	var configs []domain.MonitoringConfig
	if err := c.get(ctx, monitoringConfigsPath, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// MonitoringConfigByID fetches one monitoring config.
func (c *Client) MonitoringConfigByID(ctx context.Context, id int) (*domain.MonitoringConfig, error) {
	var cfg domain.MonitoringConfig
	if err := c.get(ctx, fmt.Sprintf("%s/%d", monitoringConfigsPath, id), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateMonitoringConfig replaces the monitoring config with the given id.
func (c *Client) UpdateMonitoringConfig(ctx context.Context, id int, cfg *domain.MonitoringConfig) error {
	return c.send(ctx, http.MethodPut, fmt.Sprintf("%s/%d", monitoringConfigsPath, id), cfg)
}

// DeleteMonitoringConfig removes the monitoring config with the given id.
func (c *Client) DeleteMonitoringConfig(ctx context.Context, id int) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", monitoringConfigsPath, id), nil)
}

// get performs a GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.statusError(http.MethodGet, path, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// send performs a mutating request with an optional JSON body and discards
// any response payload.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	resp, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.statusError(method, path, resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	timer := startRequestTimer(method, path)
	resp, err := c.httpClient.Do(req)
	timer.observe(err == nil)
	if err != nil {
		return nil, fmt.Errorf("do request %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) statusError(method, path string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.log.Error("marketplace request failed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("body", string(snippet)),
	)
	observeRequestError(method, path)
	return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
}
