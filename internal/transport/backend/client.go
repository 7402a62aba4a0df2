// Package backend is the HTTP client for the marketplace REST API.
package backend

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

	"github.com/homico/browse/internal/domain"
	"github.com/homico/browse/internal/domain/catalog"
	"github.com/homico/browse/internal/domain/listing"
	"github.com/homico/browse/internal/metrics"
)

const (
	endpointProfessionals = "professionals"
	endpointCategories    = "categories"
	endpointHealth        = "health"

	maxErrorBody = 512
)

// Config holds the marketplace backend settings.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client // optional; a client with Timeout is built when nil
	Logger     *zap.Logger
}

// Client calls the marketplace backend.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *zap.Logger
}

// New creates a backend client.
func New(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// professionalsResponse is the backend wire shape of a listing page.
type professionalsResponse struct {
	Data       []listing.Professional `json:"data"`
	Pagination struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	} `json:"pagination"`
}

// Professionals fetches one listing page.
func (c *Client) Professionals(ctx context.Context, q listing.Query) (listing.Page, error) {
	var resp professionalsResponse
	if err := c.getJSON(ctx, endpointProfessionals, q.Values(), &resp); err != nil {
		return listing.Page{}, err
	}

	page := listing.Page{
		Items: resp.Data,
		Total: resp.Pagination.Total,
		Page:  resp.Pagination.Page,
		Limit: resp.Pagination.Limit,
	}
	if page.Page == 0 {
		page.Page = q.Page
	}
	if page.Limit == 0 {
		page.Limit = q.Limit
	}
	return page, nil
}

// Categories fetches the category taxonomy.
func (c *Client) Categories(ctx context.Context) ([]catalog.Category, error) {
	var resp struct {
		Data []catalog.Category `json:"data"`
	}
	if err := c.getJSON(ctx, endpointCategories, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// HealthCheck verifies backend availability.
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.getJSON(ctx, endpointHealth, nil, nil)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s request: %w: %w", endpoint, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	metrics.BackendRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("Backend request failed",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return fmt.Errorf("%s request: %w", endpoint, domain.NewBackendStatus(resp.StatusCode, string(body)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", endpoint, domain.ErrBackendUnavailable, err)
	}
	return nil
}
