// Package spacex fetches launch data from the public SpaceX REST API and
// flattens it into API-origin launch records.
package spacex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/launch-data-etl/internal/observability"
)

// Resource names used in metrics labels and cache keys.
const (
	resourceLaunches   = "launches"
	resourceRockets    = "rockets"
	resourcePayloads   = "payloads"
	resourceLaunchpads = "launchpads"
)

// Lookup resolves the ids a launch refers to.
type Lookup interface {
	Rocket(ctx context.Context, id string) (Rocket, error)
	Payload(ctx context.Context, id string) (Payload, error)
	Launchpad(ctx context.Context, id string) (Launchpad, error)
}

// Client talks to the SpaceX API. It implements Lookup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a SpaceX API client rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Launches lists every launch.
func (c *Client) Launches(ctx context.Context) ([]Launch, error) {
	var launches []Launch
	if err := c.getJSON(ctx, resourceLaunches, c.baseURL+"/v5/launches", &launches); err != nil {
		return nil, err
	}
	return launches, nil
}

// Rocket fetches one rocket by id.
func (c *Client) Rocket(ctx context.Context, id string) (Rocket, error) {
	var r Rocket
	err := c.getJSON(ctx, resourceRockets, c.byID("/v4/rockets/", id), &r)
	return r, err
}

// Payload fetches one payload by id.
func (c *Client) Payload(ctx context.Context, id string) (Payload, error) {
	var p Payload
	err := c.getJSON(ctx, resourcePayloads, c.byID("/v4/payloads/", id), &p)
	return p, err
}

// Launchpad fetches one launchpad by id.
func (c *Client) Launchpad(ctx context.Context, id string) (Launchpad, error) {
	var lp Launchpad
	err := c.getJSON(ctx, resourceLaunchpads, c.byID("/v4/launchpads/", id), &lp)
	return lp, err
}

func (c *Client) byID(path, id string) string {
	return c.baseURL + path + url.PathEscape(id)
}

func (c *Client) getJSON(ctx context.Context, resource, fullURL string, out any) error {
	err := c.doRequest(ctx, fullURL, out)
	outcome := "success"
	if err != nil {
		outcome = "error"
		c.logger.Warn("spacex request failed", "resource", resource, "url", fullURL, "error", err)
	}
	c.metrics.APIRequests.WithLabelValues(resource, outcome).Inc()
	if err != nil {
		return fmt.Errorf("%s request: %w", resource, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("spacex API error: status %d: %s", resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SpaceX API response types. Only the fields the launch table needs.

// Launch is one element of GET /v5/launches.
type Launch struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	DateUTC   string   `json:"date_utc"`
	Rocket    string   `json:"rocket"`
	Payloads  []string `json:"payloads"`
	Launchpad string   `json:"launchpad"`
	Cores     []*Core  `json:"cores"`
}

// Core is a first-stage booster flown on a launch.
type Core struct {
	LandingSuccess *bool `json:"landing_success"`
	Reused         *bool `json:"reused"`
}

// Rocket is GET /v4/rockets/{id}.
type Rocket struct {
	Name string `json:"name"`
}

// Payload is GET /v4/payloads/{id}.
type Payload struct {
	MassKg *float64 `json:"mass_kg"`
	Orbit  *string  `json:"orbit"`
}

// Launchpad is GET /v4/launchpads/{id}.
type Launchpad struct {
	Name string `json:"name"`
}
