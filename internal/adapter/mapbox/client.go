// Package mapbox implements station geocoding against the Mapbox API.
package mapbox

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

	"github.com/couchcryptid/weather-events-insights/internal/domain"
	"github.com/couchcryptid/weather-events-insights/internal/observability"
)

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client.
func NewClient(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics: metrics,
		logger:  logger,
	}
}

// ReverseGeocode converts coordinates to place details.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (domain.GeocodingResult, error) {
	// Mapbox uses lng,lat order.
	coord := fmt.Sprintf("%.6f,%.6f", lng, lat)
	u := fmt.Sprintf("%s/%s.json", c.baseURL, coord)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"postcode,place,locality"},
	}

	result, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.observe(result, err)
	return result, err
}

func (c *Client) observe(result domain.GeocodingResult, err error) {
	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
	case result.FormattedAddress == "":
		c.metrics.GeocodeRequests.WithLabelValues("empty").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	}
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.GeocodingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.GeocodingResult{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return domain.GeocodingResult{}, nil
	}

	f := mapboxResp.Features[0]
	result := domain.GeocodingResult{
		FormattedAddress: f.PlaceName,
		PlaceName:        f.Text,
		Confidence:       f.Relevance,
		ZipCode:          zipFromFeature(f),
	}
	if len(f.Center) == 2 {
		result.Lng = f.Center[0]
		result.Lat = f.Center[1]
	}
	return result, nil
}

// zipFromFeature pulls a postcode out of the feature itself or its context
// entries, whichever carries one.
func zipFromFeature(f feature) string {
	if strings.HasPrefix(f.ID, "postcode.") {
		return f.Text
	}
	for _, c := range f.Context {
		if strings.HasPrefix(c.ID, "postcode.") {
			return c.Text
		}
	}
	return ""
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID        string        `json:"id"`
	Center    []float64     `json:"center"` // [lng, lat]
	PlaceName string        `json:"place_name"`
	Text      string        `json:"text"`
	Relevance float64       `json:"relevance"`
	Context   []contextItem `json:"context"`
}

type contextItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
