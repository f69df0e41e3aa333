package waqi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/aqi-surface/internal/domain"
)

// DefaultBaseURL is the public WAQI API root.
const DefaultBaseURL = "https://api.waqi.info"

// Client implements domain.StationSource using the WAQI map/bounds API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	bounds     domain.Bounds
	filter     *Filter
	logger     *slog.Logger
}

// NewClient creates a WAQI client that fetches every station inside bounds
// and keeps the ones matching keywords.
func NewClient(token, baseURL string, timeout time.Duration, bounds domain.Bounds, keywords []string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		bounds:  bounds,
		filter:  NewFilter(keywords),
		logger:  logger,
	}
}

// Stations fetches the stations in the configured box. Entries with a
// missing position or a non-integer AQI, and entries outside the keyword
// filter, are dropped.
func (c *Client) Stations(ctx context.Context) ([]domain.Sample, error) {
	params := url.Values{
		"latlng": {c.bounds.String()},
		"token":  {c.token},
	}
	u := c.baseURL + "/map/bounds/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("waqi bounds request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("waqi API error: status %d: %s", resp.StatusCode, body)
	}

	var waqiResp response
	if err := json.NewDecoder(resp.Body).Decode(&waqiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if waqiResp.Status != "ok" {
		return nil, fmt.Errorf("waqi API error: status %q", waqiResp.Status)
	}

	samples := make([]domain.Sample, 0, len(waqiResp.Data))
	var skipped int
	for _, p := range waqiResp.Data {
		if p.Lat == nil || p.Lon == nil || !p.AQI.valid {
			skipped++
			continue
		}
		name, ok := c.filter.Match(p.Station.Name)
		if !ok {
			continue
		}
		samples = append(samples, domain.Sample{
			Lat:  *p.Lat,
			Lon:  *p.Lon,
			AQI:  float64(p.AQI.value),
			Name: name,
		})
	}

	c.logger.Debug("waqi stations fetched",
		"received", len(waqiResp.Data),
		"kept", len(samples),
		"skipped", skipped,
	)
	return samples, nil
}

// WAQI API response types.

type response struct {
	Status string  `json:"status"`
	Data   []point `json:"data"`
}

type point struct {
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	AQI     aqi      `json:"aqi"`
	Station struct {
		Name string `json:"name"`
	} `json:"station"`
}
