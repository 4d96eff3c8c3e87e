// Package geocode resolves testimony place names to map coordinates through
// the OpenStreetMap Nominatim service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/historisense/portal/internal/domain"
)

// Config controls the Nominatim client.
type Config struct {
	BaseURL string
	// UserAgent identifies the portal; Nominatim's usage policy requires one.
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// Client queries the Nominatim search endpoint.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    *zap.Logger
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NewClient builds a geocoder client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("geocoder base url is required")
	}

	hc := cfg.Client
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:   baseURL,
		userAgent: strings.TrimSpace(cfg.UserAgent),
		http:      hc,
		logger:    logger,
	}, nil
}

// Resolve geocodes a single place name, using the first candidate match.
func (c *Client) Resolve(ctx context.Context, name string) (lat, lon float64, err error) {
	endpoint := c.baseURL + "/search?format=json&q=" + url.QueryEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, 0, fmt.Errorf("nominatim %s", resp.Status)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, fmt.Errorf("no match for %q", name)
	}

	lat, err = strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lat: %w", err)
	}
	lon, err = strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse lon: %w", err)
	}
	return lat, lon, nil
}

// ResolveAll geocodes every location in an analysis, sequentially, skipping
// names the service cannot match. A lookup failure drops that marker only;
// the rest of the analysis is unaffected.
func (c *Client) ResolveAll(ctx context.Context, locations map[string]domain.LocationDetail) []domain.GeocodedLocation {
	names := make([]string, 0, len(locations))
	for name := range locations {
		names = append(names, name)
	}
	sort.Strings(names)

	geocoded := make([]domain.GeocodedLocation, 0, len(names))
	for _, name := range names {
		detail := locations[name]
		lat, lon, err := c.Resolve(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return geocoded
			}
			c.logger.Warn("could not geocode location", zap.String("name", name), zap.Error(err))
			continue
		}
		description := detail.Description
		if description == "" {
			if detail.Count > 0 {
				description = fmt.Sprintf("Mentioned %d times", detail.Count)
			} else {
				description = "Mentioned in testimony"
			}
		}
		geocoded = append(geocoded, domain.GeocodedLocation{
			Name:        name,
			Latitude:    lat,
			Longitude:   lon,
			Count:       detail.Count,
			Description: description,
		})
	}
	return geocoded
}
