package places

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
)

const defaultNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

// GoogleClient queries the Places nearby-search API for restaurants around
// a coordinate.
type GoogleClient struct {
	apiKey  string
	baseURL string
	radius  int
	client  *http.Client
}

func NewGoogleClient(apiKey string, radiusMeters int) *GoogleClient {
	if radiusMeters <= 0 {
		radiusMeters = 1500
	}
	return &GoogleClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultNearbyURL,
		radius:  radiusMeters,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// WithBaseURL overrides the upstream endpoint. Used by tests.
func (c *GoogleClient) WithBaseURL(u string) *GoogleClient {
	c.baseURL = strings.TrimSpace(u)
	return c
}

type nearbyResponse struct {
	Results []Restaurant `json:"results"`
	Status  string       `json:"status"`
}

func (c *GoogleClient) Nearby(ctx context.Context, lat, lng float64) ([]Restaurant, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("places: missing API key")
	}

	params := url.Values{}
	params.Set("location", strconv.FormatFloat(lat, 'f', -1, 64)+","+strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("radius", strconv.Itoa(c.radius))
	params.Set("type", "restaurant")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("places: create request: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: nearby search: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		return nil, fmt.Errorf("places: nearby search status %d: %s", res.StatusCode, string(body))
	}

	var parsed nearbyResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("places: decode response: %w", err)
	}
	return parsed.Results, nil
}
