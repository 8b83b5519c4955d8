// Package geocode resolves street addresses to coordinates through the
// Google Maps Geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/paulmach/orb"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// Client calls the geocoding API. Zero results is not an error: Resolve
// returns the zero point so a bad address never aborts a batch.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL overrides the API endpoint, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve looks an address up and returns its point as (lon, lat). No
// results yields the zero point and a nil error.
func (c *Client) Resolve(ctx context.Context, address string) (orb.Point, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return orb.Point{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return orb.Point{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return orb.Point{}, fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return orb.Point{}, fmt.Errorf("geocode response: %w", err)
	}

	if len(body.Results) == 0 {
		return orb.Point{}, nil
	}

	loc := body.Results[0].Geometry.Location
	pt := orb.Point{loc.Lng, loc.Lat}
	if err := ValidatePoint(pt); err != nil {
		return orb.Point{}, err
	}
	return pt, nil
}

// ValidatePoint rejects coordinates outside geographic bounds.
func ValidatePoint(pt orb.Point) error {
	if pt.Lat() < -90 || pt.Lat() > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if pt.Lon() < -180 || pt.Lon() > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}
