package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"bookmap/internal/config"
)

// NominatimClient geocodes free-text queries against the OpenStreetMap
// Nominatim search API. It is strictly best-effort: network, decode,
// and parse failures all collapse to "not found".
type NominatimClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewNominatimClient builds a client from geocoder config.
func NewNominatimClient(cfg config.GeocoderConfig) *NominatimClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimClient{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Geocode resolves a free-text query to coordinates. The second return
// value is false when the place is unknown or the request failed.
func (n *NominatimClient) Geocode(ctx context.Context, query string) (Coord, bool) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return Coord{}, false
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return Coord{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coord{}, false
	}

	// Nominatim returns lat/lon as strings
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coord{}, false
	}
	if len(results) == 0 {
		return Coord{}, false
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coord{}, false
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coord{}, false
	}

	return Coord{Lat: lat, Lng: lng}, true
}
