// Package googleplaces resolves official place names and coordinates via the
// Google Places web API.
package googleplaces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	detailsEndpoint = "https://maps.googleapis.com/maps/api/place/details/json"
	nearbyEndpoint  = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"

	statusOK         = "OK"
	statusZeroResult = "ZERO_RESULTS"
	statusNotFound   = "NOT_FOUND"
)

// ResolvedPlace is the official record for an external place id.
type ResolvedPlace struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Lookup resolves official names for coordinates or external place ids. A
// missing record is (nil/"" , nil), not an error; callers fall back to the
// user-provided name.
type Lookup interface {
	ResolveByCoordinates(ctx context.Context, lat, lng float64) (string, error)
	ResolveByID(ctx context.Context, externalID string) (*ResolvedPlace, error)
}

type Client struct {
	apiKey     string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geometry struct {
	Location location `json:"location"`
}

type placeResult struct {
	Name     string   `json:"name"`
	PlaceID  string   `json:"place_id"`
	Geometry geometry `json:"geometry"`
	Vicinity *string  `json:"vicinity,omitempty"`
}

type detailsResponse struct {
	Result placeResult `json:"result"`
	Status string      `json:"status"`
}

type nearbyResponse struct {
	Results []placeResult `json:"results"`
	Status  string        `json:"status"`
}

// nearbyRadiusMeters keeps the search tight enough that the top result is
// the establishment at the given point.
const nearbyRadiusMeters = 50

// ResolveByCoordinates returns the official name of the closest place to the
// given point, or "" when Google knows nothing there.
func (c *Client) ResolveByCoordinates(ctx context.Context, lat, lng float64) (string, error) {
	// Nearby search rejects rankby=distance unless a keyword, name, or type
	// filter accompanies it; a fixed radius avoids that restriction.
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	params.Set("radius", fmt.Sprintf("%d", nearbyRadiusMeters))
	params.Set("key", c.apiKey)

	var resp nearbyResponse
	if err := c.get(ctx, nearbyEndpoint+"?"+params.Encode(), &resp); err != nil {
		return "", err
	}

	switch resp.Status {
	case statusOK:
		if len(resp.Results) == 0 {
			return "", nil
		}
		return resp.Results[0].Name, nil
	case statusZeroResult:
		return "", nil
	default:
		return "", fmt.Errorf("places nearby search failed: %s", resp.Status)
	}
}

// ResolveByID returns the official record for an external place id, or nil
// when the id is unknown.
func (c *Client) ResolveByID(ctx context.Context, externalID string) (*ResolvedPlace, error) {
	params := url.Values{}
	params.Set("place_id", externalID)
	params.Set("fields", "name,geometry")
	params.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.get(ctx, detailsEndpoint+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	switch resp.Status {
	case statusOK:
		return &ResolvedPlace{
			Name:      resp.Result.Name,
			Latitude:  resp.Result.Geometry.Location.Lat,
			Longitude: resp.Result.Geometry.Location.Lng,
		}, nil
	case statusZeroResult, statusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("place details failed: %s", resp.Status)
	}
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places request failed with status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
