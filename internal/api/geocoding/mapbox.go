package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const mapboxEndpoint = "https://api.mapbox.com/geocoding/v5/mapbox.places"

type MapboxProvider struct {
	accessToken string
	httpClient  *http.Client
}

func NewMapboxProvider() *MapboxProvider {
	return &MapboxProvider{
		accessToken: os.Getenv("MAPBOX_ACCESS_TOKEN"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *MapboxProvider) Name() string { return "mapbox" }

func (p *MapboxProvider) Available() bool { return p.accessToken != "" }

func (p *MapboxProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	endpoint := fmt.Sprintf("%s/%s.json?access_token=%s&limit=1",
		mapboxEndpoint, url.PathEscape(query), url.QueryEscape(p.accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapbox geocoding failed: %s", resp.Status)
	}

	var payload struct {
		Features []struct {
			Center    []float64 `json:"center"` // [lng, lat]
			PlaceName string    `json:"place_name"`
			Relevance float64   `json:"relevance"`
			Context   []struct {
				ID   string `json:"id"`
				Text string `json:"text"`
			} `json:"context"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload.Features) == 0 || len(payload.Features[0].Center) < 2 {
		return nil, fmt.Errorf("mapbox returned no results for %q", query)
	}

	feature := payload.Features[0]
	result := &Result{
		Lat:         feature.Center[1],
		Lng:         feature.Center[0],
		DisplayName: feature.PlaceName,
		Confidence:  feature.Relevance,
	}
	// Context entry ids are prefixed with their layer kind.
	for _, c := range feature.Context {
		switch {
		case strings.HasPrefix(c.ID, "place."):
			result.City = c.Text
		case strings.HasPrefix(c.ID, "region."):
			result.State = c.Text
		case strings.HasPrefix(c.ID, "country."):
			result.Country = c.Text
		}
	}
	return result, nil
}
