package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

const googleGeocodeEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

type GoogleMapsProvider struct {
	apiKey     string
	httpClient *http.Client
}

func NewGoogleMapsProvider() *GoogleMapsProvider {
	return &GoogleMapsProvider{
		apiKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *GoogleMapsProvider) Name() string { return "google" }

func (p *GoogleMapsProvider) Available() bool { return p.apiKey != "" }

func (p *GoogleMapsProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleGeocodeEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google geocoding failed: %s", resp.Status)
	}

	var payload struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
			Geometry         struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
				LocationType string `json:"location_type"`
			} `json:"geometry"`
			AddressComponents []struct {
				LongName  string   `json:"long_name"`
				ShortName string   `json:"short_name"`
				Types     []string `json:"types"`
			} `json:"address_components"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Status != "OK" || len(payload.Results) == 0 {
		return nil, fmt.Errorf("google returned no results for %q (status %s)", query, payload.Status)
	}

	top := payload.Results[0]
	result := &Result{
		Lat:         top.Geometry.Location.Lat,
		Lng:         top.Geometry.Location.Lng,
		DisplayName: top.FormattedAddress,
		Confidence:  locationTypeConfidence(top.Geometry.LocationType),
	}
	for _, comp := range top.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "locality":
				result.City = comp.LongName
			case "administrative_area_level_1":
				result.State = comp.ShortName
			case "country":
				result.Country = comp.LongName
			}
		}
	}
	return result, nil
}

func locationTypeConfidence(locationType string) float64 {
	switch locationType {
	case "ROOFTOP":
		return 1.0
	case "RANGE_INTERPOLATED":
		return 0.9
	case "GEOMETRIC_CENTER":
		return 0.7
	default:
		return 0.5
	}
}
