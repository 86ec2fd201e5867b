package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const nominatimEndpoint = "https://nominatim.openstreetmap.org/search"

// NominatimProvider uses the free OpenStreetMap geocoder. Nominatim's usage
// policy allows at most one request per second, enforced process-wide by a
// single-token limiter shared across all concurrent resolutions.
type NominatimProvider struct {
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewNominatimProvider(userAgent string) *NominatimProvider {
	if userAgent == "" {
		userAgent = "AwesomeSOS/1.0 (https://awesomesos.com)"
	}
	return &NominatimProvider{
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

func (p *NominatimProvider) Name() string { return "nominatim" }

// Available is always true: Nominatim needs no credential.
func (p *NominatimProvider) Available() bool { return true }

func (p *NominatimProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("addressdetails", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, nominatimEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim geocoding failed: %s", resp.Status)
	}

	var payload []struct {
		Lat         string  `json:"lat"`
		Lon         string  `json:"lon"`
		DisplayName string  `json:"display_name"`
		Importance  float64 `json:"importance"`
		Address     struct {
			City    string `json:"city"`
			Town    string `json:"town"`
			Village string `json:"village"`
			State   string `json:"state"`
			Country string `json:"country"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("nominatim returned no results for %q", query)
	}

	top := payload[0]
	lat, err := strconv.ParseFloat(top.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim returned invalid latitude %q", top.Lat)
	}
	lng, err := strconv.ParseFloat(top.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim returned invalid longitude %q", top.Lon)
	}

	city := top.Address.City
	if city == "" {
		city = top.Address.Town
	}
	if city == "" {
		city = top.Address.Village
	}

	return &Result{
		Lat:         lat,
		Lng:         lng,
		DisplayName: top.DisplayName,
		Confidence:  top.Importance,
		City:        city,
		State:       top.Address.State,
		Country:     top.Address.Country,
	}, nil
}
