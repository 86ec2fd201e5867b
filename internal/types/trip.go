package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Activity types, location types, difficulty and experience level are
// open-vocabulary strings. The analyzer model may emit values outside the
// well-known sets below and they must never be rejected for it.
const (
	ActivityHiking   = "hiking"
	ActivityClimbing = "climbing"
	ActivityCamping  = "camping"
	ActivityKayaking = "kayaking"
	ActivitySkiing   = "skiing"
	ActivityBiking   = "biking"

	LocationTypeTrailhead     = "trailhead"
	LocationTypeSummit        = "summit"
	LocationTypeCampground    = "campground"
	LocationTypeHotel         = "hotel"
	LocationTypeParking       = "parking"
	LocationTypeVisitorCenter = "visitor_center"
	LocationTypeHotSpring     = "hot_spring"
	LocationTypeAddress       = "address"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Location is one point of interest within a trip. Created by the analyzer,
// possibly without coordinates; the geocoding resolver fills in coordinates
// (and city/state/country when a provider returns them) in place.
type Location struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Address     string       `json:"address,omitempty"`
	City        string       `json:"city,omitempty"`
	State       string       `json:"state,omitempty"`
	Country     string       `json:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

type Activity struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Difficulty string `json:"difficulty,omitempty"`
}

// TripDetails is the metadata half of an analyzer response. Dates and the
// emergency contact are only present when stated in the trip description.
type TripDetails struct {
	LocationName     string     `json:"location_name"`
	StartDate        string     `json:"start_date,omitempty"`
	EndDate          string     `json:"end_date,omitempty"`
	DurationDays     int        `json:"duration_days,omitempty"`
	EmergencyContact string     `json:"emergency_contact,omitempty"`
	Activities       []Activity `json:"activities,omitempty"`
	GroupSize        int        `json:"group_size,omitempty"`
	ExperienceLevel  string     `json:"experience_level,omitempty"`
	Locations        []Location `json:"locations,omitempty"`
}

type EmergencyNumbers struct {
	Police     string `json:"police"`
	Medical    string `json:"medical"`
	ParkRanger string `json:"park_ranger,omitempty"`
}

type FunSafetyScore struct {
	Score       int    `json:"score"`
	Description string `json:"description"`
}

type CheckIn struct {
	Time    string `json:"time"`
	Message string `json:"message"`
}

// SafetyInfo is the generated advisory bundle. List fields are size-bounded
// by the generation schema (risks 5, tips 8, packing 12, check-ins 4,
// resources 5) to keep the output scannable.
type SafetyInfo struct {
	EmergencyNumbers  EmergencyNumbers `json:"emergency_numbers"`
	WeatherSummary    string           `json:"weather_summary"`
	KeyRisks          []string         `json:"key_risks"`
	SafetyTips        []string         `json:"safety_tips"`
	PackingEssentials []string         `json:"packing_essentials"`
	FunSafetyScore    FunSafetyScore   `json:"fun_safety_score"`
	CheckInSchedule   []CheckIn        `json:"check_in_schedule"`
	LocalResources    []string         `json:"local_resources"`
}

// TripData is the derived bundle stored alongside the raw description.
type TripData struct {
	Description     string     `json:"description"`
	ParsedLocation  string     `json:"parsed_location"`
	DurationDays    int        `json:"duration_days,omitempty"`
	Activities      []Activity `json:"activities,omitempty"`
	GroupSize       int        `json:"group_size,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	Locations       []Location `json:"locations,omitempty"`
}

// AIResponseLog records one generation call for the debug view. Never shown
// to ordinary viewers.
type AIResponseLog struct {
	Provider       string          `json:"provider"`
	Model          string          `json:"model"`
	Timestamp      string          `json:"timestamp"`
	PromptLength   int             `json:"prompt_length"`
	ResponseTimeMs int64           `json:"response_time_ms"`
	RawResponse    json.RawMessage `json:"raw_response,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// TripRecord is the persisted unit, keyed externally by ShareID only.
type TripRecord struct {
	ID               uuid.UUID      `json:"id"`
	ShareID          string         `json:"shareId"`
	TripDescription  string         `json:"tripDescription"`
	SourceURL        string         `json:"sourceUrl,omitempty"`
	StartDate        *time.Time     `json:"startDate,omitempty"`
	EndDate          *time.Time     `json:"endDate,omitempty"`
	EmergencyContact string         `json:"emergencyContact,omitempty"`
	TripData         TripData       `json:"tripData"`
	SafetyInfo       SafetyInfo     `json:"safetyInfo"`
	AIResponseLog    *AIResponseLog `json:"aiResponseLog,omitempty"`
	ViewCount        int            `json:"viewCount"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// TripSummary is the list-view projection of a TripRecord.
type TripSummary struct {
	ID          uuid.UUID  `json:"id"`
	ShareID     string     `json:"shareId"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Location    string     `json:"location"`
	Activities  []Activity `json:"activities"`
	SafetyScore int        `json:"safetyScore"`
	CreatedAt   time.Time  `json:"createdAt"`
	ViewCount   int        `json:"viewCount"`
}

type CreateTripRequest struct {
	TripDescription  string `json:"tripDescription"`
	OptimizedContent string `json:"optimizedContent,omitempty"`
	SourceURL        string `json:"sourceUrl,omitempty"`
}

type CreateTripResponse struct {
	ShareID string      `json:"shareId"`
	Trip    *TripRecord `json:"trip"`
}

type ListTripsResponse struct {
	Trips      []TripSummary `json:"trips"`
	TotalCount int           `json:"totalCount"`
	HasMore    bool          `json:"hasMore"`
}

type RegenerateTripResponse struct {
	Success bool        `json:"success"`
	Trip    *TripRecord `json:"trip"`
	Message string      `json:"message"`
}

type FetchURLRequest struct {
	URL string `json:"url"`
}

type FetchURLResponse struct {
	Content          string `json:"content"`
	OptimizedContent string `json:"optimizedContent,omitempty"`
	Title            string `json:"title,omitempty"`
	URL              string `json:"url"`
	Error            string `json:"error,omitempty"`
}
