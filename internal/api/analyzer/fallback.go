package analyzer

import (
	"regexp"
	"strings"

	"github.com/awesomesos/trip-safety-api/internal/types"
)

// locationPattern guesses a destination from phrases like "hiking at Half
// Dome" or "trip to Yosemite" when the model is unavailable.
var locationPattern = regexp.MustCompile(`(?:at|to|in)\s+([A-Z][a-zA-Z\s]+?)(?:\s+(?:with|for|this)|[,.]|$)`)

func extractLocationFallback(description string) string {
	match := locationPattern.FindStringSubmatch(description)
	if match == nil {
		return "your destination"
	}
	return strings.TrimSpace(match[1])
}

// fallbackAnalysis is the deterministic result used when generation fails.
// The pipeline never surfaces an analysis error to the end user; a generic
// but usable safety plan is always returned.
func fallbackAnalysis(description string) *Analysis {
	location := extractLocationFallback(description)

	parkRanger := ""
	if strings.Contains(strings.ToLower(location), "park") {
		parkRanger = "1-888-987-PARK"
	}

	return &Analysis{
		TripDetails: types.TripDetails{
			LocationName: location,
			Locations: []types.Location{
				{Name: location, Type: "destination"},
			},
		},
		SafetyInfo: types.SafetyInfo{
			EmergencyNumbers: types.EmergencyNumbers{
				Police:     "911",
				Medical:    "911",
				ParkRanger: parkRanger,
			},
			WeatherSummary: "☀️ Please check current weather conditions for your specific location and dates.",
			KeyRisks: []string{
				"⚠️ Weather conditions can change rapidly",
				"🐻 Wildlife may be present in the area",
				"🌄 Terrain difficulty varies by location",
				"💧 Water sources may be limited",
			},
			SafetyTips: []string{
				"📱 Download offline maps before losing signal",
				"🎒 Pack the 10 essentials",
				"👥 Share your itinerary with emergency contacts",
				"⏰ Start early to avoid afternoon weather",
				"🥾 Wear appropriate footwear",
				"📸 Take photos of trail markers",
				"🔦 Bring headlamp with extra batteries",
			},
			PackingEssentials: []string{
				"🗺️ Map and navigation tools",
				"☀️ Sun protection",
				"🔦 Headlamp + batteries",
				"🩹 First aid kit",
				"🔪 Multi-tool",
				"🔥 Fire starter",
				"🏠 Emergency shelter",
				"🍫 Extra food + water",
				"👕 Extra clothes",
				"📣 Emergency whistle",
			},
			FunSafetyScore: types.FunSafetyScore{
				Score:       6,
				Description: "Moderate adventure - stay alert and have fun! 🌟",
			},
			CheckInSchedule: []types.CheckIn{
				{Time: "8:00 AM", Message: "Heading out! Weather looks good 🌤️"},
				{Time: "12:00 PM", Message: "Halfway point reached! All going well 📍"},
				{Time: "6:00 PM", Message: "Made it safely! Time to celebrate 🎉"},
			},
			LocalResources: []string{
				"🏥 Check local hospital locations before departure",
				"🚁 Research local search & rescue contacts",
				"⛽ Note last gas/supply station locations",
				"📱 Verify cell coverage in the area",
			},
		},
	}
}
