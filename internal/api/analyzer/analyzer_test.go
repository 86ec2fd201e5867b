package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	generativeAI "github.com/awesomesos/trip-safety-api/internal/api/generative_ai"
)

// MockAIClient is a mock implementation of the generativeAI.Client interface
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) Provider() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAIClient) Model() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAIClient) GenerateStructured(ctx context.Context, prompt string, schema generativeAI.Schema) (*generativeAI.StructuredResult, error) {
	args := m.Called(ctx, prompt, schema)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*generativeAI.StructuredResult), args.Error(1)
}

const validAnalysisJSON = `{
	"trip_details": {
		"location_name": "Half Dome, Yosemite National Park",
		"start_date": "2024-06-01",
		"end_date": "2024-06-02",
		"activities": [{"type": "hiking", "name": "Half Dome via Mist Trail", "difficulty": "hard"}],
		"group_size": 2,
		"locations": [{"name": "Half Dome", "type": "summit"}]
	},
	"safety_info": {
		"emergency_numbers": {"police": "911", "medical": "911", "park_ranger": "209-372-0200"},
		"weather_summary": "Warm days, cold nights",
		"key_risks": ["Cables section exposure"],
		"safety_tips": ["Start before dawn"],
		"packing_essentials": ["Gloves for cables"],
		"fun_safety_score": {"score": 7, "description": "Challenging but rewarding"},
		"check_in_schedule": [{"time": "6:00 AM", "message": "Starting up the Mist Trail"}],
		"local_resources": ["Yosemite Medical Clinic"]
	}
}`

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockClient := new(MockAIClient)
		mockClient.On("Provider").Return("openai")
		mockClient.On("Model").Return("gpt-4o-mini")
		mockClient.On("GenerateStructured", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return(&generativeAI.StructuredResult{Text: validAnalysisJSON}, nil).Once()

		service := NewService(mockClient, slog.Default())
		analysis, responseLog := service.Analyze(ctx, "Hiking Half Dome with my partner in June")

		require.NotNil(t, analysis)
		assert.Equal(t, "Half Dome, Yosemite National Park", analysis.TripDetails.LocationName)
		assert.Equal(t, 7, analysis.SafetyInfo.FunSafetyScore.Score)
		assert.Len(t, analysis.TripDetails.Activities, 1)

		require.NotNil(t, responseLog)
		assert.Equal(t, "openai", responseLog.Provider)
		assert.Equal(t, "gpt-4o-mini", responseLog.Model)
		assert.Empty(t, responseLog.Error)
		assert.Positive(t, responseLog.PromptLength)
		mockClient.AssertExpectations(t)
	})

	t.Run("FallbackOnGenerationError", func(t *testing.T) {
		mockClient := new(MockAIClient)
		mockClient.On("Provider").Return("anthropic")
		mockClient.On("Model").Return("claude-3-5-sonnet-20241022")
		mockClient.On("GenerateStructured", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return(nil, errors.New("rate limited")).Once()

		service := NewService(mockClient, slog.Default())
		analysis, responseLog := service.Analyze(ctx, "Camping trip to Yellowstone National Park with friends")

		require.NotNil(t, analysis)
		assert.Equal(t, "Yellowstone National Park", analysis.TripDetails.LocationName)
		assert.Equal(t, 6, analysis.SafetyInfo.FunSafetyScore.Score)
		assert.Equal(t, "911", analysis.SafetyInfo.EmergencyNumbers.Police)
		assert.Equal(t, "1-888-987-PARK", analysis.SafetyInfo.EmergencyNumbers.ParkRanger)

		require.Len(t, analysis.SafetyInfo.CheckInSchedule, 3)
		assert.Equal(t, "8:00 AM", analysis.SafetyInfo.CheckInSchedule[0].Time)
		assert.Equal(t, "12:00 PM", analysis.SafetyInfo.CheckInSchedule[1].Time)
		assert.Equal(t, "6:00 PM", analysis.SafetyInfo.CheckInSchedule[2].Time)

		require.NotNil(t, responseLog)
		assert.Equal(t, "rate limited", responseLog.Error)
		mockClient.AssertExpectations(t)
	})

	t.Run("FallbackOnUnparseableResponse", func(t *testing.T) {
		mockClient := new(MockAIClient)
		mockClient.On("Provider").Return("openai")
		mockClient.On("Model").Return("gpt-4o-mini")
		mockClient.On("GenerateStructured", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return(&generativeAI.StructuredResult{Text: "I cannot help with that."}, nil).Once()

		service := NewService(mockClient, slog.Default())
		analysis, responseLog := service.Analyze(ctx, "Kayaking at Lake Powell")

		require.NotNil(t, analysis)
		assert.Equal(t, "Lake Powell", analysis.TripDetails.LocationName)
		assert.NotEmpty(t, responseLog.Error)
		mockClient.AssertExpectations(t)
	})

	t.Run("FallbackOnMissingLocationName", func(t *testing.T) {
		mockClient := new(MockAIClient)
		mockClient.On("Provider").Return("openai")
		mockClient.On("Model").Return("gpt-4o-mini")
		mockClient.On("GenerateStructured", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
			Return(&generativeAI.StructuredResult{Text: `{"trip_details": {}, "safety_info": {}}`}, nil).Once()

		service := NewService(mockClient, slog.Default())
		analysis, _ := service.Analyze(ctx, "a mystery trip somewhere")

		require.NotNil(t, analysis)
		assert.Equal(t, "your destination", analysis.TripDetails.LocationName)
	})
}

func TestExtractLocationFallback(t *testing.T) {
	tests := []struct {
		description string
		want        string
	}{
		{"Hiking at Half Dome with friends", "Half Dome"},
		{"Trip to Yosemite, leaving Friday", "Yosemite"},
		{"Camping in Zion National Park.", "Zion National Park"},
		{"going somewhere fun", "your destination"},
		{"", "your destination"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, extractLocationFallback(tc.description), tc.description)
	}
}

func TestFallbackParkRangerNumber(t *testing.T) {
	withPark := fallbackAnalysis("Backpacking in Denali National Park this summer")
	assert.Equal(t, "1-888-987-PARK", withPark.SafetyInfo.EmergencyNumbers.ParkRanger)

	withoutPark := fallbackAnalysis("Climbing at Red Rocks with my crew")
	assert.Empty(t, withoutPark.SafetyInfo.EmergencyNumbers.ParkRanger)
}

func TestParseAnalysisClampsBounds(t *testing.T) {
	oversized := `{
		"trip_details": {"location_name": "Somewhere"},
		"safety_info": {
			"key_risks": ["1","2","3","4","5","6","7"],
			"safety_tips": ["1","2","3","4","5","6","7","8","9"],
			"packing_essentials": ["1","2","3","4","5","6","7","8","9","10","11","12","13"],
			"check_in_schedule": [{"time":"1"},{"time":"2"},{"time":"3"},{"time":"4"},{"time":"5"}],
			"local_resources": ["1","2","3","4","5","6"],
			"fun_safety_score": {"score": 14, "description": "off the chart"}
		}
	}`

	analysis, err := parseAnalysis(oversized)
	require.NoError(t, err)
	assert.Len(t, analysis.SafetyInfo.KeyRisks, 5)
	assert.Len(t, analysis.SafetyInfo.SafetyTips, 8)
	assert.Len(t, analysis.SafetyInfo.PackingEssentials, 12)
	assert.Len(t, analysis.SafetyInfo.CheckInSchedule, 4)
	assert.Len(t, analysis.SafetyInfo.LocalResources, 5)
	assert.Equal(t, 10, analysis.SafetyInfo.FunSafetyScore.Score)
}
