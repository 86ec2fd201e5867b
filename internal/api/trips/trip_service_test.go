package trips

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/awesomesos/trip-safety-api/internal/api/analyzer"
	generativeAI "github.com/awesomesos/trip-safety-api/internal/api/generative_ai"
	"github.com/awesomesos/trip-safety-api/internal/api/geocoding"
	"github.com/awesomesos/trip-safety-api/internal/types"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTrip(ctx context.Context, trip *types.TripRecord) (*types.TripRecord, error) {
	args := m.Called(ctx, trip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripRecord), args.Error(1)
}

func (m *MockRepository) GetTripByShareID(ctx context.Context, shareID string) (*types.TripRecord, error) {
	args := m.Called(ctx, shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripRecord), args.Error(1)
}

func (m *MockRepository) IncrementViewCount(ctx context.Context, shareID string) error {
	args := m.Called(ctx, shareID)
	return args.Error(0)
}

func (m *MockRepository) ListTrips(ctx context.Context, limit, offset int, sortBy, sortOrder string) ([]types.TripSummary, int, error) {
	args := m.Called(ctx, limit, offset, sortBy, sortOrder)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]types.TripSummary), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateTripAnalysis(ctx context.Context, shareID string, update *TripAnalysisUpdate) (*types.TripRecord, error) {
	args := m.Called(ctx, shareID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TripRecord), args.Error(1)
}

// stubAIClient returns a fixed response for every generation call.
type stubAIClient struct {
	text string
	err  error
}

func (s *stubAIClient) Provider() string { return "stub" }
func (s *stubAIClient) Model() string    { return "stub-model" }

func (s *stubAIClient) GenerateStructured(ctx context.Context, prompt string, schema generativeAI.Schema) (*generativeAI.StructuredResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &generativeAI.StructuredResult{Text: s.text}, nil
}

// stubGeoProvider resolves every query to a fixed point.
type stubGeoProvider struct{}

func (stubGeoProvider) Name() string    { return "stub" }
func (stubGeoProvider) Available() bool { return true }

func (stubGeoProvider) Geocode(ctx context.Context, query string) (*geocoding.Result, error) {
	return &geocoding.Result{Lat: 37.7459, Lng: -119.5332}, nil
}

const serviceAnalysisJSON = `{
	"trip_details": {
		"location_name": "Half Dome, Yosemite National Park",
		"start_date": "2024-03-15",
		"end_date": "2024-03-20",
		"emergency_contact": "Riley 555-0123",
		"activities": [{"type": "hiking", "name": "Half Dome"}],
		"locations": [{"name": "Half Dome Trailhead", "type": "trailhead"}]
	},
	"safety_info": {
		"emergency_numbers": {"police": "911", "medical": "911"},
		"fun_safety_score": {"score": 7, "description": "solid"}
	}
}`

func newTestTripService(repo Repository, aiText string, aiErr error) *ServiceImpl {
	logger := slog.Default()
	client := &stubAIClient{text: aiText, err: aiErr}
	analyzerSvc := analyzer.NewService(client, logger)
	geocoder := geocoding.NewResolver(logger, stubGeoProvider{})
	return NewService(repo, analyzerSvc, geocoder, logger)
}

var shareIDPattern = regexp.MustCompile(`^[0-9a-z]{12}$`)

func TestServiceCreateTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("RejectsBlankDescription", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		trip, err := service.CreateTrip(ctx, &types.CreateTripRequest{TripDescription: "   \n\t "})

		assert.Nil(t, trip)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "CreateTrip")
	})

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		var persisted *types.TripRecord
		mockRepo.On("CreateTrip", mock.Anything, mock.AnythingOfType("*types.TripRecord")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*types.TripRecord)
			}).
			Return(&types.TripRecord{ShareID: "fromdatabase"}, nil).Once()

		_, err := service.CreateTrip(ctx, &types.CreateTripRequest{
			TripDescription: "Hiking Half Dome with Riley in March",
		})

		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.Regexp(t, shareIDPattern, persisted.ShareID)
		assert.Equal(t, "Hiking Half Dome with Riley in March", persisted.TripDescription)
		assert.Equal(t, "Riley 555-0123", persisted.EmergencyContact)
		assert.Equal(t, "Half Dome, Yosemite National Park", persisted.TripData.ParsedLocation)

		require.NotNil(t, persisted.StartDate)
		assert.Equal(t, 2024, persisted.StartDate.Year())
		assert.Equal(t, 5, persisted.TripData.DurationDays)

		require.Len(t, persisted.TripData.Locations, 1)
		require.NotNil(t, persisted.TripData.Locations[0].Coordinates)
		assert.InDelta(t, 37.7459, persisted.TripData.Locations[0].Coordinates.Lat, 0.0001)

		require.NotNil(t, persisted.AIResponseLog)
		assert.Equal(t, "stub", persisted.AIResponseLog.Provider)
		mockRepo.AssertExpectations(t)
	})

	t.Run("BareURLDescriptionSubstituted", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		var persisted *types.TripRecord
		mockRepo.On("CreateTrip", mock.Anything, mock.AnythingOfType("*types.TripRecord")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*types.TripRecord)
			}).
			Return(&types.TripRecord{}, nil).Once()

		_, err := service.CreateTrip(ctx, &types.CreateTripRequest{
			TripDescription: "https://www.alltrails.com/trail/us/california/half-dome",
		})

		require.NoError(t, err)
		assert.Equal(t, "Trip information from: www.alltrails.com", persisted.TripDescription)
		mockRepo.AssertExpectations(t)
	})

	t.Run("AnalysisFailureStillCreatesTrip", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, "", errors.New("provider down"))

		var persisted *types.TripRecord
		mockRepo.On("CreateTrip", mock.Anything, mock.AnythingOfType("*types.TripRecord")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*types.TripRecord)
			}).
			Return(&types.TripRecord{}, nil).Once()

		_, err := service.CreateTrip(ctx, &types.CreateTripRequest{
			TripDescription: "Camping at Joshua Tree with friends",
		})

		require.NoError(t, err)
		assert.Equal(t, "Joshua Tree", persisted.TripData.ParsedLocation)
		assert.Equal(t, 6, persisted.SafetyInfo.FunSafetyScore.Score)
		assert.Equal(t, "provider down", persisted.AIResponseLog.Error)
		mockRepo.AssertExpectations(t)
	})

	t.Run("RepositoryErrorPropagates", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		mockRepo.On("CreateTrip", mock.Anything, mock.AnythingOfType("*types.TripRecord")).
			Return(nil, errors.New("connection refused")).Once()

		trip, err := service.CreateTrip(ctx, &types.CreateTripRequest{TripDescription: "Hiking somewhere"})

		assert.Nil(t, trip)
		assert.Error(t, err)
	})
}

func TestServiceGetTripByShareID(t *testing.T) {
	ctx := context.Background()

	t.Run("IncrementsViewCount", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		mockRepo.On("GetTripByShareID", mock.Anything, "abc123def456").
			Return(&types.TripRecord{ShareID: "abc123def456", ViewCount: 4}, nil).Once()
		mockRepo.On("IncrementViewCount", mock.Anything, "abc123def456").Return(nil).Once()

		trip, err := service.GetTripByShareID(ctx, "abc123def456")

		require.NoError(t, err)
		assert.Equal(t, 5, trip.ViewCount)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ViewCountFailureIsSoft", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		mockRepo.On("GetTripByShareID", mock.Anything, "abc123def456").
			Return(&types.TripRecord{ShareID: "abc123def456", ViewCount: 4}, nil).Once()
		mockRepo.On("IncrementViewCount", mock.Anything, "abc123def456").Return(errors.New("deadlock")).Once()

		trip, err := service.GetTripByShareID(ctx, "abc123def456")

		require.NoError(t, err)
		assert.Equal(t, 4, trip.ViewCount)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		mockRepo.On("GetTripByShareID", mock.Anything, "missing000000").Return(nil, nil).Once()

		trip, err := service.GetTripByShareID(ctx, "missing000000")

		assert.Nil(t, trip)
		assert.ErrorIs(t, err, ErrTripNotFound)
		mockRepo.AssertNotCalled(t, "IncrementViewCount")
	})
}

func TestServiceListTrips(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesDefaultsAndCaps", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		mockRepo.On("ListTrips", mock.Anything, 20, 0, "", "").
			Return([]types.TripSummary{}, 0, nil).Once()
		_, err := service.ListTrips(ctx, 0, -3, "", "")
		require.NoError(t, err)

		mockRepo.On("ListTrips", mock.Anything, 100, 0, "", "").
			Return([]types.TripSummary{}, 0, nil).Once()
		_, err = service.ListTrips(ctx, 5000, 0, "", "")
		require.NoError(t, err)

		mockRepo.AssertExpectations(t)
	})

	t.Run("HasMore", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		page := make([]types.TripSummary, 20)
		mockRepo.On("ListTrips", mock.Anything, 20, 0, "", "").Return(page, 45, nil).Once()

		resp, err := service.ListTrips(ctx, 20, 0, "", "")

		require.NoError(t, err)
		assert.Equal(t, 45, resp.TotalCount)
		assert.True(t, resp.HasMore)
	})

	t.Run("LastPage", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		page := make([]types.TripSummary, 5)
		mockRepo.On("ListTrips", mock.Anything, 20, 40, "", "").Return(page, 45, nil).Once()

		resp, err := service.ListTrips(ctx, 20, 40, "", "")

		require.NoError(t, err)
		assert.False(t, resp.HasMore)
	})
}

func TestServiceRegenerateTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("PreservesStoredFieldsWhenAnalysisOmitsThem", func(t *testing.T) {
		mockRepo := new(MockRepository)
		// Fallback analysis carries no dates or contact.
		service := newTestTripService(mockRepo, "", errors.New("provider down"))

		storedStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		storedEnd := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
		existing := &types.TripRecord{
			ShareID:          "abc123def456",
			TripDescription:  "Backpacking in Yosemite National Park",
			StartDate:        &storedStart,
			EndDate:          &storedEnd,
			EmergencyContact: "Morgan 555-0177",
		}

		mockRepo.On("GetTripByShareID", mock.Anything, "abc123def456").Return(existing, nil).Once()

		var captured *TripAnalysisUpdate
		mockRepo.On("UpdateTripAnalysis", mock.Anything, "abc123def456", mock.AnythingOfType("*trips.TripAnalysisUpdate")).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(*TripAnalysisUpdate)
			}).
			Return(existing, nil).Once()

		_, err := service.RegenerateTrip(ctx, "abc123def456")

		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, &storedStart, captured.StartDate)
		assert.Equal(t, &storedEnd, captured.EndDate)
		assert.Equal(t, "Morgan 555-0177", captured.EmergencyContact)
		assert.Equal(t, "Backpacking in Yosemite National Park", captured.TripData.Description)
		mockRepo.AssertExpectations(t)
	})

	t.Run("FreshAnalysisWins", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		storedStart := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		existing := &types.TripRecord{
			ShareID:          "abc123def456",
			TripDescription:  "Hiking Half Dome",
			StartDate:        &storedStart,
			EmergencyContact: "Old Contact",
		}

		mockRepo.On("GetTripByShareID", mock.Anything, "abc123def456").Return(existing, nil).Once()

		var captured *TripAnalysisUpdate
		mockRepo.On("UpdateTripAnalysis", mock.Anything, "abc123def456", mock.AnythingOfType("*trips.TripAnalysisUpdate")).
			Run(func(args mock.Arguments) {
				captured = args.Get(2).(*TripAnalysisUpdate)
			}).
			Return(existing, nil).Once()

		_, err := service.RegenerateTrip(ctx, "abc123def456")

		require.NoError(t, err)
		require.NotNil(t, captured.StartDate)
		assert.Equal(t, 2024, captured.StartDate.Year())
		assert.Equal(t, "Riley 555-0123", captured.EmergencyContact)
		mockRepo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := new(MockRepository)
		service := newTestTripService(mockRepo, serviceAnalysisJSON, nil)

		mockRepo.On("GetTripByShareID", mock.Anything, "missing000000").Return(nil, nil).Once()

		trip, err := service.RegenerateTrip(ctx, "missing000000")

		assert.Nil(t, trip)
		assert.ErrorIs(t, err, ErrTripNotFound)
		mockRepo.AssertNotCalled(t, "UpdateTripAnalysis")
	})
}

func TestDeriveDurationDays(t *testing.T) {
	start := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	t.Run("ExplicitWins", func(t *testing.T) {
		assert.Equal(t, 3, deriveDurationDays(3, &start, &end))
	})

	t.Run("DerivedFromDates", func(t *testing.T) {
		assert.Equal(t, 5, deriveDurationDays(0, &start, &end))
	})

	t.Run("PartialDayRoundsUp", func(t *testing.T) {
		endMidday := time.Date(2024, 3, 20, 14, 0, 0, 0, time.UTC)
		assert.Equal(t, 6, deriveDurationDays(0, &start, &endMidday))
	})

	t.Run("MissingDates", func(t *testing.T) {
		assert.Equal(t, 0, deriveDurationDays(0, nil, &end))
		assert.Equal(t, 0, deriveDurationDays(0, &start, nil))
	})

	t.Run("NegativeSpan", func(t *testing.T) {
		assert.Equal(t, 0, deriveDurationDays(0, &end, &start))
	})
}

func TestGenerateShareID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := generateShareID()
		assert.Regexp(t, shareIDPattern, id)
		assert.False(t, seen[id], "share ids must not repeat")
		seen[id] = true
	}
}
