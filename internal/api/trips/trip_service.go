package trips

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/awesomesos/trip-safety-api/app/observability/metrics"
	"github.com/awesomesos/trip-safety-api/internal/api/analyzer"
	"github.com/awesomesos/trip-safety-api/internal/api/geocoding"
	"github.com/awesomesos/trip-safety-api/internal/api/validation"
	"github.com/awesomesos/trip-safety-api/internal/types"
)

var ErrTripNotFound = errors.New("trip not found")

const (
	defaultListLimit = 20
	maxListLimit     = 100

	shareIDLength = 12
)

const shareIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateTrip(ctx context.Context, req *types.CreateTripRequest) (*types.TripRecord, error)
	GetTripByShareID(ctx context.Context, shareID string) (*types.TripRecord, error)
	ListTrips(ctx context.Context, limit, offset int, sortBy, sortOrder string) (*types.ListTripsResponse, error)
	RegenerateTrip(ctx context.Context, shareID string) (*types.TripRecord, error)
}

type ServiceImpl struct {
	logger   *slog.Logger
	repo     Repository
	analyzer *analyzer.Service
	geocoder *geocoding.Resolver
}

func NewService(repo Repository, analyzerSvc *analyzer.Service, geocoder *geocoding.Resolver, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		analyzer: analyzerSvc,
		geocoder: geocoder,
	}
}

func (s *ServiceImpl) CreateTrip(ctx context.Context, req *types.CreateTripRequest) (*types.TripRecord, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateTrip")
	defer span.End()

	l := s.logger.With(slog.String("service", "trips"), slog.String("method", "CreateTrip"))

	description := strings.TrimSpace(req.TripDescription)
	if description == "" {
		return nil, fmt.Errorf("trip description is required")
	}

	// A raw URL pasted as the description is never stored as-is; the stored
	// description names the source host instead.
	if validation.LooksLikeBareURL(description) {
		if host := hostOf(description); host != "" {
			description = "Trip information from: " + host
		} else {
			description = "Trip information from a webpage"
		}
	}

	analysisInput := description
	if optimized := strings.TrimSpace(req.OptimizedContent); optimized != "" {
		analysisInput = optimized
	}

	analysis, responseLog := s.analyzer.Analyze(ctx, analysisInput)
	analysis.TripDetails.Locations = s.geocoder.ResolveAll(ctx, analysis.TripDetails.Locations)

	startDate := parseDate(analysis.TripDetails.StartDate)
	endDate := parseDate(analysis.TripDetails.EndDate)

	trip := &types.TripRecord{
		ShareID:          generateShareID(),
		TripDescription:  description,
		SourceURL:        strings.TrimSpace(req.SourceURL),
		StartDate:        startDate,
		EndDate:          endDate,
		EmergencyContact: analysis.TripDetails.EmergencyContact,
		TripData:         buildTripData(description, &analysis.TripDetails, startDate, endDate),
		SafetyInfo:       analysis.SafetyInfo,
		AIResponseLog:    responseLog,
	}

	created, err := s.repo.CreateTrip(ctx, trip)
	if err != nil {
		l.ErrorContext(ctx, "Failed to persist trip", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	if m := metrics.Get(); m != nil {
		m.TripsCreatedTotal.Add(ctx, 1)
	}
	l.InfoContext(ctx, "Trip created", slog.String("share_id", created.ShareID))
	return created, nil
}

func (s *ServiceImpl) GetTripByShareID(ctx context.Context, shareID string) (*types.TripRecord, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetTripByShareID")
	defer span.End()

	trip, err := s.repo.GetTripByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, ErrTripNotFound
	}

	// View counting must never fail a read.
	if err := s.repo.IncrementViewCount(ctx, shareID); err != nil {
		s.logger.WarnContext(ctx, "Failed to increment view count",
			slog.String("share_id", shareID), slog.Any("error", err))
	} else {
		trip.ViewCount++
	}

	return trip, nil
}

func (s *ServiceImpl) ListTrips(ctx context.Context, limit, offset int, sortBy, sortOrder string) (*types.ListTripsResponse, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "ListTrips")
	defer span.End()

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	summaries, totalCount, err := s.repo.ListTrips(ctx, limit, offset, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []types.TripSummary{}
	}

	return &types.ListTripsResponse{
		Trips:      summaries,
		TotalCount: totalCount,
		HasMore:    offset+len(summaries) < totalCount,
	}, nil
}

// RegenerateTrip reruns analysis and geocoding over the stored description.
// The description itself and the share id are immutable; dates and the
// emergency contact keep their stored values when the fresh analysis does
// not produce them.
func (s *ServiceImpl) RegenerateTrip(ctx context.Context, shareID string) (*types.TripRecord, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "RegenerateTrip")
	defer span.End()

	l := s.logger.With(slog.String("service", "trips"), slog.String("method", "RegenerateTrip"))

	existing, err := s.repo.GetTripByShareID(ctx, shareID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrTripNotFound
	}

	analysis, responseLog := s.analyzer.Analyze(ctx, existing.TripDescription)
	analysis.TripDetails.Locations = s.geocoder.ResolveAll(ctx, analysis.TripDetails.Locations)

	startDate := parseDate(analysis.TripDetails.StartDate)
	if startDate == nil {
		startDate = existing.StartDate
	}
	endDate := parseDate(analysis.TripDetails.EndDate)
	if endDate == nil {
		endDate = existing.EndDate
	}
	emergencyContact := analysis.TripDetails.EmergencyContact
	if emergencyContact == "" {
		emergencyContact = existing.EmergencyContact
	}

	update := &TripAnalysisUpdate{
		StartDate:        startDate,
		EndDate:          endDate,
		EmergencyContact: emergencyContact,
		TripData:         buildTripData(existing.TripDescription, &analysis.TripDetails, startDate, endDate),
		SafetyInfo:       analysis.SafetyInfo,
		AIResponseLog:    responseLog,
	}

	updated, err := s.repo.UpdateTripAnalysis(ctx, shareID, update)
	if err != nil {
		l.ErrorContext(ctx, "Failed to persist regenerated analysis", slog.Any("error", err))
		return nil, fmt.Errorf("failed to regenerate trip: %w", err)
	}
	if updated == nil {
		return nil, ErrTripNotFound
	}

	if m := metrics.Get(); m != nil {
		m.TripsRegeneratedTotal.Add(ctx, 1)
	}
	l.InfoContext(ctx, "Trip regenerated", slog.String("share_id", shareID))
	return updated, nil
}

func buildTripData(description string, details *types.TripDetails, startDate, endDate *time.Time) types.TripData {
	return types.TripData{
		Description:     description,
		ParsedLocation:  details.LocationName,
		DurationDays:    deriveDurationDays(details.DurationDays, startDate, endDate),
		Activities:      details.Activities,
		GroupSize:       details.GroupSize,
		ExperienceLevel: details.ExperienceLevel,
		Locations:       details.Locations,
	}
}

// deriveDurationDays prefers an explicitly stated duration; otherwise the
// date span rounded up to whole days.
func deriveDurationDays(explicit int, startDate, endDate *time.Time) int {
	if explicit > 0 {
		return explicit
	}
	if startDate == nil || endDate == nil {
		return 0
	}
	span := endDate.Sub(*startDate)
	if span <= 0 {
		return 0
	}
	days := int(span / (24 * time.Hour))
	if span%(24*time.Hour) != 0 {
		days++
	}
	return days
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &t
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return u.Host
}

func generateShareID() string {
	b := make([]byte, shareIDLength)
	max := big.NewInt(int64(len(shareIDAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back to
			// a time-derived index rather than panic mid-request.
			b[i] = shareIDAlphabet[time.Now().UnixNano()%int64(len(shareIDAlphabet))]
			continue
		}
		b[i] = shareIDAlphabet[n.Int64()]
	}
	return string(b)
}
