package trips

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/awesomesos/trip-safety-api/app/observability/metrics"
	"github.com/awesomesos/trip-safety-api/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateTrip(ctx context.Context, trip *types.TripRecord) (*types.TripRecord, error)
	GetTripByShareID(ctx context.Context, shareID string) (*types.TripRecord, error)
	IncrementViewCount(ctx context.Context, shareID string) error
	ListTrips(ctx context.Context, limit, offset int, sortBy, sortOrder string) ([]types.TripSummary, int, error)
	UpdateTripAnalysis(ctx context.Context, shareID string, update *TripAnalysisUpdate) (*types.TripRecord, error)
}

// TripAnalysisUpdate is the regenerate write set. The trip description is
// deliberately absent: a regenerate never alters it.
type TripAnalysisUpdate struct {
	StartDate        *time.Time
	EndDate          *time.Time
	EmergencyContact string
	TripData         types.TripData
	SafetyInfo       types.SafetyInfo
	AIResponseLog    *types.AIResponseLog
}

// PGXQuerier is the slice of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool in production and pgxmock in tests.
type PGXQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool PGXQuerier
}

func NewRepository(pgpool PGXQuerier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

// observeQuery records the elapsed time of one query under its name.
func observeQuery(ctx context.Context, name string, start time.Time) {
	if m := metrics.Get(); m != nil {
		m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("query", name)))
	}
}

const tripColumns = `
    id, share_id, trip_description, source_url, start_date, end_date,
    emergency_contact, trip_data, safety_info, ai_response_log,
    view_count, created_at, updated_at
`

func (r *RepositoryImpl) CreateTrip(ctx context.Context, trip *types.TripRecord) (*types.TripRecord, error) {
	defer observeQuery(ctx, "create_trip", time.Now())

	tripData, err := json.Marshal(trip.TripData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trip data: %w", err)
	}
	safetyInfo, err := json.Marshal(trip.SafetyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal safety info: %w", err)
	}
	var responseLog []byte
	if trip.AIResponseLog != nil {
		responseLog, err = json.Marshal(trip.AIResponseLog)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal AI response log: %w", err)
		}
	}

	query := `
        INSERT INTO trips (
            share_id, trip_description, source_url, start_date, end_date,
            emergency_contact, trip_data, safety_info, ai_response_log
        ) VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, $9)
        RETURNING ` + tripColumns

	row := r.pgpool.QueryRow(ctx, query,
		trip.ShareID, trip.TripDescription, trip.SourceURL,
		trip.StartDate, trip.EndDate, trip.EmergencyContact,
		tripData, safetyInfo, responseLog,
	)

	created, err := scanTrip(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trip: %w", err)
	}

	r.logger.Info("Trip created", slog.String("share_id", created.ShareID), slog.String("id", created.ID.String()))
	return created, nil
}

func (r *RepositoryImpl) GetTripByShareID(ctx context.Context, shareID string) (*types.TripRecord, error) {
	defer observeQuery(ctx, "get_trip_by_share_id", time.Now())

	query := `SELECT ` + tripColumns + ` FROM trips WHERE share_id = $1`

	trip, err := scanTrip(r.pgpool.QueryRow(ctx, query, shareID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip by share id: %w", err)
	}
	return trip, nil
}

// IncrementViewCount is best-effort: a lost increment under race is
// acceptable, so there is no transaction around the read path.
func (r *RepositoryImpl) IncrementViewCount(ctx context.Context, shareID string) error {
	_, err := r.pgpool.Exec(ctx, `UPDATE trips SET view_count = view_count + 1 WHERE share_id = $1`, shareID)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) ListTrips(ctx context.Context, limit, offset int, sortBy, sortOrder string) ([]types.TripSummary, int, error) {
	// Sort keys are whitelisted; anything else falls back to creation time.
	defer observeQuery(ctx, "list_trips", time.Now())

	column := "created_at"
	if sortBy == "view_count" {
		column = "view_count"
	}
	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
        SELECT id, share_id, trip_description, start_date, end_date,
               trip_data, safety_info, created_at, view_count
        FROM trips
        ORDER BY %s %s
        LIMIT $1 OFFSET $2`, column, direction)

	rows, err := r.pgpool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var summaries []types.TripSummary
	for rows.Next() {
		var (
			summary     types.TripSummary
			tripDataRaw []byte
			safetyRaw   []byte
		)
		if err := rows.Scan(
			&summary.ID, &summary.ShareID, &summary.Description,
			&summary.StartDate, &summary.EndDate,
			&tripDataRaw, &safetyRaw,
			&summary.CreatedAt, &summary.ViewCount,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan trip row: %w", err)
		}

		var tripData types.TripData
		if err := json.Unmarshal(tripDataRaw, &tripData); err == nil {
			summary.Location = tripData.ParsedLocation
			summary.Activities = tripData.Activities
		}
		if summary.Location == "" {
			summary.Location = "Unknown Location"
		}
		if summary.Activities == nil {
			summary.Activities = []types.Activity{}
		}

		var safetyInfo types.SafetyInfo
		if err := json.Unmarshal(safetyRaw, &safetyInfo); err == nil {
			summary.SafetyScore = safetyInfo.FunSafetyScore.Score
		}

		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed reading trip rows: %w", err)
	}

	var totalCount int
	if err := r.pgpool.QueryRow(ctx, `SELECT COUNT(*) FROM trips`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count trips: %w", err)
	}

	return summaries, totalCount, nil
}

func (r *RepositoryImpl) UpdateTripAnalysis(ctx context.Context, shareID string, update *TripAnalysisUpdate) (*types.TripRecord, error) {
	defer observeQuery(ctx, "update_trip_analysis", time.Now())

	tripData, err := json.Marshal(update.TripData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trip data: %w", err)
	}
	safetyInfo, err := json.Marshal(update.SafetyInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal safety info: %w", err)
	}
	var responseLog []byte
	if update.AIResponseLog != nil {
		responseLog, err = json.Marshal(update.AIResponseLog)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal AI response log: %w", err)
		}
	}

	query := `
        UPDATE trips SET
            start_date = $2,
            end_date = $3,
            emergency_contact = NULLIF($4, ''),
            trip_data = $5,
            safety_info = $6,
            ai_response_log = $7,
            updated_at = now()
        WHERE share_id = $1
        RETURNING ` + tripColumns

	row := r.pgpool.QueryRow(ctx, query,
		shareID, update.StartDate, update.EndDate, update.EmergencyContact,
		tripData, safetyInfo, responseLog,
	)

	updated, err := scanTrip(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	r.logger.Info("Trip analysis updated", slog.String("share_id", shareID))
	return updated, nil
}

func scanTrip(row pgx.Row) (*types.TripRecord, error) {
	var (
		trip             types.TripRecord
		sourceURL        *string
		emergencyContact *string
		tripDataRaw      []byte
		safetyRaw        []byte
		responseLogRaw   []byte
	)
	if err := row.Scan(
		&trip.ID, &trip.ShareID, &trip.TripDescription, &sourceURL,
		&trip.StartDate, &trip.EndDate, &emergencyContact,
		&tripDataRaw, &safetyRaw, &responseLogRaw,
		&trip.ViewCount, &trip.CreatedAt, &trip.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if sourceURL != nil {
		trip.SourceURL = *sourceURL
	}
	if emergencyContact != nil {
		trip.EmergencyContact = *emergencyContact
	}
	if len(tripDataRaw) > 0 {
		if err := json.Unmarshal(tripDataRaw, &trip.TripData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal trip data: %w", err)
		}
	}
	if len(safetyRaw) > 0 {
		if err := json.Unmarshal(safetyRaw, &trip.SafetyInfo); err != nil {
			return nil, fmt.Errorf("failed to unmarshal safety info: %w", err)
		}
	}
	if len(responseLogRaw) > 0 {
		var log types.AIResponseLog
		if err := json.Unmarshal(responseLogRaw, &log); err != nil {
			return nil, fmt.Errorf("failed to unmarshal AI response log: %w", err)
		}
		trip.AIResponseLog = &log
	}
	return &trip, nil
}
