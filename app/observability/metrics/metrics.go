package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	TripsCreatedTotal           metric.Int64Counter
	TripsRegeneratedTotal       metric.Int64Counter
	AIGenerationDurationSeconds metric.Float64Histogram
	AIFallbacksTotal            metric.Int64Counter
	GeocodeCacheHitsTotal       metric.Int64Counter
	GeocodeProviderCallsTotal   metric.Int64Counter
	DbQueryDurationSeconds      metric.Float64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("AwesomeSOS")
		var err error
		m := &AppMetrics{}

		m.TripsCreatedTotal, err = meter.Int64Counter(
			"trips_created_total",
			metric.WithDescription("Total number of trips created"),
			metric.WithUnit("{trip}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trips_created_total: %v", err)
		}

		m.TripsRegeneratedTotal, err = meter.Int64Counter(
			"trips_regenerated_total",
			metric.WithDescription("Total number of trip regenerations"),
			metric.WithUnit("{trip}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create trips_regenerated_total: %v", err)
		}

		m.AIGenerationDurationSeconds, err = meter.Float64Histogram(
			"ai_generation_duration_seconds",
			metric.WithDescription("Duration of AI structured-generation calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_generation_duration_seconds: %v", err)
		}

		m.AIFallbacksTotal, err = meter.Int64Counter(
			"ai_fallbacks_total",
			metric.WithDescription("Total number of AI calls that fell back to the static template"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_fallbacks_total: %v", err)
		}

		m.GeocodeCacheHitsTotal, err = meter.Int64Counter(
			"geocode_cache_hits_total",
			metric.WithDescription("Total number of geocode cache hits"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_cache_hits_total: %v", err)
		}

		m.GeocodeProviderCallsTotal, err = meter.Int64Counter(
			"geocode_provider_calls_total",
			metric.WithDescription("Total number of outbound geocoding provider calls"),
			metric.WithUnit("{call}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create geocode_provider_calls_total: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global metrics instance. InitAppMetrics must run first.
func Get() *AppMetrics {
	return appMetrics
}
