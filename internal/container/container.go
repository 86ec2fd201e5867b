package container

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/awesomesos/trip-safety-api/app/db"
	"github.com/awesomesos/trip-safety-api/config"
	"github.com/awesomesos/trip-safety-api/internal/api/analyzer"
	"github.com/awesomesos/trip-safety-api/internal/api/fetcher"
	generativeAI "github.com/awesomesos/trip-safety-api/internal/api/generative_ai"
	"github.com/awesomesos/trip-safety-api/internal/api/geocoding"
	"github.com/awesomesos/trip-safety-api/internal/api/summarizer"
	"github.com/awesomesos/trip-safety-api/internal/api/trips"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	AIClient    generativeAI.Client
	Fetcher     *fetcher.Service
	Summarizer  *summarizer.Service
	Analyzer    *analyzer.Service
	Geocoder    *geocoding.Resolver
	TripService trips.Service
	TripHandler *trips.Handler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	aiClient, err := generativeAI.NewClient(
		cfg.AI.Provider, cfg.AI.OpenAIModel, cfg.AI.AnthropicModel, cfg.AI.GeminiModel, cfg.AI.Temperature,
	)
	if err != nil {
		logger.Error("Failed to initialize AI client", slog.Any("error", err))
		pool.Close()
		return nil, err
	}

	fetcherSvc := fetcher.NewService(logger, cfg.Fetcher.Timeout, cfg.Fetcher.MaxBytes, cfg.Fetcher.MaxChars, cfg.Fetcher.UserAgent)
	summarizerSvc := summarizer.NewService(aiClient, logger)
	analyzerSvc := analyzer.NewService(aiClient, logger)
	geocoder := geocoding.NewResolver(logger)

	tripRepo := trips.NewRepository(pool, logger)
	tripService := trips.NewService(tripRepo, analyzerSvc, geocoder, logger)
	tripHandler := trips.NewHandler(tripService, fetcherSvc, summarizerSvc, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		Pool:        pool,
		AIClient:    aiClient,
		Fetcher:     fetcherSvc,
		Summarizer:  summarizerSvc,
		Analyzer:    analyzerSvc,
		Geocoder:    geocoder,
		TripService: tripService,
		TripHandler: tripHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
