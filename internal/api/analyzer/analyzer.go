package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/awesomesos/trip-safety-api/app/observability/metrics"
	generativeAI "github.com/awesomesos/trip-safety-api/internal/api/generative_ai"
	"github.com/awesomesos/trip-safety-api/internal/types"
)

// Analysis is the structured pair extracted from a trip description.
type Analysis struct {
	TripDetails types.TripDetails `json:"trip_details"`
	SafetyInfo  types.SafetyInfo  `json:"safety_info"`
}

type Service struct {
	logger   *slog.Logger
	aiClient generativeAI.Client
}

func NewService(aiClient generativeAI.Client, logger *slog.Logger) *Service {
	return &Service{
		logger:   logger,
		aiClient: aiClient,
	}
}

// Analyze extracts trip metadata and generates the safety bundle from a trip
// description. It always returns a usable Analysis and a response log; a
// generation failure is absorbed by the static fallback, never propagated.
func (s *Service) Analyze(ctx context.Context, tripDescription string) (*Analysis, *types.AIResponseLog) {
	ctx, span := otel.Tracer("AnalyzerService").Start(ctx, "Analyze")
	defer span.End()

	l := s.logger.With(slog.String("service", "analyzer"))

	prompt := analysisPrompt(tripDescription)
	log := &types.AIResponseLog{
		Provider:     s.aiClient.Provider(),
		Model:        s.aiClient.Model(),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		PromptLength: len(prompt),
	}

	start := time.Now()
	resp, err := s.aiClient.GenerateStructured(ctx, prompt, analysisSchema)
	log.ResponseTimeMs = time.Since(start).Milliseconds()

	providerAttr := metric.WithAttributes(attribute.String("provider", s.aiClient.Provider()))
	if m := metrics.Get(); m != nil {
		m.AIGenerationDurationSeconds.Record(ctx, time.Since(start).Seconds(), providerAttr)
	}

	if err == nil {
		log.RawResponse = resp.Raw
		analysis, parseErr := parseAnalysis(resp.Text)
		if parseErr == nil {
			span.SetAttributes(attribute.String("trip.location", analysis.TripDetails.LocationName))
			return analysis, log
		}
		err = parseErr
	}

	l.ErrorContext(ctx, "Trip analysis failed, using fallback template", slog.Any("error", err))
	span.RecordError(err)
	if m := metrics.Get(); m != nil {
		m.AIFallbacksTotal.Add(ctx, 1, providerAttr)
	}

	log.Error = err.Error()
	return fallbackAnalysis(tripDescription), log
}

func parseAnalysis(txt string) (*Analysis, error) {
	var analysis Analysis
	if err := json.Unmarshal([]byte(generativeAI.CleanJSONResponse(txt)), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}
	if analysis.TripDetails.LocationName == "" {
		return nil, fmt.Errorf("analysis response missing location_name")
	}
	clampSafetyInfo(&analysis.SafetyInfo)
	return &analysis, nil
}

// clampSafetyInfo enforces the size bounds the schema asks for; a provider
// without native schema support can overshoot them.
func clampSafetyInfo(info *types.SafetyInfo) {
	if len(info.KeyRisks) > 5 {
		info.KeyRisks = info.KeyRisks[:5]
	}
	if len(info.SafetyTips) > 8 {
		info.SafetyTips = info.SafetyTips[:8]
	}
	if len(info.PackingEssentials) > 12 {
		info.PackingEssentials = info.PackingEssentials[:12]
	}
	if len(info.CheckInSchedule) > 4 {
		info.CheckInSchedule = info.CheckInSchedule[:4]
	}
	if len(info.LocalResources) > 5 {
		info.LocalResources = info.LocalResources[:5]
	}
	if info.FunSafetyScore.Score < 1 {
		info.FunSafetyScore.Score = 1
	}
	if info.FunSafetyScore.Score > 10 {
		info.FunSafetyScore.Score = 10
	}
}
