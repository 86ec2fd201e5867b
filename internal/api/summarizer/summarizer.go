package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"

	generativeAI "github.com/awesomesos/trip-safety-api/internal/api/generative_ai"
	"github.com/awesomesos/trip-safety-api/internal/api/validation"
)

const fallbackExtractChars = 2000

// Result is the summarizer output. TripType is only used to pick prompt
// framing and is never persisted. Err is set when the deterministic fallback
// was taken; the caller may log or surface it but the pipeline continues.
type Result struct {
	Summary          string
	OptimizedContent string
	TripType         string
	Err              error
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

var fullSchema = generativeAI.Schema{
	Name: "page_summary",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary": map[string]interface{}{
				"type":        "string",
				"description": "Short human-readable trip description. Never a URL.",
			},
			"trip_type": map[string]interface{}{
				"type": "string",
				"enum": []string{"hiking", "climbing", "camping", "cycling", "water", "winter", "event", "other"},
			},
			"optimized_content": map[string]interface{}{
				"type":        "string",
				"description": "Verbose detail extract for downstream analysis.",
			},
		},
		"required":             []string{"summary", "trip_type", "optimized_content"},
		"additionalProperties": false,
	},
}

// reducedSchema drops the categorical field; some models fail schema
// validation on the enum but handle the two plain strings fine.
var reducedSchema = generativeAI.Schema{
	Name: "page_summary",
	Definition: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"summary":           map[string]interface{}{"type": "string"},
			"optimized_content": map[string]interface{}{"type": "string"},
		},
		"required":             []string{"summary", "optimized_content"},
		"additionalProperties": false,
	},
}

// Summarize turns extracted page text into a display summary and a verbose
// extract for the analyzer. It never fails: generation errors fall back to a
// deterministic result with Err set.
func (s *Service) Summarize(ctx context.Context, content, title, sourceURL string) *Result {
	ctx, span := otel.Tracer("SummarizerService").Start(ctx, "Summarize")
	defer span.End()

	l := s.logger.With(slog.String("service", "summarizer"), slog.String("source_url", sourceURL))

	prompt := genericPrompt(content, title, sourceURL)
	if isTrailCatalogURL(sourceURL) {
		prompt = trailPrompt(content, title, sourceURL)
	}

	result, err := s.generate(ctx, prompt, fullSchema)
	if err != nil {
		l.WarnContext(ctx, "Full-schema summarization failed, retrying with reduced schema", slog.Any("error", err))
		span.RecordError(err)
		result, err = s.generate(ctx, prompt, reducedSchema)
	}
	if err != nil {
		l.ErrorContext(ctx, "Summarization failed, using deterministic fallback", slog.Any("error", err))
		span.RecordError(err)
		return fallbackResult(content, title, err)
	}

	// The model occasionally echoes the input link back as its summary.
	if validation.LooksLikeBareURL(result.Summary) {
		l.WarnContext(ctx, "Model returned a URL as summary, substituting fallback string", slog.String("summary", result.Summary))
		result.Summary = FallbackSummary(title)
	}

	return result
}

func (s *Service) generate(ctx context.Context, prompt string, schema generativeAI.Schema) (*Result, error) {
	resp, err := s.aiClient.GenerateStructured(ctx, prompt, schema)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Summary          string `json:"summary"`
		TripType         string `json:"trip_type"`
		OptimizedContent string `json:"optimized_content"`
	}
	if err := json.Unmarshal([]byte(generativeAI.CleanJSONResponse(resp.Text)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse summary JSON: %w", err)
	}
	if parsed.Summary == "" || parsed.OptimizedContent == "" {
		return nil, fmt.Errorf("summary response missing required fields")
	}

	return &Result{
		Summary:          strings.TrimSpace(parsed.Summary),
		OptimizedContent: parsed.OptimizedContent,
		TripType:         parsed.TripType,
	}, nil
}

func fallbackResult(content, title string, cause error) *Result {
	optimized := content
	if len(optimized) > fallbackExtractChars {
		optimized = truncateAtRune(optimized, fallbackExtractChars) + "..."
	}
	return &Result{
		Summary:          FallbackSummary(title),
		OptimizedContent: optimized,
		Err:              cause,
	}
}

// FallbackSummary is the deterministic summary used when generation fails or
// the model echoes a URL. Exposed so response boundaries can substitute it.
func FallbackSummary(title string) string {
	if title != "" {
		return fmt.Sprintf("Trip information from: %s", title)
	}
	return "Trip information from a webpage"
}

// truncateAtRune cuts s to at most max bytes without splitting a
// multi-byte rune at the boundary.
func truncateAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isTrailCatalogURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, domain := range trailCatalogDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
