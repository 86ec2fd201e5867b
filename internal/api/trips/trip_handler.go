package trips

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/awesomesos/trip-safety-api/internal/api"
	"github.com/awesomesos/trip-safety-api/internal/api/fetcher"
	"github.com/awesomesos/trip-safety-api/internal/api/summarizer"
	"github.com/awesomesos/trip-safety-api/internal/api/validation"
	"github.com/awesomesos/trip-safety-api/internal/types"
)

type Handler struct {
	logger     *slog.Logger
	service    Service
	fetcher    *fetcher.Service
	summarizer *summarizer.Service
}

func NewHandler(service Service, fetcherSvc *fetcher.Service, summarizerSvc *summarizer.Service, logger *slog.Logger) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		fetcher:    fetcherSvc,
		summarizer: summarizerSvc,
	}
}

// CreateTrip handles POST /api/v1/trips.
func (h *Handler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "CreateTrip"))

	var req types.CreateTripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.TripDescription) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "tripDescription is required")
		return
	}

	trip, err := h.service.CreateTrip(r.Context(), &req)
	if err != nil {
		l.ErrorContext(r.Context(), "Failed to create trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to create trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, types.CreateTripResponse{
		ShareID: trip.ShareID,
		Trip:    trip,
	})
}

// GetTrip handles GET /api/v1/trips/{shareId}.
func (h *Handler) GetTrip(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareId")

	trip, err := h.service.GetTripByShareID(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "trip not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to fetch trip",
			slog.String("share_id", shareID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to fetch trip")
		return
	}

	// The response log is debug-only and never part of the share view.
	trip.AIResponseLog = nil
	api.WriteJSONResponse(w, r, http.StatusOK, trip)
}

// GetTripDebug handles GET /api/v1/trips/{shareId}/debug. Returns the
// stored generation log alongside the record for troubleshooting.
func (h *Handler) GetTripDebug(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareId")

	trip, err := h.service.GetTripByShareID(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "trip not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "Failed to fetch trip for debug",
			slog.String("share_id", shareID), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to fetch trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]interface{}{
		"trip":          trip,
		"aiResponseLog": trip.AIResponseLog,
	})
}

// ListTrips handles GET /api/v1/trips.
func (h *Handler) ListTrips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	resp, err := h.service.ListTrips(r.Context(), limit, offset, q.Get("sortBy"), q.Get("sortOrder"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list trips", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to list trips")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// RegenerateTrip handles POST /api/v1/trips/{shareId}/regenerate.
func (h *Handler) RegenerateTrip(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareId")
	l := h.logger.With(slog.String("handler", "RegenerateTrip"), slog.String("share_id", shareID))

	trip, err := h.service.RegenerateTrip(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "trip not found")
			return
		}
		l.ErrorContext(r.Context(), "Failed to regenerate trip", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "failed to regenerate trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.RegenerateTripResponse{
		Success: true,
		Trip:    trip,
		Message: "Trip analysis regenerated",
	})
}

// FetchURL handles POST /api/v1/fetch-url: fetch a page, extract its text
// and summarize it into trip content ready for CreateTrip.
func (h *Handler) FetchURL(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "FetchURL"))

	var req types.FetchURLRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "url is required")
		return
	}
	if !validation.LooksLikeBareURL(rawURL) {
		api.ErrorResponse(w, r, http.StatusBadRequest, "url must start with http:// or https://")
		return
	}

	page, fetchErr := h.fetcher.Fetch(r.Context(), rawURL)
	if fetchErr != nil {
		l.WarnContext(r.Context(), "Failed to fetch URL",
			slog.String("url", rawURL), slog.Any("error", fetchErr))
		api.ErrorResponse(w, r, fetchErr.Status, fetchErr.Message)
		return
	}

	result := h.summarizer.Summarize(r.Context(), page.Text, page.Title, rawURL)

	// Last check before the response leaves: a URL must never be served as
	// the trip content, whatever path produced it.
	content := result.Summary
	if validation.LooksLikeBareURL(content) {
		l.WarnContext(r.Context(), "Summary is still a URL at the response boundary, substituting",
			slog.String("summary", content))
		content = summarizer.FallbackSummary(page.Title)
	}

	var summaryErr string
	if result.Err != nil {
		summaryErr = result.Err.Error()
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.FetchURLResponse{
		Content:          content,
		OptimizedContent: result.OptimizedContent,
		Title:            page.Title,
		URL:              rawURL,
		Error:            summaryErr,
	})
}
