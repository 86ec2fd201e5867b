package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/awesomesos/trip-safety-api/internal/api/trips"
)

// Config contains dependencies needed for the router setup
type Config struct {
	TripHandler *trips.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "https://awesomesos.com"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/fetch-url", cfg.TripHandler.FetchURL)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.CreateTrip)
			r.Get("/", cfg.TripHandler.ListTrips)
			r.Get("/{shareId}", cfg.TripHandler.GetTrip)
			r.Get("/{shareId}/debug", cfg.TripHandler.GetTripDebug)
			r.Post("/{shareId}/regenerate", cfg.TripHandler.RegenerateTrip)
		})
	})

	return r
}
