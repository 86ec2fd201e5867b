package geocoding

import (
	"context"
	"log/slog"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/awesomesos/trip-safety-api/app/observability/metrics"
	"github.com/awesomesos/trip-safety-api/internal/types"
)

// typeKeywords disambiguate generic place names for the providers. The
// keyword is only appended when the query does not already contain it.
var typeKeywords = map[string]string{
	types.LocationTypeTrailhead:     "trailhead parking",
	types.LocationTypeSummit:        "summit",
	types.LocationTypeHotSpring:     "hot springs",
	types.LocationTypeCampground:    "campground",
	types.LocationTypeHotel:         "hotel",
	types.LocationTypeParking:       "parking",
	types.LocationTypeVisitorCenter: "visitor center",
}

type Resolver struct {
	logger    *slog.Logger
	providers []Provider
	cache     *cache.Cache
}

// NewResolver builds the provider chain in fixed priority order and seeds the
// cache with the well-known landmark table. Cached entries never expire;
// the cardinality of geocode queries per process is low.
func NewResolver(logger *slog.Logger, providers ...Provider) *Resolver {
	if len(providers) == 0 {
		providers = []Provider{
			NewMapboxProvider(),
			NewGoogleMapsProvider(),
			NewNominatimProvider(""),
		}
	}

	c := cache.New(cache.NoExpiration, 0)
	for name, result := range wellKnownLocations {
		r := result
		c.Set(name, &r, cache.NoExpiration)
	}

	return &Resolver{
		logger:    logger,
		providers: providers,
		cache:     c,
	}
}

// ResolveAll fills in coordinates (and city/state/country where newly
// discovered) for every location missing them. Locations that already carry
// coordinates pass through untouched. All resolutions run concurrently;
// provider exhaustion is a per-location soft failure, never an error.
func (r *Resolver) ResolveAll(ctx context.Context, locations []types.Location) []types.Location {
	ctx, span := otel.Tracer("GeocodingResolver").Start(ctx, "ResolveAll", trace.WithAttributes(
		attribute.Int("locations.count", len(locations)),
	))
	defer span.End()

	resolved := make([]types.Location, len(locations))
	copy(resolved, locations)

	g, gctx := errgroup.WithContext(ctx)
	for i := range resolved {
		if resolved[i].Coordinates != nil {
			continue
		}
		i := i
		g.Go(func() error {
			r.resolveOne(gctx, &resolved[i])
			return nil
		})
	}
	_ = g.Wait()

	return resolved
}

func (r *Resolver) resolveOne(ctx context.Context, loc *types.Location) {
	query := r.enhanceQuery(loc)
	cacheKey := strings.ToLower(strings.TrimSpace(query))

	if cached, found := r.cache.Get(cacheKey); found {
		if m := metrics.Get(); m != nil {
			m.GeocodeCacheHitsTotal.Add(ctx, 1)
		}
		applyResult(loc, cached.(*Result))
		return
	}

	for _, provider := range r.providers {
		if !provider.Available() {
			continue
		}
		if m := metrics.Get(); m != nil {
			m.GeocodeProviderCallsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider.Name())))
		}
		result, err := provider.Geocode(ctx, query)
		if err != nil {
			r.logger.DebugContext(ctx, "Geocoding provider failed, trying next",
				slog.String("provider", provider.Name()),
				slog.String("query", query),
				slog.Any("error", err),
			)
			continue
		}

		r.cache.Set(cacheKey, result, cache.NoExpiration)
		applyResult(loc, result)
		return
	}

	// Every provider exhausted: the location stays without coordinates.
	r.logger.DebugContext(ctx, "No geocoding provider resolved query", slog.String("query", query))
}

// enhanceQuery builds the provider query: a full address wins outright;
// otherwise the name is augmented with known city/state and a type keyword.
func (r *Resolver) enhanceQuery(loc *types.Location) string {
	if loc.Address != "" {
		return loc.Address
	}

	query := loc.Name
	lower := strings.ToLower(query)

	if loc.City != "" && !strings.Contains(lower, strings.ToLower(loc.City)) {
		query += ", " + loc.City
		lower = strings.ToLower(query)
	}
	if loc.State != "" && !strings.Contains(lower, strings.ToLower(loc.State)) {
		query += ", " + loc.State
		lower = strings.ToLower(query)
	}

	if keyword, ok := typeKeywords[loc.Type]; ok && !strings.Contains(lower, keyword) {
		query += " " + keyword
	}

	return query
}

func applyResult(loc *types.Location, result *Result) {
	loc.Coordinates = &types.Coordinates{Lat: result.Lat, Lng: result.Lng}
	if loc.City == "" && result.City != "" {
		loc.City = result.City
	}
	if loc.State == "" && result.State != "" {
		loc.State = result.State
	}
	if loc.Country == "" && result.Country != "" {
		loc.Country = result.Country
	}
}
