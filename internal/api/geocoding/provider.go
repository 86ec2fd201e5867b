package geocoding

import "context"

// Result is one resolved coordinate with whatever context the provider
// returned alongside it.
type Result struct {
	Lat         float64
	Lng         float64
	DisplayName string
	Confidence  float64
	City        string
	State       string
	Country     string
}

// Provider is one tier of the geocoding chain. Each provider checks its own
// credential precondition via Available and self-disables rather than the
// resolver branching on configuration.
type Provider interface {
	Name() string
	Available() bool
	Geocode(ctx context.Context, query string) (*Result, error)
}
