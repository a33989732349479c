package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Location is one facility location we track weather for. Loaded once at
// startup and never mutated afterwards.
type Location struct {
	Name    string   `json:"name" validate:"required"`
	Lat     float64  `json:"lat" validate:"gte=-90,lte=90"`
	Lon     float64  `json:"lon" validate:"gte=-180,lte=180"`
	SiteIDs []string `json:"siteIds"`
}

// Registry is the immutable set of locations the aggregator fans out over.
type Registry struct {
	locations []Location
}

// New wraps an already-validated location list.
func New(locs []Location) *Registry {
	return &Registry{locations: locs}
}

// Load reads the registry from a JSON file. An empty path falls back to the
// built-in default set so the service can boot without provisioning a file.
func Load(path string) (*Registry, error) {
	if path == "" {
		return New(defaultLocations()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read location registry: %w", err)
	}

	var locs []Location
	if err := json.Unmarshal(data, &locs); err != nil {
		return nil, fmt.Errorf("parse location registry: %w", err)
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("location registry %s is empty", path)
	}

	for i, loc := range locs {
		if err := validate.Struct(loc); err != nil {
			return nil, fmt.Errorf("invalid registry entry %d (%q): %w", i, loc.Name, err)
		}
	}

	return New(locs), nil
}

// Locations returns the registry contents. Callers must not modify the
// returned slice.
func (r *Registry) Locations() []Location {
	return r.locations
}

// Len returns the number of registered locations.
func (r *Registry) Len() int {
	return len(r.locations)
}

func defaultLocations() []Location {
	return []Location{
		{Name: "Leeds", Lat: 53.8008, Lon: -1.5491, SiteIDs: []string{"LDS-01", "LDS-02"}},
		{Name: "Manchester", Lat: 53.4808, Lon: -2.2426, SiteIDs: []string{"MAN-01"}},
		{Name: "Birmingham", Lat: 52.4862, Lon: -1.8904, SiteIDs: []string{"BHM-01", "BHM-02", "BHM-03"}},
		{Name: "Glasgow", Lat: 55.8642, Lon: -4.2518, SiteIDs: []string{"GLA-01"}},
	}
}
