package ports

import (
	"context"
	"vrptw-route-service/internal/domain"
)

// Contract for resolving free-form addresses into coordinates.
type Geocoder interface {
	// Return a coordinate for every non-blank address, keyed by the address
	// exactly as passed in. Normalization is the implementation's concern.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.Point, error)
}

// Persistent address -> coordinate cache used in front of a Geocoder.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Point, error)
	PutMany(ctx context.Context, results map[string]domain.Point) error
}
