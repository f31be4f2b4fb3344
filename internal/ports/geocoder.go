package ports

import (
	"ambulance-dispatch-service/internal/domain"
	"context"
)

// Contract for resolving a free-text address to its best-match coordinate.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (domain.Location, error)
}

// GeocodeCache maps normalized addresses to coordinates.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Location, error)
	PutMany(ctx context.Context, results map[string]domain.Location) error
}
