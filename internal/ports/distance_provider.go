package ports

import (
	"ambulance-dispatch-service/internal/domain"
	"context"
)

// Travel distance and duration between two locations.
type DistanceResult struct {
	DistanceMeters  int
	DurationSeconds int
	DurationText    string
}

// Contract for retrieving driving distance and duration between locations.
type DistanceProvider interface {
	// Return travel distance and estimated duration, departing now.
	GetDistance(ctx context.Context, origin, destination domain.Location) (DistanceResult, error)
}

// DistanceCache stores recent distance results keyed by origin/destination.
type DistanceCache interface {
	Get(ctx context.Context, origin, destination domain.Location) (DistanceResult, bool, error)
	Put(ctx context.Context, origin, destination domain.Location, r DistanceResult) error
}
