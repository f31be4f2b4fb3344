package ports

import (
	"ambulance-dispatch-service/internal/domain"
	"context"
)

// First leg of the first route returned by a directions service.
type DirectionsResult struct {
	EncodedPolyline string
	DistanceText    string
	DurationText    string
}

// Contract for retrieving a driving route between two locations.
type DirectionsProvider interface {
	GetDirections(ctx context.Context, origin, destination domain.Location) (DirectionsResult, error)
}
