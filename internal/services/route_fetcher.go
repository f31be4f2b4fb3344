package services

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/obs"
	"ambulance-dispatch-service/internal/platform/polyline"
	"ambulance-dispatch-service/internal/ports"
	"context"
	"fmt"
	"strings"
)

// RouteFetcher builds the driving path from a unit's current position to a
// destination.
type RouteFetcher struct {
	repo       ports.UnitRepository
	directions ports.DirectionsProvider
}

func NewRouteFetcher(repo ports.UnitRepository, directions ports.DirectionsProvider) *RouteFetcher {
	return &RouteFetcher{repo: repo, directions: directions}
}

// FetchRoute re-reads the unit (it may have moved since dispatch), asks the
// directions service for a route and decodes its overview polyline.
//
// unitRef is the id returned by a dispatch: the unit's ambulance id, or its
// datastore key when the record has none.
func (f *RouteFetcher) FetchRoute(ctx context.Context, unitRef string, destination domain.Location) (route domain.Route, err error) {
	defer obs.Time(ctx, "fetch_route")(&err)

	unitRef = strings.TrimSpace(unitRef)
	if unitRef == "" {
		return domain.Route{}, invalid("ambulance_id is required")
	}
	if !destination.Valid() {
		return domain.Route{}, invalid("user_lat and user_lng must be finite and in range")
	}

	rec, err := f.repo.FindUnit(ctx, unitRef)
	if err != nil {
		return domain.Route{}, fmt.Errorf("fetch route: find unit %q: %w", unitRef, err)
	}

	unit, ok := NormalizeUnit(rec)
	if !ok {
		return domain.Route{}, invalid("ambulance location not available")
	}

	dir, err := f.directions.GetDirections(ctx, unit.Location, destination)
	if err != nil {
		return domain.Route{}, fmt.Errorf("fetch route: %w", err)
	}

	points, err := polyline.Decode(dir.EncodedPolyline)
	if err != nil {
		return domain.Route{}, fmt.Errorf("fetch route: decode polyline: %w", err)
	}

	path := make([]domain.Location, len(points))
	for i, p := range points {
		path[i] = domain.Location{Lat: p.Lat, Lng: p.Lng}
	}

	return domain.Route{
		UnitID:       unit.ID,
		Path:         path,
		DistanceText: dir.DistanceText,
		DurationText: dir.DurationText,
	}, nil
}
