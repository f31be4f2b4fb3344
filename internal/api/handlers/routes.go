package handlers

import (
	"ambulance-dispatch-service/internal/api/dto"
	"ambulance-dispatch-service/internal/domain"
	"context"
	"net/http"
	"strings"
)

type RouteFetcher interface {
	FetchRoute(ctx context.Context, unitRef string, destination domain.Location) (domain.Route, error)
}

type RouteHandler struct {
	Fetcher RouteFetcher
}

// FetchRoute returns the driving path from an ambulance's current position
// to the user.
func (h *RouteHandler) FetchRoute(w http.ResponseWriter, r *http.Request) {
	var req dto.RouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.AmbulanceID == nil || strings.TrimSpace(*req.AmbulanceID) == "" {
		writeError(w, r, http.StatusBadRequest, "ambulance_id is required")
		return
	}
	if req.UserLat == nil || req.UserLng == nil {
		writeError(w, r, http.StatusBadRequest, "user_lat and user_lng are required")
		return
	}

	dest := domain.Location{Lat: *req.UserLat, Lng: *req.UserLng}
	if !dest.Valid() {
		writeError(w, r, http.StatusBadRequest, "user_lat must be in [-90, 90] and user_lng in [-180, 180]")
		return
	}

	route, err := h.Fetcher.FetchRoute(r.Context(), *req.AmbulanceID, dest)
	if err != nil {
		writeRouteError(w, r, err)
		return
	}

	path := make([][2]float64, len(route.Path))
	for i, p := range route.Path {
		path[i] = p.Pair()
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		Path:     path,
		Distance: route.DistanceText,
		Duration: route.DurationText,
	})
}
