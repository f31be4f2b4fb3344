package handlers

import (
	"ambulance-dispatch-service/internal/api/dto"
	"ambulance-dispatch-service/internal/domain"
	"context"
	"net/http"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, requester domain.Location) (domain.Assignment, error)
}

type DispatchHandler struct {
	Dispatcher Dispatcher
}

// NearestAmbulance assigns the closest available ambulance by driving
// distance and marks it busy.
func (h *DispatchHandler) NearestAmbulance(w http.ResponseWriter, r *http.Request) {
	var req dto.NearestAmbulanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Location == nil {
		writeError(w, r, http.StatusBadRequest, "Location not provided")
		return
	}
	if req.Location.Latitude == nil || req.Location.Longitude == nil {
		writeError(w, r, http.StatusBadRequest, "location.latitude and location.longitude are required")
		return
	}

	requester := domain.Location{Lat: *req.Location.Latitude, Lng: *req.Location.Longitude}
	if !requester.Valid() {
		writeError(w, r, http.StatusBadRequest, "location.latitude must be in [-90, 90] and location.longitude in [-180, 180]")
		return
	}

	a, err := h.Dispatcher.Dispatch(r.Context(), requester)
	if err != nil {
		writeDispatchError(w, r, err)
		return
	}

	res := dto.NearestAmbulanceResponse{
		NearestAmbulance: dto.AmbulanceResponse{
			ID:             a.Unit.ID,
			Key:            a.Unit.Key,
			Latitude:       a.Unit.Location.Lat,
			Longitude:      a.Unit.Location.Lng,
			Contact:        a.Unit.Contact,
			DriverName:     a.Unit.Name,
			DistanceMeters: a.DistanceMeters,
			Duration:       a.DurationText,
		},
	}
	writeJSON(w, r, http.StatusOK, res)
}
