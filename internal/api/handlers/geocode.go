package handlers

import (
	"ambulance-dispatch-service/internal/api/dto"
	"ambulance-dispatch-service/internal/ports"
	"net/http"
	"strings"
)

type GeocodeHandler struct {
	Geocoder ports.Geocoder
}

// Geocode resolves a free-text address to coordinates.
func (h *GeocodeHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	var req dto.GeocodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Address == nil || strings.TrimSpace(*req.Address) == "" {
		writeError(w, r, http.StatusBadRequest, "Address not provided")
		return
	}

	loc, err := h.Geocoder.Geocode(r.Context(), *req.Address)
	if err != nil {
		writeGeocodeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{Latitude: loc.Lat, Longitude: loc.Lng})
}
