package handlers

import (
	"ambulance-dispatch-service/internal/ports"
	"ambulance-dispatch-service/internal/services"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
)

const internalErrorMessage = "internal server error"

// writeInternal logs err with full detail and sends a generic 500.
func writeInternal(w http.ResponseWriter, r *http.Request, op string, err error) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("op", op).Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, internalErrorMessage)
}

// writeValidation reports err's caller-facing message, if it has one.
func writeValidation(w http.ResponseWriter, r *http.Request, err error) bool {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		writeError(w, r, http.StatusBadRequest, ve.Msg)
		return true
	}
	if errors.Is(err, services.ErrValidation) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return true
	}
	return false
}

func writeDispatchError(w http.ResponseWriter, r *http.Request, err error) {
	if writeValidation(w, r, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrCandidateUnavailable):
		writeError(w, r, http.StatusNotFound, "No ambulances found or no valid distance data")
	case errors.Is(err, services.ErrReservationConflict):
		w.Header().Set("Retry-After", "1")
		writeError(w, r, http.StatusConflict, "Nearest ambulances were claimed by concurrent requests, please retry")
	default:
		writeInternal(w, r, "get_nearest_ambulance", err)
	}
}

func writeRouteError(w http.ResponseWriter, r *http.Request, err error) {
	if writeValidation(w, r, err) {
		return
	}

	var ext *ports.ExternalServiceError
	switch {
	case errors.Is(err, services.ErrUnitNotFound):
		writeError(w, r, http.StatusNotFound, "Ambulance not found")
	case errors.As(err, &ext) && !ext.Transport():
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Directions API error: %s", ext.Status))
	case errors.As(err, &ext):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("directions request failed")
		writeError(w, r, http.StatusBadGateway, "Failed to fetch directions")
	default:
		writeInternal(w, r, "fetch_route", err)
	}
}

func writeGeocodeError(w http.ResponseWriter, r *http.Request, err error) {
	if writeValidation(w, r, err) {
		return
	}

	var ext *ports.ExternalServiceError
	switch {
	case errors.As(err, &ext) && !ext.Transport():
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("Geocoding API error: %s", ext.Status))
	case errors.As(err, &ext) && ext.HTTPStatus != 0:
		writeError(w, r, http.StatusInternalServerError,
			fmt.Sprintf("Failed to fetch geocoding data. Status code: %d", ext.HTTPStatus))
	case errors.As(err, &ext):
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("geocoding request failed")
		writeError(w, r, http.StatusInternalServerError, "Failed to fetch geocoding data")
	default:
		writeInternal(w, r, "geocode_address", err)
	}
}
