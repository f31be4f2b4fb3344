package handlers

import (
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/ports"
	"ambulance-dispatch-service/internal/services"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDispatcher struct {
	got domain.Location
	a   domain.Assignment
	err error
}

func (s *stubDispatcher) Dispatch(ctx context.Context, requester domain.Location) (domain.Assignment, error) {
	s.got = requester
	return s.a, s.err
}

type stubRouteFetcher struct {
	key   string
	route domain.Route
	err   error
}

func (s *stubRouteFetcher) FetchRoute(ctx context.Context, key string, dest domain.Location) (domain.Route, error) {
	s.key = key
	return s.route, s.err
}

type stubGeocoder struct {
	loc domain.Location
	err error
}

func (s stubGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	return s.loc, s.err
}

func do(t *testing.T, h http.HandlerFunc, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestNearestAmbulance_OK(t *testing.T) {
	d := &stubDispatcher{a: domain.Assignment{
		Unit: domain.Unit{
			Key:      "amb-7",
			ID:       "AMB-7",
			Name:     "Asha",
			Contact:  "555-0100",
			Location: domain.Location{Lat: 10.02, Lng: 20},
		},
		DistanceMeters: 300,
		DurationText:   "1 min",
	}}
	h := &DispatchHandler{Dispatcher: d}

	code, out := do(t, h.NearestAmbulance, `{"location":{"latitude":10.0,"longitude":20.0}}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, domain.Location{Lat: 10, Lng: 20}, d.got)

	amb := out["nearest_ambulance"].(map[string]any)
	assert.Equal(t, "AMB-7", amb["id"])
	assert.Equal(t, "amb-7", amb["key"])
	assert.Equal(t, 10.02, amb["latitude"])
	assert.Equal(t, 20.0, amb["longitude"])
	assert.Equal(t, "555-0100", amb["contact"])
	assert.Equal(t, "Asha", amb["driver_name"])
	assert.Equal(t, 300.0, amb["distance_meters"])
	assert.Equal(t, "1 min", amb["duration"])
}

func TestNearestAmbulance_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{name: "missing location", body: `{}`, msg: "Location not provided"},
		{name: "null location", body: `{"location":null}`, msg: "Location not provided"},
		{name: "missing longitude", body: `{"location":{"latitude":1}}`, msg: "required"},
		{name: "out of range", body: `{"location":{"latitude":91,"longitude":0}}`, msg: "[-90, 90]"},
		{name: "string coordinate", body: `{"location":{"latitude":"1","longitude":0}}`, msg: "invalid json body"},
		{name: "not json", body: `location=1`, msg: "invalid json body"},
		{name: "unknown field", body: `{"location":{"latitude":1,"longitude":1},"x":1}`, msg: "invalid json body"},
		{name: "two objects", body: `{"location":{"latitude":1,"longitude":1}}{}`, msg: "only one JSON object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &stubDispatcher{}
			h := &DispatchHandler{Dispatcher: d}

			code, out := do(t, h.NearestAmbulance, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, out["error"], tt.msg)
		})
	}
}

func TestNearestAmbulance_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "unavailable", err: services.ErrCandidateUnavailable, code: http.StatusNotFound, msg: "No ambulances found"},
		{name: "conflict", err: fmt.Errorf("dispatch: %w", services.ErrReservationConflict), code: http.StatusConflict, msg: "retry"},
		{name: "validation", err: &services.ValidationError{Msg: "bad location"}, code: http.StatusBadRequest, msg: "bad location"},
		{name: "internal", err: errors.New("pq: password authentication failed"), code: http.StatusInternalServerError, msg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &DispatchHandler{Dispatcher: &stubDispatcher{err: tt.err}}

			code, out := do(t, h.NearestAmbulance, `{"location":{"latitude":0,"longitude":0}}`)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, out["error"], tt.msg)
			assert.NotContains(t, out["error"], "password")
		})
	}
}

func TestFetchRoute_OK(t *testing.T) {
	f := &stubRouteFetcher{route: domain.Route{
		Path:         []domain.Location{{Lat: 38.5, Lng: -120.2}, {Lat: 40.7, Lng: -120.95}},
		DistanceText: "250 km",
		DurationText: "3 hours",
	}}
	h := &RouteHandler{Fetcher: f}

	code, out := do(t, h.FetchRoute, `{"ambulance_id":"amb-1","user_lat":40.7,"user_lng":-120.95}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "amb-1", f.key)
	assert.Equal(t, "250 km", out["distance"])
	assert.Equal(t, "3 hours", out["duration"])

	path := out["path"].([]any)
	require.Len(t, path, 2)
	assert.Equal(t, []any{38.5, -120.2}, path[0])
}

func TestFetchRoute_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
		msg  string
	}{
		{name: "missing id", body: `{"user_lat":1,"user_lng":1}`, code: http.StatusBadRequest, msg: "ambulance_id"},
		{name: "missing coords", body: `{"ambulance_id":"a"}`, code: http.StatusBadRequest, msg: "user_lat"},
		{name: "not found", err: ports.ErrUnitNotFound, code: http.StatusNotFound, msg: "Ambulance not found"},
		{
			name: "service status",
			err:  &ports.ExternalServiceError{Service: "directions", Status: "ZERO_RESULTS"},
			code: http.StatusBadRequest,
			msg:  "Directions API error: ZERO_RESULTS",
		},
		{
			name: "transport",
			err:  &ports.ExternalServiceError{Service: "directions", HTTPStatus: 503},
			code: http.StatusBadGateway,
			msg:  "Failed to fetch directions",
		},
		{name: "internal", err: errors.New("decode polyline: truncated"), code: http.StatusInternalServerError, msg: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			if body == "" {
				body = `{"ambulance_id":"a","user_lat":1,"user_lng":1}`
			}
			h := &RouteHandler{Fetcher: &stubRouteFetcher{err: tt.err}}

			code, out := do(t, h.FetchRoute, body)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, out["error"], tt.msg)
		})
	}
}

func TestGeocode(t *testing.T) {
	tests := []struct {
		name string
		body string
		g    stubGeocoder
		code int
		want string
	}{
		{name: "ok", body: `{"address":"MG Road"}`, g: stubGeocoder{loc: domain.Location{Lat: 12.97, Lng: 77.6}}, code: http.StatusOK},
		{name: "missing", body: `{}`, code: http.StatusBadRequest, want: "Address not provided"},
		{name: "blank", body: `{"address":"  "}`, code: http.StatusBadRequest, want: "Address not provided"},
		{
			name: "zero results",
			body: `{"address":"nowhere"}`,
			g:    stubGeocoder{err: &ports.ExternalServiceError{Service: "geocoding", Status: "ZERO_RESULTS"}},
			code: http.StatusBadRequest,
			want: "Geocoding API error: ZERO_RESULTS",
		},
		{
			name: "upstream http",
			body: `{"address":"x"}`,
			g:    stubGeocoder{err: &ports.ExternalServiceError{Service: "geocoding", HTTPStatus: 403}},
			code: http.StatusInternalServerError,
			want: "Failed to fetch geocoding data. Status code: 403",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &GeocodeHandler{Geocoder: tt.g}

			code, out := do(t, h.Geocode, tt.body)
			assert.Equal(t, tt.code, code)
			if tt.code == http.StatusOK {
				assert.Equal(t, 12.97, out["latitude"])
				assert.Equal(t, 77.6, out["longitude"])
				return
			}
			assert.Equal(t, tt.want, out["error"])
		})
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	Health(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
