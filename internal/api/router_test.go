package api

import (
	"ambulance-dispatch-service/internal/adapters/googlemaps"
	"ambulance-dispatch-service/internal/adapters/repositories"
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/ports"
	"ambulance-dispatch-service/internal/services"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGeocoder struct{}

func (fixedGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	return domain.Location{Lat: 1, Lng: 2}, nil
}

func newTestServer(t *testing.T, records []domain.UnitRecord, pairs []googlemaps.MockPair) (*httptest.Server, *repositories.MemoryUnitRepository) {
	t.Helper()

	repo := repositories.NewMemoryUnitRepository(records)
	dispatcher := services.NewDispatcher(repo, googlemaps.NewMockDistanceProvider(pairs), services.DispatchConfig{
		Concurrency:            4,
		QueryTimeout:           time.Second,
		RequestTimeout:         5 * time.Second,
		MaxReservationAttempts: 3,
		OnlyAvailable:          true,
	}, nil, zerolog.Nop())
	fetcher := services.NewRouteFetcher(repo, &googlemaps.MockDirectionsProvider{Result: ports.DirectionsResult{
		EncodedPolyline: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
		DistanceText:    "1 km",
		DurationText:    "3 mins",
	}})

	srv := httptest.NewServer(NewRouter(RouterDeps{
		Dispatcher:   dispatcher,
		RouteFetcher: fetcher,
		Geocoder:     fixedGeocoder{},
		Logger:       zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv, repo
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_NearestAmbulanceScenario(t *testing.T) {
	requester := domain.Location{Lat: 10.0, Lng: 20.0}
	a := domain.Location{Lat: 10.01, Lng: 20}
	b := domain.Location{Lat: 10.02, Lng: 20}
	c := domain.Location{Lat: 10.03, Lng: 20}

	records := []domain.UnitRecord{
		{Key: "a", UnitID: "A", Status: "available", Location: &a},
		{Key: "b", UnitID: "B", Status: "available", Location: &b},
		{Key: "c", UnitID: "C", Status: "available", Location: &c},
	}
	pairs := []googlemaps.MockPair{
		{From: requester, To: a, Meters: 500, Seconds: 100},
		{From: requester, To: b, Meters: 300, Seconds: 60},
		{From: requester, To: c, Meters: 900, Seconds: 200},
	}
	srv, repo := newTestServer(t, records, pairs)

	resp := post(t, srv.URL+"/get-nearest-ambulance", `{"location":{"latitude":10.0,"longitude":20.0}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	rec, err := repo.GetUnit(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "busy", rec.Status)
}

type assignedUnit struct {
	NearestAmbulance struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	} `json:"nearest_ambulance"`
}

func dispatchOne(t *testing.T, baseURL string) assignedUnit {
	t.Helper()
	resp := post(t, baseURL+"/get-nearest-ambulance", `{"location":{"latitude":10.0,"longitude":20.0}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out assignedUnit
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRouter_DispatchThenFetchRoute(t *testing.T) {
	requester := domain.Location{Lat: 10.0, Lng: 20.0}
	near := domain.Location{Lat: 10.01, Lng: 20}
	far := domain.Location{Lat: 10.05, Lng: 20}

	records := []domain.UnitRecord{
		{Key: "amb-001", UnitID: "AMB-001", Status: "available", Location: &near},
		{Key: "amb-002", Status: "available", Location: &far},
	}
	pairs := []googlemaps.MockPair{
		{From: requester, To: near, Meters: 300, Seconds: 60},
		{From: requester, To: far, Meters: 900, Seconds: 200},
	}
	srv, _ := newTestServer(t, records, pairs)
	routeBody := func(id string) string {
		return `{"ambulance_id":"` + id + `","user_lat":10.0,"user_lng":20.0}`
	}

	first := dispatchOne(t, srv.URL)
	assert.Equal(t, "AMB-001", first.NearestAmbulance.ID)
	assert.Equal(t, "amb-001", first.NearestAmbulance.Key)

	resp := post(t, srv.URL+"/fetch-route", routeBody(first.NearestAmbulance.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode, "route by returned id")
	resp = post(t, srv.URL+"/fetch-route", routeBody(first.NearestAmbulance.Key))
	assert.Equal(t, http.StatusOK, resp.StatusCode, "route by returned key")

	// No ambulance_id: the display id is the sentinel, the key still routes.
	second := dispatchOne(t, srv.URL)
	assert.Equal(t, domain.UnavailableID, second.NearestAmbulance.ID)
	assert.Equal(t, "amb-002", second.NearestAmbulance.Key)

	resp = post(t, srv.URL+"/fetch-route", routeBody(second.NearestAmbulance.Key))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_NoCandidatesIs404(t *testing.T) {
	srv, _ := newTestServer(t, []domain.UnitRecord{{Key: "a", Status: "available"}}, nil)

	resp := post(t, srv.URL+"/get-nearest-ambulance", `{"location":{"latitude":0,"longitude":0}}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_FetchRouteAndGeocode(t *testing.T) {
	l := domain.Location{Lat: 38.5, Lng: -120.2}
	srv, _ := newTestServer(t, []domain.UnitRecord{{Key: "amb-1", Status: "busy", Location: &l}}, nil)

	resp := post(t, srv.URL+"/fetch-route", `{"ambulance_id":"amb-1","user_lat":43.252,"user_lng":-126.453}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = post(t, srv.URL+"/geocode-address", `{"address":"somewhere"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_HealthAndMethods(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/get-nearest-ambulance")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "metrics disabled without a handler")
}

func TestRouter_PropagatesRequestID(t *testing.T) {
	srv, _ := newTestServer(t, nil, nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestRecoverMiddleware(t *testing.T) {
	h := recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
