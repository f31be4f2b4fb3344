package api

import (
	"ambulance-dispatch-service/internal/api/handlers"
	"ambulance-dispatch-service/internal/ports"
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

type RouterDeps struct {
	Dispatcher     handlers.Dispatcher
	RouteFetcher   handlers.RouteFetcher
	Geocoder       ports.Geocoder
	Logger         zerolog.Logger
	AllowedOrigins []string
	// Metrics is served at /metrics when non-nil.
	Metrics http.Handler
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	standard := alice.New(
		requestIDMiddleware(deps.Logger),
		loggingMiddleware,
		recoverMiddleware,
	)

	dispatchHandler := &handlers.DispatchHandler{Dispatcher: deps.Dispatcher}
	routeHandler := &handlers.RouteHandler{Fetcher: deps.RouteFetcher}
	geocodeHandler := &handlers.GeocodeHandler{Geocoder: deps.Geocoder}

	mux := pat.New()

	mux.Get("/health", standard.ThenFunc(handlers.Health))
	mux.Post("/geocode-address", standard.ThenFunc(geocodeHandler.Geocode))
	mux.Post("/get-nearest-ambulance", standard.ThenFunc(dispatchHandler.NearestAmbulance))
	mux.Post("/fetch-route", standard.ThenFunc(routeHandler.FetchRoute))

	if deps.Metrics != nil {
		mux.Get("/metrics", deps.Metrics)
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})

	return c.Handler(mux)
}
