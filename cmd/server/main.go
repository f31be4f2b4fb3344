package main

import (
	"ambulance-dispatch-service/internal/adapters/cache"
	"ambulance-dispatch-service/internal/adapters/googlemaps"
	"ambulance-dispatch-service/internal/adapters/repositories"
	"ambulance-dispatch-service/internal/api"
	"ambulance-dispatch-service/internal/config"
	"ambulance-dispatch-service/internal/domain"
	"ambulance-dispatch-service/internal/platform/db"
	"ambulance-dispatch-service/internal/platform/logger"
	"ambulance-dispatch-service/internal/platform/metrics"
	"ambulance-dispatch-service/internal/ports"
	"ambulance-dispatch-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// main is the application composition root.
// It wires concrete adapters (Postgres/Firestore, Google Maps, Redis) behind
// ports and starts the HTTP server.
func main() {
	configPath := flag.String("config", config.Get("CONFIG_PATH", ""), "path to a YAML config file")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("server", cfg.Log.Level)
	if envErr != nil {
		log.Debug().Msg("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	var sqlDB *sql.DB
	if cfg.Datastore.DatabaseURL != "" {
		var err error
		sqlDB, err = db.Open(ctx, cfg.Datastore.DatabaseURL)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
	}

	repo, closeRepo, err := openUnitRepository(ctx, cfg, sqlDB, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	var rec metrics.Recorder = metrics.NopRecorder{}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		prom, err := metrics.NewPromRecorder(nil)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		rec = prom
		metricsHandler = metrics.Handler()
	}

	maps, err := googlemaps.NewClient(cfg.Maps.APIKey,
		googlemaps.WithBaseURL(cfg.Maps.BaseURL),
		googlemaps.WithTimeout(cfg.Maps.Timeout),
		googlemaps.WithRateLimit(cfg.Maps.RateLimit, cfg.Maps.RateBurst),
	)
	if err != nil {
		return err
	}

	var distances ports.DistanceProvider = maps
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable; distance cache will fall through")
		}
		distances = cache.NewCachedDistanceProvider(maps, cache.NewRedisDistanceCache(rdb, cfg.Redis.DistanceTTL), rec, log)
	}

	var geocodeCache ports.GeocodeCache
	if sqlDB != nil {
		geocodeCache = cache.NewSQLGeocodeCache(sqlDB)
	}

	dispatcher := services.NewDispatcher(repo, distances, services.DispatchConfig{
		Concurrency:            cfg.Dispatch.Concurrency,
		QueryTimeout:           cfg.Dispatch.QueryTimeout,
		RequestTimeout:         cfg.Dispatch.RequestTimeout,
		MaxReservationAttempts: cfg.Dispatch.MaxReservationAttempts,
		OnlyAvailable:          cfg.Dispatch.OnlyAvailable,
	}, rec, log)

	router := api.NewRouter(api.RouterDeps{
		Dispatcher:     dispatcher,
		RouteFetcher:   services.NewRouteFetcher(repo, maps),
		Geocoder:       services.NewGeocodeService(maps, geocodeCache, log),
		Logger:         log,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        metricsHandler,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("datastore", cfg.Datastore.Backend).
			Bool("distance_cache", cfg.Redis.Addr != "").
			Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openUnitRepository selects the unit datastore named by the config.
func openUnitRepository(
	ctx context.Context,
	cfg *config.Config,
	sqlDB *sql.DB,
	log zerolog.Logger,
) (ports.UnitRepository, func(), error) {
	switch cfg.Datastore.Backend {
	case config.DatastorePostgres:
		return repositories.NewPostgresUnitRepository(sqlDB), func() {}, nil

	case config.DatastoreFirestore:
		client, err := repositories.NewFirestoreClient(ctx, cfg.Datastore.FirebaseKeyBase64)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Warn().Err(err).Msg("close firestore client")
			}
		}
		return repositories.NewFirestoreUnitRepository(client, cfg.Datastore.Collection), closeFn, nil

	case config.DatastoreMemory:
		var records []domain.UnitRecord
		if cfg.Datastore.SeedPath != "" {
			recs, err := repositories.LoadSeed(cfg.Datastore.SeedPath)
			if err != nil {
				return nil, nil, err
			}
			records = recs
		}
		log.Warn().Int("units", len(records)).Msg("using in-memory unit datastore; status changes are not persisted")
		return repositories.NewMemoryUnitRepository(records), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown datastore %q", cfg.Datastore.Backend)
	}
}
