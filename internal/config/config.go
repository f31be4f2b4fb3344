// Package config loads service configuration from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Supported unit datastores.
const (
	DatastorePostgres  = "postgres"
	DatastoreFirestore = "firestore"
	DatastoreMemory    = "memory"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Maps      MapsConfig      `koanf:"maps"`
	Datastore DatastoreConfig `koanf:"datastore"`
	Redis     RedisConfig     `koanf:"redis"`
	Dispatch  DispatchConfig  `koanf:"dispatch"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	CORS      CORSConfig      `koanf:"cors"`
}

type ServerConfig struct {
	Port              string        `koanf:"port"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// MapsConfig configures the Google Maps web services client.
type MapsConfig struct {
	APIKey  string        `koanf:"api_key"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
	// RateLimit caps outgoing requests per second; zero disables the cap.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

type DatastoreConfig struct {
	// Backend is one of postgres, firestore or memory.
	Backend     string `koanf:"backend"`
	DatabaseURL string `koanf:"database_url"`
	// FirebaseKeyBase64 is a base64 encoded service account JSON key.
	FirebaseKeyBase64 string `koanf:"firebase_key_base64"`
	Collection        string `koanf:"collection"`
	SeedPath          string `koanf:"seed_path"`
}

// RedisConfig configures the distance cache. An empty Addr disables it.
type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	DistanceTTL time.Duration `koanf:"distance_ttl"`
}

type DispatchConfig struct {
	// Concurrency bounds in-flight routing queries per dispatch request.
	Concurrency            int           `koanf:"concurrency"`
	QueryTimeout           time.Duration `koanf:"query_timeout"`
	RequestTimeout         time.Duration `koanf:"request_timeout"`
	MaxReservationAttempts int           `koanf:"max_reservation_attempts"`
	OnlyAvailable          bool          `koanf:"only_available"`
}

type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// envKeys maps the environment variables the service understands to config paths.
var envKeys = map[string]string{
	"PORT":                              "server.port",
	"LOG_LEVEL":                         "log.level",
	"GOOGLE_MAPS_API_KEY":               "maps.api_key",
	"GOOGLE_MAPS_BASE_URL":              "maps.base_url",
	"GOOGLE_MAPS_TIMEOUT":               "maps.timeout",
	"GOOGLE_MAPS_RATE_LIMIT":            "maps.rate_limit",
	"GOOGLE_MAPS_RATE_BURST":            "maps.rate_burst",
	"DATASTORE":                         "datastore.backend",
	"DATABASE_URL":                      "datastore.database_url",
	"FIREBASE_KEY_BASE64":               "datastore.firebase_key_base64",
	"FIRESTORE_COLLECTION":              "datastore.collection",
	"SEED_PATH":                         "datastore.seed_path",
	"REDIS_ADDR":                        "redis.addr",
	"REDIS_PASSWORD":                    "redis.password",
	"REDIS_DB":                          "redis.db",
	"DISTANCE_CACHE_TTL":                "redis.distance_ttl",
	"DISPATCH_CONCURRENCY":              "dispatch.concurrency",
	"DISPATCH_QUERY_TIMEOUT":            "dispatch.query_timeout",
	"DISPATCH_REQUEST_TIMEOUT":          "dispatch.request_timeout",
	"DISPATCH_MAX_RESERVATION_ATTEMPTS": "dispatch.max_reservation_attempts",
	"DISPATCH_ONLY_AVAILABLE":           "dispatch.only_available",
	"METRICS_ENABLED":                   "metrics.enabled",
	"CORS_ALLOWED_ORIGINS":              "cors.allowed_origins",
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:              "5000",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   15 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Maps: MapsConfig{
			BaseURL:   "https://maps.googleapis.com",
			Timeout:   10 * time.Second,
			RateLimit: 50,
			RateBurst: 10,
		},
		Datastore: DatastoreConfig{
			Backend:    DatastorePostgres,
			Collection: "ambulances",
			SeedPath:   "data/seeds/units.json",
		},
		Redis: RedisConfig{DistanceTTL: 30 * time.Second},
		Dispatch: DispatchConfig{
			Concurrency:            8,
			QueryTimeout:           10 * time.Second,
			RequestTimeout:         30 * time.Second,
			MaxReservationAttempts: 3,
			OnlyAvailable:          true,
		},
		Metrics: MetricsConfig{Enabled: true},
		CORS:    CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// Load reads the YAML file at path (skipped when path is empty) and then
// applies environment overrides on top of Default().
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("load config env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.Datastore.Backend = strings.ToLower(strings.TrimSpace(c.Datastore.Backend))
	c.Server.Port = strings.TrimPrefix(strings.TrimSpace(c.Server.Port), ":")

	origins := make([]string, 0, len(c.CORS.AllowedOrigins))
	for _, o := range c.CORS.AllowedOrigins {
		for _, part := range strings.Split(o, ",") {
			if p := strings.TrimSpace(part); p != "" {
				origins = append(origins, p)
			}
		}
	}
	c.CORS.AllowedOrigins = origins
}

// Validate checks mandatory fields and value ranges.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Maps.APIKey) == "" {
		errs = append(errs, errors.New("GOOGLE_MAPS_API_KEY is required"))
	}
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}

	switch c.Datastore.Backend {
	case DatastorePostgres:
		if strings.TrimSpace(c.Datastore.DatabaseURL) == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres datastore"))
		}
	case DatastoreFirestore:
		if strings.TrimSpace(c.Datastore.FirebaseKeyBase64) == "" {
			errs = append(errs, errors.New("FIREBASE_KEY_BASE64 is required for the firestore datastore"))
		}
		if strings.TrimSpace(c.Datastore.Collection) == "" {
			errs = append(errs, errors.New("firestore collection is required"))
		}
	case DatastoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown datastore %q", c.Datastore.Backend))
	}

	if c.Dispatch.Concurrency < 1 {
		errs = append(errs, errors.New("dispatch concurrency must be positive"))
	}
	if c.Dispatch.MaxReservationAttempts < 1 {
		errs = append(errs, errors.New("dispatch max reservation attempts must be positive"))
	}
	if c.Dispatch.QueryTimeout <= 0 || c.Dispatch.RequestTimeout <= 0 {
		errs = append(errs, errors.New("dispatch timeouts must be positive"))
	}
	if c.Maps.RateLimit < 0 {
		errs = append(errs, errors.New("maps rate limit must not be negative"))
	}
	if c.Redis.DistanceTTL < 0 {
		errs = append(errs, errors.New("distance cache ttl must not be negative"))
	}

	return errors.Join(errs...)
}

// Get returns the environment variable key, or fallback when it is unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
