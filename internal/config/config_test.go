package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "test-key")
	t.Setenv("DATASTORE", "Memory")
	t.Setenv("PORT", ":8080")
	t.Setenv("DISPATCH_CONCURRENCY", "3")
	t.Setenv("DISPATCH_QUERY_TIMEOUT", "2s")
	t.Setenv("DISPATCH_ONLY_AVAILABLE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Maps.APIKey)
	assert.Equal(t, DatastoreMemory, cfg.Datastore.Backend)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Dispatch.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.Dispatch.QueryTimeout)
	assert.False(t, cfg.Dispatch.OnlyAvailable)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)

	// untouched defaults survive
	assert.Equal(t, 30*time.Second, cfg.Dispatch.RequestTimeout)
	assert.Equal(t, 3, cfg.Dispatch.MaxReservationAttempts)
	assert.Equal(t, "ambulances", cfg.Datastore.Collection)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`
maps:
  api_key: file-key
datastore:
  backend: memory
dispatch:
  concurrency: 4
  max_reservation_attempts: 5
redis:
  addr: localhost:6379
  distance_ttl: 1m
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.Maps.APIKey)
	assert.Equal(t, 4, cfg.Dispatch.Concurrency)
	assert.Equal(t, 5, cfg.Dispatch.MaxReservationAttempts)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, time.Minute, cfg.Redis.DistanceTTL)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("maps:\n  api_key: file-key\ndatastore:\n  backend: memory\n"), 0o600))
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Maps.APIKey)
}

func TestLoad_RejectsUnknownExtension(t *testing.T) {
	_, err := Load("config.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid memory",
			mutate: func(c *Config) { c.Datastore.Backend = DatastoreMemory },
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.Maps.APIKey = ""; c.Datastore.Backend = DatastoreMemory },
			wantErr: "GOOGLE_MAPS_API_KEY",
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) {},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "firestore without key",
			mutate:  func(c *Config) { c.Datastore.Backend = DatastoreFirestore },
			wantErr: "FIREBASE_KEY_BASE64",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Datastore.Backend = "mongo" },
			wantErr: "unknown datastore",
		},
		{
			name: "zero concurrency",
			mutate: func(c *Config) {
				c.Datastore.Backend = DatastoreMemory
				c.Dispatch.Concurrency = 0
			},
			wantErr: "concurrency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Maps.APIKey = "k"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("AMBULANCE_TEST_VALUE", "set")
	assert.Equal(t, "set", Get("AMBULANCE_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", Get("AMBULANCE_TEST_UNSET_VALUE", "fallback"))
}
